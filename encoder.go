package cmdcore

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/cmdcore/dynstate"
	"github.com/gogpu/cmdcore/gang"
	"github.com/gogpu/cmdcore/hazard"
	"github.com/gogpu/cmdcore/scratch"
	"github.com/gogpu/cmdcore/transition"
)

// QueueClass identifies the hardware queue family a recorder targets.
// The class decides which state groups exist and which operations are legal:
// a compute recorder has no rasterizer state and rejects draws.
type QueueClass int

const (
	// QueueClassGeneral supports graphics, compute, and transfer work.
	QueueClassGeneral QueueClass = iota
	// QueueClassCompute supports compute and transfer work.
	QueueClassCompute
	// QueueClassTransfer supports copies only.
	QueueClassTransfer
	// QueueClassSparse supports sparse binding operations only.
	QueueClassSparse
)

// String returns the queue class name.
func (c QueueClass) String() string {
	switch c {
	case QueueClassGeneral:
		return "general"
	case QueueClassCompute:
		return "compute"
	case QueueClassTransfer:
		return "transfer"
	case QueueClassSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// Encoder is the hardware packet encoder a Recorder records into. The
// recorder decides WHAT to emit and in what order; the encoder owns the
// packet and register encodings, which differ per hardware generation.
//
// An Encoder also serves as the gang follower stream: the wait/signal
// methods match gang.Stream so an encoder created for the compute class can
// be handed to the gang synchronizer directly.
type Encoder interface {
	// ReserveSpace guarantees room for n bytes of upcoming packets. It is
	// called once before each draw or dispatch so the emit calls that follow
	// cannot fail mid-command.
	ReserveSpace(n int) error

	// EmitStateGroup re-emits one dirty group of dynamic state. The encoder
	// reads the fields it needs from s and packs them into registers.
	EmitStateGroup(g dynstate.Group, s *dynstate.State)

	// EmitCacheFlush emits the cache maintenance encoded in bits.
	EmitCacheFlush(bits hazard.FlushBits)

	// EmitWait stalls the stream until the 32-bit value at va is >= value.
	EmitWait(va uint64, value uint32)

	// EmitSignal writes value to the 32-bit location at va after all prior
	// work on the stream completes.
	EmitSignal(va uint64, value uint32)

	// EmitMetadataOp emits one image metadata operation from a layout
	// transition plan.
	EmitMetadataOp(op transition.MetadataOp)

	// EmitPushConstants points the shader's push constant window at size
	// bytes of freshly uploaded scratch memory at va.
	EmitPushConstants(va uint64, size uint32)

	// EmitDraw emits a non-indexed draw.
	EmitDraw(vertexCount, instanceCount uint32)

	// EmitDrawIndexed emits an indexed draw reading indices at indexVA.
	EmitDrawIndexed(indexCount, instanceCount uint32, indexVA uint64)

	// EmitDrawMeshTasks emits a mesh shading draw on a general stream.
	EmitDrawMeshTasks(x, y, z uint32)

	// EmitDispatch emits a compute dispatch.
	EmitDispatch(x, y, z uint32)
}

// Encoders must satisfy the gang stream and cache flusher contracts.
var (
	_ = func(e Encoder) gang.Stream { return e }
	_ = func(e Encoder) hazard.CacheFlusher { return e }
)

// Device is the recorder's view of the owning GPU device. It extends the
// shared device contract with encoder creation and upload memory.
type Device interface {
	gpucontext.Device
	scratch.Memory

	// CreateEncoder creates a fresh encoder for the given queue class.
	// The recorder calls this once for its primary stream and, lazily, once
	// more for the gang follower stream.
	CreateEncoder(class QueueClass) (Encoder, error)
}
