package cmdcore

import (
	"fmt"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"

	"github.com/gogpu/cmdcore/dynstate"
	"github.com/gogpu/cmdcore/gang"
	"github.com/gogpu/cmdcore/hazard"
	"github.com/gogpu/cmdcore/scratch"
)

// Packet space reserved up front so the emit calls of a single command
// cannot fail halfway through.
const (
	drawReserveBytes     = 256
	dispatchReserveBytes = 128
)

type recorderStatus int

const (
	statusInitial recorderStatus = iota
	statusRecording
	statusEnded
)

// Recorder records GPU commands into an Encoder. It owns the dynamic state
// cache, the pending hazard accumulator, the per-recording scratch
// allocator, and the gang synchronizer for the companion compute stream.
//
// A Recorder is not safe for concurrent use; command buffers are recorded
// from one goroutine at a time.
type Recorder struct {
	class   QueueClass
	dev     Device
	primary Encoder

	state   *dynstate.State
	pending hazard.Pending
	scratch *scratch.Allocator
	gang    *gang.Synchronizer

	// gangEnc is the follower stream as an Encoder. Set when the gang
	// synchronizer creates its stream through gangResources.
	gangEnc Encoder

	// Validation tables. drawTable covers every state group the queue
	// class supports; dispatchTable covers only the compute-visible
	// groups, so a dispatch never touches rasterizer state.
	drawTable     *dynstate.GroupTable
	dispatchTable *dynstate.GroupTable

	pipeline *Pipeline
	status   recorderStatus

	// err is the latched recording error. Once set, every recording call
	// becomes a no-op and End reports it.
	err error

	// Deferred gang rendezvous. Barriers bump the counters; the waits are
	// emitted just before the next command that must observe them.
	leaderWaitPending   bool
	followerWaitPending bool

	scratchUsage types.BufferUsage
}

// Option configures a Recorder at construction time.
type Option func(*Recorder)

// WithScratchUsage overrides the buffer usage of scratch backing
// allocations. The default is mappable copy-source memory.
func WithScratchUsage(u types.BufferUsage) Option {
	return func(r *Recorder) { r.scratchUsage = u }
}

// NewRecorder creates a recorder for the given queue class. The primary
// encoder is created immediately; the gang stream is created lazily on
// first use.
func NewRecorder(dev Device, class QueueClass, opts ...Option) (*Recorder, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	r := &Recorder{
		class: class,
		dev:   dev,
		state: dynstate.New(),
	}
	for _, opt := range opts {
		opt(r)
	}

	enc, err := dev.CreateEncoder(class)
	if err != nil {
		return nil, fmt.Errorf("cmdcore: create primary encoder: %w", err)
	}
	r.primary = enc
	r.scratch = scratch.New(dev, r.scratchUsage)
	r.gang = gang.New(gangResources{r})
	r.buildTables()
	return r, nil
}

// gangResources adapts the recorder's device and scratch allocator to the
// gang synchronizer's resource needs.
type gangResources struct{ r *Recorder }

func (g gangResources) CreateGangStream() (gang.Stream, error) {
	enc, err := g.r.dev.CreateEncoder(QueueClassCompute)
	if err != nil {
		return nil, err
	}
	g.r.gangEnc = enc
	return enc, nil
}

func (g gangResources) AllocSemaphorePair() (uint64, []byte, error) {
	al, err := g.r.scratch.Alloc(8, 8)
	if err != nil {
		return 0, nil, err
	}
	return al.VA, al.Data, nil
}

func (r *Recorder) buildTables() {
	compute := []dynstate.GroupEntry{
		{Group: dynstate.GroupShaders, Emit: r.emitGroup(dynstate.GroupShaders)},
		{Group: dynstate.GroupDescriptors, Emit: r.emitDescriptors},
	}
	r.dispatchTable = dynstate.NewGroupTable(compute)

	switch r.class {
	case QueueClassGeneral:
		r.drawTable = dynstate.NewGroupTable([]dynstate.GroupEntry{
			{Group: dynstate.GroupShaders, Emit: r.emitGroup(dynstate.GroupShaders)},
			{Group: dynstate.GroupDescriptors, Emit: r.emitDescriptors},
			{Group: dynstate.GroupRasterizer, Emit: r.emitGroup(dynstate.GroupRasterizer)},
			{Group: dynstate.GroupTopology, Emit: r.emitTopology},
			{Group: dynstate.GroupDepthStencil, Emit: r.emitGroup(dynstate.GroupDepthStencil)},
			{Group: dynstate.GroupBlend, Emit: r.emitGroup(dynstate.GroupBlend)},
			{Group: dynstate.GroupVertexInput, Emit: r.emitGroup(dynstate.GroupVertexInput)},
			{Group: dynstate.GroupViewport, Emit: r.emitGroup(dynstate.GroupViewport)},
		})
	default:
		// Compute, transfer, and sparse recorders have no graphics
		// groups; draws are rejected before validation.
		r.drawTable = r.dispatchTable
	}
}

func (r *Recorder) emitGroup(g dynstate.Group) dynstate.EmitFunc {
	return func(s *dynstate.State) {
		r.primary.EmitStateGroup(g, s)
	}
}

// emitTopology reclassifies the primitive before emitting. A class change
// invalidates the viewport guard band, which re-dirties the viewport group
// and is picked up later in the same validation walk.
func (r *Recorder) emitTopology(s *dynstate.State) {
	s.ReclassifyPrimitive()
	r.primary.EmitStateGroup(dynstate.GroupTopology, s)
}

// emitDescriptors uploads dirty push constants to scratch memory before
// emitting the descriptor state, so the emitted pointers reference the
// fresh copy.
func (r *Recorder) emitDescriptors(s *dynstate.State) {
	if s.IsFieldDirty(dynstate.FieldPushConstants) {
		r.uploadPushConstants(s)
	}
	r.primary.EmitStateGroup(dynstate.GroupDescriptors, s)
}

func (r *Recorder) uploadPushConstants(s *dynstate.State) {
	al, err := r.scratch.Alloc(dynstate.MaxPushConstantBytes, 64)
	if err != nil {
		r.fail(fmt.Errorf("upload push constants: %w", err))
		return
	}
	copy(al.Data, s.PushConstantData())
	r.primary.EmitPushConstants(al.VA, dynstate.MaxPushConstantBytes)
}

// ---- Lifecycle ----

// Begin starts a new recording. All cached state returns to defaults and is
// marked dirty, so the first draw emits everything.
func (r *Recorder) Begin() error {
	if r.status == statusRecording {
		return ErrAlreadyRecording
	}
	r.resetRecordingState()
	r.status = statusRecording
	return nil
}

// End finishes the recording. Remaining hazards are flushed, the gang lane
// is finalized, and the first error latched during recording is returned.
func (r *Recorder) End() error {
	if r.status != statusRecording {
		if r.err != nil {
			return r.err
		}
		return ErrNotRecording
	}
	r.status = statusEnded
	if r.err != nil {
		return r.err
	}
	r.pending.Flush(r.primary)
	r.gang.Finalize(r.primary)

	st := r.scratch.Stats()
	Logger().Debug("cmdcore: recording ended",
		"queueClass", r.class.String(),
		"scratchAllocated", st.BytesAllocated,
		"scratchWasted", st.BytesWasted,
		"scratchGrows", st.Grows)
	return nil
}

// Reset returns the recorder to its initial state so it can Begin again.
// Scratch backing memory is retained for reuse.
func (r *Recorder) Reset() {
	r.resetRecordingState()
	r.status = statusInitial
}

func (r *Recorder) resetRecordingState() {
	r.state.Reset()
	r.pending.Reset()
	r.gang.Reset()
	r.scratch.Reset()
	r.pipeline = nil
	r.err = nil
	r.leaderWaitPending = false
	r.followerWaitPending = false
}

// Destroy releases the recorder's retained memory. The recorder must not
// be used afterwards.
func (r *Recorder) Destroy() {
	r.scratch.Destroy()
}

// Class returns the recorder's queue class.
func (r *Recorder) Class() QueueClass { return r.class }

// Err returns the latched recording error, if any.
func (r *Recorder) Err() error { return r.err }

// recording reports whether recording calls may proceed. A call outside an
// active recording latches ErrNotRecording.
func (r *Recorder) recording() bool {
	if r.err != nil {
		return false
	}
	if r.status != statusRecording {
		r.err = ErrNotRecording
		return false
	}
	return true
}

// fail latches the first recording error. Later errors are dropped; the
// first failure is the one that explains the rest.
func (r *Recorder) fail(err error) {
	if r.err != nil {
		return
	}
	r.err = err
	Logger().Warn("cmdcore: recording failed", "queueClass", r.class.String(), "err", err)
}

// ---- State setters ----
//
// Thin forwarding wrappers. The state layer marks fields dirty
// unconditionally; redundancy is filtered at validation time.

// SetViewports sets the active viewports.
func (r *Recorder) SetViewports(vps []dynstate.Viewport) {
	if r.recording() {
		r.state.SetViewports(vps)
	}
}

// SetScissors sets the active scissor rectangles.
func (r *Recorder) SetScissors(rects []dynstate.Rect) {
	if r.recording() {
		r.state.SetScissors(rects)
	}
}

// SetCullMode sets the face culling mode.
func (r *Recorder) SetCullMode(m gputypes.CullMode) {
	if r.recording() {
		r.state.SetCullMode(m)
	}
}

// SetPrimitiveTopology sets the primitive topology.
func (r *Recorder) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	if r.recording() {
		r.state.SetPrimitiveTopology(t)
	}
}

// SetDepthCompareOp sets the depth test comparison.
func (r *Recorder) SetDepthCompareOp(op gputypes.CompareFunction) {
	if r.recording() {
		r.state.SetDepthCompareOp(op)
	}
}

// SetBlendConstants sets the constant blend color.
func (r *Recorder) SetBlendConstants(c gputypes.Color) {
	if r.recording() {
		r.state.SetBlendConstants(c)
	}
}

// SetStencilReference sets the per-face stencil reference values.
func (r *Recorder) SetStencilReference(p dynstate.StencilFacePair[uint32]) {
	if r.recording() {
		r.state.SetStencilReference(p)
	}
}

// SetVertexInput sets the vertex buffer layouts.
func (r *Recorder) SetVertexInput(layouts []gputypes.VertexBufferLayout) {
	if r.recording() {
		r.state.SetVertexInput(layouts)
	}
}

// SetIndexBuffer binds the index buffer for indexed draws.
func (r *Recorder) SetIndexBuffer(b dynstate.IndexBinding) {
	if r.recording() {
		r.state.SetIndexBuffer(b)
	}
}

// SetDescriptorSet binds a descriptor set address.
func (r *Recorder) SetDescriptorSet(slot int, va uint64) {
	if r.recording() {
		r.state.SetDescriptorSet(slot, va)
	}
}

// PushConstants updates a byte range of the push constant block.
func (r *Recorder) PushConstants(offset uint32, data []byte) {
	if r.recording() {
		r.state.SetPushConstants(offset, data)
	}
}

// BindPipeline binds a baked pipeline. Pipeline-owned fields are compared
// against the cache and only actual changes dirty their groups, so
// rebinding the same pipeline costs nothing at the next draw.
func (r *Recorder) BindPipeline(p *Pipeline) {
	if !r.recording() {
		return
	}
	if p == nil || p.Static == nil {
		r.fail(ErrNoPipeline)
		return
	}
	if !p.Compute && r.class != QueueClassGeneral {
		r.fail(fmt.Errorf("bind graphics pipeline: %w", ErrWrongQueueClass))
		return
	}
	changed := r.state.BindSnapshot(p.Static, p.StaticFields)
	r.pipeline = p
	if changed != 0 {
		Logger().Debug("cmdcore: pipeline bind dirtied fields", "changed", uint64(changed))
	}
}
