package transition

import "github.com/gogpu/gputypes"

// Layout is the API-level image layout.
type Layout int

// Image layouts.
const (
	LayoutUndefined Layout = iota
	LayoutGeneral
	LayoutColorAttachment
	LayoutDepthStencilAttachment
	LayoutShaderReadOnly
	LayoutTransferSrc
	LayoutTransferDst
	LayoutPresent
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case LayoutUndefined:
		return "undefined"
	case LayoutGeneral:
		return "general"
	case LayoutColorAttachment:
		return "color-attachment"
	case LayoutDepthStencilAttachment:
		return "depth-stencil-attachment"
	case LayoutShaderReadOnly:
		return "shader-read-only"
	case LayoutTransferSrc:
		return "transfer-src"
	case LayoutTransferDst:
		return "transfer-dst"
	case LayoutPresent:
		return "present"
	default:
		return "unknown"
	}
}

// Caps describes the auxiliary metadata an image carries and how its
// compression behaves. Presence flags only; the metadata layouts
// themselves are out of scope.
type Caps uint32

const (
	// CapCompressedMetadata marks an image with a compressed-metadata
	// buffer.
	CapCompressedMetadata Caps = 1 << iota

	// CapFastClearPredicate marks an image with a fast-clear-eliminate
	// predicate.
	CapFastClearPredicate

	// CapAuxSampleBuffer marks a multisampled image with an auxiliary
	// sample buffer.
	CapAuxSampleBuffer

	// CapImplicitEliminate marks an image whose fast-clear values resolve
	// implicitly, so no explicit eliminate pass is needed.
	CapImplicitEliminate

	// CapDisplayRetile marks an image whose compressed metadata must be
	// re-tiled into a display-compatible arrangement before a
	// presentation or foreign-queue hand-off.
	CapDisplayRetile
)

// QueueMask is a bitmask of queue families that may own the image.
type QueueMask uint32

// Queue family bits.
const (
	QueueGraphics QueueMask = 1 << iota
	QueueCompute
	QueueTransfer
	QueueForeign
)

// multi reports whether more than one queue family is named.
func (m QueueMask) multi() bool {
	return m&(m-1) != 0
}

// Metadata seed values used by initialize ops. The exact encodings belong
// to the metadata formats (out of scope); these are the capability-specific
// defaults the hardware expects for "valid but empty".
const (
	seedCompressedMetadata = 0xFFFFFFFF
	seedDepthMetadata      = 0xF000F000
	seedFastClearPredicate = 0x00000000
	seedAuxSampleBuffer    = 0xCCCCCCCC
)

// OpKind identifies one metadata operation.
type OpKind int

// Metadata operation kinds, in the order they may appear in a plan.
const (
	OpInitialize OpKind = iota
	OpDecompress
	OpEliminateFastClear
	OpExpand
	OpRetile
)

// String returns the op kind name.
func (k OpKind) String() string {
	switch k {
	case OpInitialize:
		return "initialize"
	case OpDecompress:
		return "decompress"
	case OpEliminateFastClear:
		return "eliminate-fast-clear"
	case OpExpand:
		return "expand"
	case OpRetile:
		return "retile"
	default:
		return "unknown"
	}
}

// MetadataOp is one planned operation. For OpInitialize, Target names the
// metadata plane and Value its seed; both are zero for other kinds.
type MetadataOp struct {
	Kind   OpKind
	Target Caps
	Value  uint32
}

// Info identifies the image being transitioned.
type Info struct {
	// Format is the image format; depth formats seed their metadata
	// differently from color formats.
	Format gputypes.TextureFormat

	// Caps are the image's metadata capability flags.
	Caps Caps
}

// Compression is the compression state a layout permits.
type Compression int

// Compression states, ordered from least to most compressed.
const (
	CompressionNone Compression = iota
	CompressionPartial
	CompressionFull
)

// CompressionFor is the compressibility predicate: the most compressed
// state an image with the given caps may be in while bound in the given
// layout and owned by the given queues. Cross-queue sharing forces
// decompression because not every queue family can read compressed
// metadata.
func CompressionFor(caps Caps, layout Layout, queues QueueMask) Compression {
	if caps&CapCompressedMetadata == 0 {
		return CompressionNone
	}
	if queues&QueueForeign != 0 {
		return CompressionNone
	}
	if queues.multi() {
		return CompressionPartial
	}
	switch layout {
	case LayoutColorAttachment, LayoutDepthStencilAttachment:
		return CompressionFull
	case LayoutGeneral, LayoutShaderReadOnly, LayoutTransferSrc, LayoutTransferDst:
		return CompressionPartial
	case LayoutPresent:
		return CompressionNone
	default:
		return CompressionNone
	}
}

// fastClearAllowed reports whether the image may hold fast-cleared blocks
// while compressed in the given layout/queues.
func fastClearAllowed(caps Caps, layout Layout, queues QueueMask) bool {
	return CompressionFor(caps, layout, queues) == CompressionFull
}

// Plan maps a layout/queue transition to an ordered list of metadata
// operations. The caller executes them in the returned order.
//
// A transition out of LayoutUndefined only initializes: the image
// contents are undefined, so there is nothing to decompress or eliminate.
func Plan(info Info, oldLayout, newLayout Layout, oldQueues, newQueues QueueMask) []MetadataOp {
	caps := info.Caps

	if oldLayout == LayoutUndefined {
		return planInitialize(info)
	}

	var ops []MetadataOp

	oldFC := fastClearAllowed(caps, oldLayout, oldQueues)
	newFC := fastClearAllowed(caps, newLayout, newQueues)
	if oldFC != newFC {
		ops = append(ops, MetadataOp{Kind: OpDecompress})
	}

	oldC := CompressionFor(caps, oldLayout, oldQueues)
	newC := CompressionFor(caps, newLayout, newQueues)
	if oldC == CompressionFull && newC < CompressionFull {
		if caps&CapFastClearPredicate != 0 && caps&CapImplicitEliminate == 0 {
			ops = append(ops, MetadataOp{Kind: OpEliminateFastClear})
		}
		if newC == CompressionNone {
			ops = append(ops, MetadataOp{Kind: OpExpand})
		}
	}

	if caps&CapDisplayRetile != 0 && crossesDisplayBoundary(newLayout, oldQueues, newQueues) {
		ops = append(ops, MetadataOp{Kind: OpRetile})
	}

	return ops
}

// planInitialize seeds every metadata plane the image carries.
func planInitialize(info Info) []MetadataOp {
	var ops []MetadataOp
	if info.Caps&CapCompressedMetadata != 0 {
		seed := uint32(seedCompressedMetadata)
		if isDepthFormat(info.Format) {
			seed = seedDepthMetadata
		}
		ops = append(ops, MetadataOp{Kind: OpInitialize, Target: CapCompressedMetadata, Value: seed})
	}
	if info.Caps&CapFastClearPredicate != 0 {
		ops = append(ops, MetadataOp{Kind: OpInitialize, Target: CapFastClearPredicate, Value: seedFastClearPredicate})
	}
	if info.Caps&CapAuxSampleBuffer != 0 {
		ops = append(ops, MetadataOp{Kind: OpInitialize, Target: CapAuxSampleBuffer, Value: seedAuxSampleBuffer})
	}
	return ops
}

// crossesDisplayBoundary reports whether the destination requires
// display-compatible metadata: a present layout, or a hand-off to a
// foreign queue family.
func crossesDisplayBoundary(newLayout Layout, oldQueues, newQueues QueueMask) bool {
	if newLayout == LayoutPresent {
		return true
	}
	return newQueues&QueueForeign != 0 && oldQueues&QueueForeign == 0
}

// isDepthFormat reports whether the format has a depth aspect.
func isDepthFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}
