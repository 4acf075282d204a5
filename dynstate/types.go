package dynstate

import "github.com/gogpu/gputypes"

// MaxViewports is the most simultaneous viewports/scissors the cache
// tracks.
const MaxViewports = 16

// MaxPushConstantBytes is the size of the push-constant block.
const MaxPushConstantBytes = 128

// MaxDiscardRectangles is the most discard rectangles the cache tracks.
const MaxDiscardRectangles = 4

// Viewport is one viewport transform.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// Rect is an integer rectangle used for scissors and discard rectangles.
type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// DepthBias is the polygon offset configuration.
type DepthBias struct {
	Constant float32
	Clamp    float32
	Slope    float32
}

// StencilOpState is the per-face stencil operation configuration.
type StencilOpState struct {
	FailOp      gputypes.StencilOperation
	PassOp      gputypes.StencilOperation
	DepthFailOp gputypes.StencilOperation
	CompareOp   gputypes.CompareFunction
}

// StencilFacePair holds a front/back pair of per-face values.
type StencilFacePair[T comparable] struct {
	Front T
	Back  T
}

// PolygonMode selects how polygons rasterize.
type PolygonMode uint8

// Polygon modes.
const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

// LogicOp is a framebuffer logical operation.
type LogicOp uint8

// Logic operations (the subset the core distinguishes; the encoder maps
// the rest).
const (
	LogicOpCopy LogicOp = iota
	LogicOpClear
	LogicOpAnd
	LogicOpOr
	LogicOpXor
	LogicOpSet
	LogicOpNoOp
)

// BlendEquation is one attachment's blend configuration.
type BlendEquation struct {
	SrcColor gputypes.BlendFactor
	DstColor gputypes.BlendFactor
	ColorOp  gputypes.BlendOperation
	SrcAlpha gputypes.BlendFactor
	DstAlpha gputypes.BlendFactor
	AlphaOp  gputypes.BlendOperation
}

// LineStipple is the line stipple pattern.
type LineStipple struct {
	Factor  uint32
	Pattern uint16
}

// LineRasterizationMode selects the line rasterization rule.
type LineRasterizationMode uint8

// Line rasterization modes.
const (
	LineRasterizationDefault LineRasterizationMode = iota
	LineRasterizationRectangular
	LineRasterizationBresenham
	LineRasterizationSmooth
)

// ConservativeRasterMode selects conservative rasterization behavior.
type ConservativeRasterMode uint8

// Conservative rasterization modes.
const (
	ConservativeRasterDisabled ConservativeRasterMode = iota
	ConservativeRasterOverestimate
	ConservativeRasterUnderestimate
)

// ProvokingVertexMode selects which vertex provides flat-shaded values.
type ProvokingVertexMode uint8

// Provoking vertex modes.
const (
	ProvokingVertexFirst ProvokingVertexMode = iota
	ProvokingVertexLast
)

// DomainOrigin is the tessellation domain origin.
type DomainOrigin uint8

// Tessellation domain origins.
const (
	DomainOriginUpperLeft DomainOrigin = iota
	DomainOriginLowerLeft
)

// ShadingRate is the fragment shading rate, in fragment-width/height log2
// plus combiner selectors.
type ShadingRate struct {
	Width, Height uint8
	Combiners     [2]uint8
}

// IndexBinding is the bound index buffer.
type IndexBinding struct {
	VA     uint64
	Size   uint64
	Format gputypes.IndexFormat
}

// SampleLocations is a custom sample-position grid. Positions are packed
// 4-bit fixed point, matching what the encoder consumes.
type SampleLocations struct {
	PerPixel    uint32
	GridW       uint32
	GridH       uint32
	Positions   [32]uint8
	PositionLen uint8
}

// ShaderConfig summarizes the bound shader pipeline as far as dynamic
// state emission cares: which stages exist and the hash the encoder uses
// to select register layouts. The full pipeline object stays outside the
// core.
type ShaderConfig struct {
	StageMask  uint32
	ConfigHash uint64
	UsesTask   bool
	UsesMesh   bool
}

// PrimitiveClass is the derived classification of the output primitive
// type, consumed by the guard-band computation in the viewport group.
type PrimitiveClass uint8

// Primitive classes.
const (
	PrimClassTriangle PrimitiveClass = iota
	PrimClassLine
	PrimClassPoint
)

// ClassifyTopology derives the primitive class for a topology.
func ClassifyTopology(t gputypes.PrimitiveTopology) PrimitiveClass {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return PrimClassPoint
	case gputypes.PrimitiveTopologyLineList, gputypes.PrimitiveTopologyLineStrip:
		return PrimClassLine
	default:
		return PrimClassTriangle
	}
}
