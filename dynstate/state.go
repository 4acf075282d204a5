package dynstate

import "github.com/gogpu/gputypes"

// State is the full dynamic-state snapshot of one recording, with fine
// (per-field) and coarse (per-group) dirty tracking.
//
// State is not safe for concurrent use; it belongs to a single recorder.
type State struct {
	fineDirty  FieldMask
	groupDirty GroupMask

	viewportCount uint32
	viewports     [MaxViewports]Viewport
	scissorCount  uint32
	scissors      [MaxViewports]Rect

	lineWidth      float32
	depthBias      DepthBias
	blendConstants gputypes.Color
	depthBoundsMin float32
	depthBoundsMax float32

	stencilCompareMask StencilFacePair[uint32]
	stencilWriteMask   StencilFacePair[uint32]
	stencilReference   StencilFacePair[uint32]
	stencilOps         StencilFacePair[StencilOpState]

	cullMode  gputypes.CullMode
	frontFace gputypes.FrontFace
	topology  gputypes.PrimitiveTopology

	depthTestEnable       bool
	depthWriteEnable      bool
	depthCompareOp        gputypes.CompareFunction
	depthBoundsTestEnable bool
	stencilTestEnable     bool

	vertexLayouts []gputypes.VertexBufferLayout
	indexBuffer   IndexBinding

	primitiveRestartEnable  bool
	rasterizerDiscardEnable bool
	depthBiasEnable         bool

	logicOpEnable    bool
	logicOp          LogicOp
	colorWriteEnable uint32
	colorWriteMask   uint32
	blendEnable      uint32
	blendEquations   [8]BlendEquation

	polygonMode          PolygonMode
	rasterizationSamples uint32
	sampleMask           uint32

	alphaToCoverageEnable bool
	alphaToOneEnable      bool

	lineStippleEnable bool
	lineStipple       LineStipple
	lineRasterMode    LineRasterizationMode

	depthClampEnable bool
	depthClipEnable  bool

	conservativeMode ConservativeRasterMode
	provokingVertex  ProvokingVertexMode

	domainOrigin       DomainOrigin
	patchControlPoints uint32

	shadingRate ShadingRate

	discardRectCount uint32
	discardRects     [MaxDiscardRectangles]Rect

	sampleLocations SampleLocations

	shaderConfig ShaderConfig

	pushConstants   [MaxPushConstantBytes]byte
	pushConstantEnd uint32

	descriptorSets [8]uint64

	// primClass is derived from topology while emitting GroupTopology;
	// GroupViewport consumes it for the guard band.
	primClass PrimitiveClass
}

// New returns a State with API defaults and every group marked dirty, so
// the first validation emits the complete state.
func New() *State {
	s := &State{}
	s.setDefaults()
	s.MarkAll()
	return s
}

func (s *State) setDefaults() {
	s.lineWidth = 1.0
	s.depthCompareOp = gputypes.CompareFunctionAlways
	s.cullMode = gputypes.CullModeNone
	s.topology = gputypes.PrimitiveTopologyTriangleList
	s.sampleMask = 0xFFFFFFFF
	s.rasterizationSamples = 1
	s.colorWriteEnable = 0xFFFFFFFF
	s.colorWriteMask = 0xFFFFFFFF
	s.depthClipEnable = true
	s.primClass = PrimClassTriangle
}

// markField sets the field's fine bit and its group's coarse bit.
func (s *State) markField(f Field) {
	s.fineDirty |= f.Bit()
	s.groupDirty |= GroupOf(f).Bit()
}

// MarkAll dirties every field and group. Used when a recording begins, so
// nothing inherited from a previous recording is trusted.
func (s *State) MarkAll() {
	s.fineDirty = AllFields
	s.groupDirty = AllGroups
}

// MarkGroupDirty re-dirties a whole group without touching fine bits.
// Emit callbacks use it for cross-group derivations.
func (s *State) MarkGroupDirty(g Group) {
	s.groupDirty |= g.Bit()
}

// FineDirty returns the fine dirty mask.
func (s *State) FineDirty() FieldMask { return s.fineDirty }

// GroupDirty returns the coarse dirty mask.
func (s *State) GroupDirty() GroupMask { return s.groupDirty }

// IsGroupDirty reports whether the group needs emission.
func (s *State) IsGroupDirty(g Group) bool { return s.groupDirty&g.Bit() != 0 }

// IsFieldDirty reports whether the field changed since its group was last
// emitted.
func (s *State) IsFieldDirty(f Field) bool { return s.fineDirty&f.Bit() != 0 }

// Reset restores defaults and marks everything dirty.
func (s *State) Reset() {
	*s = State{vertexLayouts: s.vertexLayouts[:0]}
	s.setDefaults()
	s.MarkAll()
}

// --------------------------------------------------------------------------
// Viewport group
// --------------------------------------------------------------------------

// SetViewports replaces the viewport list.
func (s *State) SetViewports(vps []Viewport) {
	s.viewportCount = uint32(copy(s.viewports[:], vps))
	s.markField(FieldViewports)
}

// SetScissors replaces the scissor list.
func (s *State) SetScissors(rects []Rect) {
	s.scissorCount = uint32(copy(s.scissors[:], rects))
	s.markField(FieldScissors)
}

// SetDiscardRectangles replaces the discard rectangle list.
func (s *State) SetDiscardRectangles(rects []Rect) {
	s.discardRectCount = uint32(copy(s.discardRects[:], rects))
	s.markField(FieldDiscardRectangles)
}

// Viewports returns the current viewport list.
func (s *State) Viewports() []Viewport { return s.viewports[:s.viewportCount] }

// Scissors returns the current scissor list.
func (s *State) Scissors() []Rect { return s.scissors[:s.scissorCount] }

// --------------------------------------------------------------------------
// Rasterizer group
// --------------------------------------------------------------------------

// SetLineWidth sets the rasterized line width.
func (s *State) SetLineWidth(w float32) {
	s.lineWidth = w
	s.markField(FieldLineWidth)
}

// SetDepthBias sets the polygon offset parameters.
func (s *State) SetDepthBias(b DepthBias) {
	s.depthBias = b
	s.markField(FieldDepthBias)
}

// SetDepthBiasEnable toggles polygon offset.
func (s *State) SetDepthBiasEnable(on bool) {
	s.depthBiasEnable = on
	s.markField(FieldDepthBiasEnable)
}

// SetCullMode sets the face culling mode.
func (s *State) SetCullMode(m gputypes.CullMode) {
	s.cullMode = m
	s.markField(FieldCullMode)
}

// SetFrontFace sets the front-facing winding.
func (s *State) SetFrontFace(f gputypes.FrontFace) {
	s.frontFace = f
	s.markField(FieldFrontFace)
}

// SetPolygonMode sets the polygon rasterization mode.
func (s *State) SetPolygonMode(m PolygonMode) {
	s.polygonMode = m
	s.markField(FieldPolygonMode)
}

// SetRasterizerDiscardEnable toggles discarding primitives before
// rasterization.
func (s *State) SetRasterizerDiscardEnable(on bool) {
	s.rasterizerDiscardEnable = on
	s.markField(FieldRasterizerDiscardEnable)
}

// SetRasterizationSamples sets the sample count.
func (s *State) SetRasterizationSamples(n uint32) {
	s.rasterizationSamples = n
	s.markField(FieldRasterizationSamples)
}

// SetSampleMask sets the coverage sample mask.
func (s *State) SetSampleMask(m uint32) {
	s.sampleMask = m
	s.markField(FieldSampleMask)
}

// SetLineStippleEnable toggles line stippling.
func (s *State) SetLineStippleEnable(on bool) {
	s.lineStippleEnable = on
	s.markField(FieldLineStippleEnable)
}

// SetLineStipple sets the stipple pattern.
func (s *State) SetLineStipple(ls LineStipple) {
	s.lineStipple = ls
	s.markField(FieldLineStipple)
}

// SetLineRasterizationMode sets the line rasterization rule.
func (s *State) SetLineRasterizationMode(m LineRasterizationMode) {
	s.lineRasterMode = m
	s.markField(FieldLineRasterizationMode)
}

// SetDepthClampEnable toggles depth clamping.
func (s *State) SetDepthClampEnable(on bool) {
	s.depthClampEnable = on
	s.markField(FieldDepthClampEnable)
}

// SetDepthClipEnable toggles depth clipping.
func (s *State) SetDepthClipEnable(on bool) {
	s.depthClipEnable = on
	s.markField(FieldDepthClipEnable)
}

// SetConservativeRasterMode sets conservative rasterization.
func (s *State) SetConservativeRasterMode(m ConservativeRasterMode) {
	s.conservativeMode = m
	s.markField(FieldConservativeRasterMode)
}

// SetProvokingVertexMode sets the provoking vertex convention.
func (s *State) SetProvokingVertexMode(m ProvokingVertexMode) {
	s.provokingVertex = m
	s.markField(FieldProvokingVertexMode)
}

// SetFragmentShadingRate sets the fragment shading rate.
func (s *State) SetFragmentShadingRate(r ShadingRate) {
	s.shadingRate = r
	s.markField(FieldFragmentShadingRate)
}

// CullMode returns the face culling mode.
func (s *State) CullMode() gputypes.CullMode { return s.cullMode }

// --------------------------------------------------------------------------
// Topology group
// --------------------------------------------------------------------------

// SetPrimitiveTopology sets the primitive topology.
func (s *State) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	s.topology = t
	s.markField(FieldPrimitiveTopology)
}

// SetPrimitiveRestartEnable toggles primitive restart.
func (s *State) SetPrimitiveRestartEnable(on bool) {
	s.primitiveRestartEnable = on
	s.markField(FieldPrimitiveRestartEnable)
}

// SetTessellationDomainOrigin sets the tessellation domain origin.
func (s *State) SetTessellationDomainOrigin(o DomainOrigin) {
	s.domainOrigin = o
	s.markField(FieldTessellationDomainOrigin)
}

// SetPatchControlPoints sets the patch size.
func (s *State) SetPatchControlPoints(n uint32) {
	s.patchControlPoints = n
	s.markField(FieldPatchControlPoints)
}

// Topology returns the primitive topology.
func (s *State) Topology() gputypes.PrimitiveTopology { return s.topology }

// PrimClass returns the derived output-primitive classification.
func (s *State) PrimClass() PrimitiveClass { return s.primClass }

// ReclassifyPrimitive recomputes the primitive class from the topology.
// It reports whether the class changed; a change re-dirties the viewport
// group, whose guard band depends on the class. Called while emitting
// GroupTopology.
func (s *State) ReclassifyPrimitive() bool {
	class := ClassifyTopology(s.topology)
	if class == s.primClass {
		return false
	}
	s.primClass = class
	s.MarkGroupDirty(GroupViewport)
	return true
}

// --------------------------------------------------------------------------
// Depth/stencil group
// --------------------------------------------------------------------------

// SetDepthBounds sets the depth bounds test range.
func (s *State) SetDepthBounds(min, max float32) {
	s.depthBoundsMin, s.depthBoundsMax = min, max
	s.markField(FieldDepthBounds)
}

// SetStencilCompareMask sets the front/back stencil compare masks.
func (s *State) SetStencilCompareMask(p StencilFacePair[uint32]) {
	s.stencilCompareMask = p
	s.markField(FieldStencilCompareMask)
}

// SetStencilWriteMask sets the front/back stencil write masks.
func (s *State) SetStencilWriteMask(p StencilFacePair[uint32]) {
	s.stencilWriteMask = p
	s.markField(FieldStencilWriteMask)
}

// SetStencilReference sets the front/back stencil reference values.
func (s *State) SetStencilReference(p StencilFacePair[uint32]) {
	s.stencilReference = p
	s.markField(FieldStencilReference)
}

// SetStencilOps sets the front/back stencil operation state.
func (s *State) SetStencilOps(p StencilFacePair[StencilOpState]) {
	s.stencilOps = p
	s.markField(FieldStencilOps)
}

// SetDepthTestEnable toggles the depth test.
func (s *State) SetDepthTestEnable(on bool) {
	s.depthTestEnable = on
	s.markField(FieldDepthTestEnable)
}

// SetDepthWriteEnable toggles depth writes.
func (s *State) SetDepthWriteEnable(on bool) {
	s.depthWriteEnable = on
	s.markField(FieldDepthWriteEnable)
}

// SetDepthCompareOp sets the depth comparison.
func (s *State) SetDepthCompareOp(op gputypes.CompareFunction) {
	s.depthCompareOp = op
	s.markField(FieldDepthCompareOp)
}

// SetDepthBoundsTestEnable toggles the depth bounds test.
func (s *State) SetDepthBoundsTestEnable(on bool) {
	s.depthBoundsTestEnable = on
	s.markField(FieldDepthBoundsTestEnable)
}

// SetStencilTestEnable toggles the stencil test.
func (s *State) SetStencilTestEnable(on bool) {
	s.stencilTestEnable = on
	s.markField(FieldStencilTestEnable)
}

// SetSampleLocations sets custom sample positions.
func (s *State) SetSampleLocations(sl SampleLocations) {
	s.sampleLocations = sl
	s.markField(FieldSampleLocations)
}

// --------------------------------------------------------------------------
// Blend group
// --------------------------------------------------------------------------

// SetBlendConstants sets the constant blend color.
func (s *State) SetBlendConstants(c gputypes.Color) {
	s.blendConstants = c
	s.markField(FieldBlendConstants)
}

// SetLogicOpEnable toggles framebuffer logic ops.
func (s *State) SetLogicOpEnable(on bool) {
	s.logicOpEnable = on
	s.markField(FieldLogicOpEnable)
}

// SetLogicOp sets the framebuffer logic op.
func (s *State) SetLogicOp(op LogicOp) {
	s.logicOp = op
	s.markField(FieldLogicOp)
}

// SetColorWriteEnable sets the per-attachment write enable bits.
func (s *State) SetColorWriteEnable(bits uint32) {
	s.colorWriteEnable = bits
	s.markField(FieldColorWriteEnable)
}

// SetColorWriteMask sets the per-attachment channel masks, four bits per
// attachment.
func (s *State) SetColorWriteMask(bits uint32) {
	s.colorWriteMask = bits
	s.markField(FieldColorWriteMask)
}

// SetBlendEnable sets the per-attachment blend enable bits.
func (s *State) SetBlendEnable(bits uint32) {
	s.blendEnable = bits
	s.markField(FieldBlendEnable)
}

// SetBlendEquation sets one attachment's blend equation.
func (s *State) SetBlendEquation(attachment int, eq BlendEquation) {
	if attachment < 0 || attachment >= len(s.blendEquations) {
		return
	}
	s.blendEquations[attachment] = eq
	s.markField(FieldBlendEquation)
}

// SetAlphaToCoverageEnable toggles alpha-to-coverage.
func (s *State) SetAlphaToCoverageEnable(on bool) {
	s.alphaToCoverageEnable = on
	s.markField(FieldAlphaToCoverageEnable)
}

// SetAlphaToOneEnable toggles alpha-to-one.
func (s *State) SetAlphaToOneEnable(on bool) {
	s.alphaToOneEnable = on
	s.markField(FieldAlphaToOneEnable)
}

// --------------------------------------------------------------------------
// Vertex input group
// --------------------------------------------------------------------------

// SetVertexInput replaces the vertex fetch layout. The layouts are cloned
// so later caller mutation cannot corrupt the cache.
func (s *State) SetVertexInput(layouts []gputypes.VertexBufferLayout) {
	s.vertexLayouts = cloneVertexLayouts(s.vertexLayouts[:0], layouts)
	s.markField(FieldVertexInput)
}

// SetIndexBuffer sets the bound index buffer.
func (s *State) SetIndexBuffer(b IndexBinding) {
	s.indexBuffer = b
	s.markField(FieldIndexBuffer)
}

// VertexInput returns the current vertex fetch layout.
func (s *State) VertexInput() []gputypes.VertexBufferLayout { return s.vertexLayouts }

// IndexBuffer returns the bound index buffer.
func (s *State) IndexBuffer() IndexBinding { return s.indexBuffer }

// --------------------------------------------------------------------------
// Shaders and descriptors
// --------------------------------------------------------------------------

// SetShaderConfig sets the bound shader configuration.
func (s *State) SetShaderConfig(c ShaderConfig) {
	s.shaderConfig = c
	s.markField(FieldShaderConfig)
}

// ShaderConfig returns the bound shader configuration.
func (s *State) ShaderConfig() ShaderConfig { return s.shaderConfig }

// SetPushConstants writes data into the push-constant block at offset.
// Writes beyond the block are clamped.
func (s *State) SetPushConstants(offset uint32, data []byte) {
	if offset >= MaxPushConstantBytes {
		return
	}
	n := copy(s.pushConstants[offset:], data)
	if end := offset + uint32(n); end > s.pushConstantEnd {
		s.pushConstantEnd = end
	}
	s.markField(FieldPushConstants)
}

// PushConstantData returns the written prefix of the push-constant block.
func (s *State) PushConstantData() []byte {
	return s.pushConstants[:s.pushConstantEnd]
}

// SetDescriptorSet binds a descriptor set address to a slot.
func (s *State) SetDescriptorSet(slot int, va uint64) {
	if slot < 0 || slot >= len(s.descriptorSets) {
		return
	}
	s.descriptorSets[slot] = va
	s.markField(FieldDescriptorSets)
}

// DescriptorSets returns the bound descriptor set addresses.
func (s *State) DescriptorSets() [8]uint64 { return s.descriptorSets }

// cloneVertexLayouts deep-copies layouts into dst (reusing its backing
// array where possible).
func cloneVertexLayouts(dst, src []gputypes.VertexBufferLayout) []gputypes.VertexBufferLayout {
	for _, l := range src {
		attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
		copy(attrs, l.Attributes)
		l.Attributes = attrs
		dst = append(dst, l)
	}
	return dst
}
