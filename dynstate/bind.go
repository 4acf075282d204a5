package dynstate

import (
	"math/bits"

	"github.com/gogpu/gputypes"
)

// BindSnapshot copies every field named in mask from src, marking a field
// dirty only when the copied value differs from the cached one. Binding
// the same snapshot twice in a row therefore dirties nothing the second
// time.
//
// It returns the mask of fields that actually changed.
func (s *State) BindSnapshot(src *State, mask FieldMask) FieldMask {
	var changed FieldMask
	for rest := mask; rest != 0; {
		f := Field(bits.TrailingZeros64(uint64(rest)))
		rest &^= f.Bit()
		if s.bindField(f, src) {
			s.markField(f)
			changed |= f.Bit()
		}
	}
	return changed
}

// bindField copies one field from src and reports whether it differed.
func (s *State) bindField(f Field, src *State) bool {
	switch f {
	case FieldViewports:
		if s.viewportCount == src.viewportCount && s.viewports == src.viewports {
			return false
		}
		s.viewportCount, s.viewports = src.viewportCount, src.viewports
	case FieldScissors:
		if s.scissorCount == src.scissorCount && s.scissors == src.scissors {
			return false
		}
		s.scissorCount, s.scissors = src.scissorCount, src.scissors
	case FieldLineWidth:
		if s.lineWidth == src.lineWidth {
			return false
		}
		s.lineWidth = src.lineWidth
	case FieldDepthBias:
		if s.depthBias == src.depthBias {
			return false
		}
		s.depthBias = src.depthBias
	case FieldBlendConstants:
		if s.blendConstants == src.blendConstants {
			return false
		}
		s.blendConstants = src.blendConstants
	case FieldDepthBounds:
		if s.depthBoundsMin == src.depthBoundsMin && s.depthBoundsMax == src.depthBoundsMax {
			return false
		}
		s.depthBoundsMin, s.depthBoundsMax = src.depthBoundsMin, src.depthBoundsMax
	case FieldStencilCompareMask:
		if s.stencilCompareMask == src.stencilCompareMask {
			return false
		}
		s.stencilCompareMask = src.stencilCompareMask
	case FieldStencilWriteMask:
		if s.stencilWriteMask == src.stencilWriteMask {
			return false
		}
		s.stencilWriteMask = src.stencilWriteMask
	case FieldStencilReference:
		if s.stencilReference == src.stencilReference {
			return false
		}
		s.stencilReference = src.stencilReference
	case FieldStencilOps:
		if s.stencilOps == src.stencilOps {
			return false
		}
		s.stencilOps = src.stencilOps
	case FieldCullMode:
		if s.cullMode == src.cullMode {
			return false
		}
		s.cullMode = src.cullMode
	case FieldFrontFace:
		if s.frontFace == src.frontFace {
			return false
		}
		s.frontFace = src.frontFace
	case FieldPrimitiveTopology:
		if s.topology == src.topology {
			return false
		}
		s.topology = src.topology
	case FieldDepthTestEnable:
		if s.depthTestEnable == src.depthTestEnable {
			return false
		}
		s.depthTestEnable = src.depthTestEnable
	case FieldDepthWriteEnable:
		if s.depthWriteEnable == src.depthWriteEnable {
			return false
		}
		s.depthWriteEnable = src.depthWriteEnable
	case FieldDepthCompareOp:
		if s.depthCompareOp == src.depthCompareOp {
			return false
		}
		s.depthCompareOp = src.depthCompareOp
	case FieldDepthBoundsTestEnable:
		if s.depthBoundsTestEnable == src.depthBoundsTestEnable {
			return false
		}
		s.depthBoundsTestEnable = src.depthBoundsTestEnable
	case FieldStencilTestEnable:
		if s.stencilTestEnable == src.stencilTestEnable {
			return false
		}
		s.stencilTestEnable = src.stencilTestEnable
	case FieldVertexInput:
		if vertexLayoutsEqual(s.vertexLayouts, src.vertexLayouts) {
			return false
		}
		s.vertexLayouts = cloneVertexLayouts(s.vertexLayouts[:0], src.vertexLayouts)
	case FieldIndexBuffer:
		if s.indexBuffer == src.indexBuffer {
			return false
		}
		s.indexBuffer = src.indexBuffer
	case FieldPrimitiveRestartEnable:
		if s.primitiveRestartEnable == src.primitiveRestartEnable {
			return false
		}
		s.primitiveRestartEnable = src.primitiveRestartEnable
	case FieldRasterizerDiscardEnable:
		if s.rasterizerDiscardEnable == src.rasterizerDiscardEnable {
			return false
		}
		s.rasterizerDiscardEnable = src.rasterizerDiscardEnable
	case FieldDepthBiasEnable:
		if s.depthBiasEnable == src.depthBiasEnable {
			return false
		}
		s.depthBiasEnable = src.depthBiasEnable
	case FieldLogicOpEnable:
		if s.logicOpEnable == src.logicOpEnable {
			return false
		}
		s.logicOpEnable = src.logicOpEnable
	case FieldLogicOp:
		if s.logicOp == src.logicOp {
			return false
		}
		s.logicOp = src.logicOp
	case FieldColorWriteEnable:
		if s.colorWriteEnable == src.colorWriteEnable {
			return false
		}
		s.colorWriteEnable = src.colorWriteEnable
	case FieldColorWriteMask:
		if s.colorWriteMask == src.colorWriteMask {
			return false
		}
		s.colorWriteMask = src.colorWriteMask
	case FieldBlendEnable:
		if s.blendEnable == src.blendEnable {
			return false
		}
		s.blendEnable = src.blendEnable
	case FieldBlendEquation:
		if s.blendEquations == src.blendEquations {
			return false
		}
		s.blendEquations = src.blendEquations
	case FieldPolygonMode:
		if s.polygonMode == src.polygonMode {
			return false
		}
		s.polygonMode = src.polygonMode
	case FieldRasterizationSamples:
		if s.rasterizationSamples == src.rasterizationSamples {
			return false
		}
		s.rasterizationSamples = src.rasterizationSamples
	case FieldSampleMask:
		if s.sampleMask == src.sampleMask {
			return false
		}
		s.sampleMask = src.sampleMask
	case FieldAlphaToCoverageEnable:
		if s.alphaToCoverageEnable == src.alphaToCoverageEnable {
			return false
		}
		s.alphaToCoverageEnable = src.alphaToCoverageEnable
	case FieldAlphaToOneEnable:
		if s.alphaToOneEnable == src.alphaToOneEnable {
			return false
		}
		s.alphaToOneEnable = src.alphaToOneEnable
	case FieldLineStippleEnable:
		if s.lineStippleEnable == src.lineStippleEnable {
			return false
		}
		s.lineStippleEnable = src.lineStippleEnable
	case FieldLineStipple:
		if s.lineStipple == src.lineStipple {
			return false
		}
		s.lineStipple = src.lineStipple
	case FieldLineRasterizationMode:
		if s.lineRasterMode == src.lineRasterMode {
			return false
		}
		s.lineRasterMode = src.lineRasterMode
	case FieldDepthClampEnable:
		if s.depthClampEnable == src.depthClampEnable {
			return false
		}
		s.depthClampEnable = src.depthClampEnable
	case FieldDepthClipEnable:
		if s.depthClipEnable == src.depthClipEnable {
			return false
		}
		s.depthClipEnable = src.depthClipEnable
	case FieldConservativeRasterMode:
		if s.conservativeMode == src.conservativeMode {
			return false
		}
		s.conservativeMode = src.conservativeMode
	case FieldProvokingVertexMode:
		if s.provokingVertex == src.provokingVertex {
			return false
		}
		s.provokingVertex = src.provokingVertex
	case FieldTessellationDomainOrigin:
		if s.domainOrigin == src.domainOrigin {
			return false
		}
		s.domainOrigin = src.domainOrigin
	case FieldPatchControlPoints:
		if s.patchControlPoints == src.patchControlPoints {
			return false
		}
		s.patchControlPoints = src.patchControlPoints
	case FieldFragmentShadingRate:
		if s.shadingRate == src.shadingRate {
			return false
		}
		s.shadingRate = src.shadingRate
	case FieldDiscardRectangles:
		if s.discardRectCount == src.discardRectCount && s.discardRects == src.discardRects {
			return false
		}
		s.discardRectCount, s.discardRects = src.discardRectCount, src.discardRects
	case FieldSampleLocations:
		if s.sampleLocations == src.sampleLocations {
			return false
		}
		s.sampleLocations = src.sampleLocations
	case FieldShaderConfig:
		if s.shaderConfig == src.shaderConfig {
			return false
		}
		s.shaderConfig = src.shaderConfig
	case FieldPushConstants:
		if s.pushConstantEnd == src.pushConstantEnd && s.pushConstants == src.pushConstants {
			return false
		}
		s.pushConstantEnd, s.pushConstants = src.pushConstantEnd, src.pushConstants
	case FieldDescriptorSets:
		if s.descriptorSets == src.descriptorSets {
			return false
		}
		s.descriptorSets = src.descriptorSets
	}
	return true
}

// vertexLayoutsEqual compares two vertex fetch layouts structurally.
func vertexLayoutsEqual(a, b []gputypes.VertexBufferLayout) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ArrayStride != b[i].ArrayStride || a[i].StepMode != b[i].StepMode {
			return false
		}
		if len(a[i].Attributes) != len(b[i].Attributes) {
			return false
		}
		for j := range a[i].Attributes {
			if a[i].Attributes[j] != b[i].Attributes[j] {
				return false
			}
		}
	}
	return true
}
