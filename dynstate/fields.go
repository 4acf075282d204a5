package dynstate

// Field identifies one dynamic-state field. Each field owns one fine
// dirty bit and belongs to exactly one coarse Group.
type Field uint

// Dynamic-state fields.
const (
	FieldViewports Field = iota
	FieldScissors
	FieldLineWidth
	FieldDepthBias
	FieldBlendConstants
	FieldDepthBounds
	FieldStencilCompareMask
	FieldStencilWriteMask
	FieldStencilReference
	FieldCullMode
	FieldFrontFace
	FieldPrimitiveTopology
	FieldDepthTestEnable
	FieldDepthWriteEnable
	FieldDepthCompareOp
	FieldDepthBoundsTestEnable
	FieldStencilTestEnable
	FieldStencilOps
	FieldVertexInput
	FieldIndexBuffer
	FieldPrimitiveRestartEnable
	FieldRasterizerDiscardEnable
	FieldDepthBiasEnable
	FieldLogicOpEnable
	FieldLogicOp
	FieldColorWriteEnable
	FieldColorWriteMask
	FieldBlendEnable
	FieldBlendEquation
	FieldPolygonMode
	FieldRasterizationSamples
	FieldSampleMask
	FieldAlphaToCoverageEnable
	FieldAlphaToOneEnable
	FieldLineStippleEnable
	FieldLineStipple
	FieldLineRasterizationMode
	FieldDepthClampEnable
	FieldDepthClipEnable
	FieldConservativeRasterMode
	FieldProvokingVertexMode
	FieldTessellationDomainOrigin
	FieldPatchControlPoints
	FieldFragmentShadingRate
	FieldDiscardRectangles
	FieldSampleLocations
	FieldShaderConfig
	FieldPushConstants
	FieldDescriptorSets

	fieldCount
)

// FieldMask is a bitmask over fields.
type FieldMask uint64

// Bit returns the field's bit in a FieldMask.
func (f Field) Bit() FieldMask { return 1 << f }

// AllFields has every field bit set.
const AllFields = FieldMask(1)<<fieldCount - 1

// Group is a coarse dirty group: a cluster of fields the encoder emits as
// one atomic unit. The declaration order is the emission dependency
// order; later groups may consume values derived while emitting earlier
// ones.
type Group uint

// Coarse groups, in emission order.
const (
	// GroupShaders is the shader-stage configuration.
	GroupShaders Group = iota

	// GroupDescriptors is descriptor sets and push constants.
	GroupDescriptors

	// GroupRasterizer is cull/winding/polygon and line state.
	GroupRasterizer

	// GroupTopology is primitive assembly. Emitting it reclassifies the
	// output primitive, which GroupViewport consumes.
	GroupTopology

	// GroupDepthStencil is the depth and stencil test configuration.
	GroupDepthStencil

	// GroupBlend is blending, logic ops and color write state.
	GroupBlend

	// GroupVertexInput is vertex fetch layout and index-buffer binding.
	GroupVertexInput

	// GroupViewport is viewports, scissors and the derived guard band.
	GroupViewport

	groupCount
)

// GroupMask is a bitmask over groups.
type GroupMask uint32

// Bit returns the group's bit in a GroupMask.
func (g Group) Bit() GroupMask { return 1 << g }

// AllGroups has every group bit set.
const AllGroups = GroupMask(1)<<groupCount - 1

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupShaders:
		return "shaders"
	case GroupDescriptors:
		return "descriptors"
	case GroupRasterizer:
		return "rasterizer"
	case GroupTopology:
		return "topology"
	case GroupDepthStencil:
		return "depth-stencil"
	case GroupBlend:
		return "blend"
	case GroupVertexInput:
		return "vertex-input"
	case GroupViewport:
		return "viewport"
	default:
		return "unknown"
	}
}

// fieldGroups maps every field to its coarse group.
var fieldGroups = [fieldCount]Group{
	FieldViewports:                GroupViewport,
	FieldScissors:                 GroupViewport,
	FieldLineWidth:                GroupRasterizer,
	FieldDepthBias:                GroupRasterizer,
	FieldBlendConstants:           GroupBlend,
	FieldDepthBounds:              GroupDepthStencil,
	FieldStencilCompareMask:       GroupDepthStencil,
	FieldStencilWriteMask:         GroupDepthStencil,
	FieldStencilReference:         GroupDepthStencil,
	FieldCullMode:                 GroupRasterizer,
	FieldFrontFace:                GroupRasterizer,
	FieldPrimitiveTopology:        GroupTopology,
	FieldDepthTestEnable:          GroupDepthStencil,
	FieldDepthWriteEnable:         GroupDepthStencil,
	FieldDepthCompareOp:           GroupDepthStencil,
	FieldDepthBoundsTestEnable:    GroupDepthStencil,
	FieldStencilTestEnable:        GroupDepthStencil,
	FieldStencilOps:               GroupDepthStencil,
	FieldVertexInput:              GroupVertexInput,
	FieldIndexBuffer:              GroupVertexInput,
	FieldPrimitiveRestartEnable:   GroupTopology,
	FieldRasterizerDiscardEnable:  GroupRasterizer,
	FieldDepthBiasEnable:          GroupRasterizer,
	FieldLogicOpEnable:            GroupBlend,
	FieldLogicOp:                  GroupBlend,
	FieldColorWriteEnable:         GroupBlend,
	FieldColorWriteMask:           GroupBlend,
	FieldBlendEnable:              GroupBlend,
	FieldBlendEquation:            GroupBlend,
	FieldPolygonMode:              GroupRasterizer,
	FieldRasterizationSamples:     GroupRasterizer,
	FieldSampleMask:               GroupRasterizer,
	FieldAlphaToCoverageEnable:    GroupBlend,
	FieldAlphaToOneEnable:         GroupBlend,
	FieldLineStippleEnable:        GroupRasterizer,
	FieldLineStipple:              GroupRasterizer,
	FieldLineRasterizationMode:    GroupRasterizer,
	FieldDepthClampEnable:         GroupRasterizer,
	FieldDepthClipEnable:          GroupRasterizer,
	FieldConservativeRasterMode:   GroupRasterizer,
	FieldProvokingVertexMode:      GroupRasterizer,
	FieldTessellationDomainOrigin: GroupTopology,
	FieldPatchControlPoints:       GroupTopology,
	FieldFragmentShadingRate:      GroupRasterizer,
	FieldDiscardRectangles:        GroupViewport,
	FieldSampleLocations:          GroupDepthStencil,
	FieldShaderConfig:             GroupShaders,
	FieldPushConstants:            GroupDescriptors,
	FieldDescriptorSets:           GroupDescriptors,
}

// GroupOf returns the coarse group a field belongs to.
func GroupOf(f Field) Group {
	return fieldGroups[f]
}

// groupFields[g] is the mask of all fine bits mapped into group g,
// precomputed so clearing a group clears its fields in one AND.
var groupFields = func() [groupCount]FieldMask {
	var m [groupCount]FieldMask
	for f := Field(0); f < fieldCount; f++ {
		m[fieldGroups[f]] |= f.Bit()
	}
	return m
}()

// FieldsOf returns the mask of fields mapped into the group.
func FieldsOf(g Group) FieldMask {
	return groupFields[g]
}
