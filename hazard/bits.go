package hazard

import "strings"

// FlushBits is a bitmask over the cache domains and engine-synchronization
// events a recording can request. Bits accumulate in a Pending set and are
// consumed atomically by a single cache-flush command.
type FlushBits uint32

const (
	// InvScalarCache invalidates the read-only scalar/constant cache.
	InvScalarCache FlushBits = 1 << iota

	// InvVectorCache invalidates the read-only vector/texture cache.
	InvVectorCache

	// InvL2 invalidates the unified L2 cache.
	InvL2

	// WritebackL2 writes dirty L2 lines back to memory without
	// invalidating them.
	WritebackL2

	// InvL2Metadata invalidates the L2 view of compressed-metadata
	// surfaces. Only meaningful for resources that carry compressed
	// metadata.
	InvL2Metadata

	// FlushColor writes back the color cache.
	FlushColor

	// InvColor invalidates the color cache.
	InvColor

	// FlushColorMetadata writes back the color-compression metadata cache.
	FlushColorMetadata

	// FlushDepth writes back the depth cache.
	FlushDepth

	// InvDepth invalidates the depth cache.
	InvDepth

	// FlushDepthMetadata writes back the depth-compression metadata cache.
	FlushDepthMetadata

	// WaitDraws blocks until all prior fragment work has retired.
	WaitDraws

	// WaitGeometry blocks until all prior pre-rasterization work has
	// retired.
	WaitGeometry

	// WaitDispatches blocks until all prior compute dispatches have
	// retired.
	WaitDispatches
)

var flushBitNames = []struct {
	bit  FlushBits
	name string
}{
	{InvScalarCache, "inv-scalar"},
	{InvVectorCache, "inv-vector"},
	{InvL2, "inv-l2"},
	{WritebackL2, "wb-l2"},
	{InvL2Metadata, "inv-l2-metadata"},
	{FlushColor, "flush-color"},
	{InvColor, "inv-color"},
	{FlushColorMetadata, "flush-color-metadata"},
	{FlushDepth, "flush-depth"},
	{InvDepth, "inv-depth"},
	{FlushDepthMetadata, "flush-depth-metadata"},
	{WaitDraws, "wait-draws"},
	{WaitGeometry, "wait-geometry"},
	{WaitDispatches, "wait-dispatches"},
}

// String returns a "|"-separated list of set bit names, or "none".
func (b FlushBits) String() string {
	if b == 0 {
		return "none"
	}
	var parts []string
	for _, e := range flushBitNames {
		if b&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// StageFlags identifies pipeline stages on either side of a barrier.
type StageFlags uint32

const (
	// StageDrawIndirect reads indirect command arguments.
	StageDrawIndirect StageFlags = 1 << iota

	// StageVertexInput fetches index and vertex buffers.
	StageVertexInput

	// StageVertexShader covers vertex, tessellation and geometry shading.
	StageVertexShader

	// StageTaskShader is the auxiliary compute-style task stage that runs
	// on the gang lane.
	StageTaskShader

	// StageMeshShader produces primitives from task-shader output.
	StageMeshShader

	// StageFragmentShader shades fragments.
	StageFragmentShader

	// StageColorOutput writes color attachments, including blending.
	StageColorOutput

	// StageDepthStencil performs early and late depth/stencil tests.
	StageDepthStencil

	// StageComputeShader executes compute dispatches.
	StageComputeShader

	// StageTransfer executes copy and fill operations.
	StageTransfer

	// StageAllGraphics covers every graphics stage.
	StageAllGraphics

	// StageAllCommands covers every stage on the queue.
	StageAllCommands
)

const (
	stageAnyGraphics = StageDrawIndirect | StageVertexInput | StageVertexShader |
		StageTaskShader | StageMeshShader | StageFragmentShader |
		StageColorOutput | StageDepthStencil | StageAllGraphics

	stageAnyPreRaster = StageVertexInput | StageVertexShader | StageMeshShader

	stageAnyFragment = StageFragmentShader | StageColorOutput | StageDepthStencil
)

// AccessFlags identifies the kinds of memory access a stage performs.
type AccessFlags uint32

const (
	// AccessIndirectRead reads indirect draw/dispatch arguments.
	AccessIndirectRead AccessFlags = 1 << iota

	// AccessIndexRead reads the bound index buffer.
	AccessIndexRead

	// AccessVertexAttributeRead reads vertex buffers.
	AccessVertexAttributeRead

	// AccessUniformRead reads uniform buffers.
	AccessUniformRead

	// AccessSampledRead reads sampled images or uniform texel buffers.
	AccessSampledRead

	// AccessStorageRead reads storage buffers or images.
	AccessStorageRead

	// AccessStorageWrite writes storage buffers or images.
	AccessStorageWrite

	// AccessColorRead reads a color attachment (blending, logic ops).
	AccessColorRead

	// AccessColorWrite writes a color attachment.
	AccessColorWrite

	// AccessDepthRead reads a depth/stencil attachment.
	AccessDepthRead

	// AccessDepthWrite writes a depth/stencil attachment.
	AccessDepthWrite

	// AccessTransferRead reads via the transfer engine.
	AccessTransferRead

	// AccessTransferWrite writes via the transfer engine.
	AccessTransferWrite

	// AccessMemoryRead is the catch-all read access.
	AccessMemoryRead

	// AccessMemoryWrite is the catch-all write access.
	AccessMemoryWrite
)
