package cmdcore

import (
	"github.com/gogpu/cmdcore/dynstate"
	"github.com/gogpu/cmdcore/internal/pipecache"
)

// Pipeline is a baked pipeline state object. Static holds the field values
// decided at pipeline build time; StaticFields names which of them the
// pipeline owns. Fields outside StaticFields stay dynamic and keep whatever
// the application last set on the recorder.
//
// A Pipeline is immutable after construction and may be bound to any number
// of recorders concurrently.
type Pipeline struct {
	// Static is the state snapshot baked into the pipeline.
	Static *dynstate.State

	// StaticFields selects which fields of Static the pipeline owns.
	StaticFields dynstate.FieldMask

	// Compute marks a compute-only pipeline. Compute pipelines may be bound
	// on general and compute recorders; graphics pipelines require general.
	Compute bool
}

// NewGraphicsPipeline bakes a graphics pipeline from a state snapshot.
// The shader configuration is always pipeline-owned.
func NewGraphicsPipeline(static *dynstate.State, staticFields dynstate.FieldMask) *Pipeline {
	return &Pipeline{
		Static:       static,
		StaticFields: staticFields | dynstate.FieldShaderConfig.Bit(),
	}
}

// NewComputePipeline bakes a compute pipeline. Only the shader configuration
// and push constant layout carry over; rasterizer fields are ignored.
func NewComputePipeline(static *dynstate.State) *Pipeline {
	return &Pipeline{
		Static:       static,
		StaticFields: dynstate.FieldShaderConfig.Bit(),
		Compute:      true,
	}
}

// PipelineCache deduplicates baked pipelines by configuration hash, so hot
// paths that re-derive the same pipeline state reuse one immutable object
// instead of re-baking it. Safe for concurrent use from multiple recorders.
type PipelineCache struct {
	cache *pipecache.Cache[*Pipeline]
}

// NewPipelineCache creates a cache holding up to capacity pipelines per
// internal shard. capacity <= 0 selects a default.
func NewPipelineCache(capacity int) *PipelineCache {
	return &PipelineCache{cache: pipecache.New[*Pipeline](capacity)}
}

// GetOrBake returns the pipeline for hash, invoking bake on first use.
// The hash must cover every input that shapes the baked state.
func (pc *PipelineCache) GetOrBake(hash uint64, bake func() *Pipeline) *Pipeline {
	return pc.cache.GetOrCreate(hash, bake)
}

// Stats returns hit/miss/eviction counters.
func (pc *PipelineCache) Stats() pipecache.Stats {
	return pc.cache.Stats()
}
