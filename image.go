package cmdcore

import (
	"errors"

	"github.com/gogpu/cmdcore/hazard"
	"github.com/gogpu/cmdcore/transition"
)

// Image is the recorder's view of a texture: enough to resolve hazards
// against it and to plan layout transitions for it.
type Image interface {
	hazard.Resource

	// TransitionInfo describes the image's format and metadata
	// capabilities for transition planning.
	TransitionInfo() transition.Info
}

// TransitionImage records a layout transition for a subresource range of
// img. The planner decides which metadata operations the transition needs;
// each operation runs with its own hazard resolution: prior producers are
// flushed before it executes, and its own writes are queued for the next
// consumer.
func (r *Recorder) TransitionImage(img Image, oldLayout, newLayout transition.Layout, oldQueues, newQueues transition.QueueMask, rng hazard.Range) {
	if !r.recording() {
		return
	}
	if img == nil {
		r.fail(errors.New("cmdcore: transition of nil image"))
		return
	}

	ops := transition.Plan(img.TransitionInfo(), oldLayout, newLayout, oldQueues, newQueues)
	if len(ops) == 0 {
		return
	}
	Logger().Debug("cmdcore: image transition",
		"oldLayout", oldLayout.String(),
		"newLayout", newLayout.String(),
		"ops", len(ops))

	for _, op := range ops {
		// Metadata ops read and rewrite compressed surface contents in
		// place. Everything written so far must be visible to the op.
		r.pending.Accumulate(hazard.StageFlush(hazard.StageAllCommands) |
			hazard.ResolveSrc(hazard.StageAllCommands, hazard.AccessMemoryWrite, img, rng))
		r.pending.Flush(r.primary)

		r.primary.EmitMetadataOp(op)

		// The op's own writes become the pending hazard for whatever
		// consumes the image next.
		r.pending.Accumulate(hazard.StageFlush(hazard.StageComputeShader) |
			hazard.ResolveSrc(hazard.StageComputeShader, hazard.AccessStorageWrite, img, rng))
	}
}
