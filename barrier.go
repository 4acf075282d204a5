package cmdcore

import "github.com/gogpu/cmdcore/hazard"

// Barrier describes one execution and memory dependency. A nil Resource
// makes the barrier global: resolution assumes compressed metadata may be
// affected and no range is coherent at rest.
type Barrier struct {
	SrcStages hazard.StageFlags
	SrcAccess hazard.AccessFlags
	DstStages hazard.StageFlags
	DstAccess hazard.AccessFlags

	// Resource scopes the barrier to one buffer or image. Optional.
	Resource hazard.Resource
	// Range scopes the barrier within Resource. Ignored when Resource is nil.
	Range hazard.Range
}

// PipelineBarrier accumulates the cache maintenance for a set of barriers.
// Nothing is emitted here: the combined flush bits land in the pending set
// and are emitted once before the next draw, dispatch, or transition, so
// back-to-back barriers collapse into a single flush.
//
// Barriers whose destination includes the task stage arm the gang lane: the
// leader counter is bumped and the follower will wait for it before its next
// work. Symmetrically, a task-stage source makes the primary stream wait for
// the follower before the flush takes effect.
func (r *Recorder) PipelineBarrier(barriers ...Barrier) {
	if !r.recording() {
		return
	}

	var bits hazard.FlushBits
	var srcStages, dstStages hazard.StageFlags
	for _, b := range barriers {
		bits |= hazard.StageFlush(b.SrcStages)
		bits |= hazard.ResolveSrc(b.SrcStages, b.SrcAccess, b.Resource, b.Range)
		bits |= hazard.ResolveDst(b.DstStages, b.DstAccess, b.Resource, b.Range)
		srcStages |= b.SrcStages
		dstStages |= b.DstStages
	}
	r.pending.Accumulate(bits)

	if r.class != QueueClassGeneral {
		return
	}
	if dstStages&hazard.StageTaskShader != 0 {
		if err := r.gang.EnsureActive(); err != nil {
			r.fail(err)
			return
		}
		r.gang.BumpLeader()
		r.leaderWaitPending = true
	}
	if srcStages&hazard.StageTaskShader != 0 && r.gang.Active() {
		r.gang.BumpFollower()
		r.followerWaitPending = true
	}
}
