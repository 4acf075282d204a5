package cmdcore

import "fmt"

// preDraw runs the fixed pre-command sequence for graphics work: validate
// dirty state groups, emit deferred gang waits, flush accumulated cache
// maintenance, and reserve packet space. The ordering matters: waits must
// land before the flush so the flush covers the follower's writes, and the
// flush must land before the command it protects.
func (r *Recorder) preDraw() bool {
	if !r.recording() {
		return false
	}
	if r.class != QueueClassGeneral {
		r.fail(fmt.Errorf("draw on %s queue: %w", r.class, ErrWrongQueueClass))
		return false
	}
	if r.pipeline == nil || r.pipeline.Compute {
		r.fail(fmt.Errorf("draw: %w", ErrNoPipeline))
		return false
	}
	r.state.Validate(r.drawTable)
	if r.err != nil {
		// An emit callback latched (scratch exhaustion during push
		// constant upload).
		return false
	}
	r.flushGangWaits()
	r.pending.Flush(r.primary)
	if err := r.primary.ReserveSpace(drawReserveBytes); err != nil {
		r.fail(fmt.Errorf("reserve draw space: %w", err))
		return false
	}
	return true
}

func (r *Recorder) preDispatch() bool {
	if !r.recording() {
		return false
	}
	if r.class != QueueClassGeneral && r.class != QueueClassCompute {
		r.fail(fmt.Errorf("dispatch on %s queue: %w", r.class, ErrWrongQueueClass))
		return false
	}
	if r.pipeline == nil || !r.pipeline.Compute {
		r.fail(fmt.Errorf("dispatch: %w", ErrNoPipeline))
		return false
	}
	r.state.Validate(r.dispatchTable)
	if r.err != nil {
		return false
	}
	r.flushGangWaits()
	r.pending.Flush(r.primary)
	if err := r.primary.ReserveSpace(dispatchReserveBytes); err != nil {
		r.fail(fmt.Errorf("reserve dispatch space: %w", err))
		return false
	}
	return true
}

// flushGangWaits emits the rendezvous waits deferred by earlier barriers.
func (r *Recorder) flushGangWaits() {
	if !r.gang.Active() {
		return
	}
	if r.leaderWaitPending {
		r.gang.WaitForLeader(r.primary)
		r.leaderWaitPending = false
	}
	if r.followerWaitPending {
		r.gang.WaitForFollower(r.primary)
		r.followerWaitPending = false
	}
}

// Draw records a non-indexed draw.
func (r *Recorder) Draw(vertexCount, instanceCount uint32) {
	if !r.preDraw() {
		return
	}
	r.primary.EmitDraw(vertexCount, instanceCount)
}

// DrawIndexed records an indexed draw using the bound index buffer.
func (r *Recorder) DrawIndexed(indexCount, instanceCount uint32) {
	if !r.preDraw() {
		return
	}
	ib := r.state.IndexBuffer()
	if ib.Size == 0 {
		r.fail(ErrNoIndexBuffer)
		return
	}
	r.primary.EmitDrawIndexed(indexCount, instanceCount, ib.VA)
}

// DrawMeshTasks records a task+mesh draw. The task stage runs on the gang
// follower stream; the mesh draw on the primary stream consumes its payload,
// so the two streams rendezvous around this command: the follower waits for
// the leader's current position before dispatching, and the leader waits for
// the follower's result before drawing.
func (r *Recorder) DrawMeshTasks(x, y, z uint32) {
	if !r.recording() {
		return
	}
	if r.class != QueueClassGeneral {
		r.fail(fmt.Errorf("mesh tasks draw on %s queue: %w", r.class, ErrWrongQueueClass))
		return
	}
	if r.pipeline == nil || r.pipeline.Compute || !r.state.ShaderConfig().UsesTask {
		r.fail(fmt.Errorf("mesh tasks draw without a task shader pipeline: %w", ErrNoPipeline))
		return
	}
	if err := r.gang.EnsureActive(); err != nil {
		r.fail(err)
		return
	}
	if !r.preDraw() {
		return
	}

	r.gang.BumpLeader()
	r.gang.WaitForLeader(r.primary)
	r.gangEnc.EmitDispatch(x, y, z)

	r.gang.BumpFollower()
	r.gang.WaitForFollower(r.primary)
	r.primary.EmitDrawMeshTasks(x, y, z)
}

// Dispatch records a compute dispatch on the primary stream. Only the
// compute-visible state groups are validated; graphics state stays dirty
// until the next draw.
func (r *Recorder) Dispatch(x, y, z uint32) {
	if !r.preDispatch() {
		return
	}
	r.primary.EmitDispatch(x, y, z)
}
