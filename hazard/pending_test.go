package hazard

import "testing"

// recordingFlusher counts EmitCacheFlush calls and records the bits.
type recordingFlusher struct {
	calls int
	bits  []FlushBits
}

func (f *recordingFlusher) EmitCacheFlush(bits FlushBits) {
	f.calls++
	f.bits = append(f.bits, bits)
}

func TestPendingBatchesIntoOneFlush(t *testing.T) {
	var p Pending
	inputs := []FlushBits{FlushColor, InvVectorCache, FlushColor | InvL2, WaitDraws}

	var want FlushBits
	for _, in := range inputs {
		p.Accumulate(in)
		want |= in
	}

	var enc recordingFlusher
	p.Flush(&enc)

	if enc.calls != 1 {
		t.Fatalf("Flush emitted %d cache-flush calls, want 1", enc.calls)
	}
	if enc.bits[0] != want {
		t.Errorf("flushed bits = %v, want %v", enc.bits[0], want)
	}
	if p.Bits() != 0 {
		t.Errorf("pending bits after flush = %v, want none", p.Bits())
	}
}

func TestPendingFlushEmptyEmitsNothing(t *testing.T) {
	var p Pending
	var enc recordingFlusher

	p.Flush(&enc)
	if enc.calls != 0 {
		t.Errorf("empty flush emitted %d calls, want 0", enc.calls)
	}
}

func TestPendingRestartsAfterFlush(t *testing.T) {
	var p Pending
	var enc recordingFlusher

	p.Accumulate(FlushColor)
	p.Flush(&enc)

	p.Accumulate(InvDepth)
	if p.Bits() != InvDepth {
		t.Errorf("bits after restart = %v, want %v", p.Bits(), InvDepth)
	}

	p.Flush(&enc)
	if enc.calls != 2 {
		t.Fatalf("total flush calls = %d, want 2", enc.calls)
	}
	if enc.bits[1] != InvDepth {
		t.Errorf("second flush = %v, want %v", enc.bits[1], InvDepth)
	}
}

func TestPendingReset(t *testing.T) {
	var p Pending
	p.Accumulate(FlushColor | WaitDraws)
	p.Reset()

	var enc recordingFlusher
	p.Flush(&enc)
	if enc.calls != 0 {
		t.Errorf("flush after reset emitted %d calls, want 0", enc.calls)
	}
}
