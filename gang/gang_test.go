package gang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamOp records one emitted semaphore command.
type streamOp struct {
	kind  string // "signal" or "wait"
	va    uint64
	value uint32
}

// fakeStream records semaphore commands in order.
type fakeStream struct {
	ops []streamOp
}

func (s *fakeStream) EmitSignal(va uint64, value uint32) {
	s.ops = append(s.ops, streamOp{"signal", va, value})
}

func (s *fakeStream) EmitWait(va uint64, value uint32) {
	s.ops = append(s.ops, streamOp{"wait", va, value})
}

// fakeResources provides a gang stream and an 8-byte semaphore pair.
type fakeResources struct {
	gangStream *fakeStream
	semVA      uint64
	failStream bool
	failSem    bool
	created    int
}

var errNoMem = errors.New("device: allocation failed")

func (r *fakeResources) CreateGangStream() (Stream, error) {
	if r.failStream {
		return nil, errNoMem
	}
	r.created++
	r.gangStream = &fakeStream{}
	return r.gangStream, nil
}

func (r *fakeResources) AllocSemaphorePair() (uint64, []byte, error) {
	if r.failSem {
		return 0, nil, errNoMem
	}
	if r.semVA == 0 {
		r.semVA = 0x4000
	}
	return r.semVA, make([]byte, 8), nil
}

func newActive(t *testing.T) (*Synchronizer, *fakeResources) {
	t.Helper()
	res := &fakeResources{}
	s := New(res)
	require.NoError(t, s.EnsureActive())
	return s, res
}

func TestEnsureActiveIdempotent(t *testing.T) {
	s, res := newActive(t)
	require.NoError(t, s.EnsureActive())
	assert.Equal(t, 1, res.created, "secondary stream must be created once")
	assert.True(t, s.Active())
	assert.NotNil(t, s.GangStream())
}

func TestEnsureActiveFailures(t *testing.T) {
	s := New(&fakeResources{failStream: true})
	err := s.EnsureActive()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoMem)

	s = New(&fakeResources{failSem: true})
	err = s.EnsureActive()
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoMem)
}

func TestLeaderSignalMonotonic(t *testing.T) {
	s, res := newActive(t)
	primary := &fakeStream{}

	var lastWaited uint32
	for i := 0; i < 5; i++ {
		v := s.BumpLeader()
		assert.Equal(t, uint32(i+1), v, "leader counter must increase by one")

		s.WaitForLeader(primary)

		// The wait on the follower side always names the most recent
		// bumped value and never decreases.
		waits := filterOps(res.gangStream.ops, "wait")
		got := waits[len(waits)-1].value
		assert.Equal(t, v, got)
		assert.GreaterOrEqual(t, got, lastWaited)
		lastWaited = got
	}

	// One signal per distinct value, all on the leader slot.
	signals := filterOps(primary.ops, "signal")
	require.Len(t, signals, 5)
	for i, op := range signals {
		assert.Equal(t, res.semVA, op.va)
		assert.Equal(t, uint32(i+1), op.value)
	}
}

func TestFlushLeaderSignalSkipsWhenUnchanged(t *testing.T) {
	s, _ := newActive(t)
	primary := &fakeStream{}

	s.BumpLeader()
	s.FlushLeaderSignal(primary)
	s.FlushLeaderSignal(primary)
	assert.Len(t, primary.ops, 1, "unchanged counter must not re-signal")

	s.BumpLeader()
	s.FlushLeaderSignal(primary)
	assert.Len(t, primary.ops, 2)
}

func TestFollowerProtocolUsesOtherStream(t *testing.T) {
	s, res := newActive(t)
	primary := &fakeStream{}

	s.BumpFollower()
	s.WaitForFollower(primary)

	// Signal goes on the gang stream, wait on the primary stream, both
	// addressing the follower slot.
	signals := filterOps(res.gangStream.ops, "signal")
	require.Len(t, signals, 1)
	assert.Equal(t, res.semVA+4, signals[0].va)

	waits := filterOps(primary.ops, "wait")
	require.Len(t, waits, 1)
	assert.Equal(t, res.semVA+4, waits[0].va)
	assert.Equal(t, uint32(1), waits[0].value)
}

func TestWaitWithoutBumpIsNoop(t *testing.T) {
	s, res := newActive(t)
	primary := &fakeStream{}

	s.WaitForLeader(primary)
	s.WaitForFollower(primary)
	assert.Empty(t, primary.ops)
	assert.Empty(t, res.gangStream.ops)
}

func TestFinalizeZeroesBothSlots(t *testing.T) {
	s, res := newActive(t)
	primary := &fakeStream{}

	s.BumpLeader()
	s.BumpFollower()
	s.Finalize(primary)

	pWaits := filterOps(primary.ops, "wait")
	require.NotEmpty(t, pWaits)
	assert.Equal(t, res.semVA+4, pWaits[len(pWaits)-1].va)
	assert.Equal(t, uint32(1), pWaits[len(pWaits)-1].value,
		"finalize must drain the follower counter before zeroing")

	pSignals := filterOps(primary.ops, "signal")
	require.GreaterOrEqual(t, len(pSignals), 2)
	leaderZero := pSignals[len(pSignals)-2]
	followerZero := pSignals[len(pSignals)-1]
	assert.Equal(t, res.semVA, leaderZero.va)
	assert.Zero(t, leaderZero.value, "finalize must reset the leader slot to zero")
	assert.Equal(t, res.semVA+4, followerZero.va)
	assert.Zero(t, followerZero.value, "finalize must reset the follower slot to zero")

	gSignals := filterOps(res.gangStream.ops, "signal")
	require.NotEmpty(t, gSignals)
	last := gSignals[len(gSignals)-1]
	assert.Equal(t, res.semVA+4, last.va)
	assert.Equal(t, uint32(1), last.value,
		"the gang stream only publishes its counter; the primary owns the reset")

	assert.False(t, s.Active())
	require.Error(t, s.EnsureActive(), "a finalized synchronizer cannot reactivate")
}

func TestResetKeepsStreamAndClearsCounters(t *testing.T) {
	s, res := newActive(t)
	primary := &fakeStream{}

	s.BumpLeader()
	s.Finalize(primary)
	s.Reset()

	require.NoError(t, s.EnsureActive())
	assert.Equal(t, 1, res.created, "reset must keep the secondary stream")
	assert.Zero(t, s.LeaderValue())
	assert.Zero(t, s.FollowerValue())
}

func filterOps(ops []streamOp, kind string) []streamOp {
	var out []streamOp
	for _, op := range ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}
