package gang

import "fmt"

// Stream is the slice of the command-stream encoder the synchronizer
// needs: writing a counter value to a semaphore slot, and blocking until a
// slot reaches a value.
type Stream interface {
	// EmitSignal records a command that writes value to the semaphore
	// slot at va.
	EmitSignal(va uint64, value uint32)

	// EmitWait records a command that blocks the stream until the
	// semaphore slot at va is >= value.
	EmitWait(va uint64, value uint32)
}

// Resources creates the gang lane's backing objects on first use.
type Resources interface {
	// CreateGangStream creates the secondary compute stream.
	CreateGangStream() (Stream, error)

	// AllocSemaphorePair allocates 8 device-visible bytes for the two
	// semaphore slots and returns their device address and CPU mapping.
	// The memory must stay valid for the lifetime of the recording.
	AllocSemaphorePair() (va uint64, data []byte, err error)
}

// Lifecycle states of a Synchronizer within one recording.
const (
	stateIdle = iota
	stateActive
	stateFinalized
)

// Synchronizer manages the gang lane and the two-counter rendezvous
// protocol between it and the primary stream.
//
// The protocol guarantee: the follower never executes work that depends on
// leader-side results before the leader has signaled the counter value the
// follower waits on, and symmetrically for the leader. Counters only
// increase during a recording.
//
// Synchronizer is not safe for concurrent use.
type Synchronizer struct {
	res Resources

	state int

	// gangStream and the semaphore pair survive Reset so a reused
	// recorder does not reallocate them.
	gangStream Stream
	semVA      uint64
	semMem     []byte

	leader   uint32
	follower uint32

	emittedLeader   uint32
	emittedFollower uint32
}

// New creates an inactive synchronizer. Nothing is allocated until
// EnsureActive.
func New(res Resources) *Synchronizer {
	return &Synchronizer{res: res}
}

// Active reports whether the gang lane has been created for the current
// recording.
func (s *Synchronizer) Active() bool {
	return s.state == stateActive
}

// GangStream returns the secondary stream, or nil before activation.
func (s *Synchronizer) GangStream() Stream {
	if s.state != stateActive {
		return nil
	}
	return s.gangStream
}

// EnsureActive lazily creates the secondary stream and the semaphore pair.
// It is idempotent. Allocation failure is fatal to the recording and is
// returned for the caller to latch.
func (s *Synchronizer) EnsureActive() error {
	if s.state == stateActive {
		return nil
	}
	if s.state == stateFinalized {
		return fmt.Errorf("gang: synchronizer used after finalize")
	}

	if s.gangStream == nil {
		cs, err := s.res.CreateGangStream()
		if err != nil {
			return fmt.Errorf("gang: create secondary stream: %w", err)
		}
		s.gangStream = cs
	}
	if s.semMem == nil {
		va, mem, err := s.res.AllocSemaphorePair()
		if err != nil {
			return fmt.Errorf("gang: allocate semaphore pair: %w", err)
		}
		if len(mem) < 8 {
			return fmt.Errorf("gang: semaphore pair needs 8 bytes, got %d", len(mem))
		}
		clear(mem[:8])
		s.semVA = va
		s.semMem = mem
	}
	s.state = stateActive
	return nil
}

// leaderVA and followerVA are the two 4-byte slots of the pair.
func (s *Synchronizer) leaderVA() uint64   { return s.semVA }
func (s *Synchronizer) followerVA() uint64 { return s.semVA + 4 }

// BumpLeader increments the leader counter and returns the new value.
// The new value becomes observable to the follower only after
// FlushLeaderSignal.
func (s *Synchronizer) BumpLeader() uint32 {
	s.leader++
	return s.leader
}

// BumpFollower increments the follower counter and returns the new value.
func (s *Synchronizer) BumpFollower() uint32 {
	s.follower++
	return s.follower
}

// LeaderValue returns the current leader counter.
func (s *Synchronizer) LeaderValue() uint32 { return s.leader }

// FollowerValue returns the current follower counter.
func (s *Synchronizer) FollowerValue() uint32 { return s.follower }

// FlushLeaderSignal emits a signal of the leader counter on the primary
// stream if it has advanced since the last emitted signal.
func (s *Synchronizer) FlushLeaderSignal(primary Stream) {
	if s.state != stateActive || s.leader == s.emittedLeader {
		return
	}
	primary.EmitSignal(s.leaderVA(), s.leader)
	s.emittedLeader = s.leader
}

// FlushFollowerSignal emits a signal of the follower counter on the gang
// stream if it has advanced since the last emitted signal.
func (s *Synchronizer) FlushFollowerSignal() {
	if s.state != stateActive || s.follower == s.emittedFollower {
		return
	}
	s.gangStream.EmitSignal(s.followerVA(), s.follower)
	s.emittedFollower = s.follower
}

// WaitForLeader makes the gang stream block until the leader has signaled
// its current counter value. The matching signal is flushed first so the
// wait can always be satisfied.
func (s *Synchronizer) WaitForLeader(primary Stream) {
	if s.state != stateActive || s.leader == 0 {
		return
	}
	s.FlushLeaderSignal(primary)
	s.gangStream.EmitWait(s.leaderVA(), s.leader)
}

// WaitForFollower makes the primary stream block until the follower has
// signaled its current counter value.
func (s *Synchronizer) WaitForFollower(primary Stream) {
	if s.state != stateActive || s.follower == 0 {
		return
	}
	s.FlushFollowerSignal()
	primary.EmitWait(s.followerVA(), s.follower)
}

// Finalize ends the recording's use of the gang lane: outstanding signals
// are flushed, the primary stream drains the follower counter, and then
// the primary zeroes both semaphore slots so a replayed or re-submitted
// recording starts from a clean rendezvous state. Zeroing both slots from
// the primary keeps the reset ordered after every wait that could still
// sample the follower slot.
func (s *Synchronizer) Finalize(primary Stream) {
	if s.state != stateActive {
		return
	}
	s.FlushLeaderSignal(primary)
	s.FlushFollowerSignal()
	if s.follower > 0 {
		primary.EmitWait(s.followerVA(), s.follower)
	}
	primary.EmitSignal(s.leaderVA(), 0)
	primary.EmitSignal(s.followerVA(), 0)
	s.state = stateFinalized
}

// Reset prepares the synchronizer for a new recording. The secondary
// stream is kept; the semaphore pair is released back to its allocator's
// lifetime and re-acquired on the next EnsureActive, since per-recording
// upload memory is recycled between recordings.
func (s *Synchronizer) Reset() {
	s.leader = 0
	s.follower = 0
	s.emittedLeader = 0
	s.emittedFollower = 0
	s.semVA = 0
	s.semMem = nil
	s.state = stateIdle
}
