package scratch

import (
	"errors"
	"fmt"

	types "github.com/gogpu/gputypes"
)

// Allocation size constants.
const (
	// MinBackingSize is the smallest backing buffer the allocator creates.
	MinBackingSize = 16 * 1024

	// cacheLine is the size the allocator opportunistically aligns to.
	cacheLine = 64
)

// ErrBadAlignment is returned when the requested alignment is not a power
// of two.
var ErrBadAlignment = errors.New("scratch: alignment must be a power of two")

// Backing is one device-visible upload buffer. Implementations are
// provided by the device layer.
type Backing interface {
	// VA returns the buffer's device-virtual base address.
	VA() uint64

	// Bytes returns the CPU mapping of the whole buffer.
	Bytes() []byte

	// Release frees the buffer. The allocator calls it only once it is
	// certain no recorded command can still reference the buffer.
	Release()
}

// Memory creates upload buffers on behalf of the allocator.
type Memory interface {
	// AllocateUpload creates a CPU-mappable, device-readable buffer of at
	// least the given size with the given usage.
	AllocateUpload(size uint64, usage types.BufferUsage) (Backing, error)
}

// Allocation is the result of a successful Alloc call.
type Allocation struct {
	// VA is the device-virtual address of the allocation.
	VA uint64

	// Offset is the byte offset within the backing buffer.
	Offset uint64

	// Data is the CPU mapping of exactly the allocated bytes.
	Data []byte
}

// Stats reports cumulative allocator behavior for debug logging.
type Stats struct {
	// BytesAllocated is the total payload bytes handed out.
	BytesAllocated uint64

	// BytesWasted is the total padding bytes skipped for alignment.
	BytesWasted uint64

	// Grows is the number of backing-buffer replacements.
	Grows int
}

// Allocator is a bump allocator over a growable upload buffer.
//
// Allocator is not safe for concurrent use; it is owned by a single
// recorder, which is itself single-threaded.
type Allocator struct {
	mem   Memory
	usage types.BufferUsage

	current Backing
	size    uint64
	offset  uint64

	// retired holds superseded backings until Reset or Destroy. Commands
	// already recorded may still read them.
	retired []Backing

	stats Stats
}

// New creates an allocator that obtains backing buffers from mem with the
// given usage. No buffer is created until the first Alloc.
func New(mem Memory, usage types.BufferUsage) *Allocator {
	if usage == 0 {
		usage = types.BufferUsageMapWrite | types.BufferUsageCopySrc
	}
	return &Allocator{mem: mem, usage: usage}
}

// Alloc reserves size bytes aligned to align (a power of two; zero means
// byte alignment). On success the returned Allocation stays valid until
// the allocator is destroyed.
//
// Failure to grow the backing buffer is fatal to the recording; callers
// must latch the error and stop recording.
func (a *Allocator) Alloc(size, align uint64) (Allocation, error) {
	if align&(align-1) != 0 {
		return Allocation{}, ErrBadAlignment
	}
	if align == 0 {
		align = 1
	}

	off := (a.offset + align - 1) &^ (align - 1)

	// Bump to the next cache line when the allocation's tail would
	// otherwise spill into an extra line. This trades at most line-1
	// padding bytes for one fewer line touched.
	if gap := (cacheLine - off%cacheLine) % cacheLine; gap != 0 && size%cacheLine > gap {
		off += gap
	}

	if a.current == nil || off+size > a.size {
		if err := a.grow(size); err != nil {
			return Allocation{}, err
		}
		// A fresh backing starts at offset zero, which satisfies every
		// power-of-two alignment.
		off = 0
	}

	a.stats.BytesWasted += off - a.offset
	a.stats.BytesAllocated += size
	a.offset = off + size

	return Allocation{
		VA:     a.current.VA() + off,
		Offset: off,
		Data:   a.current.Bytes()[off : off+size : off+size],
	}, nil
}

// grow replaces the current backing with one large enough for size bytes.
// The old backing is retired, not freed.
func (a *Allocator) grow(size uint64) error {
	newSize := a.size * 2
	if newSize < MinBackingSize {
		newSize = MinBackingSize
	}
	if newSize < size {
		newSize = size
	}

	b, err := a.mem.AllocateUpload(newSize, a.usage)
	if err != nil {
		return fmt.Errorf("scratch: grow to %d bytes: %w", newSize, err)
	}

	if a.current != nil {
		a.retired = append(a.retired, a.current)
		a.stats.Grows++
	}
	a.current = b
	a.size = newSize
	a.offset = 0
	return nil
}

// Reset prepares the allocator for a new recording. Retired backings are
// released; the current one is kept, since successive recordings tend to
// use about the same amount of scratch space.
func (a *Allocator) Reset() {
	for _, b := range a.retired {
		b.Release()
	}
	a.retired = a.retired[:0]
	a.offset = 0
}

// Destroy releases every backing buffer, current and retired. The
// allocator must not be used afterwards.
func (a *Allocator) Destroy() {
	for _, b := range a.retired {
		b.Release()
	}
	a.retired = nil
	if a.current != nil {
		a.current.Release()
		a.current = nil
	}
	a.size = 0
	a.offset = 0
}

// Stats returns cumulative allocation statistics.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// BackingSize returns the size of the current backing buffer, zero if none
// has been created yet.
func (a *Allocator) BackingSize() uint64 {
	return a.size
}

// RetiredCount returns the number of superseded backings awaiting release.
func (a *Allocator) RetiredCount() int {
	return len(a.retired)
}
