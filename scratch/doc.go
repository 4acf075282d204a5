// Package scratch implements a growable bump allocator over device-visible
// upload memory.
//
// A recording writes transient CPU-produced data (push constants,
// descriptor payloads, semaphore storage) into scratch space that the GPU
// reads later. Allocation is a pointer bump in the common case; when the
// current backing buffer is exhausted, a larger one is created and the old
// one is retired rather than freed, because commands already recorded
// against it may still be read by in-flight device work. Retired backings
// are released when the owning recorder is reset or destroyed.
package scratch
