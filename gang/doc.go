// Package gang synchronizes the primary command stream with an optional
// secondary compute stream (the "gang lane") that executes concurrently on
// the device.
//
// Ordering between the two lanes is enforced only through a pair of
// 4-byte semaphore slots and two monotonically increasing counters, one
// per lane. A lane publishes progress by writing its counter to its slot;
// the other lane blocks until the slot reaches a required value. Counters
// never decrease during one recording, so no wraparound handling is
// needed; when a recording finalizes, both slots are reset to zero so a
// re-submitted command buffer starts from a clean rendezvous state.
//
// The leader is the primary (graphics-capable) lane; the follower is the
// gang compute lane.
package gang
