// Package cmdcore implements the recording core of a GPU command buffer.
//
// # Overview
//
// cmdcore sits between an API-level command layer and a hardware packet
// encoder. It tracks dynamic pipeline state, defers redundant register
// programming until a draw or dispatch actually needs it, resolves memory
// hazards into concrete cache maintenance, coordinates image metadata
// transitions, and synchronizes a secondary compute stream (the gang
// follower) with the primary stream through semaphore counters.
//
// # Quick Start
//
//	import "github.com/gogpu/cmdcore"
//
//	rec, err := cmdcore.NewRecorder(dev, cmdcore.QueueClassGeneral)
//	if err != nil { ... }
//
//	rec.Begin()
//	rec.SetViewports(vps)
//	rec.BindPipeline(pipeline)
//	rec.PipelineBarrier(barrier)
//	rec.Draw(3, 1)
//	if err := rec.End(); err != nil { ... }
//
// # Architecture
//
// The library is organized into:
//   - Public API: Recorder, Encoder, Device, Pipeline, Barrier
//   - dynstate: dirty-tracked dynamic state and the validation loop
//   - hazard: stage/access resolution into cache flush bits
//   - gang: leader/follower semaphore protocol for the compute companion stream
//   - transition: image layout transition planning (metadata operations)
//   - scratch: per-recording bump allocator for CPU-visible upload memory
//
// # Error Model
//
// Recording calls do not return errors individually. The first internal
// failure is latched; every subsequent call becomes a no-op and End reports
// the latched error. This mirrors how command buffers defer failure to
// submission time.
package cmdcore

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
