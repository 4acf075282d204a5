// Package hazard resolves memory- and execution-hazards between GPU
// operations into cache maintenance bits.
//
// A barrier is resolved in two phases, mirroring the two halves of a
// memory dependency:
//
//   - ResolveSrc makes prior writes visible: it flushes the writer's
//     caches down to the rest level (the cache level below which all
//     agents agree on memory contents).
//   - ResolveDst makes visible writes available: it invalidates any
//     reader-side caches that might hold stale data from above the rest
//     level.
//
// Resolution is deliberately split from emission. Resolving is cheap and
// is called once per resource in a barrier; the resulting bits accumulate
// in a Pending set and are emitted as a single combined cache-flush
// command at the next synchronization point. Dozens of resource
// transitions inside one barrier therefore cost one hardware flush, not
// one per resource.
package hazard
