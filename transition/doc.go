// Package transition plans the metadata operations an image needs when it
// moves between layouts or queue families.
//
// Compressed images carry auxiliary metadata (a compression buffer, a
// fast-clear predicate, an auxiliary sample buffer) whose state must match
// what the destination layout and queues can consume. Plan maps one
// (capabilities, old layout, new layout, queue masks) request to an
// ordered list of zero to four MetadataOps: initialize, decompress,
// eliminate-fast-clear, expand, retile. Plans are ephemeral; the caller
// executes the ops in order, wrapping each in its own hazard
// resolve/flush, since every op is a GPU-side read-modify-write of
// metadata.
package transition
