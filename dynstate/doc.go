// Package dynstate caches the dynamic pipeline state of a recording and
// tracks what must be re-emitted before the next draw.
//
// Every state field carries a fine dirty bit; fields map many-to-one into
// a small set of coarse groups that the command-stream encoder can emit
// atomically. A field's fine bit is set exactly when its value changed
// since the field's group was last emitted; clearing a group clears all
// fine bits mapped into it.
//
// Two mutation paths exist with different dirtying policies:
//
//   - Setters (SetCullMode, SetViewports, ...) store the value and mark
//     it dirty unconditionally. The caller decides whether to compare
//     first.
//   - BindSnapshot copies masked fields from another State and marks only
//     the fields whose value actually differs, so binding the same
//     pipeline twice in a row emits nothing.
//
// Validate walks the groups in a fixed dependency order and re-checks
// until a fixed point, because emitting one group may derive values that
// dirty a later group. Derivations only flow forward, so the loop is
// bounded at two passes.
package dynstate
