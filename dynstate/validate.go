package dynstate

// EmitFunc emits one coarse group to the external encoder. It may read
// derived values produced by earlier groups and may re-dirty later groups
// via MarkGroupDirty; it must never dirty an earlier group.
type EmitFunc func(*State)

// GroupEntry pairs a group with its emit callback.
type GroupEntry struct {
	Group Group
	Emit  EmitFunc
}

// GroupTable is the ordered emission table for one recorder. Entries are
// iterated in the order given, which must match the groups' declared
// dependency order.
type GroupTable struct {
	entries []GroupEntry
	mask    GroupMask
}

// NewGroupTable builds a table from entries. A recorder registers only
// the groups its queue class supports; dirty bits of unregistered groups
// are ignored by Validate.
func NewGroupTable(entries []GroupEntry) *GroupTable {
	var mask GroupMask
	for _, e := range entries {
		mask |= e.Group.Bit()
	}
	return &GroupTable{entries: entries, mask: mask}
}

// maxValidatePasses bounds the fixed-point loop. Derivations only flow
// forward through the table, so one full pass plus one re-check suffices;
// the bound exists to turn an ordering bug into a stall-free miss rather
// than an infinite loop.
const maxValidatePasses = 2

// Validate emits every dirty group in table order, clearing each group's
// coarse bit and all fine bits mapped into it after its callback runs.
// Because a callback may re-dirty a later group, the table is re-walked
// until no registered group is dirty. Returns the number of groups
// emitted.
func (s *State) Validate(t *GroupTable) int {
	emitted := 0
	for pass := 0; pass < maxValidatePasses && s.groupDirty&t.mask != 0; pass++ {
		for _, e := range t.entries {
			if s.groupDirty&e.Group.Bit() == 0 {
				continue
			}
			if e.Emit != nil {
				e.Emit(s)
			}
			s.groupDirty &^= e.Group.Bit()
			s.fineDirty &^= FieldsOf(e.Group)
			emitted++
		}
	}
	return emitted
}
