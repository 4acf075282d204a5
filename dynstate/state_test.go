package dynstate

import (
	"testing"

	"github.com/gogpu/gputypes"
)

// drain clears the initial mark-all dirt so tests observe only their own
// mutations.
func drain(s *State) {
	var entries []GroupEntry
	for g := Group(0); g < groupCount; g++ {
		entries = append(entries, GroupEntry{Group: g})
	}
	s.Validate(NewGroupTable(entries))
}

func TestNewStateStartsFullyDirty(t *testing.T) {
	s := New()
	if s.FineDirty() != AllFields {
		t.Errorf("FineDirty() = %#x, want all fields", s.FineDirty())
	}
	if s.GroupDirty() != AllGroups {
		t.Errorf("GroupDirty() = %#x, want all groups", s.GroupDirty())
	}
}

func TestSetFieldMarksFineAndCoarse(t *testing.T) {
	s := New()
	drain(s)

	s.SetCullMode(gputypes.CullModeNone) // same as default: setters do not compare
	if !s.IsFieldDirty(FieldCullMode) {
		t.Error("SetCullMode must mark the fine bit even for an equal value")
	}
	if !s.IsGroupDirty(GroupRasterizer) {
		t.Error("SetCullMode must mark the rasterizer group")
	}
	if s.IsGroupDirty(GroupViewport) {
		t.Error("SetCullMode must not mark unrelated groups")
	}
}

func TestSetStencilOpsMarksDepthStencilGroup(t *testing.T) {
	s := New()
	drain(s)

	s.SetStencilOps(StencilFacePair[StencilOpState]{
		Front: StencilOpState{
			FailOp:      gputypes.StencilOperationKeep,
			PassOp:      gputypes.StencilOperationReplace,
			DepthFailOp: gputypes.StencilOperationIncrementWrap,
			CompareOp:   gputypes.CompareFunctionAlways,
		},
		Back: StencilOpState{
			FailOp:      gputypes.StencilOperationZero,
			PassOp:      gputypes.StencilOperationInvert,
			DepthFailOp: gputypes.StencilOperationDecrementClamp,
			CompareOp:   gputypes.CompareFunctionNever,
		},
	})
	if !s.IsFieldDirty(FieldStencilOps) {
		t.Error("SetStencilOps must mark the fine bit")
	}
	if !s.IsGroupDirty(GroupDepthStencil) {
		t.Error("SetStencilOps must mark the depth/stencil group")
	}
	if s.IsGroupDirty(GroupRasterizer) {
		t.Error("SetStencilOps must not mark unrelated groups")
	}
}

func TestValidateClearsGroupAndFineBits(t *testing.T) {
	s := New()
	drain(s)

	s.SetLineWidth(2)
	s.SetFrontFace(s.frontFace + 1)

	var emitted []Group
	table := NewGroupTable([]GroupEntry{
		{Group: GroupRasterizer, Emit: func(*State) { emitted = append(emitted, GroupRasterizer) }},
		{Group: GroupViewport, Emit: func(*State) { emitted = append(emitted, GroupViewport) }},
	})

	if n := s.Validate(table); n != 1 {
		t.Fatalf("Validate emitted %d groups, want 1", n)
	}
	if len(emitted) != 1 || emitted[0] != GroupRasterizer {
		t.Fatalf("emitted %v, want [rasterizer]", emitted)
	}
	if s.IsFieldDirty(FieldLineWidth) || s.IsFieldDirty(FieldFrontFace) {
		t.Error("clearing a group must clear all fine bits mapped into it")
	}

	// Idempotence: nothing changed, nothing emits.
	if n := s.Validate(table); n != 0 {
		t.Errorf("second Validate emitted %d groups, want 0", n)
	}
}

func TestValidateEmitsInDeclaredOrder(t *testing.T) {
	s := New()

	var order []Group
	var entries []GroupEntry
	for g := Group(0); g < groupCount; g++ {
		group := g
		entries = append(entries, GroupEntry{Group: group, Emit: func(*State) {
			order = append(order, group)
		}})
	}
	s.Validate(NewGroupTable(entries))

	if len(order) != int(groupCount) {
		t.Fatalf("emitted %d groups, want %d", len(order), groupCount)
	}
	for i, g := range order {
		if g != Group(i) {
			t.Fatalf("emission order %v violates declaration order", order)
		}
	}
}

func TestCrossGroupDerivationConverges(t *testing.T) {
	s := New()
	drain(s)

	var order []Group
	table := NewGroupTable([]GroupEntry{
		{Group: GroupTopology, Emit: func(st *State) {
			order = append(order, GroupTopology)
			st.ReclassifyPrimitive()
		}},
		{Group: GroupViewport, Emit: func(*State) {
			order = append(order, GroupViewport)
		}},
	})

	// Switching to a point topology changes the primitive class, which
	// the topology emit derives, re-dirtying the viewport group.
	s.SetPrimitiveTopology(gputypes.PrimitiveTopologyPointList)
	n := s.Validate(table)

	if n != 2 {
		t.Fatalf("Validate emitted %d groups, want topology plus derived viewport", n)
	}
	if order[0] != GroupTopology || order[1] != GroupViewport {
		t.Fatalf("emission order %v, want [topology viewport]", order)
	}
	if s.PrimClass() != PrimClassPoint {
		t.Errorf("PrimClass() = %v, want point", s.PrimClass())
	}

	// Same topology again: the class is stable, no viewport roll.
	order = nil
	s.SetPrimitiveTopology(gputypes.PrimitiveTopologyPointList)
	n = s.Validate(table)
	if n != 1 || len(order) != 1 || order[0] != GroupTopology {
		t.Errorf("stable class re-emitted %v (%d groups), want topology only", order, n)
	}
}

func TestUnregisteredGroupsAreIgnored(t *testing.T) {
	s := New()
	drain(s)

	s.SetViewports([]Viewport{{Width: 64, Height: 64, MaxDepth: 1}})
	s.SetPushConstants(0, []byte{1, 2, 3, 4})

	// A compute-style table without the viewport group.
	calls := 0
	table := NewGroupTable([]GroupEntry{
		{Group: GroupDescriptors, Emit: func(*State) { calls++ }},
	})

	if n := s.Validate(table); n != 1 || calls != 1 {
		t.Fatalf("Validate = %d (calls %d), want descriptor group only", n, calls)
	}
	if !s.IsGroupDirty(GroupViewport) {
		t.Error("unregistered dirty group must stay dirty for a later table")
	}
}

func TestBindSnapshotComparesBeforeDirtying(t *testing.T) {
	s := New()
	drain(s)

	src := New()
	src.SetCullMode(gputypes.CullModeNone + 1)
	src.SetLineWidth(3)
	src.SetDepthCompareOp(gputypes.CompareFunctionNotEqual)
	src.SetShaderConfig(ShaderConfig{StageMask: 0x7, ConfigHash: 0xabc})

	mask := FieldCullMode.Bit() | FieldLineWidth.Bit() | FieldDepthCompareOp.Bit() | FieldShaderConfig.Bit()

	changed := s.BindSnapshot(src, mask)
	if changed != mask {
		t.Fatalf("first bind changed %#x, want %#x", changed, mask)
	}
	if s.FineDirty()&mask != mask {
		t.Error("first bind must dirty every differing field")
	}

	drain(s)

	// Binding the identical snapshot again is a no-op.
	if changed := s.BindSnapshot(src, mask); changed != 0 {
		t.Errorf("second bind changed %#x, want 0", changed)
	}
	if s.GroupDirty() != 0 {
		t.Errorf("second bind dirtied groups %#x, want none", s.GroupDirty())
	}
}

func TestBindSnapshotVertexInput(t *testing.T) {
	s := New()
	drain(s)

	layout := []gputypes.VertexBufferLayout{{
		ArrayStride: 16,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
		},
	}}

	src := New()
	src.SetVertexInput(layout)

	if changed := s.BindSnapshot(src, FieldVertexInput.Bit()); changed == 0 {
		t.Fatal("new vertex layout must register as changed")
	}
	drain(s)
	if changed := s.BindSnapshot(src, FieldVertexInput.Bit()); changed != 0 {
		t.Error("identical vertex layout must compare equal")
	}

	// The cache must hold its own copy.
	layout[0].Attributes[0].ShaderLocation = 9
	if s.VertexInput()[0].Attributes[0].ShaderLocation == 9 {
		t.Error("vertex layout was not cloned into the cache")
	}
}

func TestPushConstants(t *testing.T) {
	s := New()
	drain(s)

	s.SetPushConstants(4, []byte{0xAA, 0xBB})
	if !s.IsFieldDirty(FieldPushConstants) || !s.IsGroupDirty(GroupDescriptors) {
		t.Error("push-constant write must dirty the descriptor group")
	}
	data := s.PushConstantData()
	if len(data) != 6 || data[4] != 0xAA || data[5] != 0xBB {
		t.Errorf("PushConstantData() = % x, want 6 bytes ending AA BB", data)
	}

	// Out-of-range writes are clamped, not panics.
	s.SetPushConstants(MaxPushConstantBytes, []byte{1})
	s.SetPushConstants(MaxPushConstantBytes-1, []byte{1, 2, 3})
	if got := len(s.PushConstantData()); got != MaxPushConstantBytes {
		t.Errorf("clamped write produced %d bytes, want %d", got, MaxPushConstantBytes)
	}
}

func TestResetRestoresDefaultsAndDirtiesAll(t *testing.T) {
	s := New()
	drain(s)
	s.SetLineWidth(7)

	s.Reset()
	if s.lineWidth != 1 {
		t.Errorf("lineWidth after reset = %v, want 1", s.lineWidth)
	}
	if s.GroupDirty() != AllGroups {
		t.Error("reset must mark every group dirty")
	}
}

func TestFieldGroupMappingIsTotal(t *testing.T) {
	var seen FieldMask
	for g := Group(0); g < groupCount; g++ {
		seen |= FieldsOf(g)
	}
	if seen != AllFields {
		t.Errorf("union of group fields = %#x, want %#x", seen, AllFields)
	}
	for f := Field(0); f < fieldCount; f++ {
		if FieldsOf(GroupOf(f))&f.Bit() == 0 {
			t.Errorf("field %d missing from its own group %v", f, GroupOf(f))
		}
	}
}
