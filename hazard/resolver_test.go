package hazard

import "testing"

// fakeResource implements Resource with fixed answers.
type fakeResource struct {
	meta     bool
	coherent bool
}

func (r *fakeResource) HasCompressedMetadata() bool { return r.meta }
func (r *fakeResource) IsCoherentAtRest(Range) bool { return r.coherent }

func TestResolveSrcColorWrite(t *testing.T) {
	bits := ResolveSrc(StageColorOutput, AccessColorWrite, nil, Range{})

	if bits&FlushColor == 0 {
		t.Error("color write should flush the color cache")
	}
	if bits&FlushColorMetadata == 0 {
		t.Error("nil resource must be treated as having compressed metadata")
	}
	if bits&InvL2 == 0 {
		t.Error("nil resource must be treated as not coherent at rest")
	}
}

func TestResolveSrcCoherentResourceSkipsL2(t *testing.T) {
	res := &fakeResource{meta: false, coherent: true}
	bits := ResolveSrc(StageComputeShader, AccessStorageWrite, res, Range{})

	if bits&WritebackL2 != 0 {
		t.Error("coherent resource should not need an L2 writeback")
	}
	if bits&InvL2Metadata != 0 {
		t.Error("resource without compressed metadata should not touch metadata bits")
	}
}

func TestResolveSrcNoHazard(t *testing.T) {
	// A pure read access on the source side implies no write to make visible.
	bits := ResolveSrc(StageFragmentShader, AccessSampledRead, nil, Range{})
	if bits != 0 {
		t.Errorf("ResolveSrc(read access) = %v, want none", bits)
	}
}

func TestResolveDstReads(t *testing.T) {
	tests := []struct {
		name   string
		access AccessFlags
		want   FlushBits
	}{
		{"vertex attribute", AccessVertexAttributeRead, InvVectorCache | InvL2},
		{"uniform", AccessUniformRead, InvVectorCache | InvScalarCache | InvL2},
		{"sampled", AccessSampledRead, InvVectorCache | InvL2 | InvL2Metadata},
		{"indirect", AccessIndirectRead, InvVectorCache | InvL2},
		{"color attachment", AccessColorRead, InvColor | FlushColorMetadata},
		{"depth attachment", AccessDepthRead, InvDepth | FlushDepthMetadata},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDst(StageAllGraphics, tt.access, nil, Range{})
			if got != tt.want {
				t.Errorf("ResolveDst(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveDstNoHazard(t *testing.T) {
	bits := ResolveDst(StageComputeShader, AccessColorWrite, nil, Range{})
	if bits != 0 {
		t.Errorf("ResolveDst(write access) = %v, want none", bits)
	}
}

func TestResolveDstCoherentSampledRead(t *testing.T) {
	res := &fakeResource{meta: false, coherent: true}
	bits := ResolveDst(StageFragmentShader, AccessSampledRead, res, Range{})

	if bits != InvVectorCache {
		t.Errorf("coherent, metadata-free sampled read = %v, want %v", bits, InvVectorCache)
	}
}

func TestStageFlush(t *testing.T) {
	tests := []struct {
		name   string
		stages StageFlags
		want   FlushBits
	}{
		{"none", 0, 0},
		{"vertex only", StageVertexShader, WaitGeometry},
		{"fragment", StageFragmentShader, WaitDraws | WaitGeometry},
		{"color output", StageColorOutput, WaitDraws | WaitGeometry},
		{"compute", StageComputeShader, WaitDispatches},
		{"task shader", StageTaskShader, WaitDispatches},
		{"all commands", StageAllCommands, WaitDraws | WaitGeometry | WaitDispatches},
		{"transfer", StageTransfer, WaitDraws | WaitDispatches},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StageFlush(tt.stages); got != tt.want {
				t.Errorf("StageFlush(%v) = %v, want %v", tt.stages, got, tt.want)
			}
		})
	}
}

func TestFlushBitsString(t *testing.T) {
	if got := FlushBits(0).String(); got != "none" {
		t.Errorf("FlushBits(0).String() = %q, want %q", got, "none")
	}
	got := (FlushColor | InvVectorCache).String()
	if got != "inv-vector|flush-color" {
		t.Errorf("String() = %q, want %q", got, "inv-vector|flush-color")
	}
}
