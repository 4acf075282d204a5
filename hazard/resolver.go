package hazard

// Range identifies a byte range of a resource. The zero value means the
// whole resource.
type Range struct {
	Offset uint64
	Size   uint64
}

// Resource exposes the per-resource capabilities the resolver consults.
// Implementations live in the resource model; the resolver only asks
// questions, it never mutates.
//
// A nil Resource means "any/unknown resource": metadata-specific bits are
// emitted and the coherency optimization is disabled, which is the
// conservative default.
type Resource interface {
	// HasCompressedMetadata reports whether the resource carries
	// compressed metadata (delta color compression, hierarchical depth)
	// that has its own cache footprint.
	HasCompressedMetadata() bool

	// IsCoherentAtRest reports whether the given range is coherent at the
	// rest level, making the generic L2 maintenance bits unnecessary.
	// This is a per-generation policy supplied by the resource model, not
	// core logic.
	IsCoherentAtRest(r Range) bool
}

// ResolveSrc computes the visibility half of a barrier: the cache
// writebacks needed so that writes performed by the given stages and
// access kinds reach the rest level.
//
// An access/stage combination with no known hazard yields zero bits.
func ResolveSrc(stages StageFlags, access AccessFlags, res Resource, rng Range) FlushBits {
	hasMeta := res == nil || res.HasCompressedMetadata()
	coherent := res != nil && res.IsCoherentAtRest(rng)

	var bits FlushBits

	if access&(AccessStorageWrite|AccessTransferWrite|AccessMemoryWrite) != 0 {
		if !coherent {
			bits |= WritebackL2
		}
		if hasMeta {
			bits |= InvL2Metadata
		}
	}
	if access&(AccessColorWrite|AccessMemoryWrite) != 0 {
		bits |= FlushColor
		if hasMeta {
			bits |= FlushColorMetadata
		}
		if !coherent {
			bits |= InvL2
		}
	}
	if access&(AccessDepthWrite|AccessMemoryWrite) != 0 {
		bits |= FlushDepth
		if hasMeta {
			bits |= FlushDepthMetadata
		}
		if !coherent {
			bits |= InvL2
		}
	}

	_ = stages // write visibility depends on the access kind, not the stage
	return bits
}

// ResolveDst computes the availability half of a barrier: the cache
// invalidates needed so that the given stages observe all writes that are
// visible at the rest level.
//
// An access/stage combination with no known hazard yields zero bits.
func ResolveDst(stages StageFlags, access AccessFlags, res Resource, rng Range) FlushBits {
	hasMeta := res == nil || res.HasCompressedMetadata()
	coherent := res != nil && res.IsCoherentAtRest(rng)

	var bits FlushBits

	if access&(AccessIndirectRead|AccessIndexRead|AccessVertexAttributeRead|AccessMemoryRead) != 0 {
		bits |= InvVectorCache
		if !coherent {
			bits |= InvL2
		}
	}
	if access&(AccessUniformRead|AccessMemoryRead) != 0 {
		bits |= InvVectorCache | InvScalarCache
		if !coherent {
			bits |= InvL2
		}
	}
	if access&(AccessSampledRead|AccessStorageRead|AccessMemoryRead) != 0 {
		bits |= InvVectorCache
		if hasMeta {
			bits |= InvL2Metadata
		}
		if !coherent {
			bits |= InvL2
		}
	}
	if access&(AccessColorRead|AccessMemoryRead) != 0 {
		bits |= InvColor
		if hasMeta {
			bits |= FlushColorMetadata
		}
	}
	if access&(AccessDepthRead|AccessMemoryRead) != 0 {
		bits |= InvDepth
		if hasMeta {
			bits |= FlushDepthMetadata
		}
	}
	if access&(AccessTransferRead|AccessMemoryRead) != 0 {
		bits |= InvVectorCache
		if !coherent {
			bits |= InvL2
		}
	}

	_ = stages // read availability depends on the access kind, not the stage
	return bits
}

// StageFlush computes the engine-synchronization bits required before the
// effects of the given source stages can be considered complete: a write
// is not even flushable until the work that produces it has retired.
func StageFlush(srcStages StageFlags) FlushBits {
	var bits FlushBits

	if srcStages&StageAllCommands != 0 {
		return WaitDraws | WaitGeometry | WaitDispatches
	}
	if srcStages&stageAnyFragment != 0 || srcStages&StageAllGraphics != 0 {
		bits |= WaitDraws | WaitGeometry
	} else if srcStages&stageAnyPreRaster != 0 || srcStages&StageDrawIndirect != 0 {
		bits |= WaitGeometry
	}
	if srcStages&(StageComputeShader|StageTaskShader) != 0 {
		bits |= WaitDispatches
	}
	if srcStages&StageTransfer != 0 {
		bits |= WaitDraws | WaitDispatches
	}
	return bits
}
