package hazard

// CacheFlusher is the single encoder capability the Pending set needs:
// turning one combined bitmask into one hardware cache-flush command.
type CacheFlusher interface {
	EmitCacheFlush(bits FlushBits)
}

// Pending accumulates flush bits between synchronization points.
//
// Accumulate never emits; Flush emits everything accumulated so far as
// one encoder call and clears the set atomically. The accumulator is
// never partially applied.
type Pending struct {
	bits FlushBits
}

// Accumulate ORs the given bits into the pending set.
func (p *Pending) Accumulate(bits FlushBits) {
	p.bits |= bits
}

// Bits returns the currently pending bits without emitting them.
func (p *Pending) Bits() FlushBits {
	return p.bits
}

// Flush emits the pending bits as a single cache-flush command and clears
// the set. If nothing is pending, no command is emitted.
func (p *Pending) Flush(enc CacheFlusher) {
	if p.bits == 0 {
		return
	}
	enc.EmitCacheFlush(p.bits)
	p.bits = 0
}

// Reset discards any pending bits without emitting them. Used when a
// recording is reset or abandoned.
func (p *Pending) Reset() {
	p.bits = 0
}
