package archon

import "sync"

// chunkListPool is a bounded pool of reusable []*Chunk slices for
// PooledChunkIter, backed by sync.Pool's per-P caching.
var chunkListPool = sync.Pool{
	New: func() any {
		s := make([]*Chunk, 0, 16)
		return &s
	},
}

func getChunkList() *[]*Chunk {
	return chunkListPool.Get().(*[]*Chunk)
}

// putChunkList clears the slice before returning it to the pool and drops
// oversized slices instead of pooling them, so one unusually large query
// can't pin a large backing array in the pool forever.
func putChunkList(s *[]*Chunk) {
	if cap(*s) > 256 {
		return
	}
	*s = (*s)[:0]
	chunkListPool.Put(s)
}

// archetypeArrayPool backs small query results with a pool of reusable
// []*Archetype slices. GetMatching in archetype_index.go rents one as
// accumulation scratch during a cache miss, then copies the final match set
// into its own slice before caching it; the rented array never escapes past
// the rental, since the cached ArchetypeSet must own a backing array that
// outlives the rental.
var archetypeArrayPool = sync.Pool{
	New: func() any {
		s := make([]*Archetype, 0, 8)
		return &s
	},
}

func getArchetypeArray() *[]*Archetype {
	a := archetypeArrayPool.Get().(*[]*Archetype)
	*a = (*a)[:0]
	return a
}

func putArchetypeArray(a *[]*Archetype) {
	if cap(*a) > 64 {
		return
	}
	archetypeArrayPool.Put(a)
}

// signatureBitArrayPool pools scratch Signatures, since bitset.BitSet
// already grows its own backing words on demand. It backs
// invalidateOverlapping's per-cache-key scratch signatures
// (archetype_index.go), reconstructed from the cache key's raw words via
// Signature.setWords and discarded before the call returns. Clones
// (Signature.clone, used by every With/Without) never return their source
// to the pool: each call allocates a new bitset.BitSet via Clone, so there
// is no aliasing hazard there, unlike the mutable scratch signatures this
// pool hands out directly.
var signatureBitArrayPool = sync.Pool{
	New: func() any {
		return EmptySignature()
	},
}

// borrowSignature rents a zeroed Signature for scratch use (e.g. rebuilding
// a with/without filter from a cache key's raw words, as
// invalidateOverlapping does). Callers that let the Signature escape (store
// it, return it, hand it to GetOrCreate) MUST NOT call releaseSignature on
// it. Only scratch signatures that never leave the borrowing function may
// be returned.
func borrowSignature() Signature {
	return signatureBitArrayPool.Get().(Signature)
}

func releaseSignature(s Signature) {
	if s.bits == nil {
		return
	}
	s.bits.ClearAll()
	signatureBitArrayPool.Put(s)
}
