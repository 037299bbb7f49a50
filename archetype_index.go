package archon

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kamstrup/intmap"
)

// ArchetypeSet is the result of resolving a (with, without) query against
// the ArchetypeIndex: the archetypes whose signature satisfies the filter,
// in archetype-insertion order. It is cached by value identity, not by
// content equality: two resolutions of the same unchanged query return the
// exact same *ArchetypeSet.
type ArchetypeSet struct {
	archetypes []*Archetype
}

// Archetypes returns the matching archetypes.
func (s *ArchetypeSet) Archetypes() []*Archetype { return s.archetypes }

// queryCacheKey is (with, without, world generation): the with/without
// signatures are stored as their literal bit words (4 x uint64, since
// MaxComponentTypes fixes the bound) rather than as a hash, so the key
// stays comparable (usable as a map/LRU key) without giving up the ability
// to re-derive the actual signatures for selective invalidation.
type queryCacheKey struct {
	with, without [4]uint64
	generation    uint32
}

func (s Signature) words() [4]uint64 {
	var w [4]uint64
	if s.bits == nil {
		return w
	}
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		w[i/64] |= 1 << (i % 64)
	}
	return w
}

// maxQueryCacheEntries bounds the query cache; golang-lru's own eviction
// policy enforces it so the cache can never grow unbounded.
const maxQueryCacheEntries = 100

// ArchetypeIndex is the registry of all archetypes plus a query-result
// cache keyed by (with, without, generation): a signature-hash bucket for
// archetype identity/lookup, and an LRU-backed cache for GetMatching.
type ArchetypeIndex struct {
	all             []*Archetype
	bucket          *intmap.Map[uint64, []*Archetype]
	cache           *lru.Cache[queryCacheKey, *ArchetypeSet]
	worldGen        uint32
	nextArchetypeID ArchetypeID
	chunkCapacity   int

	hits, misses, invalidations uint64
}

// NewArchetypeIndex returns an empty index. chunkCapacity is forwarded to
// every archetype it creates.
func NewArchetypeIndex(chunkCapacity int) *ArchetypeIndex {
	cache, err := lru.New[queryCacheKey, *ArchetypeSet](maxQueryCacheEntries)
	if err != nil {
		panic(err)
	}
	return &ArchetypeIndex{
		bucket:        intmap.New[uint64, []*Archetype](16),
		cache:         cache,
		chunkCapacity: chunkCapacity,
	}
}

// GetOrCreate returns the archetype for sig, creating it (and bumping the
// world generation) if it doesn't exist yet. Two calls with signatures
// built by inserting the same component types in different orders resolve
// to the same archetype object, because Signature equality depends only on
// set bits.
func (idx *ArchetypeIndex) GetOrCreate(sig Signature) *Archetype {
	hash := sig.Hash()
	if bucket, ok := idx.bucket.Get(hash); ok {
		for _, a := range bucket {
			if a.signature.Equal(sig) {
				return a
			}
		}
	}

	a := newArchetype(idx.nextArchetypeID, sig, idx.chunkCapacity)
	idx.nextArchetypeID++
	idx.addArchetype(a, hash)
	return a
}

func (idx *ArchetypeIndex) addArchetype(a *Archetype, hash uint64) {
	idx.all = append(idx.all, a)
	bucket, _ := idx.bucket.Get(hash)
	idx.bucket.Put(hash, append(bucket, a))
	idx.worldGen++
	idx.invalidateOverlapping(a.signature)
}

// invalidateOverlapping evicts the cache entries whose with/without
// overlaps the new archetype's signature, counting each as an
// invalidation. Every cache key is versioned by worldGen, so the bump in
// addArchetype has already made all earlier entries unreachable (full
// invalidation); entries that do not overlap are not evicted here and stay
// in the LRU until its own eviction drops them.
func (idx *ArchetypeIndex) invalidateOverlapping(newSig Signature) {
	with := borrowSignature()
	without := borrowSignature()
	defer releaseSignature(with)
	defer releaseSignature(without)

	for _, key := range idx.cache.Keys() {
		with.setWords(key.with)
		without.setWords(key.without)
		if with.HasIntersection(newSig) || without.HasIntersection(newSig) {
			if idx.cache.Remove(key) {
				idx.invalidations++
			}
		}
	}
}

// GetMatching resolves (with, without) against the current archetype set,
// using the query cache keyed by (with, without, current generation). On a
// miss it falls back to the bitwise definition, optionally short-circuited
// by the bloom-filter "might have" pre-check; the bitwise test is always
// authoritative.
func (idx *ArchetypeIndex) GetMatching(with, without Signature) *ArchetypeSet {
	key := queryCacheKey{with: with.words(), without: without.words(), generation: idx.worldGen}
	if cached, ok := idx.cache.Get(key); ok {
		idx.hits++
		return cached
	}
	idx.misses++

	withIDs := with.Components()
	withoutIDs := without.Components()

	// scratch accumulates the match set; the cached ArchetypeSet needs its
	// own backing array (it outlives this call), so the scratch slice is
	// copied out and returned to the pool rather than adopted directly.
	scratch := getArchetypeArray()
	defer putArchetypeArray(scratch)
	for _, a := range idx.all {
		if !bloomMightMatch(a, withIDs, withoutIDs) {
			continue
		}
		if a.signature.IsSupersetOf(with) && !a.signature.HasIntersection(without) {
			*scratch = append(*scratch, a)
		}
	}

	matched := append([]*Archetype(nil), (*scratch)...)
	set := &ArchetypeSet{archetypes: matched}
	idx.cache.Add(key, set)
	return set
}

// bloomMightMatch short-circuits via the archetype's bloom summary before
// the authoritative bitwise test runs. False positives fall through to the
// bitwise test; bloom filters never produce false negatives, so this can
// only skip work, never correctness.
func bloomMightMatch(a *Archetype, with, without []ComponentID) bool {
	for _, id := range with {
		if !a.MightHave(id) {
			return false
		}
	}
	_ = without // bloom summaries only accelerate the positive (with) side; an
	// exclude hit is still just "might have", not "definitely has", so it
	// cannot reject on its own without risking a false negative on without.
	return true
}

// IndexMetrics is a snapshot of the index's cache hit/miss/invalidation
// counters, current size, hit rate, and generation.
type IndexMetrics struct {
	Hits          uint64
	Misses        uint64
	Invalidations uint64
	Size          int
	HitRate       float64
	Generation    uint32
}

// Metrics returns the current hit/miss/invalidation counters, cache size,
// hit rate, and generation.
func (idx *ArchetypeIndex) Metrics() IndexMetrics {
	total := idx.hits + idx.misses
	var rate float64
	if total > 0 {
		rate = float64(idx.hits) / float64(total)
	}
	return IndexMetrics{
		Hits:          idx.hits,
		Misses:        idx.misses,
		Invalidations: idx.invalidations,
		Size:          idx.cache.Len(),
		HitRate:       rate,
		Generation:    idx.worldGen,
	}
}

// All returns every archetype the index has created, in insertion order.
func (idx *ArchetypeIndex) All() []*Archetype { return idx.all }

// ArchetypeByID returns the archetype with the given id. Ids are assigned
// sequentially starting at 0 (the empty archetype), so this is a direct
// slice index, not a search.
func (idx *ArchetypeIndex) ArchetypeByID(id ArchetypeID) *Archetype {
	if int(id) < 0 || int(id) >= len(idx.all) {
		return nil
	}
	return idx.all[id]
}
