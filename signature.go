package archon

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// Signature is a compact bitset keyed by component-type id, backed by a
// real dynamically-sized bitset rather than a fixed-width word array.
//
// Signature is a value type: every mutating operation (With/Without)
// returns a new Signature and leaves the receiver untouched.
type Signature struct {
	bits *bitset.BitSet
}

// EmptySignature returns the signature with no bits set.
func EmptySignature() Signature {
	return Signature{bits: bitset.New(uint(MaxComponentTypes))}
}

// With returns a new signature equal to s with id set. Idempotent: calling
// With twice with the same id is equivalent to calling it once.
func (s Signature) With(id ComponentID) Signature {
	b := s.clone()
	b.bits.Set(uint(id))
	return b
}

// Without returns a new signature equal to s with id cleared. A no-op
// (returns an equal signature) when id was not set.
func (s Signature) Without(id ComponentID) Signature {
	b := s.clone()
	b.bits.Clear(uint(id))
	return b
}

// Has reports whether id is set in s.
func (s Signature) Has(id ComponentID) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(id))
}

// IsSupersetOf reports whether every bit set in other is also set in s.
func (s Signature) IsSupersetOf(other Signature) bool {
	if other.bits == nil || other.bits.Count() == 0 {
		return true
	}
	if s.bits == nil {
		return false
	}
	return s.bits.IsSuperSet(other.bits)
}

// HasIntersection reports whether s and other share any set bit.
func (s Signature) HasIntersection(other Signature) bool {
	if s.bits == nil || other.bits == nil {
		return false
	}
	return s.bits.IntersectionCardinality(other.bits) > 0
}

// Popcount returns the number of set bits.
func (s Signature) Popcount() uint32 {
	if s.bits == nil {
		return 0
	}
	return uint32(s.bits.Count())
}

// IntersectionCount returns the number of bits set in both s and other.
func (s Signature) IntersectionCount(other Signature) uint32 {
	if s.bits == nil || other.bits == nil {
		return 0
	}
	return uint32(s.bits.IntersectionCardinality(other.bits))
}

// Equal reports whether s and other have identical set bits.
func (s Signature) Equal(other Signature) bool {
	switch {
	case s.bits == nil && other.bits == nil:
		return true
	case s.bits == nil || other.bits == nil:
		return s.Popcount() == other.Popcount()
	default:
		return s.bits.Equal(other.bits)
	}
}

// Hash returns a hash that is a function of the set bits alone, never of
// the backing array's length: two signatures built from different starting
// capacities but the same bits hash identically.
func (s Signature) Hash() uint64 {
	if s.bits == nil {
		return 0
	}
	h := xxhash.New()
	var buf [4]byte
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		buf[0] = byte(i)
		buf[1] = byte(i >> 8)
		buf[2] = byte(i >> 16)
		buf[3] = byte(i >> 24)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Components returns the set bits as a sorted slice of ComponentID, used to
// build an archetype's deterministic component-type ordering.
func (s Signature) Components() []ComponentID {
	if s.bits == nil {
		return nil
	}
	ids := make([]ComponentID, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		ids = append(ids, ComponentID(i))
	}
	return ids
}

func (s Signature) clone() Signature {
	if s.bits == nil {
		return EmptySignature()
	}
	return Signature{bits: s.bits.Clone()}
}

// setWords overwrites s's bits in place to match w, for scratch signatures
// rented from the pool (see borrowSignature in pools.go) that never escape
// their borrowing function. Every other Signature mutator is copy-on-write;
// this one deliberately isn't, so it must stay unexported.
func (s Signature) setWords(w [4]uint64) {
	s.bits.ClearAll()
	for word := 0; word < 4; word++ {
		for bit := 0; bit < 64; bit++ {
			if w[word]&(1<<uint(bit)) != 0 {
				s.bits.Set(uint(word*64 + bit))
			}
		}
	}
}

// WithType folds T's component id into s via With. Exposed as a free
// function (not a method) because Go methods cannot introduce their own
// type parameters.
func WithType[T any](s Signature) Signature {
	return s.With(idOf[T]())
}

// WithoutType folds T's component id into s via Without.
func WithoutType[T any](s Signature) Signature {
	return s.Without(idOf[T]())
}

// HasType reports whether s has T's component id set.
func HasType[T any](s Signature) bool {
	id, ok := tryIDOf[T]()
	return ok && s.Has(id)
}
