package archon

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
)

type sigCompA struct{ V int }
type sigCompB struct{ V int }
type sigCompC struct{ V int }

func TestSignatureAlgebra(t *testing.T) {
	idA := idOf[sigCompA]()
	idB := idOf[sigCompB]()

	s := EmptySignature().With(idA)
	assert.True(t, s.Without(idA).With(idA).Equal(s.With(idA)), "add(remove(S,T),T) == add(S,T)")

	assert.True(t, s.IsSupersetOf(EmptySignature()))
	assert.False(t, s.HasIntersection(EmptySignature()))

	withB := s.With(idB)
	assert.True(t, withB.IsSupersetOf(s))
	assert.True(t, withB.HasIntersection(s))
}

func TestSignatureIdempotentWith(t *testing.T) {
	id := idOf[sigCompA]()
	s := EmptySignature().With(id)
	s2 := s.With(id)
	assert.True(t, s.Equal(s2))
	assert.Equal(t, uint32(1), s2.Popcount())
}

func TestSignatureRemoveNoOpWhenAbsent(t *testing.T) {
	id := idOf[sigCompB]()
	s := EmptySignature()
	removed := s.Without(id)
	assert.True(t, s.Equal(removed))
}

func TestSignatureOrderIndependence(t *testing.T) {
	idA := idOf[sigCompA]()
	idB := idOf[sigCompB]()
	idC := idOf[sigCompC]()

	s1 := EmptySignature().With(idA).With(idB).With(idC)
	s2 := EmptySignature().With(idC).With(idA).With(idB)

	assert.True(t, s1.Equal(s2))
	assert.Equal(t, s1.Hash(), s2.Hash())
}

func TestSignatureHashIndependentOfBackingCapacity(t *testing.T) {
	id := idOf[sigCompA]()
	fresh := EmptySignature().With(id)

	// Same set bit, but backed by a bitset four times the default length:
	// the backing array's length differs but the set bits don't, so the
	// hash must match.
	grown := Signature{bits: bitset.New(4 * MaxComponentTypes)}.With(id)

	assert.Equal(t, fresh.Hash(), grown.Hash())
}

func TestSignatureComponentsSorted(t *testing.T) {
	idA := idOf[sigCompA]()
	idB := idOf[sigCompB]()
	idC := idOf[sigCompC]()

	s := EmptySignature().With(idC).With(idA).With(idB)
	ids := s.Components()
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestSignatureIntersectionCount(t *testing.T) {
	idA := idOf[sigCompA]()
	idB := idOf[sigCompB]()
	idC := idOf[sigCompC]()

	s1 := EmptySignature().With(idA).With(idB)
	s2 := EmptySignature().With(idB).With(idC)
	assert.Equal(t, uint32(1), s1.IntersectionCount(s2))
}
