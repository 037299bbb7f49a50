package archon

import (
	"math/bits"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
)

// ArchetypeID identifies an archetype. 0 is reserved for the empty
// archetype.
type ArchetypeID uint64

// Archetype is the set of entities sharing exactly one set of component
// types, and the owner of their column storage. The World exclusively owns
// all archetypes; an Archetype exclusively owns its Chunks.
type Archetype struct {
	id             ArchetypeID
	signature      Signature
	componentTypes []ComponentID
	chunks         []*Chunk
	bloom          *bloom.BloomFilter
	chunkCapacity  int
	chunkShift     uint
	chunkMask      int
	emptyCount     int // entity count when componentTypes is empty (no chunk storage)
}

func newArchetype(id ArchetypeID, sig Signature, chunkCapacity int) *Archetype {
	if chunkCapacity&(chunkCapacity-1) != 0 {
		panic("archon: chunk capacity must be a power of two")
	}
	types := orderComponentTypes(sig.Components())
	a := &Archetype{
		id:             id,
		signature:      sig,
		componentTypes: types,
		chunkCapacity:  chunkCapacity,
		chunkShift:     uint(bits.TrailingZeros(uint(chunkCapacity))),
		chunkMask:      chunkCapacity - 1,
	}
	a.bloom = bloom.NewWithEstimates(uint(max(len(types), 1)), 0.01)
	for _, t := range types {
		a.bloom.Add(componentIDBytes(t))
	}
	return a
}

func componentIDBytes(id ComponentID) []byte {
	return []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)}
}

// ID returns the archetype's stable identity.
func (a *Archetype) ID() ArchetypeID { return a.id }

// Signature returns the archetype's component-type signature.
func (a *Archetype) Signature() Signature { return a.signature }

// ComponentTypes returns the archetype's deterministic component-type
// ordering.
func (a *Archetype) ComponentTypes() []ComponentID { return a.componentTypes }

// Chunks returns a read view of the archetype's chunks, in insertion order.
// Iterating over empty chunks is the caller's responsibility to skip; the
// query enumerator (query.go) is the one place that must only yield
// non-empty chunks.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// MightHave is the bloom-filter "might have" pre-check: false positives are
// permitted, false negatives are forbidden.
func (a *Archetype) MightHave(id ComponentID) bool {
	return a.bloom.Test(componentIDBytes(id))
}

// EntityCount returns the number of entities currently in the archetype,
// whether or not it has chunk storage.
func (a *Archetype) EntityCount() int {
	if len(a.componentTypes) == 0 {
		return a.emptyCount
	}
	n := 0
	for _, c := range a.chunks {
		n += c.count
	}
	return n
}

// AddEntity appends e to the first chunk with free space, allocating a new
// chunk if none has space, and returns the resulting global row. The empty
// archetype (no components) skips chunk storage entirely and always
// reports row 0, since every entity there is interchangeable from the
// storage layer's point of view.
func (a *Archetype) AddEntity(e Entity) (int, error) {
	if len(a.componentTypes) == 0 {
		a.emptyCount++
		return 0, nil
	}
	for ci, c := range a.chunks {
		if !c.Full() {
			local, err := c.addEntity(e)
			if err != nil {
				return -1, err
			}
			return ci*a.chunkCapacity + local, nil
		}
	}
	c := newChunk(a.componentTypes, a.chunkCapacity)
	a.chunks = append(a.chunks, c)
	local, err := c.addEntity(e)
	if err != nil {
		return -1, err
	}
	return (len(a.chunks)-1)*a.chunkCapacity + local, nil
}

// RemoveEntity locates (chunkIndex, localRow) via shift/mask addressing and
// swap-removes the row. It returns the entity that was swapped into
// globalRow, or (zero, false) if nothing moved (globalRow was the last row
// in its chunk, or the archetype is the empty archetype).
func (a *Archetype) RemoveEntity(globalRow int) (Entity, bool) {
	if len(a.componentTypes) == 0 {
		if a.emptyCount > 0 {
			a.emptyCount--
		}
		return Entity{}, false
	}
	ci := globalRow >> a.chunkShift
	local := globalRow & a.chunkMask
	if ci < 0 || ci >= len(a.chunks) {
		return Entity{}, false
	}
	return a.chunks[ci].removeEntity(local)
}

func (a *Archetype) chunkAndRow(globalRow int) (*Chunk, int) {
	ci := globalRow >> a.chunkShift
	local := globalRow & a.chunkMask
	if ci < 0 || ci >= len(a.chunks) {
		return nil, -1
	}
	return a.chunks[ci], local
}

// orderComponentTypes sorts component-type ids into the archetype's
// deterministic column order: size class (<=16 bytes grouped first) ahead
// of alignment descending ahead of id ascending. Grouping small,
// densely-packed components together is what buys cache locality, and both
// inputs are derivable from the ComponentTypeRegistry's descriptors alone.
func orderComponentTypes(ids []ComponentID) []ComponentID {
	sorted := make([]ComponentID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		di, _ := descriptorOf(sorted[i])
		dj, _ := descriptorOf(sorted[j])
		ci, cj := sizeClass(di.size), sizeClass(dj.size)
		if ci != cj {
			return ci < cj
		}
		if di.align != dj.align {
			return di.align > dj.align
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func sizeClass(size uintptr) int {
	if size <= 16 {
		return 0
	}
	return 1
}
