package archon

import "unsafe"

// DefaultChunkCapacity is the default fixed row capacity of a Chunk. It is a
// power of two so Archetype can address (chunkIndex, localRow) via shift and
// mask instead of division.
const DefaultChunkCapacity = 512

type column struct {
	id   ComponentID
	data []byte
	size uintptr
}

// Chunk is a fixed-capacity structure-of-arrays block: one byte column per
// component type plus a parallel entity column. It is the unit of
// iteration and the unit of cache locality.
//
// slotOf is a direct-indexed [MaxComponentTypes]int16 lookup: since
// ComponentID is dense and bounded by MaxComponentTypes, indexing by id
// directly is cheaper than scanning componentTypes for a match.
type Chunk struct {
	componentTypes []ComponentID
	columns        []column
	slotOf         [MaxComponentTypes]int16
	entities       []Entity
	count          int
	capacity       int
}

func newChunk(types []ComponentID, capacity int) *Chunk {
	c := &Chunk{
		componentTypes: types,
		columns:        make([]column, len(types)),
		entities:       make([]Entity, capacity),
		capacity:       capacity,
	}
	for i := range c.slotOf {
		c.slotOf[i] = -1
	}
	for i, id := range types {
		desc, err := descriptorOf(id)
		if err != nil {
			panic(err)
		}
		c.columns[i] = column{id: id, data: make([]byte, capacity*int(desc.size)), size: desc.size}
		c.slotOf[id] = int16(i)
	}
	return c
}

// Count returns the number of occupied rows.
func (c *Chunk) Count() int { return c.count }

// Capacity returns the chunk's fixed row capacity.
func (c *Chunk) Capacity() int { return c.capacity }

// Full reports whether the chunk has no free rows left.
func (c *Chunk) Full() bool { return c.count >= c.capacity }

// ComponentTypes returns the chunk's component types, in the same order as
// its owning Archetype.
func (c *Chunk) ComponentTypes() []ComponentID { return c.componentTypes }

// EntityAt returns the entity occupying row.
func (c *Chunk) EntityAt(row int) Entity { return c.entities[row] }

func (c *Chunk) slot(id ComponentID) int {
	if int(id) >= len(c.slotOf) {
		return -1
	}
	return int(c.slotOf[id])
}

// Has reports whether the chunk carries a column for id.
func (c *Chunk) Has(id ComponentID) bool {
	return c.slot(id) >= 0
}

// addEntity appends e to the chunk, returning its local row. It fails with
// ChunkFull if the chunk has no free rows; callers (Archetype.AddEntity)
// must check Full() first.
func (c *Chunk) addEntity(e Entity) (int, error) {
	if c.count >= c.capacity {
		return -1, newError(KindChunkFull, "chunk at capacity %d", c.capacity)
	}
	row := c.count
	c.entities[row] = e
	c.count++
	return row, nil
}

// removeEntity swap-removes localRow with the last occupied row across
// every column and the entity column, then decrements count. It returns the
// entity that was swapped into localRow, and false if localRow was already
// the last row (nothing moved).
func (c *Chunk) removeEntity(localRow int) (Entity, bool) {
	last := c.count - 1
	if localRow < 0 || localRow > last {
		return Entity{}, false
	}
	if localRow == last {
		c.count--
		return Entity{}, false
	}
	moved := c.entities[last]
	c.entities[localRow] = moved
	for _, col := range c.columns {
		sz := int(col.size)
		copy(col.data[localRow*sz:(localRow+1)*sz], col.data[last*sz:(last+1)*sz])
	}
	c.count--
	return moved, true
}

// writeComponent copies value's bytes into row's slot for id, growing no
// storage (the column is already sized to capacity). It is the
// type-erased counterpart of Span[T]; World uses it during migration when
// it must write through a componentDescriptor rather than a generic T.
func (c *Chunk) writeComponent(id ComponentID, row int, src []byte) {
	slot := c.slot(id)
	if slot < 0 {
		return
	}
	col := c.columns[slot]
	sz := int(col.size)
	copy(col.data[row*sz:(row+1)*sz], src)
}

func (c *Chunk) componentBytes(id ComponentID, row int) []byte {
	slot := c.slot(id)
	if slot < 0 {
		return nil
	}
	col := c.columns[slot]
	sz := int(col.size)
	return col.data[row*sz : (row+1)*sz]
}

// Span returns a mutable view over rows [0, count) of T's column. It
// returns nil if the chunk has no column for T. The span is valid until the
// next structural mutation of the chunk.
func Span[T any](c *Chunk) []T {
	id, ok := tryIDOf[T]()
	if !ok {
		return nil
	}
	slot := c.slot(id)
	if slot < 0 || c.count == 0 {
		return nil
	}
	col := c.columns[slot]
	return unsafe.Slice((*T)(unsafe.Pointer(&col.data[0])), c.count)
}

// SimdSpan returns the prefix of Span[T](c) whose length is a multiple of
// T's effective SIMD lane width. RemainderSpan returns the tail that
// SimdSpan excludes.
func SimdSpan[T any](c *Chunk) []T {
	full := Span[T](c)
	width := simdLaneWidth[T]()
	if width <= 1 {
		return full[:0]
	}
	n := (len(full) / width) * width
	return full[:n]
}

// RemainderSpan returns the tail of Span[T](c) left over after SimdSpan.
func RemainderSpan[T any](c *Chunk) []T {
	full := Span[T](c)
	width := simdLaneWidth[T]()
	if width <= 1 {
		return full
	}
	n := (len(full) / width) * width
	return full[n:]
}
