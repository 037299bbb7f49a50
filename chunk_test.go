package archon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkCompFloat struct {
	V float32
}

type chunkCompInt struct {
	V int64
}

func TestChunkAddAndSpan(t *testing.T) {
	id := idOf[chunkCompFloat]()
	c := newChunk([]ComponentID{id}, 4)

	e1 := Entity{ID: 1, Generation: 1}
	row, err := c.addEntity(e1)
	require.NoError(t, err)
	assert.Equal(t, 0, row)

	span := Span[chunkCompFloat](c)
	require.Len(t, span, 1)
	span[0].V = 42
	assert.Equal(t, float32(42), Span[chunkCompFloat](c)[0].V)
}

func TestChunkFullError(t *testing.T) {
	id := idOf[chunkCompInt]()
	c := newChunk([]ComponentID{id}, 2)
	_, err := c.addEntity(Entity{ID: 1, Generation: 1})
	require.NoError(t, err)
	_, err = c.addEntity(Entity{ID: 2, Generation: 1})
	require.NoError(t, err)

	assert.True(t, c.Full())
	_, err = c.addEntity(Entity{ID: 3, Generation: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChunkFull)
}

func TestChunkRemoveSwapsLastRow(t *testing.T) {
	id := idOf[chunkCompInt]()
	c := newChunk([]ComponentID{id}, 4)
	ea, _ := c.addEntity(Entity{ID: 1, Generation: 1})
	_ = ea
	eb, _ := c.addEntity(Entity{ID: 2, Generation: 1})
	_ = eb
	ec, _ := c.addEntity(Entity{ID: 3, Generation: 1})
	_ = ec

	span := Span[chunkCompInt](c)
	span[0].V = 10
	span[1].V = 20
	span[2].V = 30

	moved, swapped := c.removeEntity(0)
	assert.True(t, swapped)
	assert.Equal(t, uint32(3), moved.ID)
	assert.Equal(t, 2, c.Count())

	span = Span[chunkCompInt](c)
	assert.Equal(t, int64(30), span[0].V, "last row's value must have been swapped into the removed slot")
	assert.Equal(t, int64(20), span[1].V)
}

func TestChunkRemoveLastRowNoSwap(t *testing.T) {
	id := idOf[chunkCompInt]()
	c := newChunk([]ComponentID{id}, 4)
	c.addEntity(Entity{ID: 1, Generation: 1})
	c.addEntity(Entity{ID: 2, Generation: 1})

	_, swapped := c.removeEntity(1)
	assert.False(t, swapped)
	assert.Equal(t, 1, c.Count())
}

func TestChunkSpanNilWhenColumnAbsent(t *testing.T) {
	id := idOf[chunkCompInt]()
	c := newChunk([]ComponentID{id}, 4)
	assert.Nil(t, Span[chunkCompFloat](c))
}

func TestSimdSpanAndRemainder(t *testing.T) {
	id := idOf[chunkCompFloat]()
	c := newChunk([]ComponentID{id}, 16)
	for i := 0; i < 5; i++ {
		c.addEntity(Entity{ID: uint32(i + 1), Generation: 1})
	}

	full := Span[chunkCompFloat](c)
	simd := SimdSpan[chunkCompFloat](c)
	remainder := RemainderSpan[chunkCompFloat](c)
	assert.Equal(t, len(full), len(simd)+len(remainder))
}
