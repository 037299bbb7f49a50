package archon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryCompA struct{ V int }
type queryCompB struct{ V int }

func TestQueryFirstChunk(t *testing.T) {
	w := NewWorld()
	_, ok := With[queryCompA](w.Query()).FirstChunk()
	assert.False(t, ok, "no matching entities yet")

	e := w.CreateEntity()
	require.NoError(t, AddComponent(w, e, queryCompA{V: 1}))

	c, ok := With[queryCompA](w.Query()).FirstChunk()
	require.True(t, ok)
	assert.Equal(t, 1, c.Count())
}

func TestQueryChunksPooledMatchesStack(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 10; i++ {
		e := w.CreateEntity()
		require.NoError(t, AddComponent(w, e, queryCompA{V: i}))
		if i%2 == 0 {
			require.NoError(t, AddComponent(w, e, queryCompB{V: i}))
		}
	}

	q := With[queryCompA](w.Query())
	q = With[queryCompB](q)

	stackCount := 0
	stack := q.ChunksStack()
	for {
		c, ok := stack.Next()
		if !ok {
			break
		}
		stackCount += c.Count()
	}

	pooled := q.ChunksPooled()
	defer pooled.Close()
	pooledCount := 0
	for {
		c, ok := pooled.Next()
		if !ok {
			break
		}
		pooledCount += c.Count()
	}

	assert.Equal(t, stackCount, pooledCount)
	assert.Equal(t, 5, stackCount)
}

func TestQueryOnlyYieldsNonEmptyChunks(t *testing.T) {
	w := NewWorld()
	e := w.CreateEntity()
	require.NoError(t, AddComponent(w, e, queryCompA{V: 1}))
	w.DestroyEntity(e)

	// The archetype for queryCompA now exists but is empty; it must not
	// surface as a matching chunk.
	q := With[queryCompA](w.Query())
	_, ok := q.FirstChunk()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Count())
}

func TestQueryBuilderIsImmutable(t *testing.T) {
	w := NewWorld()
	base := w.Query()
	withA := With[queryCompA](base)

	assert.Equal(t, uint32(0), base.with.Popcount(), "With must not mutate the receiver")
	assert.Equal(t, uint32(1), withA.with.Popcount())
}
