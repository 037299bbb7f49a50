package archon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityRegistryGenerationMonotonic(t *testing.T) {
	r := NewEntityRegistry()
	e1 := r.Create()
	assert.Equal(t, uint32(1), e1.Generation)

	r.Destroy(e1)
	e2 := r.Create()
	assert.Equal(t, e1.ID, e2.ID)
	assert.Greater(t, e2.Generation, e1.Generation)
	assert.False(t, r.IsAlive(e1))
	assert.True(t, r.IsAlive(e2))
}

func TestEntityRegistryZeroIDIsNeverAlive(t *testing.T) {
	r := NewEntityRegistry()
	assert.False(t, r.IsAlive(Entity{}))
}

func TestEntityRegistryDestroyIsIdempotent(t *testing.T) {
	r := NewEntityRegistry()
	e := r.Create()
	assert.True(t, r.Destroy(e))
	assert.False(t, r.Destroy(e), "destroying an already-dead entity must be a no-op")
}

func TestEntityRegistryCountAlive(t *testing.T) {
	r := NewEntityRegistry()
	var live []Entity
	for i := 0; i < 10; i++ {
		live = append(live, r.Create())
	}
	for i := 0; i < 3; i++ {
		r.Destroy(live[i])
	}
	assert.Equal(t, 7, r.CountAlive())
}

func TestEntityPackedRoundTrip(t *testing.T) {
	e := Entity{ID: 12345, Generation: 67}
	assert.Equal(t, e, FromPacked(e.Packed()))
}
