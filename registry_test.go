package archon

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registryCompX struct{ V int }

func TestIDOfStable(t *testing.T) {
	id1 := idOf[registryCompX]()
	id2 := idOf[registryCompX]()
	assert.Equal(t, id1, id2)
}

func TestIDOfConcurrentFirstUseCoalesces(t *testing.T) {
	type concurrentComp struct{ V int }

	const goroutines = 64
	ids := make([]ComponentID, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			ids[i] = idOf[concurrentComp]()
		}()
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Equal(t, ids[0], ids[i], "concurrent first-use must coalesce onto one id")
	}
}

func TestDescriptorOfUnregisteredFails(t *testing.T) {
	_, err := descriptorOf(ComponentID(255))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnregisteredComponent)
}

func TestTryIDOfReportsUnminted(t *testing.T) {
	type neverMinted struct{ V int }
	_, ok := tryIDOf[neverMinted]()
	assert.False(t, ok)
}
