package archon

import (
	"reflect"
	"sync"

	"github.com/kamstrup/intmap"
	"golang.org/x/sync/singleflight"
)

// ComponentID is a dense, process-wide, monotonically assigned identifier
// for a component type. Ids never change for the lifetime of the process.
type ComponentID uint32

// MaxComponentTypes bounds how many distinct component types one process can
// register. It also fixes Signature's backing word count (4 x 64-bit
// words), which is what lets the ArchetypeIndex's query cache use a
// comparable fixed-size key instead of a heap-allocated one.
const MaxComponentTypes = 256

// componentDescriptor is the {size, align, drop} bundle archetype migration
// needs to move component bytes without static type knowledge. drop is nil
// for every component type archon supports, since components are required
// to be plain copyable values with no heap references to release; the
// field exists so a future component kind that does carry external
// resources has somewhere to hang a finalizer.
type componentDescriptor struct {
	typ   reflect.Type
	size  uintptr
	align uintptr
	drop  func(dst []byte)
}

var registry = newComponentTypeRegistry()

// ComponentTypeRegistry assigns a dense integer id to each component type
// the first time it is seen, and maps id to its descriptor. It is the one
// piece of core state that must be safe for concurrent first-use: readers
// never block once an id has been minted, and concurrent first-use of the
// same T collapses onto a single registration via singleflight.
type ComponentTypeRegistry struct {
	mu          sync.RWMutex
	typeToID    map[reflect.Type]ComponentID
	descriptors *intmap.Map[uint32, componentDescriptor]
	next        ComponentID
	inflight    singleflight.Group
}

func newComponentTypeRegistry() *ComponentTypeRegistry {
	return &ComponentTypeRegistry{
		typeToID:    make(map[reflect.Type]ComponentID, 64),
		descriptors: intmap.New[uint32, componentDescriptor](64),
	}
}

// idOf returns the stable id for T, minting one on first use. Concurrent
// first-use for the same T is coalesced by the registry's singleflight
// group so every caller observes the same id.
func idOf[T any]() ComponentID {
	var zero T
	t := reflect.TypeOf(zero)

	registry.mu.RLock()
	if id, ok := registry.typeToID[t]; ok {
		registry.mu.RUnlock()
		return id
	}
	registry.mu.RUnlock()

	v, _, _ := registry.inflight.Do(t.String(), func() (any, error) {
		registry.mu.Lock()
		defer registry.mu.Unlock()
		if id, ok := registry.typeToID[t]; ok {
			return id, nil
		}
		if int(registry.next) >= MaxComponentTypes {
			panic("archon: component type capacity exceeded")
		}
		id := registry.next
		registry.next++
		registry.typeToID[t] = id
		registry.descriptors.Put(uint32(id), componentDescriptor{
			typ:   t,
			size:  reflect.TypeOf(zero).Size(),
			align: uintptr(reflect.TypeOf(zero).Align()),
		})
		return id, nil
	})
	return v.(ComponentID)
}

// tryIDOf returns T's id without minting a new one.
func tryIDOf[T any]() (ComponentID, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	id, ok := registry.typeToID[t]
	return id, ok
}

// descriptorOf returns the descriptor for id, failing with
// UnregisteredComponent if id was never minted.
func descriptorOf(id ComponentID) (componentDescriptor, error) {
	d, ok := registry.descriptors.Get(uint32(id))
	if !ok {
		return componentDescriptor{}, newError(KindUnregisteredComponent, "component id %d", id)
	}
	return d, nil
}

// ResetGlobalRegistry clears the process-wide component registry. It exists
// for test isolation between unrelated test files that each mint their own
// component types; production code should never call it.
func ResetGlobalRegistry() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.typeToID = make(map[reflect.Type]ComponentID, 64)
	registry.descriptors = intmap.New[uint32, componentDescriptor](64)
	registry.next = 0
}
