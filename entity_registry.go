package archon

// EntityRegistry is a dense array indexed by entity id, each slot storing
// {generation, archetype id, row}, with a freelist of recycled ids. World
// delegates all id-allocation bookkeeping to it.
type EntityRegistry struct {
	records  []entityRecord
	freelist []uint32
	nextID   uint32 // 1-based; 0 is the reserved invalid id
}

// NewEntityRegistry returns an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		records: make([]entityRecord, 0, 1024),
		nextID:  1,
	}
}

// Create mints a fresh entity in the empty archetype (row is filled in by
// the caller once the entity has actually been placed in archetype 0).
func (r *EntityRegistry) Create() Entity {
	var id uint32
	if n := len(r.freelist); n > 0 {
		id = r.freelist[n-1]
		r.freelist = r.freelist[:n-1]
	} else {
		id = r.nextID
		r.nextID++
	}

	idx := id - 1
	if idx >= uint32(len(r.records)) {
		r.records = extendSlice(r.records, int(idx)-len(r.records)+1)
	}
	gen := r.records[idx].generation + 1
	if gen == 0 {
		gen = 1 // never hand out generation 0; it would alias a zero record
	}
	r.records[idx] = entityRecord{generation: gen, row: -1}
	return Entity{ID: id, Generation: gen}
}

// record returns the bookkeeping for id's current slot. ok is false if id
// was never minted.
func (r *EntityRegistry) record(id uint32) (entityRecord, bool) {
	idx := id - 1
	if id == 0 || idx >= uint32(len(r.records)) {
		return entityRecord{}, false
	}
	return r.records[idx], true
}

func (r *EntityRegistry) setRecord(id uint32, rec entityRecord) {
	r.records[id-1] = rec
}

// IsAlive reports whether e still names the entity it was handed out for.
func (r *EntityRegistry) IsAlive(e Entity) bool {
	if e.ID == 0 {
		return false
	}
	rec, ok := r.record(e.ID)
	return ok && rec.generation == e.Generation && rec.alive()
}

// Destroy marks id's slot dead and pushes it onto the freelist; the
// generation bump happens lazily, the next time the slot is recycled by
// Create. It is a no-op if e is already dead or stale. The caller is
// responsible for first removing the entity from its archetype and fixing
// up any swapped entity's row (see World.DestroyEntity).
func (r *EntityRegistry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	idx := e.ID - 1
	r.records[idx].row = -1
	r.freelist = append(r.freelist, e.ID)
	return true
}

// CountAlive returns the number of alive entities. O(n); intended for tests
// and diagnostics, not hot-path use.
func (r *EntityRegistry) CountAlive() int {
	n := 0
	for _, rec := range r.records {
		if rec.alive() {
			n++
		}
	}
	return n
}
