package archon

// WorldOptions configures a new World. The zero value is valid: default
// chunk capacity, no logger, no health monitor.
type WorldOptions struct {
	ChunkCapacity int
	Logger        Logger
	HealthMonitor HealthMonitor
}

// World is the facade tying the entity registry, archetype index, and
// migration logic together.
type World struct {
	entities      *EntityRegistry
	index         *ArchetypeIndex
	Resources     Resources
	toDestroy     []Entity
	logger        Logger
	health        HealthMonitor
	chunkCapacity int
}

// NewWorld returns a World with default options.
func NewWorld() *World {
	return NewWorldWithOptions(WorldOptions{})
}

// NewWorldWithOptions returns a World configured by opts.
func NewWorldWithOptions(opts WorldOptions) *World {
	capacity := opts.ChunkCapacity
	if capacity == 0 {
		capacity = DefaultChunkCapacity
	}
	w := &World{
		entities:      NewEntityRegistry(),
		index:         NewArchetypeIndex(capacity),
		chunkCapacity: capacity,
		logger:        opts.Logger,
		health:        opts.HealthMonitor,
	}
	w.index.GetOrCreate(EmptySignature()) // archetype 0, the empty archetype
	return w
}

func (w *World) logEvent(kind EventKind, fields map[string]any) {
	if w.logger != nil {
		w.logger.Log(Event{Kind: kind, Fields: fields})
	}
	if w.health != nil {
		w.health.Observe(Event{Kind: kind, Fields: fields})
	}
}

// locate returns the entity's current archetype, chunk, and local row. ok
// is false if the entity isn't alive.
func (w *World) locate(e Entity) (arch *Archetype, chunk *Chunk, row int, ok bool) {
	rec, found := w.entities.record(e.ID)
	if !found || rec.generation != e.Generation || !rec.alive() {
		return nil, nil, 0, false
	}
	arch = w.index.ArchetypeByID(rec.archetypeID)
	chunk, local := arch.chunkAndRow(rec.row)
	return arch, chunk, local, true
}

// IsAlive reports whether e still names a live entity.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.IsAlive(e)
}

// CreateEntity mints a new entity in the empty archetype.
func (w *World) CreateEntity() Entity {
	e := w.entities.Create()
	empty := w.index.ArchetypeByID(0)
	row, err := empty.AddEntity(e)
	if err != nil {
		panic(err)
	}
	w.entities.setRecord(e.ID, entityRecord{generation: e.Generation, archetypeID: empty.ID(), row: row})
	w.logEvent(EventEntityCreate, map[string]any{"id": e.ID, "generation": e.Generation})
	return e
}

// CreateEntities mints n entities in the empty archetype in one batch.
func (w *World) CreateEntities(n int) []Entity {
	if n <= 0 {
		return nil
	}
	out := make([]Entity, n)
	empty := w.index.ArchetypeByID(0)
	for i := 0; i < n; i++ {
		e := w.entities.Create()
		row, err := empty.AddEntity(e)
		if err != nil {
			panic(err)
		}
		w.entities.setRecord(e.ID, entityRecord{generation: e.Generation, archetypeID: empty.ID(), row: row})
		out[i] = e
	}
	w.logEvent(EventEntityCreate, map[string]any{"count": n})
	return out
}

// DestroyEntity removes e from its archetype, fixing up the swapped
// entity's row, marks its id dead, and recycles it; the id's generation is
// bumped when CreateEntity next hands it out (see EntityRegistry.Destroy).
// It is a silent no-op on an already-dead entity.
func (w *World) DestroyEntity(e Entity) {
	rec, found := w.entities.record(e.ID)
	if !found || rec.generation != e.Generation || !rec.alive() {
		return
	}
	arch := w.index.ArchetypeByID(rec.archetypeID)
	w.removeFromArchetype(arch, rec.row)
	w.entities.Destroy(e)
}

// removeFromArchetype swap-removes globalRow from arch and, if another
// entity was swapped into that row, patches its EntityRecord to point at
// the new location.
func (w *World) removeFromArchetype(arch *Archetype, globalRow int) {
	moved, swapped := arch.RemoveEntity(globalRow)
	if !swapped {
		return
	}
	movedRec, ok := w.entities.record(moved.ID)
	if !ok {
		return
	}
	movedRec.row = globalRow
	w.entities.setRecord(moved.ID, movedRec)
}

// QueueDestroy defers e's destruction to the next FlushDestroyed call.
// Useful for systems that collect removals while iterating a query and
// flush once per frame.
func (w *World) QueueDestroy(e Entity) {
	w.toDestroy = append(w.toDestroy, e)
}

// FlushDestroyed destroys every entity queued since the last flush. Stale
// entries (already dead, or destroyed-and-recycled since queuing) are
// silently skipped.
func (w *World) FlushDestroyed() {
	for _, e := range w.toDestroy {
		w.DestroyEntity(e)
	}
	w.toDestroy = w.toDestroy[:0]
}

// writeTyped stores value into chunk's column for id at row. The chunk must
// already have a column for id (callers resolve id via idOf[T] first) and
// row must already be occupied (the entity was appended before this runs).
func writeTyped[T any](c *Chunk, row int, value T) {
	span := Span[T](c)
	if span == nil || row >= len(span) {
		return
	}
	span[row] = value
}

// copyCommonColumns copies every column present in both from and to from
// fromChunk/fromRow into toChunk/toLocalRow, using the type-erased
// byte-slice path (componentBytes/writeComponent) so no static type
// knowledge is required.
func copyCommonColumns(fromChunk, toChunk *Chunk, fromRow, toRow int, candidates []ComponentID) {
	if fromChunk == nil || toChunk == nil {
		return
	}
	for _, id := range candidates {
		if !fromChunk.Has(id) || !toChunk.Has(id) {
			continue
		}
		toChunk.writeComponent(id, toRow, fromChunk.componentBytes(id, fromRow))
	}
}

// AddComponent attaches value to e, migrating it to the archetype with T
// added to its signature if it doesn't already carry T, or overwriting the
// existing value in place if it does. A free function, not a method, since
// Go methods cannot introduce new type parameters. Silently does nothing
// if e is dead.
func AddComponent[T any](w *World, e Entity, value T) error {
	rec, found := w.entities.record(e.ID)
	if !found || rec.generation != e.Generation || !rec.alive() {
		return nil
	}
	tid := idOf[T]()
	fromArch := w.index.ArchetypeByID(rec.archetypeID)

	if fromArch.signature.Has(tid) {
		chunk, row := fromArch.chunkAndRow(rec.row)
		writeTyped(chunk, row, value)
		w.logEvent(EventComponentAdd, map[string]any{"overwrite": true})
		return nil
	}

	toSig := fromArch.signature.With(tid)
	toArch := w.index.GetOrCreate(toSig)

	newRow, err := toArch.AddEntity(e)
	if err != nil {
		return err
	}
	fromChunk, fromRow := fromArch.chunkAndRow(rec.row)
	toChunk, toRow := toArch.chunkAndRow(newRow)
	copyCommonColumns(fromChunk, toChunk, fromRow, toRow, fromArch.componentTypes)
	writeTyped(toChunk, toRow, value)

	w.removeFromArchetype(fromArch, rec.row)
	w.entities.setRecord(e.ID, entityRecord{generation: rec.generation, archetypeID: toArch.ID(), row: newRow})
	w.logEvent(EventComponentAdd, map[string]any{"overwrite": false})
	w.logEvent(EventArchetypeTransition, map[string]any{"from": fromArch.ID(), "to": toArch.ID()})
	return nil
}

// RemoveComponent detaches T from e, migrating it to the archetype with T
// removed from its signature. A no-op if e is dead or doesn't carry T.
func RemoveComponent[T any](w *World, e Entity) error {
	rec, found := w.entities.record(e.ID)
	if !found || rec.generation != e.Generation || !rec.alive() {
		return nil
	}
	tid := idOf[T]()
	fromArch := w.index.ArchetypeByID(rec.archetypeID)
	if !fromArch.signature.Has(tid) {
		return nil
	}

	toSig := fromArch.signature.Without(tid)
	toArch := w.index.GetOrCreate(toSig)

	newRow, err := toArch.AddEntity(e)
	if err != nil {
		return err
	}
	fromChunk, fromRow := fromArch.chunkAndRow(rec.row)
	toChunk, toRow := toArch.chunkAndRow(newRow)
	copyCommonColumns(fromChunk, toChunk, fromRow, toRow, toArch.componentTypes)

	w.removeFromArchetype(fromArch, rec.row)
	w.entities.setRecord(e.ID, entityRecord{generation: rec.generation, archetypeID: toArch.ID(), row: newRow})
	w.logEvent(EventArchetypeTransition, map[string]any{"from": fromArch.ID(), "to": toArch.ID()})
	return nil
}

// GetComponent returns a pointer to e's T component. The pointer is valid
// until the next structural mutation of the owning chunk. Fails with
// ErrEntityDead or ErrComponentMissing.
func GetComponent[T any](w *World, e Entity) (*T, error) {
	arch, chunk, row, ok := w.locate(e)
	if !ok {
		return nil, ErrEntityDead
	}
	tid, minted := tryIDOf[T]()
	if !minted || !arch.signature.Has(tid) {
		return nil, ErrComponentMissing
	}
	span := Span[T](chunk)
	if span == nil || row >= len(span) {
		return nil, ErrComponentMissing
	}
	return &span[row], nil
}

// HasComponent reports whether e currently carries T. Never fails; a dead
// entity or an unminted type both report false.
func HasComponent[T any](w *World, e Entity) bool {
	rec, found := w.entities.record(e.ID)
	if !found || rec.generation != e.Generation || !rec.alive() {
		return false
	}
	tid, ok := tryIDOf[T]()
	if !ok {
		return false
	}
	arch := w.index.ArchetypeByID(rec.archetypeID)
	return arch.signature.Has(tid)
}

// Index exposes the World's ArchetypeIndex for diagnostics (cache metrics,
// full archetype listing). Mutating it directly is not supported; callers
// should only read IndexMetrics and All().
func (w *World) Index() *ArchetypeIndex { return w.index }
