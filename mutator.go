package foundry

import "github.com/rotisserie/eris"

// ComponentValue pairs a component with the data to seed it with, built by
// With and consumed by CreateEntityWith. Grounded on the teacher's own
// factory.Entry/Builder pattern (factory.go), narrowed to the one use site
// spec.md §4.4 names.
type ComponentValue struct {
	component ComponentDef
	data      ComponentData
}

// With pairs component with its initial field values for CreateEntityWith.
// data may be nil (fields default to zero/empty) and is ignored entirely
// for tag components.
func With(component ComponentDef, data ComponentData) ComponentValue {
	return ComponentValue{component: component, data: data}
}

// CreateEntity allocates a new entity with no components. It carries no
// archetype row until a component is added to it.
func (w *World) CreateEntity() EntityID {
	return w.directory.allocate()
}

// CreateEntityWith allocates a new entity and, in one structural step,
// gives it every component in values. Each component present fires its
// OnAdd observers (once flushed) since every one of them is new to this
// entity.
func (w *World) CreateEntityWith(values ...ComponentValue) (EntityID, error) {
	id := w.directory.allocate()
	if len(values) == 0 {
		return id, nil
	}
	var mask BitMask
	seeds := make(map[uint32]ComponentData, len(values))
	for _, v := range values {
		mask = mask.Set(v.component.id)
		seeds[v.component.id] = v.data
	}
	defs := w.registry.defsForMask(mask)
	t := w.index.getOrCreate(mask, defs)
	t.addRow(id, seeds)
	w.directory.setPlacement(id, t)
	w.index.recordCreated(id, mask)
	for _, def := range defs {
		w.hooks.enqueueAdd(def.id, id)
	}
	return id, nil
}

// CreateEntitiesWith allocates n new entities in one archetype, all seeded
// with the same field values, growing that archetype's capacity at most once
// for the whole batch instead of once per entity. Grounded on the teacher's
// own NewEntities batch constructor (factory.go), which grows its backing
// table once up front for the same reason. Each component present fires its
// OnAdd observers once per new id, same as CreateEntityWith.
func (w *World) CreateEntitiesWith(n int, values ...ComponentValue) ([]EntityID, error) {
	ids := make([]EntityID, n)
	if n <= 0 {
		return ids, nil
	}
	if len(values) == 0 {
		for i := range ids {
			ids[i] = w.directory.allocate()
		}
		return ids, nil
	}

	var mask BitMask
	seeds := make(map[uint32]ComponentData, len(values))
	for _, v := range values {
		mask = mask.Set(v.component.id)
		seeds[v.component.id] = v.data
	}
	defs := w.registry.defsForMask(mask)
	t := w.index.getOrCreate(mask, defs)
	t.growFor(n)

	for i := 0; i < n; i++ {
		id := w.directory.allocate()
		ids[i] = id
		t.addRow(id, seeds)
		w.directory.setPlacement(id, t)
		w.index.recordCreated(id, mask)
	}
	for _, def := range defs {
		for _, id := range ids {
			w.hooks.enqueueAdd(def.id, id)
		}
	}
	return ids, nil
}

// RestoreEntity recreates entity id with exactly the given components,
// bypassing normal id allocation and hook dispatch. Used by a deserializer
// rebuilding a SerializedWorld; id must not already be known to w.
func (w *World) RestoreEntity(id EntityID, values ...ComponentValue) {
	w.directory.knownIDs[id] = struct{}{}
	if len(values) == 0 {
		return
	}
	var mask BitMask
	seeds := make(map[uint32]ComponentData, len(values))
	for _, v := range values {
		mask = mask.Set(v.component.id)
		seeds[v.component.id] = v.data
	}
	defs := w.registry.defsForMask(mask)
	t := w.index.getOrCreate(mask, defs)
	t.addRow(id, seeds)
	w.directory.setPlacement(id, t)
}

// DestroyEntity removes id and every component row it carries. Surviving
// components each fire OnRemove (once flushed); the entity's row data is
// tombstoned for observers that have any registered before the row is
// dropped. If called while a ForEach is in progress, the destruction is
// deferred to that ForEach's exit.
func (w *World) DestroyEntity(id EntityID) {
	if !w.directory.isKnown(id) {
		return
	}
	if w.deferral.active() {
		w.deferral.enqueueDestroy(id)
		return
	}
	w.destroyNow(id)
}

func (w *World) destroyNow(id EntityID) {
	t, hasRow := w.directory.placementOf(id)
	if !hasRow {
		w.directory.forget(id)
		return
	}
	row := w.directory.verifyRow(id)
	for _, def := range t.defs {
		if w.hooks.hasRemoveObservers(def.id) {
			w.hooks.captureTombstone(id, def.id, t.readComponent(row, def))
		}
		w.hooks.enqueueRemove(def.id, id)
	}
	w.index.recordDestroyed(id, t.mask)
	t.removeRow(row)
	w.directory.forget(id)
}

// AddComponent gives id component, seeded with data. If id already carries
// component, this overwrites its fields in place and does not fire OnAdd
// (it was already present) — including while a ForEach is in progress,
// since an in-place overwrite needs no migration and is safe mid-iteration.
// Otherwise id's row migrates to the archetype that also includes
// component, and OnAdd fires for component alone (its other components
// are unchanged, not newly added); if a ForEach is in progress, that
// migration is deferred to its exit.
func (w *World) AddComponent(id EntityID, component ComponentDef, data ComponentData) error {
	if !w.directory.isKnown(id) {
		return eris.Errorf("foundry: AddComponent: unknown entity %d", id)
	}
	if t, hasRow := w.directory.placementOf(id); hasRow && t.hasComponent(component.id) {
		row := w.directory.verifyRow(id)
		t.writeComponent(row, component, data)
		return nil
	}
	if w.deferral.active() {
		w.deferral.enqueueAdd(id, component, data)
		return nil
	}
	w.addComponentNow(id, component, data)
	return nil
}

func (w *World) addComponentNow(id EntityID, component ComponentDef, data ComponentData) {
	t, hasRow := w.directory.placementOf(id)
	if hasRow && t.hasComponent(component.id) {
		row := w.directory.verifyRow(id)
		t.writeComponent(row, component, data)
		return
	}

	oldMask := BitMask{}
	seeds := make(map[uint32]ComponentData)
	if hasRow {
		oldMask = t.mask
		row := w.directory.verifyRow(id)
		for _, def := range t.defs {
			if !def.IsTag() {
				seeds[def.id] = t.readComponent(row, def)
			}
		}
	}
	newMask := oldMask.Set(component.id)
	seeds[component.id] = data

	newDefs := w.registry.defsForMask(newMask)
	newTable := w.index.getOrCreate(newMask, newDefs)
	newTable.addRow(id, seeds)
	w.directory.setPlacement(id, newTable)

	if hasRow {
		oldRow := t.rowOf[id]
		t.removeRow(oldRow)
		Config.logger.Debug().
			Uint64("entity", uint64(id)).
			Str("from", oldMask.Key()).
			Str("to", newMask.Key()).
			Msg("foundry: archetype migration")
	}
	w.hooks.enqueueAdd(component.id, id)
}

// RemoveComponent drops component from id, if present; a no-op otherwise.
// id's row migrates to the archetype without component, and OnRemove
// fires for component alone. If called while a ForEach is in progress,
// the mutation is deferred to that ForEach's exit.
func (w *World) RemoveComponent(id EntityID, component ComponentDef) {
	if !w.directory.isKnown(id) {
		return
	}
	if w.deferral.active() {
		w.deferral.enqueueRemove(id, component)
		return
	}
	w.removeComponentNow(id, component)
}

func (w *World) removeComponentNow(id EntityID, component ComponentDef) {
	t, hasRow := w.directory.placementOf(id)
	if !hasRow || !t.hasComponent(component.id) {
		return
	}
	row := w.directory.verifyRow(id)
	if w.hooks.hasRemoveObservers(component.id) {
		w.hooks.captureTombstone(id, component.id, t.readComponent(row, component))
	}
	// Mirrors the source's conflation of "component removed" with "entity
	// destroyed" for change tracking (spec.md §9 open question, resolved in
	// SPEC_FULL.md §1 to implement exactly as flagged).
	w.index.recordDestroyed(id, t.mask)

	newMask := t.mask.Clear(component.id)
	seeds := make(map[uint32]ComponentData)
	for _, def := range t.defs {
		if def.id == component.id || def.IsTag() {
			continue
		}
		seeds[def.id] = t.readComponent(row, def)
	}

	if newMask.IsZero() {
		w.directory.clearPlacement(id)
	} else {
		newDefs := w.registry.defsForMask(newMask)
		newTable := w.index.getOrCreate(newMask, newDefs)
		newTable.addRow(id, seeds)
		w.directory.setPlacement(id, newTable)
	}
	t.removeRow(row)
	Config.logger.Debug().
		Uint64("entity", uint64(id)).
		Str("from", t.mask.Key()).
		Str("to", newMask.Key()).
		Msg("foundry: archetype migration")
	w.hooks.enqueueRemove(component.id, id)
}

// HasComponent reports whether id currently carries component.
func (w *World) HasComponent(id EntityID, component ComponentDef) bool {
	t, ok := w.directory.placementOf(id)
	if !ok {
		return false
	}
	return t.hasComponent(component.id)
}

// GetComponent returns a fresh snapshot of id's fields for component. If id
// no longer carries component because it was recently removed or id was
// destroyed, this falls back to the tombstoned row so an OnRemove observer
// can still read the deceased state until the next CommitRemovals.
func (w *World) GetComponent(id EntityID, component ComponentDef) (ComponentData, bool) {
	if t, ok := w.directory.placementOf(id); ok && t.hasComponent(component.id) {
		row := w.directory.verifyRow(id)
		return t.readComponent(row, component), true
	}
	return w.hooks.tombstone(id, component.id)
}

// Get returns id's single field value at ref, falling back to the
// tombstoned row (see GetComponent) if ref.Component is no longer present.
func (w *World) Get(id EntityID, ref FieldRef) (any, bool) {
	t, ok := w.directory.placementOf(id)
	if !ok || !t.hasComponent(ref.Component.id) {
		return w.getTombstoneField(id, ref)
	}
	col := t.columns.field(ref)
	if col == nil {
		return nil, false
	}
	row := w.directory.verifyRow(id)
	if col.stride == 1 {
		return col.readAny(row), true
	}
	seq := make([]any, col.stride)
	base := row * col.stride
	for i := 0; i < col.stride; i++ {
		seq[i] = col.readAny(base + i)
	}
	return seq, true
}

func (w *World) getTombstoneField(id EntityID, ref FieldRef) (any, bool) {
	data, ok := w.hooks.tombstone(id, ref.Component.id)
	if !ok {
		return nil, false
	}
	return data[ref.Field], true
}

// Set overwrites id's single field value at ref in place, without any
// structural change or OnAdd/OnRemove dispatch. Reports false if id
// doesn't carry ref.Component.
func (w *World) Set(id EntityID, ref FieldRef, value any) bool {
	t, ok := w.directory.placementOf(id)
	if !ok || !t.hasComponent(ref.Component.id) {
		return false
	}
	col := t.columns.field(ref)
	if col == nil {
		return false
	}
	row := w.directory.verifyRow(id)
	t.columns.writeField(col, row, value)
	return true
}

// drainDeferred replays every structural operation buffered while a
// ForEach was active, in arrival order, through the ordinary mutator
// paths. Called once the outermost ForEach returns.
func (w *World) drainDeferred() {
	ops := w.deferral.drain()
	for _, op := range ops {
		switch op.kind {
		case deferredAddComponent:
			w.addComponentNow(op.entity, op.component, op.data)
		case deferredRemoveComponent:
			w.removeComponentNow(op.entity, op.component)
		case deferredDestroyEntity:
			w.destroyNow(op.entity)
		}
	}
	if len(ops) > 0 {
		Config.logger.Debug().Int("count", len(ops)).Msg("foundry: deferred ops replayed")
	}
}
