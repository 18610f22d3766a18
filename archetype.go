package foundry

// archetypeTable is a dense, struct-of-arrays store for every entity
// sharing one component set. Grounded on the teacher's own archetype.go
// (an id paired with a backing store), generalized so the backing store is
// this package's own columnStore rather than an opaque table.Table.
type archetypeTable struct {
	mask   BitMask
	key    string
	defs   []ComponentDef // components in this archetype, insertion order
	hasDef map[uint32]bool

	n        int
	capacity int
	entityID []EntityID
	rowOf    map[EntityID]int
	columns  *columnStore

	tracked  bool
	snapshot *columnStore
	snapRows int
	snapIDs  []EntityID

	randomState map[FieldRef]*lcgState
}

func newArchetypeTable(mask BitMask, defs []ComponentDef) *archetypeTable {
	cap0 := Config.initialCapacity
	hasDef := make(map[uint32]bool, len(defs))
	for _, d := range defs {
		hasDef[d.id] = true
	}
	return &archetypeTable{
		mask:     mask,
		key:      mask.Key(),
		defs:     defs,
		hasDef:   hasDef,
		capacity: cap0,
		rowOf:    make(map[EntityID]int),
		columns:  newColumnStore(cap0, defs),
	}
}

func (t *archetypeTable) hasComponent(id uint32) bool {
	return t.hasDef[id]
}

// randomStateFor returns this table's persisted LCG state for target,
// allocating and seeding it on first use.
func (t *archetypeTable) randomStateFor(target FieldRef) *lcgState {
	if t.randomState == nil {
		t.randomState = make(map[FieldRef]*lcgState)
	}
	st, ok := t.randomState[target]
	if !ok {
		st = newLCGState()
		t.randomState[target] = st
	}
	return st
}

// enableSnapshot allocates the parallel snapshot-mirror columns. Called
// either at table-creation time (if the tracking filter already overlaps
// this table's mask) or retroactively when tracking is enabled later and a
// sweep finds this table now qualifies. See spec.md §9's open question on
// snapshot-mirror timing, resolved in SPEC_FULL.md §1.
func (t *archetypeTable) enableSnapshot() {
	if t.tracked {
		return
	}
	t.tracked = true
	t.snapshot = newColumnStore(t.capacity, t.defs)
	t.snapIDs = make([]EntityID, t.capacity)
}

// grow doubles capacity (or to at least newMin), reallocating every column
// and, if present, the snapshot mirror. Capacity never shrinks.
func (t *archetypeTable) grow(newMin int) {
	newCap := t.capacity * 2
	if newCap < newMin {
		newCap = newMin
	}
	t.capacity = newCap
	t.columns.grow(newCap)
	if t.tracked {
		t.snapshot.grow(newCap)
		grownIDs := make([]EntityID, newCap)
		copy(grownIDs, t.snapIDs)
		t.snapIDs = grownIDs
	}
	grownEntities := make([]EntityID, len(t.entityID), newCap)
	copy(grownEntities, t.entityID)
	t.entityID = grownEntities
}

// growFor ensures capacity for at least n more rows beyond the current
// count, growing at most once rather than once per addRow call. Used by
// batch creation so an n-entity call doesn't repeatedly double capacity.
func (t *archetypeTable) growFor(n int) {
	need := t.n + n
	if need <= t.capacity {
		return
	}
	t.grow(need)
}

// addRow appends a new row for entity, growing first if at capacity. seeds
// gives the initial field values for zero or more of this archetype's
// schema'd components (keyed by component id); every component the
// archetype carries but seeds omits is zeroed, not left stale from a prior
// occupant of this row. Returns the row index.
func (t *archetypeTable) addRow(entity EntityID, seeds map[uint32]ComponentData) int {
	if t.n == t.capacity {
		t.grow(t.capacity + 1)
	}
	row := t.n
	for _, def := range t.defs {
		t.columns.writeComponent(row, def, seeds[def.id])
	}
	t.entityID = append(t.entityID, entity)
	t.rowOf[entity] = row
	t.n++
	return row
}

// writeComponent overwrites row's slot in component's own columns, leaving
// every other component's columns untouched. Used by AddComponent when an
// entity's row already lives in this table (same archetype, field-only
// update); a migrating add writes its new row through addRow instead.
func (t *archetypeTable) writeComponent(row int, component ComponentDef, data ComponentData) {
	t.columns.writeComponent(row, component, data)
}

// readComponent returns a fresh ComponentData snapshot of row restricted to
// component's own fields.
func (t *archetypeTable) readComponent(row int, component ComponentDef) ComponentData {
	return t.columns.readComponent(row, component)
}

// removeRow swap-removes row: the last row's entity and column data move
// into row (no move if row was already the last row), and the removed
// entity's rowOf entry is dropped.
func (t *archetypeTable) removeRow(row int) {
	last := t.n - 1
	removedID := t.entityID[row]
	if row != last {
		movedID := t.entityID[last]
		t.entityID[row] = movedID
		t.columns.swap(row, last)
		t.rowOf[movedID] = row
	}
	t.entityID = t.entityID[:last]
	delete(t.rowOf, removedID)
	t.n = last
}

// flushSnapshot copies the committed column prefix ([0, n)) into the
// parallel snapshot columns and entity-id mirror. No-op if untracked.
func (t *archetypeTable) flushSnapshot() {
	if !t.tracked {
		return
	}
	if t.snapshot.capacity < t.capacity {
		t.snapshot.grow(t.capacity)
		grownIDs := make([]EntityID, t.capacity)
		copy(grownIDs, t.snapIDs)
		t.snapIDs = grownIDs
	}
	for _, ref := range t.columns.order {
		src := t.columns.columns[ref]
		dst := t.snapshot.columns[ref]
		copyColumnPrefix(dst, src, t.n)
	}
	copy(t.snapIDs, t.entityID)
	t.snapRows = t.n
}

func copyColumnPrefix(dst, src *columnVariant, rows int) {
	n := rows * src.stride
	switch src.kind {
	case KindF32:
		copy(dst.f32[:n], src.f32[:n])
	case KindF64:
		copy(dst.f64[:n], src.f64[:n])
	case KindI8:
		copy(dst.i8[:n], src.i8[:n])
	case KindI16:
		copy(dst.i16[:n], src.i16[:n])
	case KindI32:
		copy(dst.i32[:n], src.i32[:n])
	case KindU8:
		copy(dst.u8[:n], src.u8[:n])
	case KindU16:
		copy(dst.u16[:n], src.u16[:n])
	case KindU32:
		copy(dst.u32[:n], src.u32[:n])
	case KindString:
		copy(dst.str[:n], src.str[:n])
	}
}
