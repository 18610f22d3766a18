package foundry

// View exposes one matched archetype table's live prefix to a forEach
// callback. Field/snapshot slices are only valid for the duration of the
// callback — a column growth for this archetype invalidates them (spec.md
// §5 "Shared-resource policy"). Grounded on the teacher's Cursor, which
// exposes a *table.Table the same way; View narrows that to the exact
// per-field slice API spec.md §4.9 names (field/fieldStride/snapshot).
type View struct {
	EntityIDs []EntityID
	N         int
	table     *archetypeTable
}

// Field returns the backing storage for ref's column, sliced to exactly
// N*stride live elements, or nil if this archetype has no such column or
// the column's element kind is not f32.
func (v *View) Field(ref FieldRef) []float32 {
	col := v.table.columns.field(ref)
	if col == nil || col.kind != KindF32 {
		return nil
	}
	return col.f32[:v.N*col.stride]
}

// FieldAny returns the raw columnVariant for ref (any element kind), or
// nil if this archetype has no such column.
func (v *View) FieldAny(ref FieldRef) *columnVariant {
	return v.table.columns.field(ref)
}

// FieldStride returns ref's stride (1 for scalars, N for fixed arrays), or
// 0 if the archetype carries no such column.
func (v *View) FieldStride(ref FieldRef) int {
	col := v.table.columns.field(ref)
	if col == nil {
		return 0
	}
	return col.stride
}

// Snapshot returns the backing storage for ref's snapshot-mirror column
// (valid through v.table.snapRows elements), or nil if the table isn't
// tracked or carries no such column.
func (v *View) Snapshot(ref FieldRef) []float32 {
	if v.table.snapshot == nil {
		return nil
	}
	col := v.table.snapshot.field(ref)
	if col == nil || col.kind != KindF32 {
		return nil
	}
	n := v.table.snapRows * col.stride
	return col.f32[:n]
}

// Query returns the matched entity ids, concatenated in archetype
// insertion order with row order ascending within each table. Allocates.
func (w *World) Query(f Filter) []EntityID {
	tables := w.index.queryMatches(f.include, f.exclude)
	var out []EntityID
	for _, t := range tables {
		out = append(out, t.entityID[:t.n]...)
	}
	return out
}

// Count returns the number of entities matched by f without allocating.
func (w *World) Count(f Filter) int {
	tables := w.index.queryMatches(f.include, f.exclude)
	total := 0
	for _, t := range tables {
		total += t.n
	}
	return total
}

// ForEach invokes callback once per matched, non-empty archetype table.
// Depth is incremented before the first callback and decremented once
// ForEach returns; structural mutations issued from inside callback are
// deferred to the outermost ForEach's exit, per spec.md §4.9/§4.8.
func (w *World) ForEach(f Filter, callback func(*View)) {
	tables := w.index.queryMatches(f.include, f.exclude)
	w.deferral.enter()
	defer func() {
		if w.deferral.exit() {
			w.drainDeferred()
		}
	}()
	for _, t := range tables {
		if t.n == 0 {
			continue
		}
		view := &View{EntityIDs: t.entityID[:t.n], N: t.n, table: t}
		callback(view)
	}
}
