package foundry

// columnVariant is a tagged union over the element kinds a field's backing
// storage may hold: one numeric slice variant per width/signedness, plus a
// generic variant for strings. Grounded on oliverbestmann-byke's
// column-zst.go/arch.go (typed, per-archetype dense columns) and
// DangerosoDavo-ecs's dense.go (generalized here from a single any-typed
// slot per entity to a per-field typed slice shared by a whole archetype).
type columnVariant struct {
	kind   FieldKind
	stride int

	f32 []float32
	f64 []float64
	i8  []int8
	i16 []int16
	i32 []int32
	u8  []uint8
	u16 []uint16
	u32 []uint32
	str []string
}

func newColumnVariant(spec FieldSpec, capacity int) columnVariant {
	c := columnVariant{kind: spec.Kind, stride: spec.Stride}
	n := capacity * spec.Stride
	switch spec.Kind {
	case KindF32:
		c.f32 = make([]float32, n)
	case KindF64:
		c.f64 = make([]float64, n)
	case KindI8:
		c.i8 = make([]int8, n)
	case KindI16:
		c.i16 = make([]int16, n)
	case KindI32:
		c.i32 = make([]int32, n)
	case KindU8:
		c.u8 = make([]uint8, n)
	case KindU16:
		c.u16 = make([]uint16, n)
	case KindU32:
		c.u32 = make([]uint32, n)
	case KindString:
		c.str = make([]string, n)
	}
	return c
}

// grow reallocates the backing storage to newCapacity*stride elements,
// preserving [0, oldCapacity*stride).
func (c *columnVariant) grow(newCapacity int) {
	n := newCapacity * c.stride
	switch c.kind {
	case KindF32:
		grown := make([]float32, n)
		copy(grown, c.f32)
		c.f32 = grown
	case KindF64:
		grown := make([]float64, n)
		copy(grown, c.f64)
		c.f64 = grown
	case KindI8:
		grown := make([]int8, n)
		copy(grown, c.i8)
		c.i8 = grown
	case KindI16:
		grown := make([]int16, n)
		copy(grown, c.i16)
		c.i16 = grown
	case KindI32:
		grown := make([]int32, n)
		copy(grown, c.i32)
		c.i32 = grown
	case KindU8:
		grown := make([]uint8, n)
		copy(grown, c.u8)
		c.u8 = grown
	case KindU16:
		grown := make([]uint16, n)
		copy(grown, c.u16)
		c.u16 = grown
	case KindU32:
		grown := make([]uint32, n)
		copy(grown, c.u32)
		c.u32 = grown
	case KindString:
		grown := make([]string, n)
		copy(grown, c.str)
		c.str = grown
	}
}

// zeroRow clears the stride-wide slot at row.
func (c *columnVariant) zeroRow(row int) {
	lo, hi := row*c.stride, (row+1)*c.stride
	switch c.kind {
	case KindF32:
		clearF32(c.f32[lo:hi])
	case KindF64:
		clearF64(c.f64[lo:hi])
	case KindI8:
		clearI8(c.i8[lo:hi])
	case KindI16:
		clearI16(c.i16[lo:hi])
	case KindI32:
		clearI32(c.i32[lo:hi])
	case KindU8:
		clearU8(c.u8[lo:hi])
	case KindU16:
		clearU16(c.u16[lo:hi])
	case KindU32:
		clearU32(c.u32[lo:hi])
	case KindString:
		clearStr(c.str[lo:hi])
	}
}

func clearF32(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
func clearF64(s []float64) {
	for i := range s {
		s[i] = 0
	}
}
func clearI8(s []int8) {
	for i := range s {
		s[i] = 0
	}
}
func clearI16(s []int16) {
	for i := range s {
		s[i] = 0
	}
}
func clearI32(s []int32) {
	for i := range s {
		s[i] = 0
	}
}
func clearU8(s []uint8) {
	for i := range s {
		s[i] = 0
	}
}
func clearU16(s []uint16) {
	for i := range s {
		s[i] = 0
	}
}
func clearU32(s []uint32) {
	for i := range s {
		s[i] = 0
	}
}
func clearStr(s []string) {
	for i := range s {
		s[i] = ""
	}
}

// swap exchanges the stride-wide slots at rowA and rowB.
func (c *columnVariant) swap(rowA, rowB int) {
	if rowA == rowB {
		return
	}
	aLo, aHi := rowA*c.stride, (rowA+1)*c.stride
	bLo, bHi := rowB*c.stride, (rowB+1)*c.stride
	switch c.kind {
	case KindF32:
		swapSliceF32(c.f32[aLo:aHi], c.f32[bLo:bHi])
	case KindF64:
		swapSliceF64(c.f64[aLo:aHi], c.f64[bLo:bHi])
	case KindI8:
		swapSliceI8(c.i8[aLo:aHi], c.i8[bLo:bHi])
	case KindI16:
		swapSliceI16(c.i16[aLo:aHi], c.i16[bLo:bHi])
	case KindI32:
		swapSliceI32(c.i32[aLo:aHi], c.i32[bLo:bHi])
	case KindU8:
		swapSliceU8(c.u8[aLo:aHi], c.u8[bLo:bHi])
	case KindU16:
		swapSliceU16(c.u16[aLo:aHi], c.u16[bLo:bHi])
	case KindU32:
		swapSliceU32(c.u32[aLo:aHi], c.u32[bLo:bHi])
	case KindString:
		swapSliceStr(c.str[aLo:aHi], c.str[bLo:bHi])
	}
}

func swapSliceF32(a, b []float32) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceF64(a, b []float64) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceI8(a, b []int8) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceI16(a, b []int16) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceI32(a, b []int32) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceU8(a, b []uint8) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceU16(a, b []uint16) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceU32(a, b []uint32) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
func swapSliceStr(a, b []string) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// writeAny copies a single value (one element of a numeric/string slice)
// into slot i, converting from whatever concrete numeric type the caller
// supplied. Unrecognized value types are ignored (treated as absent), per
// spec.md §4.3's "missing fields are treated as 0/empty".
func (c *columnVariant) writeAny(i int, v any) {
	switch c.kind {
	case KindF32:
		if f, ok := toFloat64(v); ok {
			c.f32[i] = float32(f)
		}
	case KindF64:
		if f, ok := toFloat64(v); ok {
			c.f64[i] = f
		}
	case KindI8:
		if n, ok := toInt64(v); ok {
			c.i8[i] = int8(n)
		}
	case KindI16:
		if n, ok := toInt64(v); ok {
			c.i16[i] = int16(n)
		}
	case KindI32:
		if n, ok := toInt64(v); ok {
			c.i32[i] = int32(n)
		}
	case KindU8:
		if n, ok := toInt64(v); ok {
			c.u8[i] = uint8(n)
		}
	case KindU16:
		if n, ok := toInt64(v); ok {
			c.u16[i] = uint16(n)
		}
	case KindU32:
		if n, ok := toInt64(v); ok {
			c.u32[i] = uint32(n)
		}
	case KindString:
		if s, ok := v.(string); ok {
			c.str[i] = s
		}
	}
}

// readF32 returns slot i converted to float32 regardless of the column's
// native element kind, for Apply's scalar fallback over mixed-kind
// operands. Strings read as 0.
func (c *columnVariant) readF32(i int) float32 {
	switch c.kind {
	case KindF32:
		return c.f32[i]
	case KindF64:
		return float32(c.f64[i])
	case KindI8:
		return float32(c.i8[i])
	case KindI16:
		return float32(c.i16[i])
	case KindI32:
		return float32(c.i32[i])
	case KindU8:
		return float32(c.u8[i])
	case KindU16:
		return float32(c.u16[i])
	case KindU32:
		return float32(c.u32[i])
	default:
		return 0
	}
}

// readAny returns slot i boxed as an any, for the allocating Read path.
func (c *columnVariant) readAny(i int) any {
	switch c.kind {
	case KindF32:
		return c.f32[i]
	case KindF64:
		return c.f64[i]
	case KindI8:
		return c.i8[i]
	case KindI16:
		return c.i16[i]
	case KindI32:
		return c.i32[i]
	case KindU8:
		return c.u8[i]
	case KindU16:
		return c.u16[i]
	case KindU32:
		return c.u32[i]
	case KindString:
		return c.str[i]
	}
	return nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// columnStore is per-archetype, per-field-with-schema dense storage: one
// columnVariant per field of every schema'd component in the archetype's
// mask. Field access is a map lookup keyed by FieldRef (component plus
// field name), not an array index.
type columnStore struct {
	capacity int
	columns  map[FieldRef]*columnVariant
	order    []FieldRef // stable iteration order, insertion order
}

func newColumnStore(capacity int, defs []ComponentDef) *columnStore {
	cs := &columnStore{capacity: capacity, columns: make(map[FieldRef]*columnVariant)}
	for _, def := range defs {
		if def.schema == nil {
			continue
		}
		for i, name := range def.schema.names {
			ref := FieldRef{Component: def, Field: name}
			v := newColumnVariant(def.schema.specs[i], capacity)
			cs.columns[ref] = &v
			cs.order = append(cs.order, ref)
		}
	}
	return cs
}

func (cs *columnStore) grow(newCapacity int) {
	cs.capacity = newCapacity
	for _, ref := range cs.order {
		cs.columns[ref].grow(newCapacity)
	}
}

// zeroRow zeroes row's slot in every column of the archetype.
func (cs *columnStore) zeroRow(row int) {
	for _, ref := range cs.order {
		cs.columns[ref].zeroRow(row)
	}
}

// writeComponent zeroes then (if data is non-nil) overwrites row's slot in
// just the columns belonging to component — never another component's
// column of the same field name, since FieldRef disambiguates by
// component, not by name alone. Unknown fields in data are ignored;
// missing fields default to zero/empty.
func (cs *columnStore) writeComponent(row int, component ComponentDef, data ComponentData) {
	if component.schema == nil {
		return
	}
	for _, name := range component.schema.names {
		ref := FieldRef{Component: component, Field: name}
		col := cs.columns[ref]
		if col == nil {
			continue
		}
		col.zeroRow(row)
		if data == nil {
			continue
		}
		if v, ok := data[name]; ok {
			cs.writeField(col, row, v)
		}
	}
}

// writeField writes v into row of col, honoring fixed-array fields given as
// a slice. Elements beyond the source length are left as they were:
// writeComponent zeroes the row first, so on that path they are zero, but
// a direct call (World.Set) keeps their previous values.
func (cs *columnStore) writeField(col *columnVariant, row int, v any) {
	if col.stride == 1 {
		col.writeAny(row*col.stride, v)
		return
	}
	seq, ok := asSequence(v)
	if !ok {
		return
	}
	base := row * col.stride
	n := len(seq)
	if n > col.stride {
		n = col.stride
	}
	for i := 0; i < n; i++ {
		col.writeAny(base+i, seq[i])
	}
}

func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []float32:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int32:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}

// readRow returns a fresh ComponentData snapshot of row across every column.
// For fixed-array fields the value is a freshly-allocated length-N []any.
func (cs *columnStore) readRow(row int) ComponentData {
	out := make(ComponentData, len(cs.order))
	for _, ref := range cs.order {
		col := cs.columns[ref]
		if col.stride == 1 {
			out[ref.Field] = col.readAny(row)
			continue
		}
		seq := make([]any, col.stride)
		base := row * col.stride
		for i := 0; i < col.stride; i++ {
			seq[i] = col.readAny(base + i)
		}
		out[ref.Field] = seq
	}
	return out
}

// readComponent returns a fresh ComponentData snapshot of row restricted to
// component's own fields, disambiguating by component rather than by bare
// field name.
func (cs *columnStore) readComponent(row int, component ComponentDef) ComponentData {
	if component.schema == nil {
		return nil
	}
	out := make(ComponentData, len(component.schema.names))
	for _, name := range component.schema.names {
		col := cs.columns[FieldRef{Component: component, Field: name}]
		if col == nil {
			continue
		}
		if col.stride == 1 {
			out[name] = col.readAny(row)
			continue
		}
		seq := make([]any, col.stride)
		base := row * col.stride
		for i := 0; i < col.stride; i++ {
			seq[i] = col.readAny(base + i)
		}
		out[name] = seq
	}
	return out
}

// swap exchanges row rowA and rowB across every column.
func (cs *columnStore) swap(rowA, rowB int) {
	for _, ref := range cs.order {
		cs.columns[ref].swap(rowA, rowB)
	}
}

// field returns the backing storage variant for ref, or nil if the
// archetype carries no column for it (wrong component, or tag).
func (cs *columnStore) field(ref FieldRef) *columnVariant {
	return cs.columns[ref]
}
