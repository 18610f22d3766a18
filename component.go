package foundry

// FieldKind identifies the element type of one field of a component schema.
type FieldKind int

const (
	KindF32 FieldKind = iota
	KindF64
	KindI8
	KindI16
	KindI32
	KindU8
	KindU16
	KindU32
	KindString
)

// numeric reports whether a kind is backed by a numeric column variant
// (as opposed to the generic string variant). See column.go.
func (k FieldKind) numeric() bool {
	return k != KindString
}

func (k FieldKind) String() string {
	switch k {
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// FieldSpec describes one field in a component schema: its element kind and,
// for fixed-stride array fields, the stride N (1 for scalars).
type FieldSpec struct {
	Kind   FieldKind
	Stride int
}

// fieldSchema is the ordered, resolved schema for one component: field name
// to FieldSpec, plus a name->index side table used to check that a field
// exists. Column storage is not addressed through this index; it is keyed
// by FieldRef (see columnStore).
type fieldSchema struct {
	names   []string
	specs   []FieldSpec
	indexOf map[string]int
}

func newFieldSchema() *fieldSchema {
	return &fieldSchema{indexOf: make(map[string]int)}
}

func (s *fieldSchema) add(name string, spec FieldSpec) {
	s.indexOf[name] = len(s.names)
	s.names = append(s.names, name)
	s.specs = append(s.specs, spec)
}

func (s *fieldSchema) fieldIndex(name string) (int, bool) {
	idx, ok := s.indexOf[name]
	return idx, ok
}

// ComponentDef is a process-unique component identity. It is returned by
// World.DefineTag/DefineUniform/DefineSchema and is stable for the life of
// the World that created it.
type ComponentDef struct {
	id     uint32
	name   string
	schema *fieldSchema // nil for tags
}

// ID returns the component's dense bit index within its owning registry.
func (c ComponentDef) ID() uint32 { return c.id }

// Name returns the component's user-facing name.
func (c ComponentDef) Name() string { return c.name }

// IsTag reports whether the component carries no schema (membership only).
func (c ComponentDef) IsTag() bool { return c.schema == nil }

// FieldRef is a (ComponentDef, field name) pair. It is not resolved to a
// field index: each access looks the pair up in the archetype's column map.
// It is only valid for entities whose archetype mask includes Component.
type FieldRef struct {
	Component ComponentDef
	Field     string
}

// ComponentData is a sparse, user-supplied set of field values keyed by
// field name, used by AddComponent/CreateEntityWith to seed a new row.
// Unknown fields are ignored; missing fields default to zero/empty.
type ComponentData map[string]any
