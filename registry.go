package foundry

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// componentRegistry interns ComponentDefs, assigning each a dense bit index
// on first observation, and holds per-component schemas. Grounded on the
// teacher's schema.Register/RowIndexFor idiom (storage.go, entity.go),
// generalized from "register a Go type" to "parse a type-spec string into
// a FieldKind" per spec.md §4.1.
type componentRegistry struct {
	byName map[string]uint32
	defs   []ComponentDef
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{byName: make(map[string]uint32)}
}

func (r *componentRegistry) nextID() uint32 {
	return uint32(len(r.defs))
}

func (r *componentRegistry) intern(def ComponentDef) ComponentDef {
	def.id = r.nextID()
	r.byName[def.name] = def.id
	r.defs = append(r.defs, def)
	return def
}

// defineTag registers a component with no schema: membership only.
func (r *componentRegistry) defineTag(name string) ComponentDef {
	return r.intern(ComponentDef{name: name})
}

// defineUniform registers a component whose fields all share one FieldKind.
func (r *componentRegistry) defineUniform(name string, kind FieldKind, fields ...string) ComponentDef {
	schema := newFieldSchema()
	for _, f := range fields {
		schema.add(f, FieldSpec{Kind: kind, Stride: 1})
	}
	return r.intern(ComponentDef{name: name, schema: schema})
}

// defineSchema registers a component with mixed field kinds, each given as
// a type-spec string (see parseFieldKind) keyed by field name. order gives
// the field iteration order (map iteration order is not stable).
func (r *componentRegistry) defineSchema(name string, fields map[string]string, order []string) (ComponentDef, error) {
	schema := newFieldSchema()
	for _, fieldName := range order {
		spec, ok := fields[fieldName]
		if !ok {
			continue
		}
		kind, stride, err := parseFieldKind(spec)
		if err != nil {
			return ComponentDef{}, eris.Wrap(UnknownTypeError{Component: name, Field: fieldName, Spec: spec}, "defineSchema")
		}
		schema.add(fieldName, FieldSpec{Kind: kind, Stride: stride})
	}
	return r.intern(ComponentDef{name: name, schema: schema}), nil
}

func (r *componentRegistry) bitIndexOf(def ComponentDef) uint32 {
	return def.id
}

func (r *componentRegistry) lookup(id uint32) (ComponentDef, bool) {
	if int(id) >= len(r.defs) {
		return ComponentDef{}, false
	}
	return r.defs[id], true
}

func (r *componentRegistry) lookupByName(name string) (ComponentDef, bool) {
	id, ok := r.byName[name]
	if !ok {
		return ComponentDef{}, false
	}
	return r.defs[id], true
}

// defsForMask resolves every bit set in mask to its ComponentDef, in
// ascending bit order. Used to build a new archetype table's fixed
// component/column ordering the first time a given mask is observed.
func (r *componentRegistry) defsForMask(mask BitMask) []ComponentDef {
	var defs []ComponentDef
	mask.ForEachSet(func(bit uint32) {
		if def, ok := r.lookup(bit); ok {
			defs = append(defs, def)
		}
	})
	return defs
}

// parseFieldKind recognizes the token set {"f32","f64","i8","i16","i32",
// "u8","u16","u32","string"} optionally followed by "[N]" (N >= 1) denoting
// a fixed-stride array field. Returns UnknownTypeError-compatible failure
// via a plain error; callers attach component/field context.
func parseFieldKind(spec string) (FieldKind, int, error) {
	base := spec
	stride := 1
	if idx := strings.IndexByte(spec, '['); idx >= 0 {
		if !strings.HasSuffix(spec, "]") {
			return 0, 0, eris.Errorf("malformed array spec %q", spec)
		}
		base = spec[:idx]
		n, err := strconv.Atoi(spec[idx+1 : len(spec)-1])
		if err != nil || n < 1 {
			return 0, 0, eris.Errorf("malformed array length in %q", spec)
		}
		stride = n
	}
	switch base {
	case "f32":
		return KindF32, stride, nil
	case "f64":
		return KindF64, stride, nil
	case "i8":
		return KindI8, stride, nil
	case "i16":
		return KindI16, stride, nil
	case "i32":
		return KindI32, stride, nil
	case "u8":
		return KindU8, stride, nil
	case "u16":
		return KindU16, stride, nil
	case "u32":
		return KindU32, stride, nil
	case "string":
		if stride != 1 {
			return 0, 0, eris.Errorf("string fields cannot be fixed-stride arrays: %q", spec)
		}
		return KindString, 1, nil
	default:
		return 0, 0, eris.Errorf("unknown type token %q", base)
	}
}
