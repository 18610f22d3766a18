package foundry

import (
	"errors"
	"testing"
)

func TestParseFieldKind(t *testing.T) {
	tests := []struct {
		spec       string
		wantKind   FieldKind
		wantStride int
		wantErr    bool
	}{
		{"f32", KindF32, 1, false},
		{"f64", KindF64, 1, false},
		{"i8", KindI8, 1, false},
		{"u32", KindU32, 1, false},
		{"string", KindString, 1, false},
		{"f32[3]", KindF32, 3, false},
		{"string[3]", 0, 0, true},
		{"bogus", 0, 0, true},
		{"f32[0]", 0, 0, true},
		{"f32[", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			kind, stride, err := parseFieldKind(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFieldKind(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if kind != tt.wantKind || stride != tt.wantStride {
				t.Fatalf("parseFieldKind(%q) = (%v,%v), want (%v,%v)", tt.spec, kind, stride, tt.wantKind, tt.wantStride)
			}
		})
	}
}

func TestComponentRegistryInternAssignsDenseIDs(t *testing.T) {
	r := newComponentRegistry()
	a := r.defineTag("A")
	b := r.defineTag("B")
	c := r.defineTag("C")
	if a.ID() != 0 || b.ID() != 1 || c.ID() != 2 {
		t.Fatalf("expected dense sequential ids, got %d,%d,%d", a.ID(), b.ID(), c.ID())
	}
}

func TestComponentRegistryDefineUniform(t *testing.T) {
	r := newComponentRegistry()
	pos := r.defineUniform("Position", KindF32, "x", "y")
	if pos.IsTag() {
		t.Fatalf("Position should not be a tag")
	}
	if _, ok := pos.schema.fieldIndex("x"); !ok {
		t.Fatalf("Position schema missing field x")
	}
	if _, ok := pos.schema.fieldIndex("z"); ok {
		t.Fatalf("Position schema should not have field z")
	}
}

func TestComponentRegistryDefineSchemaOrderAndErrors(t *testing.T) {
	r := newComponentRegistry()
	def, err := r.defineSchema("Mixed", map[string]string{
		"x":     "f32",
		"label": "string",
		"tags":  "i32[4]",
	}, []string{"x", "label", "tags"})
	if err != nil {
		t.Fatalf("defineSchema returned error: %v", err)
	}
	if len(def.schema.names) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(def.schema.names))
	}
	if def.schema.specs[2].Stride != 4 {
		t.Fatalf("expected tags stride 4, got %d", def.schema.specs[2].Stride)
	}

	_, err = r.defineSchema("Bad", map[string]string{"x": "notakind"}, []string{"x"})
	if err == nil {
		t.Fatalf("expected an error for an unrecognized type token")
	}
	var ute UnknownTypeError
	if !errors.As(err, &ute) {
		t.Fatalf("expected an UnknownTypeError in the chain, got %v", err)
	}
}

func TestComponentRegistryLookup(t *testing.T) {
	r := newComponentRegistry()
	pos := r.defineUniform("Position", KindF32, "x", "y")

	got, ok := r.lookup(pos.ID())
	if !ok || got.Name() != "Position" {
		t.Fatalf("lookup(%d) = (%v, %v)", pos.ID(), got, ok)
	}
	if _, ok := r.lookup(99); ok {
		t.Fatalf("lookup(99) should report not found")
	}

	got, ok = r.lookupByName("Position")
	if !ok || got.ID() != pos.ID() {
		t.Fatalf("lookupByName(Position) = (%v, %v)", got, ok)
	}
	if _, ok := r.lookupByName("Nope"); ok {
		t.Fatalf("lookupByName(Nope) should report not found")
	}
}

func TestComponentRegistryDefsForMask(t *testing.T) {
	r := newComponentRegistry()
	pos := r.defineUniform("Position", KindF32, "x", "y")
	vel := r.defineUniform("Velocity", KindF32, "x", "y")

	var mask BitMask
	mask = mask.Set(pos.ID()).Set(vel.ID())
	defs := r.defsForMask(mask)
	if len(defs) != 2 {
		t.Fatalf("expected 2 defs, got %d", len(defs))
	}
	if defs[0].Name() != "Position" || defs[1].Name() != "Velocity" {
		t.Fatalf("defsForMask should resolve in ascending bit order, got %v", defs)
	}
}
