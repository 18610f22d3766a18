package foundry

import "fmt"

// UnknownTypeError is returned by DefineSchema when a field's
// type spec isn't one of the recognized tokens (see parseFieldKind).
type UnknownTypeError struct {
	Component string
	Field     string
	Spec      string
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("foundry: component %q field %q: unrecognized type spec %q", e.Component, e.Field, e.Spec)
}

// InvalidOperandError is returned by Apply when an expression references a
// tag component or a field that doesn't exist on that component's schema.
type InvalidOperandError struct {
	Component string
	Field     string
	Reason    string
}

func (e InvalidOperandError) Error() string {
	return fmt.Sprintf("foundry: invalid operand %s.%s: %s", e.Component, e.Field, e.Reason)
}

// missingRowPanic reports the one invariant violation the spec calls fatal:
// a directory placement whose row map disagrees with the table it points to.
// It is never returned as an error — it panics, per spec.md §7 MissingRow.
func missingRowPanic(entity EntityID, archetypeKey string) {
	panic(fmt.Sprintf("foundry: corrupted directory: entity %d placed in archetype %q has no matching row", entity, archetypeKey))
}
