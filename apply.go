package foundry

import "github.com/rotisserie/eris"

// Expr is a node in an arithmetic expression tree evaluated by Apply,
// elementwise, across one archetype's target column. Grounded on the
// teacher's cache.go node/evaluate idiom (a small sum type over leaf/unary/
// binary shapes, each knowing how to evaluate itself), retargeted from
// boolean mask queries to float32 arithmetic.
type Expr interface {
	// collectRefs appends every FieldRef this node's Field leaves read.
	collectRefs(out *[]FieldRef)
}

// FieldExpr reads an entity row's existing value at Ref.
type FieldExpr struct{ Ref FieldRef }

// RandomExpr fills with a uniform [Min, Max) value drawn from the target
// column's persisted per-archetype LCG stream.
type RandomExpr struct{ Min, Max float32 }

// AddExpr computes A + B elementwise.
type AddExpr struct{ A, B Expr }

// SubExpr computes A - B elementwise.
type SubExpr struct{ A, B Expr }

// MulExpr computes A * B elementwise.
type MulExpr struct{ A, B Expr }

// ScaleExpr computes A * Factor, a scalar multiply against a fixed constant
// rather than a second column.
type ScaleExpr struct {
	A      Expr
	Factor float32
}

func Field(ref FieldRef) Expr           { return FieldExpr{Ref: ref} }
func Random(min, max float32) Expr      { return RandomExpr{Min: min, Max: max} }
func Add(a, b Expr) Expr                { return AddExpr{A: a, B: b} }
func Sub(a, b Expr) Expr                { return SubExpr{A: a, B: b} }
func Mul(a, b Expr) Expr                { return MulExpr{A: a, B: b} }
func Scale(a Expr, factor float32) Expr { return ScaleExpr{A: a, Factor: factor} }

func (e FieldExpr) collectRefs(out *[]FieldRef)  { *out = append(*out, e.Ref) }
func (e RandomExpr) collectRefs(out *[]FieldRef) {}
func (e AddExpr) collectRefs(out *[]FieldRef)    { e.A.collectRefs(out); e.B.collectRefs(out) }
func (e SubExpr) collectRefs(out *[]FieldRef)    { e.A.collectRefs(out); e.B.collectRefs(out) }
func (e MulExpr) collectRefs(out *[]FieldRef)    { e.A.collectRefs(out); e.B.collectRefs(out) }
func (e ScaleExpr) collectRefs(out *[]FieldRef)  { e.A.collectRefs(out) }

// Apply evaluates expr against target across every archetype table matched
// by (required components of target and expr) ∪ filter.include, minus
// filter.exclude, writing the result back into target's column in place.
// It never allocates an entity row, migrates one, or fires a hook — only
// target's existing column values change.
//
// A table that matches but carries no column for target (a tag, or simply
// absent) is skipped silently. An operand that names a tag component, or a
// field that component's schema doesn't have, is reported as
// InvalidOperandError and target is left untouched for every table.
func (w *World) Apply(target FieldRef, expr Expr, filter Filter) error {
	if err := validateOperand(target); err != nil {
		return err
	}
	var refs []FieldRef
	refs = append(refs, target)
	expr.collectRefs(&refs)

	required := BitMask{}
	for _, ref := range refs {
		if err := validateOperand(ref); err != nil {
			return err
		}
		required = required.Set(ref.Component.id)
	}

	include := required.Union(filter.include)
	tables := w.index.queryMatches(include, filter.exclude)
	for _, t := range tables {
		if t.n == 0 {
			continue
		}
		col := t.columns.field(target)
		if col == nil || col.kind != KindF32 {
			continue
		}
		runApply(t, target, col, expr, t.n*col.stride)
	}
	return nil
}

func validateOperand(ref FieldRef) error {
	if ref.Component.IsTag() {
		return eris.Wrap(InvalidOperandError{
			Component: ref.Component.name,
			Field:     ref.Field,
			Reason:    "tag components carry no data",
		}, "apply")
	}
	if _, ok := ref.Component.schema.fieldIndex(ref.Field); !ok {
		return eris.Wrap(InvalidOperandError{
			Component: ref.Component.name,
			Field:     ref.Field,
			Reason:    "no such field on this component's schema",
		}, "apply")
	}
	return nil
}

// runApply dispatches expr across total elements of target's column in t,
// using the lane-of-4 kernel when Config.simdEnabled and every Field
// operand is itself backed by an f32 column in t (stride is not compared
// with target's); otherwise
// falls back to the scalar loop. Both paths write bit-identical results
// for add/sub/mul/scale; random streams differ between the two (each
// advances its own persisted LCG state) but are each independently
// reproducible across calls.
func runApply(t *archetypeTable, target FieldRef, col *columnVariant, expr Expr, total int) {
	if Config.simdEnabled && allF32Operands(t, expr) {
		applySIMD(t, target, col.f32[:total], expr, total)
		return
	}
	applyScalar(t, target, col.f32[:total], expr, total)
}

func allF32Operands(t *archetypeTable, expr Expr) bool {
	var refs []FieldRef
	expr.collectRefs(&refs)
	for _, ref := range refs {
		c := t.columns.field(ref)
		if c == nil || c.kind != KindF32 {
			return false
		}
	}
	return true
}

// applyScalar evaluates expr once per element, sequentially, drawing every
// Random leaf from target's persisted LCG lane 0.
func applyScalar(t *archetypeTable, target FieldRef, dst []float32, expr Expr, total int) {
	st := t.randomStateFor(target)
	for i := 0; i < total; i++ {
		dst[i] = evalScalar(t, expr, i, st)
	}
}

func evalScalar(t *archetypeTable, expr Expr, i int, st *lcgState) float32 {
	switch e := expr.(type) {
	case FieldExpr:
		c := t.columns.field(e.Ref)
		return c.readF32(i)
	case RandomExpr:
		return st.nextScalar(e.Min, e.Max)
	case AddExpr:
		return evalScalar(t, e.A, i, st) + evalScalar(t, e.B, i, st)
	case SubExpr:
		return evalScalar(t, e.A, i, st) - evalScalar(t, e.B, i, st)
	case MulExpr:
		return evalScalar(t, e.A, i, st) * evalScalar(t, e.B, i, st)
	case ScaleExpr:
		return evalScalar(t, e.A, i, st) * e.Factor
	default:
		return 0
	}
}
