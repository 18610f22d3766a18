package foundry

// lcgState is a target column's persisted pseudo-random stream: four
// independent lanes so the SIMD kernel can advance a full vector register
// per step, plus a serial continuation (lane 0) for the scalar remainder.
// Grounded on spec.md's fixed-parameter LCG (multiplier 1664525, increment
// 1013904223); the four-lane split itself has no teacher precedent in the
// pack — golang.org/x/sys/cpu's capability probe is the pack's one
// SIMD-adjacent dependency, so the kernel below is hand-rolled, lane-wide
// arithmetic rather than an intrinsic or assembly routine.
type lcgState struct {
	lanes [4]uint32
}

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

func newLCGState() *lcgState {
	st := &lcgState{}
	for i := range st.lanes {
		st.lanes[i] = uint32(i)*0x6C8E9CF7 + 0x9E3779B9
	}
	return st
}

// toUnit maps a 32-bit LCG state to [0, 1) the way spec.md's scaling rule
// specifies: drop the low 8 bits, scale by 2^-24.
func toUnit(state uint32) float32 {
	return float32(state>>8) * (1.0 / 16777216.0)
}

// nextScalar advances lane 0 only and returns one value affine-mapped into
// [min, max).
func (st *lcgState) nextScalar(min, max float32) float32 {
	st.lanes[0] = st.lanes[0]*lcgMultiplier + lcgIncrement
	return min + toUnit(st.lanes[0])*(max-min)
}

// nextLane4 advances all four lanes one step and returns their values,
// each affine-mapped into [min, max).
func (st *lcgState) nextLane4(min, max float32) [4]float32 {
	var out [4]float32
	span := max - min
	for i := 0; i < 4; i++ {
		st.lanes[i] = st.lanes[i]*lcgMultiplier + lcgIncrement
		out[i] = min + toUnit(st.lanes[i])*span
	}
	return out
}

// applySIMD evaluates expr in groups of 4 elements (one lane-wide step per
// group) over dst[0:total], then finishes any remainder (total%4 elements)
// with the ordinary scalar loop continuing from the same persisted state.
func applySIMD(t *archetypeTable, target FieldRef, dst []float32, expr Expr, total int) {
	st := t.randomStateFor(target)
	lanes := total / 4 * 4
	for base := 0; base < lanes; base += 4 {
		var group [4]float32
		evalLane4(t, expr, base, st, &group)
		dst[base+0] = group[0]
		dst[base+1] = group[1]
		dst[base+2] = group[2]
		dst[base+3] = group[3]
	}
	for i := lanes; i < total; i++ {
		dst[i] = evalScalar(t, expr, i, st)
	}
}

// evalLane4 evaluates expr for the four consecutive elements [base, base+4)
// at once, writing them into out.
func evalLane4(t *archetypeTable, expr Expr, base int, st *lcgState, out *[4]float32) {
	switch e := expr.(type) {
	case FieldExpr:
		c := t.columns.field(e.Ref)
		out[0], out[1], out[2], out[3] = c.f32[base], c.f32[base+1], c.f32[base+2], c.f32[base+3]
	case RandomExpr:
		*out = st.nextLane4(e.Min, e.Max)
	case AddExpr:
		var a, b [4]float32
		evalLane4(t, e.A, base, st, &a)
		evalLane4(t, e.B, base, st, &b)
		for i := 0; i < 4; i++ {
			out[i] = a[i] + b[i]
		}
	case SubExpr:
		var a, b [4]float32
		evalLane4(t, e.A, base, st, &a)
		evalLane4(t, e.B, base, st, &b)
		for i := 0; i < 4; i++ {
			out[i] = a[i] - b[i]
		}
	case MulExpr:
		var a, b [4]float32
		evalLane4(t, e.A, base, st, &a)
		evalLane4(t, e.B, base, st, &b)
		for i := 0; i < 4; i++ {
			out[i] = a[i] * b[i]
		}
	case ScaleExpr:
		var a [4]float32
		evalLane4(t, e.A, base, st, &a)
		for i := 0; i < 4; i++ {
			out[i] = a[i] * e.Factor
		}
	}
}
