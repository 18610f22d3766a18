package foundry

import "testing"

func TestBitMaskSetHas(t *testing.T) {
	tests := []struct {
		name string
		bits []uint32
		want []uint32
		no   []uint32
	}{
		{"single low bit", []uint32{3}, []uint32{3}, []uint32{0, 1, 2, 4}},
		{"crosses word boundary", []uint32{5, 70}, []uint32{5, 70}, []uint32{69, 71}},
		{"many bits", []uint32{0, 64, 128, 200}, []uint32{0, 64, 128, 200}, []uint32{1, 63, 65}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m BitMask
			for _, b := range tt.bits {
				m = m.Set(b)
			}
			for _, b := range tt.want {
				if !m.Has(b) {
					t.Errorf("Has(%d) = false, want true", b)
				}
			}
			for _, b := range tt.no {
				if m.Has(b) {
					t.Errorf("Has(%d) = true, want false", b)
				}
			}
		})
	}
}

func TestBitMaskImmutableSet(t *testing.T) {
	var base BitMask
	base = base.Set(1)
	derived := base.Set(2)
	if base.Has(2) {
		t.Fatalf("Set mutated the receiver: base gained bit 2")
	}
	if !derived.Has(1) || !derived.Has(2) {
		t.Fatalf("derived mask missing a bit: %v", derived)
	}
}

func TestBitMaskClear(t *testing.T) {
	var m BitMask
	m = m.Set(1).Set(2).Set(3)
	m = m.Clear(2)
	if m.Has(2) {
		t.Fatalf("Clear(2) left bit 2 set")
	}
	if !m.Has(1) || !m.Has(3) {
		t.Fatalf("Clear(2) disturbed other bits: %v", m)
	}
}

func TestBitMaskContainsAllAnyNone(t *testing.T) {
	var a, b, c BitMask
	a = a.Set(1).Set(2).Set(3)
	b = b.Set(1).Set(2)
	c = c.Set(9)

	if !a.ContainsAll(b) {
		t.Errorf("ContainsAll: a should be superset of b")
	}
	if b.ContainsAll(a) {
		t.Errorf("ContainsAll: b should not be superset of a")
	}
	if !a.ContainsAny(b) {
		t.Errorf("ContainsAny: a and b overlap")
	}
	if !a.ContainsNone(c) {
		t.Errorf("ContainsNone: a and c are disjoint")
	}
	if a.ContainsAny(c) {
		t.Errorf("ContainsAny: a and c should not overlap")
	}
}

func TestBitMaskEqualIgnoresTrailingZeroWords(t *testing.T) {
	var a, b BitMask
	a = a.Set(200).Clear(200) // grows to 4 words, then clears, trims
	b = BitMask{}
	if !a.Equal(b) {
		t.Fatalf("a and b should be value-equal empty masks, got a=%v b=%v", a, b)
	}
	if a.Key() != b.Key() {
		t.Fatalf("Key() should agree for value-equal masks: %q vs %q", a.Key(), b.Key())
	}
}

func TestBitMaskKeyStable(t *testing.T) {
	var a, b BitMask
	a = a.Set(5).Set(70)
	b = b.Set(70).Set(5)
	if a.Key() != b.Key() {
		t.Fatalf("Key() should be order-independent: %q vs %q", a.Key(), b.Key())
	}
}

func TestBitMaskCount(t *testing.T) {
	var m BitMask
	m = m.Set(1).Set(5).Set(130)
	if got := m.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
}

func TestBitMaskForEachSetAscending(t *testing.T) {
	var m BitMask
	m = m.Set(130).Set(1).Set(64)
	var got []uint32
	m.ForEachSet(func(bit uint32) { got = append(got, bit) })
	want := []uint32{1, 64, 130}
	if len(got) != len(want) {
		t.Fatalf("ForEachSet produced %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ForEachSet produced %v, want %v", got, want)
		}
	}
}

func TestBitMaskUnion(t *testing.T) {
	var a, b BitMask
	a = a.Set(1).Set(2)
	b = b.Set(2).Set(3)
	u := a.Union(b)
	for _, bit := range []uint32{1, 2, 3} {
		if !u.Has(bit) {
			t.Errorf("Union missing bit %d", bit)
		}
	}
	if u.Has(4) {
		t.Errorf("Union has unexpected bit 4")
	}
}
