package foundry

import "testing"

func newTestPosVelDefs(r *componentRegistry) (pos, vel ComponentDef) {
	pos = r.defineUniform("Position", KindF32, "x", "y")
	vel = r.defineUniform("Velocity", KindF32, "x", "y")
	return pos, vel
}

func TestArchetypeTableAddRowWritesOnlyOwnComponentFields(t *testing.T) {
	r := newComponentRegistry()
	pos := r.defineUniform("Position", KindF32, "x")
	vel := r.defineUniform("Velocity", KindF32, "x")

	var mask BitMask
	mask = mask.Set(pos.ID()).Set(vel.ID())
	table := newArchetypeTable(mask, []ComponentDef{pos, vel})

	seeds := map[uint32]ComponentData{
		pos.ID(): {"x": float32(1)},
		vel.ID(): {"x": float32(2)},
	}
	row := table.addRow(1, seeds)

	posData := table.readComponent(row, pos)
	velData := table.readComponent(row, vel)
	if posData["x"] != float32(1) {
		t.Fatalf("Position.x = %v, want 1 (shared field name %q must not leak between components)", posData["x"], "x")
	}
	if velData["x"] != float32(2) {
		t.Fatalf("Velocity.x = %v, want 2", velData["x"])
	}
}

func TestArchetypeTableAddRowGrows(t *testing.T) {
	r := newComponentRegistry()
	pos, _ := newTestPosVelDefs(r)
	var mask BitMask
	mask = mask.Set(pos.ID())
	table := newArchetypeTable(mask, []ComponentDef{pos})

	start := table.capacity
	for i := 0; i < start+5; i++ {
		table.addRow(EntityID(i+1), nil)
	}
	if table.capacity <= start {
		t.Fatalf("capacity did not grow past initial %d", start)
	}
	if table.n != start+5 {
		t.Fatalf("n = %d, want %d", table.n, start+5)
	}
}

func TestArchetypeTableRemoveRowSwapsLast(t *testing.T) {
	r := newComponentRegistry()
	pos, _ := newTestPosVelDefs(r)
	var mask BitMask
	mask = mask.Set(pos.ID())
	table := newArchetypeTable(mask, []ComponentDef{pos})

	table.addRow(1, map[uint32]ComponentData{pos.ID(): {"x": float32(1)}})
	table.addRow(2, map[uint32]ComponentData{pos.ID(): {"x": float32(2)}})
	table.addRow(3, map[uint32]ComponentData{pos.ID(): {"x": float32(3)}})

	row1 := table.rowOf[1]
	table.removeRow(row1)

	if table.n != 2 {
		t.Fatalf("n = %d, want 2", table.n)
	}
	if _, stillThere := table.rowOf[1]; stillThere {
		t.Fatalf("entity 1 should no longer have a row")
	}
	for _, id := range []EntityID{2, 3} {
		row, ok := table.rowOf[id]
		if !ok {
			t.Fatalf("entity %d lost its row", id)
		}
		if table.entityID[row] != id {
			t.Fatalf("entityID[%d] = %d, want %d", row, table.entityID[row], id)
		}
	}
}

func TestArchetypeTableFlushSnapshot(t *testing.T) {
	r := newComponentRegistry()
	pos, _ := newTestPosVelDefs(r)
	var mask BitMask
	mask = mask.Set(pos.ID())
	table := newArchetypeTable(mask, []ComponentDef{pos})
	table.enableSnapshot()

	table.addRow(1, map[uint32]ComponentData{pos.ID(): {"x": float32(10)}})
	table.flushSnapshot()

	ref := FieldRef{Component: pos, Field: "x"}
	snapCol := table.snapshot.field(ref)
	if snapCol.f32[0] != 10 {
		t.Fatalf("snapshot.x[0] = %v, want 10", snapCol.f32[0])
	}

	// Mutating the live column after a flush must not retroactively change
	// the already-flushed snapshot.
	liveCol := table.columns.field(ref)
	liveCol.f32[0] = 999
	if snapCol.f32[0] != 10 {
		t.Fatalf("snapshot.x[0] changed to %v after live mutation, want unchanged 10", snapCol.f32[0])
	}
}

func TestColumnVariantFixedStrideArrayField(t *testing.T) {
	r := newComponentRegistry()
	def, err := r.defineSchema("Tags", map[string]string{"ids": "i32[4]"}, []string{"ids"})
	if err != nil {
		t.Fatalf("defineSchema: %v", err)
	}
	var mask BitMask
	mask = mask.Set(def.ID())
	table := newArchetypeTable(mask, []ComponentDef{def})

	table.addRow(1, map[uint32]ComponentData{def.ID(): {"ids": []int32{1, 2, 3}}})
	data := table.readComponent(0, def)
	seq, ok := data["ids"].([]any)
	if !ok {
		t.Fatalf("ids field is %T, want []any", data["ids"])
	}
	want := []any{int32(1), int32(2), int32(3), int32(0)}
	for i, v := range want {
		if seq[i] != v {
			t.Fatalf("ids[%d] = %v, want %v", i, seq[i], v)
		}
	}
}
