package foundry

import "testing"

func TestEnableTrackingAndFlushChanges(t *testing.T) {
	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	w.EnableTracking(pos)

	id, _ := w.CreateEntityWith(With(pos, ComponentData{"x": float32(1)}))
	created, destroyed := w.FlushChanges()
	if len(created) != 1 || created[0] != id {
		t.Fatalf("created = %v, want [%d]", created, id)
	}
	if len(destroyed) != 0 {
		t.Fatalf("destroyed = %v, want empty", destroyed)
	}

	w.DestroyEntity(id)
	created, destroyed = w.FlushChanges()
	if len(created) != 0 {
		t.Fatalf("created = %v, want empty after destroy", created)
	}
	if len(destroyed) != 1 || destroyed[0] != id {
		t.Fatalf("destroyed = %v, want [%d]", destroyed, id)
	}
}

func TestRemoveComponentOnTrackedArchetypeCountsAsDestroyed(t *testing.T) {
	// Documented conflation: removing a tracked component marks the
	// surviving entity as "destroyed" for tracking purposes, even though
	// it remains alive in a reduced archetype.
	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	vel := w.DefineUniform("Velocity", KindF32, "x")
	w.EnableTracking(pos)

	id, _ := w.CreateEntityWith(With(pos, nil), With(vel, nil))
	w.FlushChanges()

	w.RemoveComponent(id, vel)
	_, destroyed := w.FlushChanges()
	if len(destroyed) != 1 || destroyed[0] != id {
		t.Fatalf("destroyed = %v, want [%d] even though the entity is still alive", destroyed, id)
	}
	if !w.HasComponent(id, pos) {
		t.Fatalf("the entity should still carry Position after the conflated removal")
	}
}

func TestFlushSnapshotsCapturesPriorFrame(t *testing.T) {
	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	w.EnableTracking(pos)

	id, _ := w.CreateEntityWith(With(pos, ComponentData{"x": float32(1)}))
	w.FlushSnapshots()

	w.Set(id, FieldRef{Component: pos, Field: "x"}, float32(2))

	var snapBefore, liveAfter float32
	w.ForEach(Include(pos), func(v *View) {
		snapBefore = v.Snapshot(FieldRef{Component: pos, Field: "x"})[0]
		liveAfter = v.Field(FieldRef{Component: pos, Field: "x"})[0]
	})

	if snapBefore != 1 {
		t.Fatalf("snapshot should still read 1 before the next flush, got %v", snapBefore)
	}
	if liveAfter != 2 {
		t.Fatalf("live field should read the new value 2, got %v", liveAfter)
	}
}

func TestOnEntityDestroyedFiresOnceRegardlessOfComponentCount(t *testing.T) {
	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	vel := w.DefineUniform("Velocity", KindF32, "x")
	id, _ := w.CreateEntityWith(With(pos, nil), With(vel, nil))

	fireCount := 0
	w.OnEntityDestroyed(id, func(EntityID) { fireCount++ })

	w.DestroyEntity(id)
	w.FlushHooks()

	if fireCount != 1 {
		t.Fatalf("fireCount = %d, want exactly 1", fireCount)
	}
}

func TestDescribeArchetype(t *testing.T) {
	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	vel := w.DefineUniform("Velocity", KindF32, "x")
	w.CreateEntityWith(With(pos, nil), With(vel, nil))

	var mask BitMask
	mask = mask.Set(pos.ID()).Set(vel.ID())
	defs, ok := w.DescribeArchetype(mask)
	if !ok || len(defs) != 2 {
		t.Fatalf("DescribeArchetype = (%v, %v), want 2 defs", defs, ok)
	}

	if _, ok := w.DescribeArchetype(BitMask{}.Set(99)); ok {
		t.Fatalf("DescribeArchetype should report false for a mask never observed")
	}
}
