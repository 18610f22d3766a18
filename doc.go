/*
Package foundry provides an archetype-based Entity-Component-System (ECS)
storage and iteration engine for interactive simulations.

Foundry keeps entities with identical component sets packed together in
dense, struct-of-arrays archetype tables so that iterating over a query's
matches touches only contiguous, cache-friendly memory. Structural changes
(creating or destroying an entity, adding or removing a component) migrate
a single row between archetype tables, and swap-remove moves the source
table's last row into the vacated slot.

Core Concepts:

  - Entity: an opaque id. Its state is the union of rows across the
    archetype tables its components live in.
  - Component: a named, optionally schema'd record shape. A component with
    no schema is a tag — membership only, no data.
  - Archetype: the set of components shared by a group of entities,
    represented by one ArchetypeTable.
  - Query: an include/exclude mask pair used to find matching archetypes.

Basic Usage:

	world := foundry.NewWorld()

	position := world.DefineUniform("Position", foundry.KindF32, "x", "y")
	velocity := world.DefineUniform("Velocity", foundry.KindF32, "x", "y")

	id, _ := world.CreateEntityWith(
		foundry.With(position, nil),
		foundry.With(velocity, nil),
	)

	world.ForEach(foundry.Include(position, velocity), func(v *foundry.View) {
		px := v.Field(foundry.FieldRef{Component: position, Field: "x"})
		vx := v.Field(foundry.FieldRef{Component: velocity, Field: "x"})
		for i := 0; i < v.N; i++ {
			px[i] += vx[i]
		}
	})

Foundry is single-threaded by contract: every exported method must be
called from one owning goroutine. See the package-level Config for the
knobs (logging, SIMD, initial capacity) that apply across a World.
*/
package foundry
