package foundry

// World owns one registry of component definitions, the archetype index,
// the entity directory, the hook bus, and the deferral queue — every piece
// of engine state a program interacts with. Grounded on the teacher's own
// Storage, which plays the same "one root object, several owned
// collaborators" role; generalized to the smaller, purpose-built
// collaborators in this package rather than the teacher's table/mask/util
// trio.
//
// World is not safe for concurrent use: every exported method must be
// called from one owning goroutine, the same single-threaded contract the
// teacher's Storage carries.
type World struct {
	registry  *componentRegistry
	index     *archetypeIndex
	directory *entityDirectory
	hooks     *hookBus
	deferral  *deferralQueue
}

// NewWorld constructs an empty World with no components defined and no
// entities.
func NewWorld() *World {
	return &World{
		registry:  newComponentRegistry(),
		index:     newArchetypeIndex(),
		directory: newEntityDirectory(),
		hooks:     newHookBus(),
		deferral:  newDeferralQueue(),
	}
}

// DefineTag registers a membership-only component (no data).
func (w *World) DefineTag(name string) ComponentDef {
	return w.registry.defineTag(name)
}

// DefineUniform registers a component whose fields all share one FieldKind.
func (w *World) DefineUniform(name string, kind FieldKind, fields ...string) ComponentDef {
	return w.registry.defineUniform(name, kind, fields...)
}

// DefineSchema registers a component with mixed field kinds, each given as
// a type-spec string (see parseFieldKind) keyed by field name. order gives
// the field iteration order since map iteration order is not stable.
func (w *World) DefineSchema(name string, fields map[string]string, order []string) (ComponentDef, error) {
	return w.registry.defineSchema(name, fields, order)
}

// LookupComponent resolves a previously defined component by name.
func (w *World) LookupComponent(name string) (ComponentDef, bool) {
	return w.registry.lookupByName(name)
}

// DescribeArchetype returns the components of the archetype currently
// backing mask, or false if no such archetype has been created yet.
func (w *World) DescribeArchetype(mask BitMask) ([]ComponentDef, bool) {
	t, ok := w.index.byKey[mask.Key()]
	if !ok {
		return nil, false
	}
	return t.defs, true
}

// EnableTracking turns on change tracking for component: every archetype
// whose mask includes it grows a snapshot mirror, refreshed by
// FlushSnapshots, and entity creation/destruction against it is recorded
// for FlushChanges. RemoveComponent on an entity whose archetype overlaps
// the tracked component also records that entity as destroyed, even though
// it stays alive in the reduced archetype.
func (w *World) EnableTracking(component ComponentDef) {
	w.index.enableTracking(component.id)
}

// FlushChanges returns and resets the ids created/destroyed since the last
// call, restricted to entities whose archetype overlaps a tracked
// component.
func (w *World) FlushChanges() (created, destroyed []EntityID) {
	return w.index.flushChanges()
}

// FlushSnapshots copies every tracked archetype's live prefix into its
// snapshot mirror, making the previous frame's values available via
// View.Snapshot until the next call.
func (w *World) FlushSnapshots() {
	w.index.flushAllSnapshots()
}

// OnAdd registers cb to run once per entity that gains component, the
// first time that component becomes present on it (not on every
// AddComponent call — see AddComponent's already-present case). Returns an
// Unsubscribe.
func (w *World) OnAdd(component ComponentDef, cb func(EntityID)) Unsubscribe {
	return w.hooks.onAdd(component.id, cb)
}

// OnRemove registers cb to run once per entity that loses component,
// whether by RemoveComponent or by the entity's destruction. Returns an
// Unsubscribe.
func (w *World) OnRemove(component ComponentDef, cb func(EntityID)) Unsubscribe {
	return w.hooks.onRemove(component.id, cb)
}

// OnEntityDestroyed registers cb to run once when id is destroyed,
// regardless of which components it carried. It is a thin convenience over
// per-component OnRemove subscriptions on every component defined at
// registration time, since DestroyEntity fires OnRemove once per surviving
// component rather than a single destruction-wide event. A remove event
// for an id that is still known (a plain RemoveComponent) does not run cb.
// Components defined after registration are not covered, and an entity
// destroyed while carrying no components produces no event, so cb does not
// run for it.
func (w *World) OnEntityDestroyed(id EntityID, cb func(EntityID)) Unsubscribe {
	unsubs := make([]Unsubscribe, 0, 4)
	fired := false
	wrap := func(removed EntityID) {
		if removed == id && !fired && !w.directory.isKnown(removed) {
			fired = true
			cb(removed)
		}
	}
	for _, def := range w.registry.defs {
		unsubs = append(unsubs, w.hooks.onRemove(def.id, wrap))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// FlushHooks invokes every registered add/remove observer for events
// buffered since the last flush, in deterministic order: adds before
// removes, each in subscription order of components then registration
// order of observers.
func (w *World) FlushHooks() {
	w.hooks.flush()
}

// Components returns every component defined on w, in definition order.
// Used by external collaborators (such as codec) that need to walk the
// full schema without reaching into World's internals.
func (w *World) Components() []ComponentDef {
	out := make([]ComponentDef, len(w.registry.defs))
	copy(out, w.registry.defs)
	return out
}

// KnownEntities returns every entity id currently known to w (including
// those with zero components), in no particular order.
func (w *World) KnownEntities() []EntityID {
	out := make([]EntityID, 0, len(w.directory.knownIDs))
	for id := range w.directory.knownIDs {
		out = append(out, id)
	}
	return out
}

// NextEntityID reports the id that the next CreateEntity/CreateEntityWith
// call will allocate.
func (w *World) NextEntityID() EntityID {
	return w.directory.nextID
}

// Reset discards every entity, archetype, and cache, returning w to the
// state NewWorld would produce except that component definitions (and
// their ids) are preserved — matching spec.md §6's deserialize contract
// of "clear all prior state" without forcing callers to redefine their
// schema.
func (w *World) Reset() {
	w.index = newArchetypeIndex()
	w.directory = newEntityDirectory()
	w.hooks = newHookBus()
	w.deferral = newDeferralQueue()
}

// RestoreNextEntityID forces the next allocated id, used by a deserializer
// restoring a SerializedWorld's nextId field after recreating its entities.
func (w *World) RestoreNextEntityID(next EntityID) {
	w.directory.nextID = next
}

// CommitRemovals discards tombstoned component data captured for
// OnRemove observers. Call once FlushHooks has run and no observer still
// needs to read a removed row.
func (w *World) CommitRemovals() {
	w.hooks.commitRemovals()
}
