package foundry

// hookBus registers add/remove observers per component, buffers pending
// ids, and flushes them deterministically, carrying a tombstone map so
// remove-observers can read the deceased row until the next commit.
// Grounded on cardinal/ecs/ecb.Manager's "buffer pending changes, flush
// deterministically" shape (Argus-Labs-world-engine), and on the teacher's
// own EntityDestroyCallback for the single-observer-list idiom.
type hookBus struct {
	addObservers    map[uint32][]addSub
	removeObservers map[uint32][]removeSub
	nextSubID       uint64

	// subscription order of components that currently have at least one
	// pending buffer allocated, so flush() can walk "first pending-adds
	// across all components in insertion order of the component's
	// subscription" per spec.md §4.7.
	addOrder    []uint32
	removeOrder []uint32

	pendingAdd    map[uint32][]EntityID
	pendingRemove map[uint32][]EntityID

	tombstones map[EntityID]map[uint32]ComponentData
}

type addSub struct {
	id uint64
	cb func(EntityID)
}
type removeSub struct {
	id uint64
	cb func(EntityID)
}

func newHookBus() *hookBus {
	return &hookBus{
		addObservers:    make(map[uint32][]addSub),
		removeObservers: make(map[uint32][]removeSub),
		pendingAdd:      make(map[uint32][]EntityID),
		pendingRemove:   make(map[uint32][]EntityID),
		tombstones:      make(map[EntityID]map[uint32]ComponentData),
	}
}

// Unsubscribe removes a registered observer by identity.
type Unsubscribe func()

func (h *hookBus) onAdd(componentID uint32, cb func(EntityID)) Unsubscribe {
	if _, has := h.pendingAdd[componentID]; !has {
		h.addOrder = append(h.addOrder, componentID)
		h.pendingAdd[componentID] = nil
	}
	h.nextSubID++
	subID := h.nextSubID
	h.addObservers[componentID] = append(h.addObservers[componentID], addSub{id: subID, cb: cb})
	return func() {
		subs := h.addObservers[componentID]
		for i, s := range subs {
			if s.id == subID {
				h.addObservers[componentID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(h.addObservers[componentID]) == 0 {
			delete(h.pendingAdd, componentID)
		}
	}
}

func (h *hookBus) onRemove(componentID uint32, cb func(EntityID)) Unsubscribe {
	if _, has := h.pendingRemove[componentID]; !has {
		h.removeOrder = append(h.removeOrder, componentID)
		h.pendingRemove[componentID] = nil
	}
	h.nextSubID++
	subID := h.nextSubID
	h.removeObservers[componentID] = append(h.removeObservers[componentID], removeSub{id: subID, cb: cb})
	return func() {
		subs := h.removeObservers[componentID]
		for i, s := range subs {
			if s.id == subID {
				h.removeObservers[componentID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(h.removeObservers[componentID]) == 0 {
			delete(h.pendingRemove, componentID)
		}
	}
}

func (h *hookBus) hasRemoveObservers(componentID uint32) bool {
	return len(h.removeObservers[componentID]) > 0
}

func (h *hookBus) enqueueAdd(componentID uint32, id EntityID) {
	if _, has := h.pendingAdd[componentID]; has {
		h.pendingAdd[componentID] = append(h.pendingAdd[componentID], id)
	}
}

func (h *hookBus) enqueueRemove(componentID uint32, id EntityID) {
	if _, has := h.pendingRemove[componentID]; has {
		h.pendingRemove[componentID] = append(h.pendingRemove[componentID], id)
	}
}

// captureTombstone records the deceased row for (id, componentID) so a
// remove-observer can still read it before the next commitRemovals.
func (h *hookBus) captureTombstone(id EntityID, componentID uint32, data ComponentData) {
	byComponent, ok := h.tombstones[id]
	if !ok {
		byComponent = make(map[uint32]ComponentData)
		h.tombstones[id] = byComponent
	}
	byComponent[componentID] = data
}

func (h *hookBus) tombstone(id EntityID, componentID uint32) (ComponentData, bool) {
	byComponent, ok := h.tombstones[id]
	if !ok {
		return nil, false
	}
	data, ok := byComponent[componentID]
	return data, ok
}

// flush invokes every registered observer of every component with a
// pending event, adds first then removes, each in registration order, then
// clears all buffers. Idempotent when no pending operations intervene.
func (h *hookBus) flush() {
	addsFired, removesFired := 0, 0
	for _, componentID := range h.addOrder {
		ids := h.pendingAdd[componentID]
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			for _, sub := range h.addObservers[componentID] {
				sub.cb(id)
			}
		}
		addsFired += len(ids)
		h.pendingAdd[componentID] = nil
	}
	for _, componentID := range h.removeOrder {
		ids := h.pendingRemove[componentID]
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			for _, sub := range h.removeObservers[componentID] {
				sub.cb(id)
			}
		}
		removesFired += len(ids)
		h.pendingRemove[componentID] = nil
	}
	if addsFired > 0 || removesFired > 0 {
		Config.logger.Debug().Int("adds", addsFired).Int("removes", removesFired).Msg("foundry: hooks flushed")
	}
}

// commitRemovals clears the tombstone map. Idempotent.
func (h *hookBus) commitRemovals() {
	h.tombstones = make(map[EntityID]map[uint32]ComponentData)
}
