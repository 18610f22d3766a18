package foundry

// archetypeIndex maps mask-key to archetypeTable, owns archetype creation,
// the query-match cache, and the global structural epoch counter. Grounded
// on the teacher's storage.archetypes (map-by-mask idsGroupedByMask +
// asSlice), generalized with the epoch-keyed query cache spec.md §4.5
// asks for — the teacher's own Cursor rescans every archetype on every new
// cursor with no cache at all (cursor.go's initialize). That gap is
// resolved instead the way the teacher's own benchmark target,
// mlange-42/arche (bench/arche_test.go), caches a Filter against a World
// rather than rebuilding it per query.
type archetypeIndex struct {
	byKey   map[string]*archetypeTable
	inOrder []*archetypeTable // insertion order, per spec.md §4.5 tie-break

	epoch uint64

	trackFilter   BitMask
	trackingOn    bool
	cache         map[string]queryCacheEntry
	changeCreated map[EntityID]struct{}
	changeDestroy map[EntityID]struct{}
}

type queryCacheEntry struct {
	epoch  uint64
	tables []*archetypeTable
}

func newArchetypeIndex() *archetypeIndex {
	return &archetypeIndex{
		byKey:         make(map[string]*archetypeTable),
		cache:         make(map[string]queryCacheEntry),
		changeCreated: make(map[EntityID]struct{}),
		changeDestroy: make(map[EntityID]struct{}),
	}
}

// getOrCreate returns the archetype table for mask/defs, creating it (and
// bumping the structural epoch, invalidating the query cache) on a miss.
func (idx *archetypeIndex) getOrCreate(mask BitMask, defs []ComponentDef) *archetypeTable {
	key := mask.Key()
	if t, ok := idx.byKey[key]; ok {
		return t
	}
	t := newArchetypeTable(mask, defs)
	idx.byKey[key] = t
	idx.inOrder = append(idx.inOrder, t)
	idx.epoch++
	if idx.trackingOn && idx.trackFilter.ContainsAny(mask) {
		t.enableSnapshot()
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.name
	}
	Config.logger.Debug().
		Str("mask", key).
		Strs("components", names).
		Uint64("epoch", idx.epoch).
		Msg("foundry: archetype created")
	return t
}

// enableTracking turns on change tracking for the component whose bit is
// filterBit, sweeping every existing archetype whose mask overlaps it to
// retroactively allocate a snapshot mirror (spec.md §9's open question,
// resolved in SPEC_FULL.md §1: only tables that already exist get swept;
// future tables decide independently in getOrCreate).
func (idx *archetypeIndex) enableTracking(filterBit uint32) {
	idx.trackFilter = idx.trackFilter.Set(filterBit)
	idx.trackingOn = true
	for _, t := range idx.inOrder {
		if idx.trackFilter.ContainsAny(t.mask) {
			t.enableSnapshot()
		}
	}
}

// queryMatches returns every table whose mask is a superset of include and
// (if exclude is non-zero) disjoint from exclude, in archetype insertion
// order. Results are cached by (include,exclude) key and epoch; row-level
// changes never invalidate the cache, only archetype creation does.
func (idx *archetypeIndex) queryMatches(include, exclude BitMask) []*archetypeTable {
	cacheKey := include.Key() + ":" + exclude.Key()
	if entry, ok := idx.cache[cacheKey]; ok && entry.epoch == idx.epoch {
		return entry.tables
	}
	var matched []*archetypeTable
	for _, t := range idx.inOrder {
		if !t.mask.ContainsAll(include) {
			continue
		}
		if !exclude.IsZero() && t.mask.ContainsAny(exclude) {
			continue
		}
		matched = append(matched, t)
	}
	idx.cache[cacheKey] = queryCacheEntry{epoch: idx.epoch, tables: matched}
	return matched
}

func (idx *archetypeIndex) recordCreated(id EntityID, mask BitMask) {
	if idx.trackingOn && idx.trackFilter.ContainsAny(mask) {
		idx.changeCreated[id] = struct{}{}
	}
}

func (idx *archetypeIndex) recordDestroyed(id EntityID, mask BitMask) {
	if idx.trackingOn && idx.trackFilter.ContainsAny(mask) {
		idx.changeDestroy[id] = struct{}{}
	}
}

// flushChanges returns and resets the created/destroyed id sets.
func (idx *archetypeIndex) flushChanges() (created, destroyed []EntityID) {
	for id := range idx.changeCreated {
		created = append(created, id)
	}
	for id := range idx.changeDestroy {
		destroyed = append(destroyed, id)
	}
	idx.changeCreated = make(map[EntityID]struct{})
	idx.changeDestroy = make(map[EntityID]struct{})
	return created, destroyed
}

func (idx *archetypeIndex) flushAllSnapshots() {
	for _, t := range idx.inOrder {
		t.flushSnapshot()
	}
}
