// Package codec serializes and deserializes a foundry.World to the
// SerializedWorld JSON shape, the external collaborator foundry's core
// deliberately leaves outside the storage engine itself.
package codec

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"github.com/foundryecs/foundry"
)

// SerializedWorld is the on-disk shape of a foundry.World: the entity
// id allocator's cursor, every known entity id, and every schema'd
// component's data keyed by component name then by entity id (as a
// decimal string, since JSON object keys are always strings). Tag
// components never appear here — they carry no data, and membership is
// implied by which entities a schema'd component names.
type SerializedWorld struct {
	NextID     foundry.EntityID                             `json:"nextId"`
	Entities   []foundry.EntityID                            `json:"entities"`
	Components map[string]map[string]foundry.ComponentData `json:"components"`
}

// Marshal builds a SerializedWorld from w's current state and encodes it
// as JSON.
func Marshal(w *foundry.World) ([]byte, error) {
	sw := Snapshot(w)
	data, err := json.Marshal(sw)
	if err != nil {
		return nil, eris.Wrap(err, "codec: marshal")
	}
	return data, nil
}

// Snapshot builds a SerializedWorld from w's current state without
// encoding it, for callers that want to inspect or further transform the
// shape before serializing.
func Snapshot(w *foundry.World) SerializedWorld {
	components := w.Components()
	sw := SerializedWorld{
		NextID:     w.NextEntityID(),
		Entities:   w.KnownEntities(),
		Components: make(map[string]map[string]foundry.ComponentData, len(components)),
	}
	for _, c := range components {
		if c.IsTag() {
			continue
		}
		sw.Components[c.Name()] = make(map[string]foundry.ComponentData)
	}
	for _, id := range sw.Entities {
		key := strconv.FormatUint(uint64(id), 10)
		for _, c := range components {
			if c.IsTag() {
				continue
			}
			data, ok := w.GetComponent(id, c)
			if !ok {
				continue
			}
			sw.Components[c.Name()][key] = data
		}
	}
	log.Debug().Int("entities", len(sw.Entities)).Int("components", len(sw.Components)).Msg("codec: snapshot built")
	return sw
}

// Unmarshal decodes data as a SerializedWorld and loads it into w,
// discarding w's prior state first (entities, archetypes, caches). The
// JSON shape carries no tag data, so tag components are not restored;
// Unmarshal restores schema'd components only.
func Unmarshal(w *foundry.World, data []byte) error {
	var sw SerializedWorld
	if err := json.Unmarshal(data, &sw); err != nil {
		return eris.Wrap(err, "codec: unmarshal")
	}
	return Load(w, sw)
}

// Load rebuilds w's entities and schema'd component data from sw,
// discarding w's prior state first. An entity id present in sw.Entities
// but absent from every component map is recreated with zero components.
// A component name in sw.Components that w has no matching definition for
// is ignored for that component's row data; the entities it would have
// populated are still created (per spec's deserialize contract).
func Load(w *foundry.World, sw SerializedWorld) error {
	w.Reset()

	byName := make(map[string]foundry.ComponentDef, len(w.Components()))
	for _, c := range w.Components() {
		if !c.IsTag() {
			byName[c.Name()] = c
		}
	}

	perEntity := make(map[foundry.EntityID][]foundry.ComponentValue, len(sw.Entities))
	for _, id := range sw.Entities {
		perEntity[id] = nil
	}
	for name, byID := range sw.Components {
		def, ok := byName[name]
		if !ok {
			log.Warn().Str("component", name).Msg("codec: unknown component in serialized world, skipping its data")
			continue
		}
		for idStr, data := range byID {
			id, err := strconv.ParseUint(idStr, 10, 64)
			if err != nil {
				return eris.Wrapf(err, "codec: invalid entity id %q for component %q", idStr, name)
			}
			eid := foundry.EntityID(id)
			perEntity[eid] = append(perEntity[eid], foundry.With(def, data))
		}
	}

	for _, id := range sw.Entities {
		w.RestoreEntity(id, perEntity[id]...)
	}
	w.RestoreNextEntityID(sw.NextID)
	return nil
}
