package foundry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestStructuralEventsAreLogged exercises SPEC_FULL.md §10.2: archetype
// creation, migration, deferred-op replay, and hook-flush counts are each
// emitted at Debug level through the package-level Config.logger.
func TestStructuralEventsAreLogged(t *testing.T) {
	prev := Config.logger
	defer Config.SetLogger(prev)

	var buf bytes.Buffer
	Config.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	w := NewWorld()
	pos := w.DefineUniform("Position", KindF32, "x")
	vel := w.DefineUniform("Velocity", KindF32, "x")
	// An observer gives FlushHooks an event to fire and count.
	w.OnAdd(pos, func(EntityID) {})

	id, _ := w.CreateEntityWith(With(pos, nil))
	w.AddComponent(id, vel, nil)
	w.RemoveComponent(id, vel)
	w.FlushHooks()

	w.ForEach(Include(pos), func(v *View) {
		w.AddComponent(id, vel, nil)
	})

	out := buf.String()
	for _, want := range []string{
		"archetype created",
		"archetype migration",
		"hooks flushed",
		"deferred ops replayed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q, got:\n%s", want, out)
		}
	}
}
