package foundry

import (
	"github.com/rs/zerolog"
	"golang.org/x/sys/cpu"
)

// Config holds global, rarely-changed knobs for the engine. It is read
// directly where each knob is needed (archetype construction, Apply,
// structural logging) rather than threaded through every call, the same
// way the teacher's own package-level Config holds a single table-event
// callback set.
var Config config = config{
	logger:          zerolog.Nop(),
	simdEnabled:     simdAvailable(),
	initialCapacity: 64,
}

type config struct {
	logger          zerolog.Logger
	simdEnabled     bool
	initialCapacity int
}

// SetLogger installs a structured logger used for Debug-level structural
// event tracing (archetype creation, migration, hook flushes, deferred-op
// replay). The default is a disabled no-op logger.
func (c *config) SetLogger(l zerolog.Logger) {
	c.logger = l
}

// SetSIMDEnabled overrides the runtime SIMD-capability probe. When
// disabled, Apply uses a scalar loop whose add/sub/mul/scale results are
// bit-identical; Random draws a different, still reproducible stream.
func (c *config) SetSIMDEnabled(enabled bool) {
	c.simdEnabled = enabled
}

// SetInitialCapacity overrides the default initial capacity (64) new
// archetype tables are allocated with; growth then doubles from there.
func (c *config) SetInitialCapacity(n int) {
	if n < 1 {
		n = 1
	}
	c.initialCapacity = n
}

// simdAvailable reports whether the running CPU supports the 128-bit SIMD
// instruction set foundry's lane-of-4 float32 kernel targets.
func simdAvailable() bool {
	switch {
	case cpu.X86.HasSSE2:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}
