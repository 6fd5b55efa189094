// config.go - simulation-wide configuration knobs.

package sim

// Config bundles the knobs this implementation exposes beyond the
// baseline spec: whether REPLICATE actually does anything, and how many
// bytes it mutates when it does. Constructed with functional options,
// matching the teacher's constructor idiom (e.g. NewCPU_Z80(bus Z80Bus),
// NewEbitenOutput() (VideoOutput, error)) rather than a struct literal
// with exported fields callers are expected to hand-fill.
type Config struct {
	// ReplicateEnabled turns REPLICATE on: the two cells' full states are
	// swapped, ReplicateMutations random memory addresses of main (which
	// now holds the neighbor's former state) get a fresh random byte, and
	// the pair's cycle budget ends. Main's former state reaches the
	// neighbor unmutated; no mutation is applied to the neighbor. Default
	// false, which keeps REPLICATE the no-op spec.md describes as the
	// "current revision" baseline.
	ReplicateEnabled bool

	// ReplicateMutations is how many random memory addresses REPLICATE
	// rewrites with a fresh random byte when enabled. The original
	// Rust comment sketches "K≈8"; 8 is the default.
	ReplicateMutations int

	// CellCyclesPerTick is carried from the original World.cell_cycles_per_tick
	// field. Nothing in the current per-pair semantics reads it - each
	// CellPair's own 38-instruction budget governs execution - but it is
	// kept as a world-level knob for a possible future scheduler variant
	// that caps total cycles per tick rather than per pair.
	//
	// TODO: wire a global per-tick cycle cap into World.Tick once a
	// scheduler variant needs to throttle total work independent of pair
	// count, rather than each pair always running its full budget.
	CellCyclesPerTick int
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithReplicate enables REPLICATE's swap-and-mutate semantics and sets
// the mutation count (ignored, defaulting to 8, if mutations <= 0).
func WithReplicate(mutations int) Option {
	return func(c *Config) {
		c.ReplicateEnabled = true
		if mutations > 0 {
			c.ReplicateMutations = mutations
		}
	}
}

// WithCellCyclesPerTick overrides the advisory per-tick cycle budget.
func WithCellCyclesPerTick(cycles int) Option {
	return func(c *Config) {
		c.CellCyclesPerTick = cycles
	}
}

// DefaultConfig returns the baseline configuration: REPLICATE disabled,
// matching spec.md's "no-op in the current revision" behavior.
func DefaultConfig() Config {
	return Config{
		ReplicateEnabled:   false,
		ReplicateMutations: 8,
		CellCyclesPerTick:  256,
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
