package emitter

import "fmt"

// freshHelperName draws the next DO_IF helper function name from the
// Emitter's deterministic RNG (seeded from the build UUID), so two
// compiles of the same sources produce byte-identical helper names.
func (e *Emitter) freshHelperName() string {
	return fmt.Sprintf("if_%08x", e.rng.Uint32())
}
