package digitextract

import "github.com/fhecore/bgvboot/polyeval"

// Stats counters for digit extraction are tracked in the shared
// options.Stats type (spec §9), threaded through Options.Eval.Stats and
// Extract's explicit stats parameter rather than duplicated here.

// Options configures one digit-extraction run: the polynomial evaluator
// options it delegates to, whether unbalanced digits are corrected back to
// balanced form for p=2 (spec §9 Open Question; the zero value is false, and
// the bootstrap package sets it to true for p=2, the only mode HElib
// supports), and whether a structural check runs before each row after the
// first.
type Options struct {
	Eval polyeval.Options

	// Balanced corrects the p=2 trapezoid's output back to a balanced
	// (symmetric) digit representation via the correction-and-negate trick
	// of spec §4.3.3. The zero value is false.
	Balanced bool

	// CheckDivisibility makes Extract return ErrStateInvalid before a row
	// after the first if the running ciphertext's plaintext space has
	// collapsed to zero. It inspects no coefficients and does not verify
	// that a ciphertext is divisible by p. Off by default.
	CheckDivisibility bool
}
