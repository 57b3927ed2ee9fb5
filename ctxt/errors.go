package ctxt

import "errors"

// Sentinel errors for the five kinds named in spec §7. Callers wrap them
// with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	// ErrArgumentInvalid covers malformed caller input: mismatched prime
	// sets on mod-switch up, incompatible handle lists on addition,
	// negative exponents, non-positive powers.
	ErrArgumentInvalid = errors.New("argument invalid")

	// ErrStateInvalid covers operations attempted on a ciphertext or
	// context in a state that makes them meaningless: digit extraction on
	// plaintext not known divisible by p, bootstrap without a refresh key,
	// refreshing a ciphertext whose plaintext space does not divide p^r.
	ErrStateInvalid = errors.New("state invalid")

	// ErrNoiseBoundExceeded is fatal: the scaled noise after raw
	// mod-switch (spec §4.4 step 4) exceeds the precomputed bound, so the
	// ciphertext would not decrypt after bootstrapping.
	ErrNoiseBoundExceeded = errors.New("noise bound exceeded")

	// ErrIO covers deserialization with a missing or mismatched
	// eye-catcher, or a corrupt payload.
	ErrIO = errors.New("io error")

	// ErrMissingLiftingPolynomial is returned when digit extraction needs a
	// polynomial absent from the LiftingPolynomial cache.
	ErrMissingLiftingPolynomial = errors.New("missing lifting polynomial")
)

// incompatibleHandlesError wraps ErrArgumentInvalid for spec §4.1 addition.
func incompatibleHandlesError(a, b []SkHandle) error {
	return &wrappedError{msg: "incompatible handle lists", a: a, b: b, base: ErrArgumentInvalid}
}

type wrappedError struct {
	msg  string
	a, b []SkHandle
	base error
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.base }
