package ctxt

import "fmt"

// SkHandle identifies the secret-key polynomial s_k^a(X^t) that a
// CiphertextPart is multiplied by at decryption (spec §3). Grounded on
// HElib's SKHandle (Ctxt.h): (powerOfS, powerOfX, secretKeyID) renamed here
// to (A, T, K).
//
// Invariants (spec §3): A=0 denotes the constant part ("one"); A=1,T=1 is
// the "base" handle. There is no sentinel error state: a SkHandle value is
// always well-formed, and handle composition that would be invalid returns
// an explicit error instead of a malformed handle (spec §9, "Exception-for
// -control-flow in handle multiplication").
type SkHandle struct {
	A, T, K int
}

// OneHandle returns the constant-part handle for key K.
func OneHandle(k int) SkHandle { return SkHandle{A: 0, T: 1, K: k} }

// BaseHandle returns the handle for s_k^1(X^1).
func BaseHandle(k int) SkHandle { return SkHandle{A: 1, T: 1, K: k} }

// IsOne reports whether h denotes the constant part (A==0), regardless of T.
func (h SkHandle) IsOne() bool { return h.A == 0 }

// IsBase reports whether h is the base handle of key k. A negative k only
// checks "base of some key".
func (h SkHandle) IsBase(k int) bool {
	return h.A == 1 && h.T == 1 && (k < 0 || h.K == k)
}

// Equal reports handle equality: two "one" handles of the same key are
// equal regardless of T; otherwise every field must match (spec §3).
func (h SkHandle) Equal(other SkHandle) bool {
	if h.K != other.K {
		return false
	}
	if h.IsOne() && other.IsOne() {
		return true
	}
	return h == other
}

// Mul composes h*other: (a,t,k)*(a',t',k) = (a+a', t, k) when t==t' and the
// keys match, else an error (spec §3). Handles are unordered with respect
// to composition along the same key only.
func (h SkHandle) Mul(other SkHandle) (SkHandle, error) {
	if h.K != other.K {
		return SkHandle{}, fmt.Errorf("cannot Mul: handle key mismatch (%d != %d): %w", h.K, other.K, ErrArgumentInvalid)
	}
	if h.IsOne() {
		return other, nil
	}
	if other.IsOne() {
		return h, nil
	}
	if h.T != other.T {
		return SkHandle{}, fmt.Errorf("cannot Mul: handle automorphism mismatch (X^%d != X^%d): %w", h.T, other.T, ErrArgumentInvalid)
	}
	return SkHandle{A: h.A + other.A, T: h.T, K: h.K}, nil
}

// WithAutomorphism returns the handle obtained by applying the ring
// automorphism X -> X^k to the secret-key polynomial this handle describes:
// (a,t,K) -> (a, t*k mod m, K) (spec §4.1 "Automorphism").
func (h SkHandle) WithAutomorphism(k, m int) SkHandle {
	if h.IsOne() {
		return h
	}
	return SkHandle{A: h.A, T: ((h.T*k)%m + m) % m, K: h.K}
}

func (h SkHandle) String() string {
	if h.IsOne() {
		return fmt.Sprintf("one(k=%d)", h.K)
	}
	return fmt.Sprintf("s_%d^%d(X^%d)", h.K, h.A, h.T)
}
