// Package keyswitch applies precomputed key-switch matrices to ciphertext
// parts: digit decomposition, hoisting, relinearization and the
// automorphism-then-relinearize step of spec §4.2. Key generation — producing the
// matrices themselves — is an external collaborator's job (spec §1, §6);
// this package only ever consumes a *Matrix someone else handed it.
//
// Grounded on core/rlwe's gadget product machinery
// (evaluator_gadget_product.go, gadgetciphertext.go,
// evaluator_evaluationkey.go) restated over the package's own Poly/PrimeSet
// types, and on HElib's Ctxt.cpp handle-composition rules for the
// (powerOfS, powerOfX, secretKeyID) algebra used to pick the right matrix.
package keyswitch

import (
	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/ringops"
)

// Digit is one gadget row of a key-switch matrix: the RLWE encryption
// (A, B) of digit_i*fromKey under toKeyID, i.e. decryption computes
// B + A*s_to ≈ digit_i*s_from (spec §4.2 "KeySwitch matrices").
type Digit struct {
	A ringops.Poly
	B ringops.Poly
}

// Matrix switches the secret-key handle FromHandle to the canonical key
// ToKeyID. DigitGroups partitions the matrix's prime set into the RNS
// digits the matrix was generated over; len(Digits) == len(DigitGroups).
type Matrix struct {
	FromHandle ctxt.SkHandle
	ToKeyID    int
	PrimeSet   ringops.PrimeSet
	DigitGroups []ringops.PrimeSet
	Digits      []Digit
}

// Bank looks up the matrix needed to switch a given handle to a given key,
// the equivalent of HElib's keySwitchMap / pubEncrKey lookup table. It is
// populated externally (key generation); this package never constructs
// entries itself.
type Bank struct {
	byHandle map[bankKey]*Matrix
}

type bankKey struct {
	handle ctxt.SkHandle
	toKey  int
}

// NewBank returns an empty matrix bank.
func NewBank() *Bank {
	return &Bank{byHandle: map[bankKey]*Matrix{}}
}

// Add registers m for switching m.FromHandle to m.ToKeyID.
func (b *Bank) Add(m *Matrix) {
	b.byHandle[bankKey{m.FromHandle, m.ToKeyID}] = m
}

// Lookup returns the matrix switching handle to toKeyID, or nil.
func (b *Bank) Lookup(handle ctxt.SkHandle, toKeyID int) *Matrix {
	return b.byHandle[bankKey{handle, toKeyID}]
}
