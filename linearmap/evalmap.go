// Package linearmap implements the matrix-vector linear transforms the
// bootstrapping pipeline treats as an external collaborator (spec §6
// "Linear-transform library"): CoefficientsToSlots and its inverse,
// SlotsToCoefficients, each a sum of rotated-and-scaled copies of the
// input ciphertext.
//
// Grounded on circuits/ckks/dft's linear-transform evaluator (rotate,
// multiply by a diagonal constant, accumulate) restated over this
// module's Ciphertext/keyswitch types instead of lattigo's own.
package linearmap

import (
	"fmt"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/ringops"
)

// Diagonal is one rotate-multiply-accumulate term of a linear transform:
// rotate the input by Rotation steps, multiply by the diagonal constant
// Coeff, and add into the running sum (the standard diagonal
// decomposition of a slot-wise linear map).
type Diagonal struct {
	Rotation int
	Coeff    ringops.Poly
}

// EvalMap is a precomputed linear transform: apply runs its diagonal
// decomposition against a ciphertext (spec §6 "EvalMap.apply(ciphertext)").
type EvalMap struct {
	M         int
	KeyID     int
	Bank      *keyswitch.Bank
	Diagonals []Diagonal

	// ForceHoist controls whether the rotation digit decomposition of x's
	// top part is computed once and reused across every diagonal (spec §9
	// force_hoist). Auto hoists whenever more than one diagonal rotates;
	// Off always recomputes via SmartAutomorphism.
	ForceHoist options.Tristate

	// Stats, if non-nil, accumulates relinearization counters for the
	// rotations this transform performs (spec §9).
	Stats *options.Stats
}

// Apply evaluates the transform against x, returning a new ciphertext; x
// is left untouched.
func (e *EvalMap) Apply(x *ctxt.Ciphertext) (*ctxt.Ciphertext, error) {
	if len(e.Diagonals) == 0 {
		return nil, fmt.Errorf("cannot Apply: empty linear map: %w", ctxt.ErrArgumentInvalid)
	}

	rotating := 0
	for _, d := range e.Diagonals {
		if d.Rotation != 0 {
			rotating++
		}
	}
	hoist := e.ForceHoist != options.Off && rotating > 1

	var hd *keyswitch.HoistedDigits
	var topHandle ctxt.SkHandle
	if hoist {
		topHandle = x.Parts[x.Degree()].Handle
		mat := e.Bank.Lookup(topHandle.WithAutomorphism(e.Diagonals[0].Rotation, e.M), e.KeyID)
		if mat == nil {
			hoist = false
		} else {
			hd = keyswitch.Decompose(x.Ring, x.Parts[x.Degree()].Value, mat.DigitGroups, mat.PrimeSet)
		}
	}

	var acc *ctxt.Ciphertext
	for i, d := range e.Diagonals {
		rotated := x.CopyNew()
		if d.Rotation != 0 {
			if hoist {
				mat := e.Bank.Lookup(topHandle.WithAutomorphism(d.Rotation, e.M), e.KeyID)
				if mat == nil {
					return nil, fmt.Errorf("cannot Apply: diagonal %d: no hoisted key-switch matrix for rotation %d: %w", i, d.Rotation, ctxt.ErrStateInvalid)
				}
				if err := keyswitch.HoistedAutomorphism(rotated, topHandle, hd, d.Rotation, e.M, mat, e.Stats); err != nil {
					return nil, fmt.Errorf("cannot Apply: diagonal %d: %w", i, err)
				}
			} else if err := keyswitch.SmartAutomorphism(rotated, d.Rotation, e.M, e.KeyID, e.Bank, e.Stats); err != nil {
				return nil, fmt.Errorf("cannot Apply: diagonal %d: %w", i, err)
			}
		}
		rotated.MulConstant(d.Coeff, rotated.NoiseBound)
		if acc == nil {
			acc = rotated
			continue
		}
		if err := acc.Add(rotated); err != nil {
			return nil, fmt.Errorf("cannot Apply: diagonal %d: %w", i, err)
		}
	}
	return acc, nil
}

// CoefficientsToSlots builds the EvalMap that moves the powerful-basis
// coefficients of a plaintext into slots (spec §4.4 step 8), given the
// linearized-polynomial coefficients an encoding.Encoder produced.
func CoefficientsToSlots(m, keyID int, bank *keyswitch.Bank, rotations []int, coeffs []ringops.Poly) (*EvalMap, error) {
	return buildFromDiagonals(m, keyID, bank, rotations, coeffs)
}

// SlotsToCoefficients builds the inverse transform (spec §4.4 step 10).
func SlotsToCoefficients(m, keyID int, bank *keyswitch.Bank, rotations []int, coeffs []ringops.Poly) (*EvalMap, error) {
	return buildFromDiagonals(m, keyID, bank, rotations, coeffs)
}

func buildFromDiagonals(m, keyID int, bank *keyswitch.Bank, rotations []int, coeffs []ringops.Poly) (*EvalMap, error) {
	if len(rotations) != len(coeffs) {
		return nil, fmt.Errorf("cannot build EvalMap: %d rotations but %d coefficients: %w", len(rotations), len(coeffs), ctxt.ErrArgumentInvalid)
	}
	diags := make([]Diagonal, len(rotations))
	for i, r := range rotations {
		diags[i] = Diagonal{Rotation: r, Coeff: coeffs[i]}
	}
	return &EvalMap{M: m, KeyID: keyID, Bank: bank, Diagonals: diags}, nil
}
