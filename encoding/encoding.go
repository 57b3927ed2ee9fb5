// Package encoding is the slot-algebra encode/decode boundary the core
// treats as an external collaborator (spec §6 "Encoding library"). It
// provides the three operations the bootstrapping pipeline and digit
// extraction call against a plaintext slot vector, without owning any of
// the ring-arithmetic or NTT machinery those operations are built from.
//
// Grounded on schemes/bgv's Encoder (Encode/Decode) for the BGV slot
// convention, and on circuits/ckks/polynomial's linearized-polynomial
// coefficient construction for buildLinPolyCoeffs.
package encoding

import (
	"fmt"

	"github.com/fhecore/bgvboot/ringops"
)

// Encoder turns slot vectors into ring elements and back, and builds the
// auxiliary constants digit extraction's unpack/repack phases need.
type Encoder struct {
	Ring      *ringops.Ring
	PtxtSpace uint64
}

// NewEncoder returns an Encoder for the given ring and plaintext space.
func NewEncoder(r *ringops.Ring, ptxtSpace uint64) *Encoder {
	return &Encoder{Ring: r, PtxtSpace: ptxtSpace}
}

// Encode packs slots (each already reduced mod PtxtSpace) into a ring
// element's coefficients, one slot per coefficient, the simplest
// coefficient-packing convention (spec §6 "encode(slots) -> RingElem").
func (e *Encoder) Encode(slots []uint64) (ringops.Poly, error) {
	if len(slots) > e.Ring.N {
		return ringops.Poly{}, fmt.Errorf("cannot Encode: %d slots exceeds ring degree %d", len(slots), e.Ring.N)
	}
	out := ringops.NewPoly(e.Ring)
	for i := 0; i < len(e.Ring.Moduli); i++ {
		for j, s := range slots {
			out.Coeffs[i][j] = s % e.Ring.Moduli[i]
		}
	}
	return out, nil
}

// Decode is Encode's inverse: reads back n slot values from a ring
// element's coefficients under the first prime (the plaintext-space
// residues, not the full CRT value — decryption is out of scope).
func (e *Encoder) Decode(p ringops.Poly, n int) []uint64 {
	out := make([]uint64, n)
	copy(out, p.Coeffs[0][:n])
	return out
}

// EncodeUnitSelector returns a ring element whose slot i is 1 and every
// other slot is 0 (spec §6 "encodeUnitSelector(i) -> RingElem"), used by
// replication and digit-extraction unpacking to isolate one slot's
// contribution after a Frobenius rotation.
func (e *Encoder) EncodeUnitSelector(i int) (ringops.Poly, error) {
	slots := make([]uint64, i+1)
	slots[i] = 1
	return e.Encode(slots)
}

// BuildLinPolyCoeffs returns the coefficients of the linearized polynomial
// representing the slot-wise linear map targetMap (targetMap[i] is the
// output slot that input slot i should be routed to), for use by EvalMap's
// matrix-vector construction (spec §6 "buildLinPolyCoeffs(targetMap) ->
// [RingElem]").
func (e *Encoder) BuildLinPolyCoeffs(targetMap []int) ([]ringops.Poly, error) {
	n := len(targetMap)
	coeffs := make([]ringops.Poly, n)
	for k := 0; k < n; k++ {
		slots := make([]uint64, n)
		for i, dest := range targetMap {
			if dest == k {
				slots[i] = 1
			}
		}
		p, err := e.Encode(slots)
		if err != nil {
			return nil, fmt.Errorf("cannot BuildLinPolyCoeffs: %w", err)
		}
		coeffs[k] = p
	}
	return coeffs, nil
}
