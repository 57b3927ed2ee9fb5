package keyswitch

import (
	"fmt"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/ringops"
)

// HoistedDigits caches the RNS digit decomposition of a single ciphertext
// part so it can be reused against every key-switch matrix sharing the same
// digit-group layout — the hoisting optimization of spec §4.2: decompose
// once, then key-switch against many matrices (e.g. one per rotation step
// of CoefficientsToSlots) without repeating the decomposition.
type HoistedDigits struct {
	Full   ringops.PrimeSet
	Digits []ringops.Poly
}

// Decompose extracts value's RNS digits once for reuse by ApplyHoisted.
func Decompose(r *ringops.Ring, value ringops.Poly, groups []ringops.PrimeSet, full ringops.PrimeSet) *HoistedDigits {
	digits := make([]ringops.Poly, len(groups))
	for i, grp := range groups {
		digits[i] = extractDigit(r, value, grp, full)
	}
	return &HoistedDigits{Full: full, Digits: digits}
}

// ApplyHoisted performs the same accumulation as Apply against a
// precomputed digit decomposition instead of re-decomposing the ciphertext
// part, requiring mat's prime set and digit-group count to match the
// decomposition hd was built from.
func ApplyHoisted(c *ctxt.Ciphertext, fromHandle ctxt.SkHandle, hd *HoistedDigits, mat *Matrix, stats *options.Stats) error {
	if !hd.Full.Equal(mat.PrimeSet) {
		return fmt.Errorf("cannot ApplyHoisted: digit decomposition was computed over a different prime set: %w", ctxt.ErrArgumentInvalid)
	}
	if len(hd.Digits) != len(mat.Digits) {
		return fmt.Errorf("cannot ApplyHoisted: digit count mismatch (%d != %d): %w", len(hd.Digits), len(mat.Digits), ctxt.ErrArgumentInvalid)
	}

	accA := ringops.NewPoly(c.Ring)
	accB := ringops.NewPoly(c.Ring)
	for i := range mat.Digits {
		c.Ring.MulCoeffsThenAdd(hd.Digits[i], mat.Digits[i].A, mat.PrimeSet, accA)
		c.Ring.MulCoeffsThenAdd(hd.Digits[i], mat.Digits[i].B, mat.PrimeSet, accB)
	}

	target := c.PrimeSet
	outA := ringops.NewPoly(c.Ring)
	dropped := c.Ring.ModSwitchDown(accA, mat.PrimeSet, target, outA)
	outB := ringops.NewPoly(c.Ring)
	c.Ring.ModSwitchDown(accB, mat.PrimeSet, target, outB)

	c.RemovePart(fromHandle)
	c.AccumulatePart(ctxt.OneHandle(mat.ToKeyID), outB)
	c.AccumulatePart(ctxt.BaseHandle(mat.ToKeyID), outA)

	droppedF := new(big.Float).SetInt(dropped)
	c.NoiseBound.Quo(c.NoiseBound, droppedF)
	c.NoiseBound.Add(c.NoiseBound, keySwitchAdditive(c.Ring, len(mat.Digits)))
	if stats != nil {
		stats.Relinearizations++
	}
	return nil
}

// HoistedAutomorphism applies F(X) -> F(X^k) and key-switches back to
// keyID using a precomputed digit decomposition of the part being rotated,
// for use when the same base part is rotated by many different k's (spec
// §4.2's hoisted smart automorphism, exercised by EvalMap's rotation sum).
func HoistedAutomorphism(c *ctxt.Ciphertext, fromHandle ctxt.SkHandle, hd *HoistedDigits, k, m int, mat *Matrix, stats *options.Stats) error {
	rotated := make([]ringops.Poly, len(hd.Digits))
	for i, d := range hd.Digits {
		out := ringops.NewPoly(c.Ring)
		c.Ring.Automorphism(d, k, hd.Full, out)
		rotated[i] = out
	}
	rotatedHD := &HoistedDigits{Full: hd.Full, Digits: rotated}
	return ApplyHoisted(c, fromHandle, rotatedHD, mat, stats)
}
