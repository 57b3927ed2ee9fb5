package keyswitch

import (
	"fmt"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/ringops"
)

// Apply switches the ciphertext part held under mat.FromHandle onto the
// canonical base handle of mat.ToKeyID, accumulating into any part already
// present there. This is the core step of relinearization (spec §4.2):
// every non-canonical handle in a ciphertext's part list is dispatched
// through Apply in turn. stats, if non-nil, records the event (spec §9's
// per-invocation counter replacing a global relin count).
func Apply(c *ctxt.Ciphertext, mat *Matrix, stats *options.Stats) error {
	idx := -1
	for i, p := range c.Parts {
		if p.Handle.Equal(mat.FromHandle) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("cannot Apply: ciphertext has no part under handle %s: %w", mat.FromHandle, ctxt.ErrArgumentInvalid)
	}
	if err := c.Ring.VerifyPrimeSet(mat.PrimeSet); err != nil {
		return fmt.Errorf("cannot Apply: %w", err)
	}

	accA, accB := decomposeAndAccumulate(c.Ring, c.Parts[idx].Value, mat)

	target := c.PrimeSet
	outA := ringops.NewPoly(c.Ring)
	dropped := c.Ring.ModSwitchDown(accA, mat.PrimeSet, target, outA)
	outB := ringops.NewPoly(c.Ring)
	c.Ring.ModSwitchDown(accB, mat.PrimeSet, target, outB)

	c.RemovePart(mat.FromHandle)
	c.AccumulatePart(ctxt.OneHandle(mat.ToKeyID), outB)
	c.AccumulatePart(ctxt.BaseHandle(mat.ToKeyID), outA)

	droppedF := new(big.Float).SetInt(dropped)
	ksNoise := keySwitchAdditive(c.Ring, len(mat.Digits))
	c.NoiseBound.Quo(c.NoiseBound, droppedF)
	c.NoiseBound.Add(c.NoiseBound, ksNoise)
	if stats != nil {
		stats.Relinearizations++
	}
	return nil
}

// decomposeAndAccumulate splits value into mat's RNS digits and sums each
// digit's contribution against the matrix's rows, over mat's (larger,
// special-prime-including) prime set.
func decomposeAndAccumulate(r *ringops.Ring, value ringops.Poly, mat *Matrix) (accA, accB ringops.Poly) {
	accA = ringops.NewPoly(r)
	accB = ringops.NewPoly(r)
	for i, grp := range mat.DigitGroups {
		digit := extractDigit(r, value, grp, mat.PrimeSet)
		r.MulCoeffsThenAdd(digit, mat.Digits[i].A, mat.PrimeSet, accA)
		r.MulCoeffsThenAdd(digit, mat.Digits[i].B, mat.PrimeSet, accB)
	}
	return accA, accB
}

// extractDigit isolates the coefficients living on grp's primes and
// CRT-extends them across the matrix's full prime set, the RNS analogue of
// HElib's per-digit base extension during key switching.
func extractDigit(r *ringops.Ring, value ringops.Poly, grp, full ringops.PrimeSet) ringops.Poly {
	sub := ringops.NewPoly(r)
	for _, idx := range grp {
		copy(sub.Coeffs[idx], value.Coeffs[idx])
	}
	out := ringops.NewPoly(r)
	r.ModSwitchUp(sub, grp, full, out)
	return out
}

// keySwitchAdditive bounds the rounding noise a key-switch introduces,
// proportional to sqrt(number of digits) times the gadget-row noise bound
// (spec §4.2 "noise rule: sqrt(d) * B_KS").
func keySwitchAdditive(r *ringops.Ring, digits int) *big.Float {
	n := new(big.Float).SetFloat64(float64(digits) * float64(r.N))
	n.Sqrt(n)
	return n
}

// DigitGroups partitions a prime set into groups of at most groupSize
// primes, in ascending order, the layout a matrix generator produces the
// rows for.
func DigitGroups(ps ringops.PrimeSet, groupSize int) []ringops.PrimeSet {
	if groupSize <= 0 {
		groupSize = 1
	}
	var out []ringops.PrimeSet
	for i := 0; i < len(ps); i += groupSize {
		end := i + groupSize
		if end > len(ps) {
			end = len(ps)
		}
		out = append(out, ringops.NewPrimeSet(ps[i:end]...))
	}
	return out
}
