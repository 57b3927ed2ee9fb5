package digitextract

import (
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/polyeval"
)

// hardCodedCascade computes the p=2, eInner=1 multivariate lifting family
// up to precision 16 by the prescribed sequence of squarings and
// constant-linear combinations (spec §4.3.1). The literal coefficients are
// reproduced bit-exactly; this is not derived, it is transcribed.
func hardCodedCascade(x *ctxt.Ciphertext, targets []int, opts polyeval.Options) (map[int]*ctxt.Ciphertext, error) {
	results := map[int]*ctxt.Ciphertext{}
	if containsInt(targets, 1) {
		results[1] = x.CopyNew()
	}

	x2, err := mulRelin(x, x, opts)
	if err != nil {
		return nil, err
	}
	if containsInt(targets, 2) {
		results[2] = x2
	}

	x4, err := mulRelin(x2, x2, opts)
	if err != nil {
		return nil, err
	}
	if containsInt(targets, 4) {
		results[4] = x4
	}

	needF8 := containsInt(targets, 8) || containsInt(targets, 16)
	if !needF8 {
		return results, nil
	}

	// f8 = 112*x^2 + (94*x^2 + 121*x^4)^2
	inner, err := added(scaled(x2, 94), scaled(x4, 121))
	if err != nil {
		return nil, err
	}
	innerSq, err := mulRelin(inner, inner, opts)
	if err != nil {
		return nil, err
	}
	f8, err := added(scaled(x2, 112), innerSq)
	if err != nil {
		return nil, err
	}
	if containsInt(targets, 8) {
		results[8] = f8
	}

	if !containsInt(targets, 16) {
		return results, nil
	}

	// f16 = 11136*x^4 - (15364*x^4 - 14115*f8) * (28504*x^2 + 8968*x^4 - f8)
	left, err := subtracted(scaled(x4, 15364), scaled(f8, 14115))
	if err != nil {
		return nil, err
	}
	rightTmp, err := added(scaled(x2, 28504), scaled(x4, 8968))
	if err != nil {
		return nil, err
	}
	right, err := subtracted(rightTmp, f8)
	if err != nil {
		return nil, err
	}
	prod, err := mulRelin(left, right, opts)
	if err != nil {
		return nil, err
	}
	f16, err := subtracted(scaled(x4, 11136), prod)
	if err != nil {
		return nil, err
	}
	results[16] = f16
	return results, nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func mulRelin(a, b *ctxt.Ciphertext, opts polyeval.Options) (*ctxt.Ciphertext, error) {
	out := a.CopyNew()
	if err := out.MulLowLevel(b, opts.RingAdditiveNoise); err != nil {
		return nil, err
	}
	if err := keyswitch.Relinearize(out, opts.KeyID, opts.Bank, opts.Stats); err != nil {
		return nil, err
	}
	return out, nil
}

func scaled(c *ctxt.Ciphertext, scalar uint64) *ctxt.Ciphertext {
	out := c.CopyNew()
	out.MulScalar(scalar, new(big.Float).SetUint64(scalar))
	return out
}

func added(a, b *ctxt.Ciphertext) (*ctxt.Ciphertext, error) {
	out := a.CopyNew()
	if err := out.Add(b); err != nil {
		return nil, err
	}
	return out, nil
}

func subtracted(a, b *ctxt.Ciphertext) (*ctxt.Ciphertext, error) {
	out := a.CopyNew()
	if err := out.Sub(b); err != nil {
		return nil, err
	}
	return out, nil
}
