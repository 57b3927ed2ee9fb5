package bootstrap

import (
	"math/big"

	"github.com/fhecore/bgvboot/ringops"
	"github.com/fhecore/bgvboot/sampling"
)

// makeDivisible converts z to the powerful (CRT-reconstructed integer)
// basis, rounds each coefficient to the nearest multiple of pPow, and
// converts back, implementing spec §4.4 step 5: "round each coefficient to
// the nearest multiple of p^e' (ties broken randomly for p=2)". The
// returned poly is already divided by pPow (step 6's exact division),
// since the rounding step is never useful on its own.
func makeDivisible(r *ringops.Ring, z ringops.Poly, ps ringops.PrimeSet, pPow *big.Int, coinFlip *sampling.KeyedPRNG) (ringops.Poly, error) {
	coeffs := r.ToBigint(z, ps)
	half := new(big.Int).Rsh(pPow, 1)
	quotients := make([]*big.Int, len(coeffs))

	for i, c := range coeffs {
		q, rem := new(big.Int).QuoRem(c, pPow, new(big.Int))
		absRem := new(big.Int).Abs(rem)
		cmp := absRem.Cmp(half)

		roundUp := cmp > 0
		if cmp == 0 {
			bit, err := coinFlip.RandomBit()
			if err != nil {
				return ringops.Poly{}, err
			}
			roundUp = bit
		}
		if roundUp {
			if rem.Sign() >= 0 {
				q.Add(q, big.NewInt(1))
			} else {
				q.Sub(q, big.NewInt(1))
			}
		}
		quotients[i] = q
	}

	out := ringops.NewPoly(r)
	r.FromBigint(quotients, ps, out)
	return out, nil
}
