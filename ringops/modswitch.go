package ringops

import "math/big"

// ModSwitchDown rescales a from the prime set ps (a superset of target) down
// to target, rounding each coefficient. It returns droppedProduct, the
// product of the dropped primes, which the caller (ctxt.Ciphertext) divides
// the noise bound by per spec §4.1 "noiseBound <- noiseBound /
// Π(dropped primes) + modSwitchAdditive(S)".
func (r *Ring) ModSwitchDown(a Poly, ps, target PrimeSet, out Poly) (droppedProduct *big.Int) {
	dropped := ps.Intersection(ps) // copy
	dropped = subtractSet(ps, target)

	coeffs := r.ToBigint(a, ps)
	droppedProduct = r.ModulusProduct(dropped)
	half := new(big.Int).Rsh(droppedProduct, 1)

	rounded := make([]*big.Int, len(coeffs))
	for j, c := range coeffs {
		num := new(big.Int).Mul(c, big.NewInt(1))
		q, rem := new(big.Int).QuoRem(num, droppedProduct, new(big.Int))
		if rem.CmpAbs(half) >= 0 {
			if rem.Sign() >= 0 {
				q.Add(q, big.NewInt(1))
			} else {
				q.Sub(q, big.NewInt(1))
			}
		}
		rounded[j] = q
	}
	r.FromBigint(rounded, target, out)
	return droppedProduct
}

func subtractSet(a, b PrimeSet) PrimeSet {
	var out PrimeSet
	for _, v := range a {
		if !b.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// ModSwitchUp raises a defined on ps to the superset target by CRT-extending
// its centered value into the extra primes' limbs, so the integer value is
// unchanged (used when padding to a larger prime set
// before key-switching against a "special prime" modulus P, spec §4.2).
func (r *Ring) ModSwitchUp(a Poly, ps, target PrimeSet, out Poly) {
	for _, i := range ps {
		copy(out.Coeffs[i], a.Coeffs[i])
	}
	extra := subtractSet(target, ps)
	coeffs := r.ToBigint(a, ps)
	r.FromBigint(coeffs, extra, out)
}
