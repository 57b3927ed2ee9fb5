package ringops

import "math/big"

// ToBigint reconstructs, via CRT, the centered big.Int representation of
// every coefficient of p under the primes in ps. This is the "powerful
// basis" bridge spec §4.4 step 5 needs for newMakeDivisible (round each
// coefficient to the nearest multiple of p^e').
func (r *Ring) ToBigint(p Poly, ps PrimeSet) []*big.Int {
	Q := new(big.Int).SetUint64(1)
	for _, i := range ps {
		Q.Mul(Q, new(big.Int).SetUint64(r.Moduli[i]))
	}
	qHalf := new(big.Int).Rsh(Q, 1)

	out := make([]*big.Int, r.N)
	for j := 0; j < r.N; j++ {
		x := new(big.Int)
		for _, i := range ps {
			qi := new(big.Int).SetUint64(r.Moduli[i])
			Qi := new(big.Int).Div(Q, qi)
			QiInv := new(big.Int).ModInverse(Qi, qi)
			term := new(big.Int).SetUint64(p.Coeffs[i][j])
			term.Mul(term, Qi)
			term.Mul(term, QiInv)
			x.Add(x, term)
		}
		x.Mod(x, Q)
		if x.Cmp(qHalf) > 0 {
			x.Sub(x, Q)
		}
		out[j] = x
	}
	return out
}

// FromBigint projects centered big.Int coefficients back into RNS form
// under ps.
func (r *Ring) FromBigint(coeffs []*big.Int, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := new(big.Int).SetUint64(r.Moduli[i])
		row := out.Coeffs[i]
		for j, c := range coeffs {
			v := new(big.Int).Mod(c, qi)
			row[j] = v.Uint64()
		}
	}
}

// ModulusProduct returns the big.Int product of the primes in ps.
func (r *Ring) ModulusProduct(ps PrimeSet) *big.Int {
	Q := new(big.Int).SetUint64(1)
	for _, i := range ps {
		Q.Mul(Q, new(big.Int).SetUint64(r.Moduli[i]))
	}
	return Q
}
