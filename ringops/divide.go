package ringops

import "fmt"

// DivideByP sets out = a * p^{-1} (mod each prime in ps), the exact-division
// primitive digit extraction relies on once every coefficient of a is
// already known to be a multiple of p (spec §4.3.3 "divide the ciphertext
// by p (an exact ring operation given the input's divisibility
// guarantee)"). p must be coprime to every prime in ps.
func (r *Ring) DivideByP(a Poly, p uint64, ps PrimeSet, out Poly) error {
	for _, i := range ps {
		qi := r.Moduli[i]
		inv, ok := modInverseUint64(p%qi, qi)
		if !ok {
			return fmt.Errorf("cannot DivideByP: %d has no inverse mod %d", p, qi)
		}
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			oi[j] = mulMod(ai[j], inv, qi)
		}
	}
	return nil
}

func modInverseUint64(a, m uint64) (uint64, bool) {
	if m == 1 {
		return 0, true
	}
	g, x, _ := extGCD(int64(a), int64(m))
	if g != 1 && g != -1 {
		return 0, false
	}
	m0 := int64(m)
	x %= m0
	if x < 0 {
		x += m0
	}
	return uint64(x), true
}

func extGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := extGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}
