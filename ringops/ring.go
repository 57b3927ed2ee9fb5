// Package ringops provides the double-CRT cyclotomic ring arithmetic that
// the BGV bootstrapping core treats as an external collaborator (spec §1, §6:
// "Ring arithmetic library"). It is not the performance-tuned NTT engine a
// production FHE library would ship; it is the minimal surface the core
// calls, implemented at a fidelity that lets [digitextract] and [bootstrap]
// exercise the real algorithms against it.
package ringops

import "fmt"

// Ring describes one cyclotomic ring Z[X]/(X^N+1, q) viewed through a set of
// CRT primes, indexed 0..len(Moduli)-1. The last SpecialCount primes are the
// "special primes" used as the auxiliary modulus P during key-switching
// (spec §4.2); they must be either all present or all absent in any valid
// prime set (spec §4.1 "verifyPrimeSet").
type Ring struct {
	N            int
	Moduli       []uint64
	SpecialCount int
}

// NewRing returns a Ring of degree N over the given CRT moduli. The last
// special primes are the key-switching auxiliary modulus P.
func NewRing(N int, moduli []uint64, specialCount int) (*Ring, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("cannot NewRing: N=%d is not a power of two", N)
	}
	if specialCount < 0 || specialCount > len(moduli) {
		return nil, fmt.Errorf("cannot NewRing: specialCount=%d out of range [0,%d]", specialCount, len(moduli))
	}
	m := make([]uint64, len(moduli))
	copy(m, moduli)
	return &Ring{N: N, Moduli: m, SpecialCount: specialCount}, nil
}

// ModuliChainLength returns the number of CRT primes in the ring.
func (r *Ring) ModuliChainLength() int { return len(r.Moduli) }

// SpecialPrimes returns the indices of the auxiliary primes (the "P" set).
func (r *Ring) SpecialPrimes() []int {
	out := make([]int, r.SpecialCount)
	base := len(r.Moduli) - r.SpecialCount
	for i := range out {
		out[i] = base + i
	}
	return out
}

// VerifyPrimeSet enforces that a PrimeSet either carries all special primes
// or none of them (spec §4.1).
func (r *Ring) VerifyPrimeSet(ps PrimeSet) error {
	special := r.SpecialPrimes()
	has, missing := 0, 0
	for _, idx := range special {
		if ps.Contains(idx) {
			has++
		} else {
			missing++
		}
	}
	if has != 0 && missing != 0 {
		return fmt.Errorf("cannot VerifyPrimeSet: prime set %v has a partial special-prime subset %v", ps, special)
	}
	return nil
}
