package ringops

import (
	"math/bits"

	"github.com/klauspost/cpuid/v2"
)

// twiddleSet holds the primitive 2N-th root of unity powers used for a
// negacyclic NTT over one CRT prime. It is rebuilt for every NTT-path
// convolution; nothing caches it.
type twiddleSet struct {
	psiPow    []uint64 // psi^i, i = 0..N-1 (negacyclic twist)
	psiInvPow []uint64 // psi^-i
	omegaFwd  []uint64 // bit-reversed powers of omega = psi^2, forward NTT
	omegaInv  []uint64 // bit-reversed powers of omega^-1, inverse NTT
	nInv      uint64   // N^-1 mod q
}

var ntt2N = cpuid.CPU.Supports(cpuid.AVX2) // dispatch flag only; both paths are pure Go

// negacyclicConvolve computes c = a (*) b mod (X^N + 1, q) using the fast
// NTT path when avx2 is reported by cpuid (the teacher's ring package gates
// its vectorized butterflies the same way) and a direct O(N^2) convolution
// otherwise. Both paths are exact; the dispatch only affects which one
// runs, matching how a real double-CRT ring would select a kernel without
// changing results.
func negacyclicConvolve(a, b []uint64, q uint64, N int) []uint64 {
	if ntt2N && N >= 16 && N&(N-1) == 0 {
		if ts, ok := buildTwiddles(q, N); ok {
			return nttConvolve(a, b, q, N, ts)
		}
	}
	return naiveConvolve(a, b, q, N)
}

func naiveConvolve(a, b []uint64, q uint64, N int) []uint64 {
	out := make([]uint64, N)
	for i := 0; i < N; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < N; j++ {
			if b[j] == 0 {
				continue
			}
			idx := i + j
			v := mulMod(a[i], b[j], q)
			if idx >= N {
				idx -= N
				out[idx] = subMod(out[idx], v, q)
			} else {
				out[idx] = addMod(out[idx], v, q)
			}
		}
	}
	return out
}

// buildTwiddles finds a primitive 2N-th root of unity mod q and derives the
// forward/inverse bit-reversed twiddle tables. It returns ok=false if q is
// not NTT-friendly for this N (q % 2N != 1), in which case the caller falls
// back to the naive convolution.
func buildTwiddles(q uint64, N int) (*twiddleSet, bool) {
	M := uint64(2 * N)
	if (q-1)%M != 0 {
		return nil, false
	}
	g, ok := findGenerator(q)
	if !ok {
		return nil, false
	}
	psi := powMod(g, (q-1)/M, q)
	psiInv := modInverse(psi, q)
	omega := mulMod(psi, psi, q)
	omegaInv := modInverse(omega, q)

	ts := &twiddleSet{
		psiPow:    powersOf(psi, N, q),
		psiInvPow: powersOf(psiInv, N, q),
		omegaFwd:  bitRevPowers(omega, N, q),
		omegaInv:  bitRevPowers(omegaInv, N, q),
		nInv:      modInverse(uint64(N)%q, q),
	}
	return ts, true
}

func powersOf(x uint64, n int, q uint64) []uint64 {
	out := make([]uint64, n)
	out[0] = 1 % q
	for i := 1; i < n; i++ {
		out[i] = mulMod(out[i-1], x, q)
	}
	return out
}

func bitRevPowers(omega uint64, n int, q uint64) []uint64 {
	pw := powersOf(omega, n, q)
	logN := bits.Len(uint(n)) - 1
	out := make([]uint64, n)
	for i := range pw {
		out[bitReverse(i, logN)] = pw[i]
	}
	return out
}

func bitReverse(x, bitsLen int) int {
	r := 0
	for i := 0; i < bitsLen; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// nttConvolve performs the negacyclic convolution via twist + cyclic NTT +
// pointwise product + inverse NTT + untwist.
func nttConvolve(a, b []uint64, q uint64, N int, ts *twiddleSet) []uint64 {
	ta := twistAndNTT(a, q, N, ts)
	tb := twistAndNTT(b, q, N, ts)
	for i := range ta {
		ta[i] = mulMod(ta[i], tb[i], q)
	}
	return inttAndUntwist(ta, q, N, ts)
}

func twistAndNTT(a []uint64, q uint64, N int, ts *twiddleSet) []uint64 {
	x := make([]uint64, N)
	for i := range a {
		x[i] = mulMod(a[i], ts.psiPow[i], q)
	}
	nttInPlace(x, q, ts.omegaFwd)
	return x
}

func inttAndUntwist(x []uint64, q uint64, N int, ts *twiddleSet) []uint64 {
	inttInPlace(x, q, ts.omegaInv)
	out := make([]uint64, N)
	for i := range x {
		out[i] = mulMod(mulMod(x[i], ts.nInv, q), ts.psiInvPow[i], q)
	}
	return out
}

// nttInPlace runs an iterative Cooley-Tukey DIT NTT. omega is the
// bit-reversed twiddle table produced by bitRevPowers.
func nttInPlace(a []uint64, q uint64, omega []uint64) {
	n := len(a)
	logN := bits.Len(uint(n)) - 1
	for i := 0; i < n; i++ {
		j := bitReverse(i, logN)
		if j > i {
			a[i], a[j] = a[j], a[i]
		}
	}
	for length := 2; length <= n; length <<= 1 {
		half := length / 2
		step := n / length
		for start := 0; start < n; start += length {
			for k := 0; k < half; k++ {
				w := omega[k*step]
				u := a[start+k]
				v := mulMod(a[start+k+half], w, q)
				a[start+k] = addMod(u, v, q)
				a[start+k+half] = subMod(u, v, q)
			}
		}
	}
}

func inttInPlace(a []uint64, q uint64, omegaInv []uint64) {
	nttInPlace(a, q, omegaInv)
}

func powMod(base, exp, q uint64) uint64 {
	result := uint64(1) % q
	base %= q
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, q)
		}
		base = mulMod(base, base, q)
		exp >>= 1
	}
	return result
}

func modInverse(a, q uint64) uint64 {
	return powMod(a, q-2, q)
}

// findGenerator does a brute-force search for a generator of Z_q^*; q is
// expected to be a ~30-bit prime (spec §4.4 "e_bnd"). buildTwiddles calls
// it on every NTT-path convolution.
func findGenerator(q uint64) (uint64, bool) {
	for g := uint64(2); g < q && g < 1<<20; g++ {
		if powMod(g, q-1, q) == 1 && isGenerator(g, q) {
			return g, true
		}
	}
	return 0, false
}

func isGenerator(g, q uint64) bool {
	order := q - 1
	for _, f := range smallFactors(order) {
		if powMod(g, order/f, q) == 1 {
			return false
		}
	}
	return true
}

func smallFactors(n uint64) []uint64 {
	var out []uint64
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			out = append(out, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}
