package ringops

// Add sets out = a + b (mod each prime in ps).
func (r *Ring) Add(a, b Poly, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		ai, bi, oi := a.Coeffs[i], b.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			oi[j] = addMod(ai[j], bi[j], qi)
		}
	}
}

// Sub sets out = a - b (mod each prime in ps).
func (r *Ring) Sub(a, b Poly, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		ai, bi, oi := a.Coeffs[i], b.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			oi[j] = subMod(ai[j], bi[j], qi)
		}
	}
}

// Neg sets out = -a (mod each prime in ps).
func (r *Ring) Neg(a Poly, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			if ai[j] == 0 {
				oi[j] = 0
			} else {
				oi[j] = qi - ai[j]
			}
		}
	}
}

// MulCoeffs sets out = a * b, the negacyclic ring product mod (X^N+1, q_i)
// for every prime in ps (see ntt.go for the NTT/naive dispatch). This is
// the "multiply" primitive the core calls for both plaintext-times-ciphertext
// and ciphertext tensor products.
func (r *Ring) MulCoeffs(a, b Poly, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		copy(out.Coeffs[i], negacyclicConvolve(a.Coeffs[i], b.Coeffs[i], qi, r.N))
	}
}

// MulCoeffsThenAdd sets out += a * b.
func (r *Ring) MulCoeffsThenAdd(a, b Poly, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		prod := negacyclicConvolve(a.Coeffs[i], b.Coeffs[i], qi, r.N)
		oi := out.Coeffs[i]
		for j := range oi {
			oi[j] = addMod(oi[j], prod[j], qi)
		}
	}
}

// MulScalar sets out = a * scalar (mod each prime in ps).
func (r *Ring) MulScalar(a Poly, scalar uint64, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		s := scalar % qi
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			oi[j] = mulMod(ai[j], s, qi)
		}
	}
}

// MulScalarThenAdd sets out += a * scalar.
func (r *Ring) MulScalarThenAdd(a Poly, scalar uint64, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		s := scalar % qi
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		for j := 0; j < r.N; j++ {
			oi[j] = addMod(oi[j], mulMod(ai[j], s, qi), qi)
		}
	}
}

// AddScalar sets out = a + scalar (mod each prime in ps), broadcasting
// scalar to coefficient 0 only (the constant-term convention for adding a
// plaintext integer to a ring element representing a message whose slots
// have already been folded into coefficient space).
func (r *Ring) AddScalar(a Poly, scalar uint64, ps PrimeSet, out Poly) {
	for _, i := range ps {
		qi := r.Moduli[i]
		s := scalar % qi
		ai, oi := a.Coeffs[i], out.Coeffs[i]
		copy(oi, ai)
		oi[0] = addMod(ai[0], s, qi)
	}
}

func addMod(a, b, q uint64) uint64 {
	s := a + b
	if s >= q {
		s -= q
	}
	return s
}

func subMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

func mulMod(a, b, q uint64) uint64 {
	// 64x64->128 is not needed for the CRT prime sizes used in this
	// library (<= 30 bits, per spec §4.4 "e_bnd"); a 128-bit-safe path via
	// big.Int is used only in the rare case a modulus does not fit that
	// bound, to keep this operator branch-free on the hot path.
	if bits64Fit(a, b, q) {
		return (a * b) % q
	}
	return mulModBig(a, b, q)
}

func bits64Fit(a, b, q uint64) bool {
	const safeBits = 31
	return a < 1<<safeBits && b < 1<<safeBits && q < 1<<(2*safeBits)
}
