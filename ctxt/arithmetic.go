package ctxt

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/slices"

	"github.com/fhecore/bgvboot/ringops"
)

// Add sets c = c + other in place, per spec §4.1 "Addition":
//   - handle lists must be prefix-compatible (every handle present in both
//     ciphertexts is added; handles present in only one are carried over);
//   - the prime set becomes the intersection, each operand mod-switched
//     down first if its prime set is a strict superset;
//   - plaintext spaces must match exactly;
//   - noiseBound_out = noiseBound_1 + noiseBound_2.
func (c *Ciphertext) Add(other *Ciphertext) error {
	if c.PtxtSpace != other.PtxtSpace {
		return fmt.Errorf("cannot Add: plaintext space mismatch (%d != %d): %w", c.PtxtSpace, other.PtxtSpace, ErrArgumentInvalid)
	}
	if !prefixCompatible(c.Parts, other.Parts) {
		return incompatibleHandlesError(handlesOf(c.Parts), handlesOf(other.Parts))
	}

	target := c.PrimeSet.Intersection(other.PrimeSet)
	a := c
	b := other
	if !a.PrimeSet.Equal(target) {
		if err := a.ModSwitchDown(target); err != nil {
			return fmt.Errorf("cannot Add: %w", err)
		}
	}
	if !b.PrimeSet.Equal(target) {
		b = other.CopyNew()
		if err := b.ModSwitchDown(target); err != nil {
			return fmt.Errorf("cannot Add: %w", err)
		}
	}

	if a.IntFactor != b.IntFactor {
		af, bf := a.IntFactor, b.IntFactor
		a.scaleIntFactor(bf)
		scaledB := b.CopyNew()
		scaledB.scaleIntFactor(af)
		b = scaledB
	}

	merged := mergeParts(a.Ring, a.PrimeSet, a.Parts, b.Parts, true)
	a.Parts = merged
	a.NoiseBound = new(big.Float).Add(a.NoiseBound, b.NoiseBound)
	return nil
}

// Sub sets c = c - other in place; same contract as Add.
func (c *Ciphertext) Sub(other *Ciphertext) error {
	neg := other.CopyNew()
	neg.Negate()
	return c.Add(neg)
}

// Negate sets every part of c to its additive inverse.
func (c *Ciphertext) Negate() {
	for _, p := range c.Parts {
		c.Ring.Neg(p.Value, c.PrimeSet, p.Value)
	}
}

// scaleIntFactor multiplies every part by factor modulo PtxtSpace, and
// updates IntFactor = IntFactor*factor mod PtxtSpace (spec §4.1's "re-scale
// to a common factor" step of BGV addition).
func (c *Ciphertext) scaleIntFactor(factor uint64) {
	if factor == 1 || factor == 0 {
		return
	}
	for _, p := range c.Parts {
		c.Ring.MulScalar(p.Value, factor, c.PrimeSet, p.Value)
	}
	c.IntFactor = (c.IntFactor * factor) % c.PtxtSpace
}

// MulConstant multiplies every part of c by a plaintext-encoded constant
// poly, in place. This is the "multiply by constant" operation of spec
// §4.1; it does not change the handle list, and the noise bound is
// multiplied by bound.
func (c *Ciphertext) MulConstant(constant ringops.Poly, bound *big.Float) {
	for _, p := range c.Parts {
		c.Ring.MulCoeffs(p.Value, constant, c.PrimeSet, p.Value)
	}
	c.NoiseBound = new(big.Float).Mul(c.NoiseBound, bound)
}

// MulLowLevel tensors c with other, producing the (deg(c)+deg(other))-part
// ciphertext, without relinearization (spec §4.1 "Multiplication by
// ciphertext (low-level, no relinearization)"). Both operands must share a
// prime set and plaintext space.
func (c *Ciphertext) MulLowLevel(other *Ciphertext, ringAdditiveNoise *big.Float) error {
	if c.PtxtSpace != other.PtxtSpace {
		return fmt.Errorf("cannot MulLowLevel: plaintext space mismatch: %w", ErrArgumentInvalid)
	}
	if !c.PrimeSet.Equal(other.PrimeSet) {
		return fmt.Errorf("cannot MulLowLevel: prime set mismatch: %w", ErrArgumentInvalid)
	}

	outLen := len(c.Parts) + len(other.Parts) - 1
	acc := make([]*rawPart, outLen)

	for i, pi := range c.Parts {
		for j, pj := range other.Parts {
			h, err := pi.Handle.Mul(pj.Handle)
			if err != nil {
				return fmt.Errorf("cannot MulLowLevel: %w", err)
			}
			slot := i + j
			if acc[slot] == nil {
				acc[slot] = &rawPart{handle: h, value: ringops.NewPoly(c.Ring)}
			}
			c.Ring.MulCoeffsThenAdd(pi.Value, pj.Value, c.PrimeSet, acc[slot].value)
		}
	}

	parts := make([]CiphertextPart, outLen)
	for i, a := range acc {
		parts[i] = CiphertextPart{Handle: a.handle, Value: a.value}
	}
	c.Parts = parts
	c.NoiseBound = new(big.Float).Mul(c.NoiseBound, other.NoiseBound)
	c.NoiseBound.Add(c.NoiseBound, ringAdditiveNoise)
	return nil
}

// MulScalar multiplies every part of c by the plaintext integer scalar, in
// place, updating the noise bound by the given multiplicative bound. Used
// by the polynomial evaluator for its scalar-coefficient terms (spec
// §4.3.2 baby-step combination).
func (c *Ciphertext) MulScalar(scalar uint64, bound *big.Float) {
	for _, p := range c.Parts {
		c.Ring.MulScalar(p.Value, scalar, c.PrimeSet, p.Value)
	}
	c.NoiseBound = new(big.Float).Mul(c.NoiseBound, bound)
}

// AddScalar adds the plaintext integer scalar into c's part under the
// "one" handle (the constant term of a plaintext polynomial; spec §4.3.2
// "add" step of the baby-step linear combination).
func (c *Ciphertext) AddScalar(scalar uint64) error {
	for i, p := range c.Parts {
		if p.Handle.IsOne() {
			out := ringops.NewPoly(c.Ring)
			c.Ring.AddScalar(p.Value, scalar, c.PrimeSet, out)
			c.Parts[i].Value = out
			return nil
		}
	}
	return fmt.Errorf("cannot AddScalar: ciphertext has no constant-handle part: %w", ErrStateInvalid)
}

type rawPart struct {
	handle SkHandle
	value  ringops.Poly
}

// ModSwitchDown rescales c from its current prime set to target (target
// must be a subset), updating noise per spec §4.1:
//
//	noiseBound <- noiseBound / Π(dropped primes) + modSwitchAdditive(S)
func (c *Ciphertext) ModSwitchDown(target ringops.PrimeSet) error {
	if !c.PrimeSet.IsSuperset(target) {
		return fmt.Errorf("cannot ModSwitchDown: target %v is not a subset of %v: %w", target, c.PrimeSet, ErrArgumentInvalid)
	}
	if err := c.Ring.VerifyPrimeSet(target); err != nil {
		return fmt.Errorf("cannot ModSwitchDown: %w", err)
	}
	var dropped *big.Int
	for _, p := range c.Parts {
		out := ringops.NewPoly(c.Ring)
		dropped = c.Ring.ModSwitchDown(p.Value, c.PrimeSet, target, out)
		p.Value.Copy(out)
	}
	if dropped != nil {
		c.NoiseBound.Quo(c.NoiseBound, new(big.Float).SetInt(dropped))
	}
	c.NoiseBound.Add(c.NoiseBound, modSwitchAdditive(c.Ring, target, c.PtxtSpace))
	c.PrimeSet = target.Clone()
	return nil
}

// modSwitchAdditive bounds the rounding error introduced by mod-switching
// down to target; proportional to sqrt(N) * ptxtSpace, a standard RLWE
// rounding-noise bound.
func modSwitchAdditive(r *ringops.Ring, target ringops.PrimeSet, ptxtSpace uint64) *big.Float {
	n := new(big.Float).SetFloat64(float64(r.N))
	n.Sqrt(n)
	return n.Mul(n, new(big.Float).SetUint64(ptxtSpace))
}

// DropPrimes removes the given primes from the prime set without rescaling
// the data (used when the caller already mod-switched and just needs the
// bookkeeping updated, e.g. after a raw mod-switch to modulus q in
// bootstrap).
func (c *Ciphertext) DropPrimes(drop ringops.PrimeSet) {
	keep := ringops.PrimeSet{}
	for _, i := range c.PrimeSet {
		if !drop.Contains(i) {
			keep = append(keep, i)
		}
	}
	c.PrimeSet = keep
}

// ReducePtxtSpace narrows the plaintext modulus to newP, which must divide
// the current PtxtSpace; the parts are left unchanged (spec §4.1
// "Plaintext-space reduction"). This is the only way to change PtxtSpace:
// there is no escape hatch to set it to a value that does not divide the
// current one (spec §9 Open Question on hackPtxtSpace).
func (c *Ciphertext) ReducePtxtSpace(newP uint64) error {
	if newP == 0 || c.PtxtSpace%newP != 0 {
		return fmt.Errorf("cannot ReducePtxtSpace: %d does not divide %d: %w", newP, c.PtxtSpace, ErrArgumentInvalid)
	}
	c.PtxtSpace = newP
	c.IntFactor %= newP
	return nil
}

// AddConstantPoly adds a raw, already-encoded plaintext ring element into
// c's part under the "one" handle (spec §4.4 step 7's
// c' = z0' + z1'*Es composition, where z0' is added directly as a
// constant).
func (c *Ciphertext) AddConstantPoly(p ringops.Poly) error {
	for i, part := range c.Parts {
		if part.Handle.IsOne() {
			out := ringops.NewPoly(c.Ring)
			c.Ring.Add(part.Value, p, c.PrimeSet, out)
			c.Parts[i].Value = out
			return nil
		}
	}
	return fmt.Errorf("cannot AddConstantPoly: ciphertext has no constant-handle part: %w", ErrStateInvalid)
}

// DivideByP divides every part of c by the plaintext integer p and shrinks
// PtxtSpace by the same factor, in place. The caller must guarantee every
// coefficient is already a multiple of p (spec §4.3.3's exact "divide by
// p" step); DivideByP does not verify it.
func (c *Ciphertext) DivideByP(p uint64) error {
	for i := range c.Parts {
		out := ringops.NewPoly(c.Ring)
		if err := c.Ring.DivideByP(c.Parts[i].Value, p, c.PrimeSet, out); err != nil {
			return fmt.Errorf("cannot DivideByP: %w", err)
		}
		c.Parts[i].Value = out
	}
	if p > 0 && c.PtxtSpace%p == 0 {
		c.PtxtSpace /= p
	}
	return nil
}

func prefixCompatible(a, b []CiphertextPart) bool {
	// Prefix-compatible: walking both lists by ascending handle degree,
	// every handle that appears in both must agree on (T,K); this matches
	// spec §3's "the list of handles is a prefix of {1, s, s^2, ...} under
	// a single automorphism t" invariant shared by both operands.
	byDeg := func(parts []CiphertextPart) map[int]SkHandle {
		m := map[int]SkHandle{}
		for _, p := range parts {
			m[p.Handle.A] = p.Handle
		}
		return m
	}
	ma, mb := byDeg(a), byDeg(b)
	for deg, ha := range ma {
		if hb, ok := mb[deg]; ok {
			if ha.K != hb.K || (!ha.IsOne() && !hb.IsOne() && ha.T != hb.T) {
				return false
			}
		}
	}
	return true
}

func handlesOf(parts []CiphertextPart) []SkHandle {
	out := make([]SkHandle, len(parts))
	for i, p := range parts {
		out[i] = p.Handle
	}
	return out
}

// mergeParts adds ring elements for handles present in both lists and
// carries over handles present in only one, returning an ascending-degree
// part list (spec §4.1 Addition).
func mergeParts(r *ringops.Ring, ps ringops.PrimeSet, a, b []CiphertextPart, add bool) []CiphertextPart {
	byDeg := map[int]CiphertextPart{}
	for _, p := range a {
		byDeg[p.Handle.A] = p.CopyNew()
	}
	for _, p := range b {
		if existing, ok := byDeg[p.Handle.A]; ok {
			out := ringops.NewPoly(r)
			if add {
				r.Add(existing.Value, p.Value, ps, out)
			} else {
				r.Sub(existing.Value, p.Value, ps, out)
			}
			existing.Value = out
			byDeg[p.Handle.A] = existing
		} else {
			byDeg[p.Handle.A] = p.CopyNew()
		}
	}
	degs := make([]int, 0, len(byDeg))
	for d := range byDeg {
		degs = append(degs, d)
	}
	slices.Sort(degs)
	out := make([]CiphertextPart, len(degs))
	for i, d := range degs {
		out[i] = byDeg[d]
	}
	return out
}
