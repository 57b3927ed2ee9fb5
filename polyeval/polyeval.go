// Package polyeval evaluates one or more polynomials, sharing a base
// ciphertext, via Paterson-Stockmeyer baby-step/giant-step decomposition
// (spec §4.3.2). It is the engine digitextract calls once per row whenever
// the hard-coded low-degree cascade does not apply.
//
// Grounded on core/rlwe's gadget-product relinearization path
// (evaluator_gadget_product.go) for the multiply-then-relinearize sequence,
// and on circuits/ckks/polynomial's baby-step/giant-step evaluator for the
// (k, m) parameter search and recursive split structure.
package polyeval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/options"
)

// Polynomial is a coefficient list in ascending power order, reduced modulo
// the evaluator's plaintext space; Polynomial[i] is the coefficient of X^i.
type Polynomial []uint64

// Degree returns the index of the last nonzero coefficient, or -1 for the
// zero polynomial.
func (p Polynomial) Degree() int {
	d := -1
	for i, c := range p {
		if c != 0 {
			d = i
		}
	}
	return d
}

func (p Polynomial) allOdd() bool {
	for i, c := range p {
		if c != 0 && i%2 == 0 {
			return false
		}
	}
	return true
}

func (p Polynomial) slice(lo, hi int) Polynomial {
	if hi > len(p) {
		hi = len(p)
	}
	if lo >= hi {
		return nil
	}
	return append(Polynomial{}, p[lo:hi]...)
}

// Options parameterizes an evaluation run: where relinearization matrices
// live, which key the result should be canonical under, the additive
// ring-noise term each multiplication introduces, and the lazy
// relinearization flag of spec §4.3.2/§9.
type Options struct {
	KeyID            int
	Bank             *keyswitch.Bank
	PtxtSpace        uint64
	RingAdditiveNoise *big.Float
	Lazy             bool

	// Extra carries the force_bsgs/verbose knobs of spec §9; the zero
	// value (Auto, not verbose) reproduces the cost-driven choice below.
	Extra options.Options

	// Stats, if non-nil, accumulates relinearization and row/polynomial
	// counters for this evaluation (spec §9's per-invocation Stats struct
	// replacing a global counter). A nil Stats is a valid no-op sink.
	Stats *options.Stats
}

// Evaluate evaluates every polynomial in polys at the shared ciphertext x,
// returning one result ciphertext per polynomial, all relinearized to
// canonical form regardless of the lazy flag (spec §4.3.2 "recursion").
func Evaluate(polys []Polynomial, x *ctxt.Ciphertext, opts Options) ([]*ctxt.Ciphertext, error) {
	if len(polys) == 0 {
		return nil, nil
	}
	maxDeg := -1
	for _, p := range polys {
		if d := p.Degree(); d > maxDeg {
			maxDeg = d
		}
	}
	if maxDeg <= 0 {
		out := make([]*ctxt.Ciphertext, len(polys))
		for i, p := range polys {
			c := x.CopyNew()
			c.Clear()
			if len(p) > 0 {
				if err := c.AddScalar(p[0]); err != nil {
					return nil, fmt.Errorf("cannot Evaluate: %w", err)
				}
			}
			out[i] = c
		}
		return out, nil
	}

	sigma := gcdSpacing(polys)
	base := x
	if sigma > 1 {
		var err error
		base, err = powerOf(x, sigma, opts)
		if err != nil {
			return nil, fmt.Errorf("cannot Evaluate: %w", err)
		}
		polys = compressBySpacing(polys, sigma)
		maxDeg /= sigma
	}

	oddOnly := true
	for _, p := range polys {
		if !p.allOdd() {
			oddOnly = false
			break
		}
	}

	par := chooseParams(maxDeg, oddOnly, opts.Extra.ForceBSGS)

	baby, err := babySteps(base, par.k, oddOnly, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot Evaluate: %w", err)
	}
	giant, err := giantSteps(baby[par.k], par.m, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot Evaluate: %w", err)
	}

	out := make([]*ctxt.Ciphertext, len(polys))
	for i, p := range polys {
		r, err := evalRecursive(p, baby, giant, par.k, par.m, opts)
		if err != nil {
			return nil, fmt.Errorf("cannot Evaluate: polynomial %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

type params struct{ k, m int }

// chooseParams enumerates candidate m in [0, ceil(log2(maxDeg+1))], picking
// the (k, m) pair minimizing giant-step plus baby-step multiplication
// count (spec §4.3.2). force, from spec §9's force_bsgs knob, pins m to
// its minimum (Off, flat Horner-style evaluation) or maximum (On, deepest
// BSGS split) instead of letting the cost model choose.
func chooseParams(maxDeg int, oddOnly bool, force options.Tristate) params {
	if maxDeg <= 0 {
		return params{k: 1, m: 0}
	}
	best := params{k: maxDeg, m: 0}
	bestCost := math.MaxFloat64
	maxM := int(math.Ceil(math.Log2(float64(maxDeg + 1))))
	if force == options.Off {
		return params{k: maxDeg, m: 0}
	}
	if force == options.On {
		k := ceilDiv(maxDeg+1, pow2(maxM))
		if k < 1 {
			k = 1
		}
		return params{k: k, m: maxM}
	}
	for m := 0; m <= maxM; m++ {
		k := ceilDiv(maxDeg+1, pow2(m))
		if k < 1 {
			k = 1
		}
		giant := ceilDiv(maxDeg+1, k) - 1
		var baby int
		if oddOnly {
			baby = k/2 + int(math.Floor(math.Log2(float64(maxInt(k, 1)))))
		} else {
			baby = k - 1
		}
		cost := float64(giant + baby)
		if cost < bestCost {
			bestCost = cost
			best = params{k: k, m: m}
		}
	}
	return best
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

func pow2(m int) int { return 1 << uint(m) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// gcdSpacing returns the GCD of every exponent with a nonzero coefficient
// across all polys (spec §4.3.2 "preprocess: find the GCD spacing").
func gcdSpacing(polys []Polynomial) int {
	g := 0
	for _, p := range polys {
		for i, c := range p {
			if c != 0 {
				g = gcd(g, i)
			}
		}
	}
	if g == 0 {
		return 1
	}
	return g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// compressBySpacing replaces X with X^sigma in every polynomial, dividing
// each nonzero exponent by sigma.
func compressBySpacing(polys []Polynomial, sigma int) []Polynomial {
	out := make([]Polynomial, len(polys))
	for pi, p := range polys {
		deg := p.Degree()
		q := make(Polynomial, deg/sigma+1)
		for i, c := range p {
			if c != 0 {
				q[i/sigma] = c
			}
		}
		out[pi] = q
	}
	return out
}
