package polyeval

import (
	"fmt"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/keyswitch"
)

// multiply computes a*b, always relinearizing unless opts.Lazy is set and
// relin is explicitly deferred (spec §4.3.2's lazy flag).
func multiply(a, b *ctxt.Ciphertext, opts Options, deferRelin bool) (*ctxt.Ciphertext, error) {
	out := a.CopyNew()
	if err := out.MulLowLevel(b, opts.RingAdditiveNoise); err != nil {
		return nil, err
	}
	if !(deferRelin && opts.Lazy) {
		if err := keyswitch.Relinearize(out, opts.KeyID, opts.Bank, opts.Stats); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// powerOf computes x^n by a left-to-right square-and-multiply chain,
// relinearizing after every multiplication (used for the GCD-spacing
// preprocessing step, which is not part of the lazy giant-step deferral).
func powerOf(x *ctxt.Ciphertext, n int, opts Options) (*ctxt.Ciphertext, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot powerOf: exponent %d must be positive", n)
	}
	result := x.CopyNew()
	for i := 1; i < n; i++ {
		r, err := multiply(result, x, opts, false)
		if err != nil {
			return nil, err
		}
		result = r
	}
	return result, nil
}

// babySteps computes x^1..x^k. When oddOnly is set, only odd powers (plus
// the even powers needed to build them by squaring, per spec §4.3.2 "For
// odd-only families, compute only odd powers and required even powers")
// are computed from scratch; index k itself is always present since the
// giant step needs x^k.
func babySteps(x *ctxt.Ciphertext, k int, oddOnly bool, opts Options) (map[int]*ctxt.Ciphertext, error) {
	steps := map[int]*ctxt.Ciphertext{1: x}
	need := func(i int) (*ctxt.Ciphertext, error) {
		if c, ok := steps[i]; ok {
			return c, nil
		}
		half := i / 2
		a, err := ensure(steps, half, oddOnly, opts)
		if err != nil {
			return nil, err
		}
		b, err := ensure(steps, i-half, oddOnly, opts)
		if err != nil {
			return nil, err
		}
		c, err := multiply(a, b, opts, false)
		if err != nil {
			return nil, err
		}
		steps[i] = c
		return c, nil
	}

	if oddOnly {
		if _, err := need(2); err != nil {
			return nil, err
		}
		for i := 3; i <= k; i += 2 {
			if _, err := need(i); err != nil {
				return nil, err
			}
		}
		if k%2 == 0 {
			if _, err := need(k); err != nil {
				return nil, err
			}
		}
	} else {
		for i := 2; i <= k; i++ {
			if _, err := need(i); err != nil {
				return nil, err
			}
		}
	}
	return steps, nil
}

// ensure fetches or lazily materializes step i during baby-step
// construction, falling back to i-1 * x when no cheaper odd/even
// decomposition is cached yet.
func ensure(steps map[int]*ctxt.Ciphertext, i int, oddOnly bool, opts Options) (*ctxt.Ciphertext, error) {
	if c, ok := steps[i]; ok {
		return c, nil
	}
	if i <= 1 {
		return steps[1], nil
	}
	prev, err := ensure(steps, i-1, oddOnly, opts)
	if err != nil {
		return nil, err
	}
	c, err := multiply(prev, steps[1], opts, false)
	if err != nil {
		return nil, err
	}
	steps[i] = c
	return c, nil
}

// giantSteps computes xk, xk^2, xk^4, ..., xk^(2^(m-1)) by repeated
// squaring (spec §4.3.2 "giant step").
func giantSteps(xk *ctxt.Ciphertext, m int, opts Options) ([]*ctxt.Ciphertext, error) {
	out := make([]*ctxt.Ciphertext, m)
	cur := xk
	for i := 0; i < m; i++ {
		out[i] = cur
		if i+1 < m {
			next, err := multiply(cur, cur, opts, false)
			if err != nil {
				return nil, err
			}
			cur = next
		}
	}
	return out, nil
}

// evalRecursive implements spec §4.3.2's recursion: split the coefficient
// list at the k*2^(m-1) boundary, recursively evaluate low/high halves,
// multiply the high half by the giant-step power, and add — deferring
// relinearization of that multiply when opts.Lazy is set.
func evalRecursive(p Polynomial, baby map[int]*ctxt.Ciphertext, giant []*ctxt.Ciphertext, k, m int, opts Options) (*ctxt.Ciphertext, error) {
	if m == 0 {
		return evalBaby(p, baby, k, opts)
	}
	boundary := k * pow2(m-1)
	low := p.slice(0, boundary)
	high := p.slice(boundary, len(p))

	lowCt, err := evalRecursive(low, baby, giant, k, m-1, opts)
	if err != nil {
		return nil, err
	}
	if high.Degree() < 0 {
		return lowCt, nil
	}
	highCt, err := evalRecursive(high, baby, giant, k, m-1, opts)
	if err != nil {
		return nil, err
	}
	product, err := multiply(highCt, giant[m-1], opts, true)
	if err != nil {
		return nil, err
	}
	if err := product.Add(lowCt); err != nil {
		return nil, err
	}
	if opts.Lazy {
		if err := keyswitch.Relinearize(product, opts.KeyID, opts.Bank, opts.Stats); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// evalBaby evaluates a degree < k polynomial as a scalar linear
// combination of baby-step powers (the base case of the recursion).
func evalBaby(p Polynomial, baby map[int]*ctxt.Ciphertext, k int, opts Options) (*ctxt.Ciphertext, error) {
	base := baby[1]
	acc := base.CopyNew()
	acc.Clear()
	if len(p) > 0 && p[0] != 0 {
		if err := acc.AddScalar(p[0]); err != nil {
			return nil, err
		}
	}
	for i := 1; i < len(p) && i < k+1; i++ {
		if p[i] == 0 {
			continue
		}
		term := baby[i].CopyNew()
		term.MulScalar(p[i], new(big.Float).SetUint64(p[i]))
		if err := acc.Add(term); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
