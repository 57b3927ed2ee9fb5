package digitextract

import (
	"fmt"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
)

// Extract runs the trapezoid schedule of spec §4.3.3 over x, a ciphertext
// whose plaintext space is p^(eInner+botHigh+r-1) (slots hold integers
// modulo p^eInner, lifted to that larger space). It peels botHigh low
// digits, returning them low-to-high alongside the final high-order
// remainder.
//
// For each row i in [0, botHigh): Row computes a family of lifting results
// at doubling precisions up to the full remaining depth (botHigh+r-i). The
// lowest-precision result in that family, reduced to plaintext space p, is
// the row's digit d_i; subtracting the (unreduced) result from the running
// value and dividing by p produces the carry fed into row i+1 at one less
// digit of depth.
func Extract(x *ctxt.Ciphertext, p uint64, eInner, botHigh, r int, cache *Cache, opts Options, stats *options.Stats) ([]*ctxt.Ciphertext, *ctxt.Ciphertext, error) {
	if stats == nil {
		stats = &options.Stats{}
	}
	opts.Eval.Stats = stats
	current := x.CopyNew()

	if p == 2 && opts.Balanced {
		correction := pow64(2, botHigh) / 2
		if err := current.AddScalar(correction); err != nil {
			return nil, nil, fmt.Errorf("cannot Extract: %w", err)
		}
	}

	digits := make([]*ctxt.Ciphertext, botHigh)
	prec := eInner

	for i := 0; i < botHigh; i++ {
		target := botHigh + r - i
		targets := doublingTargets(prec, target)

		if opts.CheckDivisibility && i > 0 {
			// A structural sanity check only: real divisibility can't be
			// observed without decrypting, so this just guards against an
			// obviously malformed prime/plaintext-space pairing.
			if current.PtxtSpace == 0 {
				return nil, nil, fmt.Errorf("cannot Extract: row %d: plaintext space collapsed to zero: %w", i, ctxt.ErrStateInvalid)
			}
		}

		results, err := Row(current, p, prec, targets, cache, opts.Eval)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot Extract: row %d: %w", i, err)
		}
		stats.RowsComputed++
		stats.PolynomialsEvaluated += len(targets)

		lowTarget := targets[0]
		lifted, ok := results[lowTarget]
		if !ok {
			return nil, nil, fmt.Errorf("cannot Extract: row %d: missing lifted result at precision %d: %w", i, lowTarget, ctxt.ErrMissingLiftingPolynomial)
		}

		digit := lifted.CopyNew()
		if err := digit.ReducePtxtSpace(p); err != nil {
			return nil, nil, fmt.Errorf("cannot Extract: row %d: %w", i, err)
		}
		digits[i] = digit

		next, err := subtracted(current, lifted)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot Extract: row %d: %w", i, err)
		}
		if err := next.DivideByP(p); err != nil {
			return nil, nil, fmt.Errorf("cannot Extract: row %d: %w", i, err)
		}
		current = next
		prec = target - 1
	}

	if p == 2 && opts.Balanced {
		current.Negate()
	}

	return digits, current, nil
}

func pow64(base uint64, exp int) uint64 {
	r := uint64(1)
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}
