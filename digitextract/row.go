package digitextract

import (
	"fmt"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/polyeval"
)

// Row computes the family of lifting results needed at one trapezoid row:
// for input x defined modulo p^eInner, it returns a map from achieved
// precision to the ciphertext holding that precision's lifted value, for
// every precision in targets (spec §4.3.1).
//
// p=2, eInner=1, target<=16 uses the hard-coded multivariate cascade;
// everything else retrieves polynomials from cache and runs them through
// the Paterson-Stockmeyer evaluator.
func Row(x *ctxt.Ciphertext, p uint64, eInner int, targets []int, cache *Cache, opts polyeval.Options) (map[int]*ctxt.Ciphertext, error) {
	maxTarget := 0
	for _, t := range targets {
		if t > maxTarget {
			maxTarget = t
		}
	}

	if p == 2 && eInner == 1 && maxTarget <= 16 {
		return hardCodedCascade(x, targets, opts)
	}

	polys := make([]polyeval.Polynomial, len(targets))
	for i, t := range targets {
		poly, err := cache.Get(int(p), eInner, t, opts.Stats)
		if err != nil {
			return nil, fmt.Errorf("cannot Row: %w", err)
		}
		polys[i] = poly
	}
	evaluated, err := polyeval.Evaluate(polys, x, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot Row: %w", err)
	}
	out := make(map[int]*ctxt.Ciphertext, len(targets))
	for i, t := range targets {
		out[t] = evaluated[i]
	}
	return out, nil
}

// doublingTargets enumerates the successive precisions eInner*2^j up to
// (and including) target, the scheduling heuristic of spec §4.3.1:
// "always prefer minimizing multiplicative depth; pick successive
// precisions e_inner * 2^j, doubling until the target is reached".
func doublingTargets(eInner, target int) []int {
	if target <= eInner {
		return []int{target}
	}
	var out []int
	t := eInner
	for t < target {
		t *= 2
		if t > target {
			t = target
		}
		out = append(out, t)
	}
	return out
}
