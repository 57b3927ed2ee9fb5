package bootstrap

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/ringops"
)

// TestRawModSwitchNoiseStaysWithinBound runs rawModSwitch over many
// randomly-seeded canonical ciphertexts sharing one (small) NoiseBound, and
// checks via montanaflynn/stats.Percentile that the scaled output noise's
// empirical distribution stays under the predicted scaledBound at the 99th
// percentile (spec §8 scenario 8: noise-bound statistics).
func TestRawModSwitchNoiseStaysWithinBound(t *testing.T) {
	r, err := ringops.NewRing(8, []uint64{97, 193, 389}, 0)
	require.NoError(t, err)
	ps := ringops.NewPrimeSet(0, 1, 2)

	b := &Bootstrapper{
		Ring:     r,
		Selected: SelectedParams{Q: big.NewInt(97)},
	}

	rng := rand.New(rand.NewSource(1))
	const trials = 200
	samples := make([]float64, 0, trials)

	Q := r.ModulusProduct(ps)
	scale := new(big.Float).Quo(new(big.Float).SetInt(b.Selected.Q), new(big.Float).SetInt(Q))

	for i := 0; i < trials; i++ {
		c := ctxt.NewCiphertext(r, ps, 5, 0)
		c.NoiseBound = big.NewFloat(1000)
		for _, part := range c.Parts {
			for pi := range part.Value.Coeffs {
				for j := range part.Value.Coeffs[pi] {
					part.Value.Coeffs[pi][j] = uint64(rng.Intn(1000))
				}
			}
		}

		z0, z1, err := b.rawModSwitch(c)
		require.NoError(t, err)

		maxCoeff := 0.0
		for _, coeffs := range [][]*big.Int{r.ToBigint(z0, ps), r.ToBigint(z1, ps)} {
			for _, v := range coeffs {
				f := new(big.Float).Abs(new(big.Float).SetInt(v))
				fv, _ := f.Float64()
				if fv > maxCoeff {
					maxCoeff = fv
				}
			}
		}
		samples = append(samples, maxCoeff)
	}

	p99, err := stats.Percentile(samples, 99)
	require.NoError(t, err)

	scaledBound, _ := new(big.Float).Mul(big.NewFloat(1000), scale).Float64()
	require.LessOrEqualf(t, p99, scaledBound, "99th percentile empirical noise %v exceeds predicted scaled bound %v", p99, scaledBound)
}

func TestRawModSwitchRejectsExcessiveNoise(t *testing.T) {
	r, err := ringops.NewRing(8, []uint64{97, 193, 389}, 0)
	require.NoError(t, err)
	ps := ringops.NewPrimeSet(0, 1, 2)

	b := &Bootstrapper{
		Ring:     r,
		Selected: SelectedParams{Q: big.NewInt(97)},
	}

	Q := r.ModulusProduct(ps)
	c := ctxt.NewCiphertext(r, ps, 5, 0)
	c.NoiseBound = new(big.Float).SetInt(Q)

	_, _, err = b.rawModSwitch(c)
	require.ErrorIs(t, err, ctxt.ErrNoiseBoundExceeded)
}

func TestRawModSwitchRejectsNonCanonicalCiphertext(t *testing.T) {
	r, err := ringops.NewRing(8, []uint64{97, 193, 389}, 0)
	require.NoError(t, err)
	ps := ringops.NewPrimeSet(0, 1, 2)

	b := &Bootstrapper{Ring: r}
	c := ctxt.NewCiphertext(r, ps, 5, 0)
	v := ringops.NewPoly(r)
	c.AccumulatePart(ctxt.SkHandle{A: 2, T: 1, K: 0}, v)

	_, _, err = b.rawModSwitch(c)
	require.ErrorIs(t, err, ctxt.ErrStateInvalid)
}
