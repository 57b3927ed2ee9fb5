package bootstrap

import (
	"fmt"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/digitextract"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/polyeval"
)

// ThinBootstrapper runs the sparsely-packed bootstrapping variant of spec
// §4.5: SlotsToCoefficients happens before the prime-dropping step (the
// input is already sparsely packed), the unpack/repack wrapper around
// digit extraction is skipped (only the integer-in-slots trapezoid runs),
// and CoefficientsToSlots is applied after digit extraction instead of
// before.
type ThinBootstrapper struct {
	*Bootstrapper
}

// Bootstrap refreshes c in place using the thin pipeline.
func (t *ThinBootstrapper) Bootstrap(c *ctxt.Ciphertext) error {
	b := t.Bootstrapper
	savedIntFactor := c.IntFactor

	pre, err := b.SlotsToCoeffs.Apply(c)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: SlotsToCoefficients: %w", err)
	}
	*c = *pre

	target := b.MinimalPrimeSet(c.PrimeSet)
	if !c.PrimeSet.Equal(target) {
		if err := c.ModSwitchDown(target); err != nil {
			return fmt.Errorf("cannot Bootstrap: drop primes: %w", err)
		}
	}

	if err := keyswitch.Relinearize(c, b.RefreshKey.KeyID, b.Bank, &b.Stats); err != nil {
		return fmt.Errorf("cannot Bootstrap: key-switch to refresh key: %w", err)
	}

	z0, z1, err := b.rawModSwitch(c)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	pPrime := new(big.Int).Exp(big.NewInt(int64(b.Params.P)), big.NewInt(int64(b.Selected.EPrime)), nil)
	z0div, err := makeDivisible(b.Ring, z0, c.PrimeSet, pPrime, b.Coin)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: makeDivisible z0: %w", err)
	}
	z1div, err := makeDivisible(b.Ring, z1, c.PrimeSet, pPrime, b.Coin)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: makeDivisible z1: %w", err)
	}

	combined := b.RefreshKey.Es.CopyNew()
	combined.MulConstant(z1div, combined.NoiseBound)
	if err := combined.AddConstantPoly(z0div); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	// Thin variant: skip unpack/repack, run the integer-in-slots trapezoid
	// directly against the combined ciphertext (spec §4.5).
	opts := digitextract.Options{
		Eval: polyeval.Options{
			KeyID:             b.RefreshKey.KeyID,
			Bank:              b.Bank,
			PtxtSpace:         b.Params.P,
			RingAdditiveNoise: b.RingAdditiveNoise,
			Lazy:              b.Lazy,
		},
		Balanced: b.Params.P == 2,
	}
	_, high, err := digitextract.Extract(combined, b.Params.P, b.Selected.EPrime, b.Params.R, b.Selected.E-b.Selected.EPrime, b.Cache, opts, &b.Stats)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	result, err := b.CoeffsToSlots.Apply(high)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: CoefficientsToSlots: %w", err)
	}

	result.IntFactor = savedIntFactor
	*c = *result
	return nil
}
