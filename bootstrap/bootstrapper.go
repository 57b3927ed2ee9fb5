package bootstrap

import (
	"fmt"
	"math/big"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/digitextract"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/linearmap"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/polyeval"
	"github.com/fhecore/bgvboot/ringops"
	"github.com/fhecore/bgvboot/sampling"
)

// Bootstrapper runs the thick/fat bootstrapping pipeline of spec §4.4
// against ciphertexts sharing one RefreshKey, digit-extraction cache and
// linear maps.
type Bootstrapper struct {
	Ring        *ringops.Ring
	Params      ParametersLiteral
	Selected    SelectedParams
	RefreshKey  RefreshKey
	Bank        *keyswitch.Bank
	Cache       *digitextract.Cache
	CoeffsToSlots *linearmap.EvalMap
	SlotsToCoeffs *linearmap.EvalMap
	UnpackSteps   []digitextract.FrobeniusStep
	RepackSteps   []digitextract.RepackTerm
	M             int
	Coin          *sampling.KeyedPRNG

	// RingAdditiveNoise and Lazy configure every ciphertext-ciphertext
	// multiplication digit extraction's polynomial evaluator performs.
	RingAdditiveNoise *big.Float
	Lazy              bool

	Stats options.Stats
}

// MinimalPrimeSet is the three-prime ciphertext prime set step 2 drops
// down to before key-switching to the refresh key (spec §4.4 step 2).
func (b *Bootstrapper) MinimalPrimeSet(current ringops.PrimeSet) ringops.PrimeSet {
	if len(current) <= 3 {
		return current
	}
	return ringops.NewPrimeSet(current[:3]...)
}

// Bootstrap refreshes c in place, following spec §4.4's steps 2 through 11;
// step 1's (e, e') selection is not run here, the values come from b.Selected.
func (b *Bootstrapper) Bootstrap(c *ctxt.Ciphertext) error {
	savedIntFactor := c.IntFactor

	// Step 2: drop low primes.
	target := b.MinimalPrimeSet(c.PrimeSet)
	if !c.PrimeSet.Equal(target) {
		if err := c.ModSwitchDown(target); err != nil {
			return fmt.Errorf("cannot Bootstrap: drop primes: %w", err)
		}
	}

	// Step 3: key-switch to the refresh key.
	if err := keyswitch.Relinearize(c, b.RefreshKey.KeyID, b.Bank, &b.Stats); err != nil {
		return fmt.Errorf("cannot Bootstrap: key-switch to refresh key: %w", err)
	}

	// Step 4: raw mod-switch to q = p^e + 1.
	z0, z1, err := b.rawModSwitch(c)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	// Step 5 + 6: make divisible by p^e', then divide.
	pPrime := new(big.Int).Exp(big.NewInt(int64(b.Params.P)), big.NewInt(int64(b.Selected.EPrime)), nil)
	z0div, err := makeDivisible(b.Ring, z0, c.PrimeSet, pPrime, b.Coin)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: makeDivisible z0: %w", err)
	}
	z1div, err := makeDivisible(b.Ring, z1, c.PrimeSet, pPrime, b.Coin)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: makeDivisible z1: %w", err)
	}

	// Step 7: linear combination under refresh key: c' = z0' + z1'*Es.
	combined := b.RefreshKey.Es.CopyNew()
	combined.MulConstant(z1div, combined.NoiseBound)
	if err := combined.AddConstantPoly(z0div); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	// Step 8: CoefficientsToSlots.
	slotted, err := b.CoeffsToSlots.Apply(combined)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: CoefficientsToSlots: %w", err)
	}

	// Step 9: digit extraction, digits e'..e'+r-1.
	extracted, err := b.extract(slotted)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	// Step 10: SlotsToCoefficients.
	result, err := b.SlotsToCoeffs.Apply(extracted)
	if err != nil {
		return fmt.Errorf("cannot Bootstrap: SlotsToCoefficients: %w", err)
	}

	// Step 11: restore intFactor.
	result.IntFactor = savedIntFactor
	*c = *result
	return nil
}

// extract runs the packed-slot digit extractor (unpack, per-slot
// trapezoid, repack) across the r digits e'..e'+r-1 (spec §4.4 step 9,
// §4.3.4).
func (b *Bootstrapper) extract(x *ctxt.Ciphertext) (*ctxt.Ciphertext, error) {
	unpacked, err := digitextract.Unpack(x, b.M, b.UnpackSteps, b.RefreshKey.KeyID, b.Bank, &b.Stats)
	if err != nil {
		return nil, fmt.Errorf("cannot extract: %w", err)
	}

	terms := make([]digitextract.RepackTerm, len(unpacked))
	for i, u := range unpacked {
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
		_, high, err := digitextract.Extract(u, b.Params.P, b.Selected.EPrime, b.Params.R, b.Selected.E-b.Selected.EPrime, b.Cache, opts, &b.Stats)
		if err != nil {
			return nil, fmt.Errorf("cannot extract: slot %d: %w", i, err)
		}
		terms[i] = digitextract.RepackTerm{Result: high, Selector: b.RepackSteps[i].Selector}
	}
	return digitextract.Repack(terms)
}

// rawModSwitch produces [z0, z1] such that z0 + z1*s approximately equals
// (q/Q)*(c0 + c1*s) mod q, the rescaled decryption residues of spec §4.4
// step 4. It asserts the scaled noise bound and fails with
// ErrNoiseBoundExceeded when it does not hold.
func (b *Bootstrapper) rawModSwitch(c *ctxt.Ciphertext) (z0, z1 ringops.Poly, err error) {
	if len(c.Parts) != 2 {
		return ringops.Poly{}, ringops.Poly{}, fmt.Errorf("cannot rawModSwitch: ciphertext is not canonical: %w", ctxt.ErrStateInvalid)
	}
	Q := b.Ring.ModulusProduct(c.PrimeSet)
	scale := new(big.Float).Quo(new(big.Float).SetInt(b.Selected.Q), new(big.Float).SetInt(Q))

	coeffs0 := b.Ring.ToBigint(c.Parts[0].Value, c.PrimeSet)
	coeffs1 := b.Ring.ToBigint(c.Parts[1].Value, c.PrimeSet)

	rescale := func(coeffs []*big.Int) []*big.Int {
		out := make([]*big.Int, len(coeffs))
		for i, v := range coeffs {
			f := new(big.Float).Mul(new(big.Float).SetInt(v), scale)
			r, _ := f.Int(nil)
			out[i] = r
		}
		return out
	}

	scaledBound := new(big.Float).Mul(c.NoiseBound, scale)
	qFloat := new(big.Float).SetInt(b.Selected.Q)
	half := new(big.Float).Quo(qFloat, big.NewFloat(2))
	if scaledBound.Cmp(half) >= 0 {
		return ringops.Poly{}, ringops.Poly{}, fmt.Errorf("cannot rawModSwitch: %w", ctxt.ErrNoiseBoundExceeded)
	}

	z0 = ringops.NewPoly(b.Ring)
	z1 = ringops.NewPoly(b.Ring)
	b.Ring.FromBigint(rescale(coeffs0), c.PrimeSet, z0)
	b.Ring.FromBigint(rescale(coeffs1), c.PrimeSet, z1)
	return z0, z1, nil
}
