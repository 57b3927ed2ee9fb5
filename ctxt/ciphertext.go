package ctxt

import (
	"fmt"
	"math"
	"math/big"

	"github.com/fhecore/bgvboot/ringops"
)

// Ciphertext is the tuple described by spec §3: an ordered list of parts
// (parts[0] always under the "one" handle, even if its value is zero), a
// prime set shared by every part, a plaintext modulus, a noise bound, and
// the BGV/CKKS-only scalar factors. Grounded on HElib's Ctxt and restated
// in the lattigo Element/Operand idiom (see core/rlwe/ciphertext.go,
// core/rlwe/operand.go): fields are plain, methods return (value, error)
// rather than throwing, and mutation is always explicit and in place.
type Ciphertext struct {
	Ring *ringops.Ring

	Parts []CiphertextPart

	PrimeSet   ringops.PrimeSet
	PtxtSpace  uint64 // p^r', r' <= the scheme's r
	NoiseBound *big.Float

	// IntFactor is the BGV plaintext-space integer factor the decrypted
	// value must be divided by (spec §3).
	IntFactor uint64

	// RatFactor and PtxtMag are CKKS-only (spec §3); nil/zero when the
	// ciphertext is used in BGV mode.
	RatFactor *big.Float
	PtxtMag   *big.Float
}

// NewCiphertext allocates a two-part (degree 1) ciphertext {1, s} with zero
// value over the given prime set.
func NewCiphertext(r *ringops.Ring, ps ringops.PrimeSet, ptxtSpace uint64, keyID int) *Ciphertext {
	return &Ciphertext{
		Ring: r,
		Parts: []CiphertextPart{
			{Handle: OneHandle(keyID), Value: ringops.NewPoly(r)},
			{Handle: BaseHandle(keyID), Value: ringops.NewPoly(r)},
		},
		PrimeSet:   ps.Clone(),
		PtxtSpace:  ptxtSpace,
		NoiseBound: big.NewFloat(0),
		IntFactor:  1 % ptxtSpace,
	}
}

// Degree returns len(Parts)-1, the number of non-constant parts.
func (c *Ciphertext) Degree() int { return len(c.Parts) - 1 }

// IsCanonical reports whether the ciphertext is in the two-part {1, s} form
// required by decryption and most operations (spec GLOSSARY "Canonical
// form").
func (c *Ciphertext) IsCanonical(keyID int) bool {
	return len(c.Parts) == 2 && c.Parts[0].Handle.IsOne() && c.Parts[1].Handle.IsBase(keyID)
}

// CopyNew returns a deep copy of c.
func (c *Ciphertext) CopyNew() *Ciphertext {
	parts := make([]CiphertextPart, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.CopyNew()
	}
	out := &Ciphertext{
		Ring:       c.Ring,
		Parts:      parts,
		PrimeSet:   c.PrimeSet.Clone(),
		PtxtSpace:  c.PtxtSpace,
		NoiseBound: new(big.Float).Copy(c.NoiseBound),
		IntFactor:  c.IntFactor,
	}
	if c.RatFactor != nil {
		out.RatFactor = new(big.Float).Copy(c.RatFactor)
	}
	if c.PtxtMag != nil {
		out.PtxtMag = new(big.Float).Copy(c.PtxtMag)
	}
	return out
}

// Clear zeros every part's value in place, leaving handles, prime set and
// plaintext space untouched.
func (c *Ciphertext) Clear() {
	for _, p := range c.Parts {
		p.Value.Zero(c.PrimeSet)
	}
	c.NoiseBound = big.NewFloat(0)
}

// partFor returns the index of the part under handle h, or -1.
func (c *Ciphertext) partFor(h SkHandle) int {
	for i, p := range c.Parts {
		if p.Handle.Equal(h) {
			return i
		}
	}
	return -1
}

// Capacity returns log2(product(primeSet)) - log2(max(noise,1)), the
// budget for further operations before bootstrapping is required (spec
// §4.1, GLOSSARY "Capacity").
func (c *Ciphertext) Capacity() float64 {
	logMod := 0.0
	for _, i := range c.PrimeSet {
		logMod += log2(float64(c.Ring.Moduli[i]))
	}
	noise := c.NoiseBound
	one := big.NewFloat(1)
	if noise.Cmp(one) < 0 {
		noise = one
	}
	logNoise, _ := log2Big(noise)
	return logMod - logNoise
}

func log2(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Log2(x)
}

func log2Big(x *big.Float) (float64, error) {
	f, _ := x.Float64()
	if f <= 0 {
		return 0, fmt.Errorf("cannot log2Big: non-positive value")
	}
	return math.Log2(f), nil
}
