package ctxt

import (
	"math/big"

	"github.com/google/go-cmp/cmp"
)

// Equal reports whether c and other carry the same handles, values, prime
// set, plaintext space and scalar factors. Noise bounds are compared
// structurally too (two ciphertexts produced by different code paths with
// identical contents are expected to carry identical noise accounting),
// following the cmp.Equal idiom used across core/rlwe's Equal methods.
func (c *Ciphertext) Equal(other *Ciphertext) bool {
	if other == nil {
		return false
	}
	if c.PtxtSpace != other.PtxtSpace || c.IntFactor != other.IntFactor {
		return false
	}
	if !c.PrimeSet.Equal(other.PrimeSet) {
		return false
	}
	if len(c.Parts) != len(other.Parts) {
		return false
	}
	for i := range c.Parts {
		if !c.Parts[i].Handle.Equal(other.Parts[i].Handle) {
			return false
		}
		if !c.Parts[i].Value.Equal(other.Parts[i].Value, c.PrimeSet) {
			return false
		}
	}
	if (c.NoiseBound == nil) != (other.NoiseBound == nil) {
		return false
	}
	if c.NoiseBound != nil && c.NoiseBound.Cmp(other.NoiseBound) != 0 {
		return false
	}
	floatEq := cmp.Comparer(func(x, y *big.Float) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	})
	return cmp.Equal(c.RatFactor, other.RatFactor, floatEq) &&
		cmp.Equal(c.PtxtMag, other.PtxtMag, floatEq)
}
