// Package bootstrap orchestrates ciphertext refresh: parameter selection,
// drop-low-primes, key-switch to the refresh key, raw mod-switch,
// make-divisible rounding, CoefficientsToSlots, digit extraction, and
// SlotsToCoefficients, per spec §4.4/§4.5.
//
// Grounded on circuits/ckks/bootstrapping's Evaluator/Parameters split
// (parameter struct loaded from YAML, a stateless Evaluator that consumes
// it) and on HElib's recryption.cpp RecryptData for the (e, e') search and
// the refresh-key/"thin" variant structure.
package bootstrap

import (
	"fmt"
	"math/big"

	"github.com/ALTree/bigfloat"
	"gopkg.in/yaml.v3"
)

// ParametersLiteral is the YAML-serializable description of one
// bootstrapping configuration, analogous to
// circuits/ckks/bootstrapping.ParametersLiteral.
type ParametersLiteral struct {
	P          uint64 `yaml:"p"`
	R          int    `yaml:"r"`
	RPrime     int    `yaml:"rPrime"`
	CoeffBound float64 `yaml:"coeffBound"`
	Fudge      float64 `yaml:"fudge"`
	EBound     int     `yaml:"eBound"`
}

// LoadParametersLiteral parses a YAML document into a ParametersLiteral.
func LoadParametersLiteral(data []byte) (ParametersLiteral, error) {
	var lit ParametersLiteral
	if err := yaml.Unmarshal(data, &lit); err != nil {
		return ParametersLiteral{}, fmt.Errorf("cannot LoadParametersLiteral: %w", err)
	}
	return lit, nil
}

// SelectedParams is the resolved (e, e') pair and the derived modulus
// q = p^e + 1 that one bootstrap run uses.
type SelectedParams struct {
	E      int
	EPrime int
	Q      *big.Int
}

// SelectParams implements spec §4.4 step 1's literal enumeration: for
// candidate e' in [1, eBound], for candidate e in
// [max(r+1, e'+1), eBound], stop at the first e satisfying the
// high-probability noise bound, and keep the (e', e) pair minimizing
// e - e' across all e' tried.
func SelectParams(lit ParametersLiteral) (SelectedParams, error) {
	if lit.EBound <= 0 {
		return SelectedParams{}, fmt.Errorf("cannot SelectParams: eBound must be positive")
	}

	pBig := new(big.Float).SetUint64(lit.P)
	best := SelectedParams{}
	bestGap := -1

	for ePrime := 1; ePrime <= lit.EBound; ePrime++ {
		lowE := lit.R + 1
		if ePrime+1 > lowE {
			lowE = ePrime + 1
		}
		for e := lowE; e <= lit.EBound; e++ {
			if boundHolds(lit, pBig, e, ePrime) {
				gap := e - ePrime
				if bestGap == -1 || gap < bestGap {
					bestGap = gap
					q := new(big.Int).Exp(big.NewInt(int64(lit.P)), big.NewInt(int64(e)), nil)
					q.Add(q, big.NewInt(1))
					best = SelectedParams{E: e, EPrime: ePrime, Q: q}
				}
				break
			}
		}
	}

	if bestGap == -1 {
		return SelectedParams{}, fmt.Errorf("cannot SelectParams: no (e, e') pair within eBound=%d satisfies the noise bound", lit.EBound)
	}
	return best, nil
}

// boundHolds evaluates p^e > 2*(fudge*p^e' + 2*p^r + 2)*coeffBound, spec
// §4.4 step 1's refresh-key noise bound, using bigfloat.Pow for the
// arbitrary-precision exponentiation the 30-bit-scalar approximation in
// the rest of this module can't carry safely.
func boundHolds(lit ParametersLiteral, pBig *big.Float, e, ePrime int) bool {
	pe := bigfloat.Pow(pBig, big.NewFloat(float64(e)))
	pePrime := bigfloat.Pow(pBig, big.NewFloat(float64(ePrime)))
	pr := bigfloat.Pow(pBig, big.NewFloat(float64(lit.R)))

	rhs := new(big.Float).Mul(big.NewFloat(lit.Fudge), pePrime)
	rhs.Add(rhs, new(big.Float).Mul(big.NewFloat(2), pr))
	rhs.Add(rhs, big.NewFloat(2))
	rhs.Mul(rhs, big.NewFloat(2))
	rhs.Mul(rhs, big.NewFloat(lit.CoeffBound))

	return pe.Cmp(rhs) > 0
}
