// Package digitextract implements the arithmetic heart of bootstrapping:
// given a ciphertext whose slots hold integers modulo p^e, homomorphically
// peel off base-p digits via repeated lifting-polynomial evaluation,
// scheduled in a trapezoid across rows (spec §4.3).
//
// Grounded on circuits/ckks/mod1's digit-extraction/EvalMod structure for
// the row-by-row peeling shape, and on HElib's recryption.cpp
// (buildDigit2/buildDigitThin) for the exact hard-coded p=2 cascade
// constants and the trapezoid's "subtract, divide by p" peeling loop.
package digitextract

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/polyeval"
)

// Cache lazily loads and memoizes lifting polynomials from disk, keyed by
// (p, eInner, target precision) (spec §4.3.1 "LiftingPolynomial cache").
// Entries live for the process lifetime once loaded.
type Cache struct {
	mu   sync.Mutex
	dir  string
	data map[cacheKey]polyeval.Polynomial
}

type cacheKey struct {
	p, eInner, target int
}

// NewCache returns a cache that loads poly{p}_{eInner}_{target}.txt files
// from dir on demand.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, data: map[cacheKey]polyeval.Polynomial{}}
}

// Get returns the lifting polynomial for (p, eInner, target), loading it
// from disk on first use. Returns ErrMissingLiftingPolynomial if no file
// exists for the requested triple (spec §4.3.1 failure mode). stats, if
// non-nil, is credited a cache hit or miss.
func (c *Cache) Get(p, eInner, target int, stats *options.Stats) (polyeval.Polynomial, error) {
	key := cacheKey{p, eInner, target}
	c.mu.Lock()
	if poly, ok := c.data[key]; ok {
		c.mu.Unlock()
		if stats != nil {
			stats.CacheHits++
		}
		return poly, nil
	}
	c.mu.Unlock()

	poly, err := c.load(p, eInner, target)
	if err != nil {
		if stats != nil {
			stats.CacheMisses++
		}
		return nil, fmt.Errorf("cannot Get: poly%d_%d_%d: %w", p, eInner, target, ctxt.ErrMissingLiftingPolynomial)
	}

	c.mu.Lock()
	c.data[key] = poly
	c.mu.Unlock()
	if stats != nil {
		stats.CacheHits++
	}
	return poly, nil
}

func (c *Cache) load(p, eInner, target int) (polyeval.Polynomial, error) {
	name := fmt.Sprintf("poly%d_%d_%d.txt", p, eInner, target)
	f, err := os.Open(filepath.Join(c.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Coefficients are decimal integers, possibly negative, possibly
	// exceeding uint64 range (HElib's poly files are written in balanced
	// form for odd-prime extraction). Parse as big.Int and reduce into
	// [0, modulus) before storing, rather than assuming the file already
	// holds a positive uint64 residue.
	modulus := new(big.Int).Exp(big.NewInt(int64(p)), big.NewInt(int64(target)), nil)

	var coeffs polyeval.Polynomial
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, ok := new(big.Int).SetString(line, 10)
		if !ok {
			return nil, fmt.Errorf("malformed coefficient %q in %s", line, name)
		}
		v.Mod(v, modulus)
		coeffs = append(coeffs, v.Uint64())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return coeffs, nil
}
