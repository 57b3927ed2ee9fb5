package digitextract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
)

func TestCacheLoadsFromDisk(t *testing.T) {
	c := NewCache(filepath.Join("..", "polynomials"))
	poly, err := c.Get(3, 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(poly) == 0 {
		t.Fatal("expected a non-empty polynomial for poly3_1_2")
	}
}

func TestCacheMemoizes(t *testing.T) {
	c := NewCache(filepath.Join("..", "polynomials"))
	a, err := c.Get(5, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Get(5, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("expected memoized result to match, got %v and %v", a, b)
	}
}

func TestCacheMissReturnsMissingLiftingPolynomial(t *testing.T) {
	c := NewCache(filepath.Join("..", "polynomials"))
	_, err := c.Get(97, 1, 1, nil)
	if !errors.Is(err, ctxt.ErrMissingLiftingPolynomial) {
		t.Fatalf("expected ErrMissingLiftingPolynomial, got %v", err)
	}
}

func TestCacheTracksHitsAndMisses(t *testing.T) {
	c := NewCache(filepath.Join("..", "polynomials"))
	var stats options.Stats

	if _, err := c.Get(3, 1, 2, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 0 {
		t.Fatalf("after first load: stats = %+v, want 1 hit 0 misses", stats)
	}

	if _, err := c.Get(3, 1, 2, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.CacheHits != 2 {
		t.Fatalf("after memoized load: stats = %+v, want 2 hits", stats)
	}

	if _, err := c.Get(97, 1, 1, &stats); err == nil {
		t.Fatal("expected an error for a missing polynomial")
	}
	if stats.CacheMisses != 1 {
		t.Fatalf("after a miss: stats = %+v, want 1 miss", stats)
	}
}

// TestCacheLoadsNegativeAndOversizedCoefficients guards against a
// regression to uint64-only parsing: HElib-format polynomial files carry
// balanced (possibly negative) decimal coefficients, and the module must
// reduce them mod p^target rather than fail to parse.
func TestCacheLoadsNegativeAndOversizedCoefficients(t *testing.T) {
	dir := t.TempDir()
	// p=3, target=4: modulus is 81. -1 reduces to 80, and a value larger
	// than the modulus (170) reduces to 8.
	if err := os.WriteFile(filepath.Join(dir, "poly3_1_4.txt"), []byte("-1\n170\n0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCache(dir)
	poly, err := c.Get(3, 1, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{80, 8, 0}
	if len(poly) != len(want) {
		t.Fatalf("len(poly) = %d, want %d", len(poly), len(want))
	}
	for i, w := range want {
		if poly[i] != w {
			t.Fatalf("poly[%d] = %d, want %d", i, poly[i], w)
		}
	}
}
