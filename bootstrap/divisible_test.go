package bootstrap

import (
	"math/big"
	"testing"

	"github.com/fhecore/bgvboot/ringops"
	"github.com/fhecore/bgvboot/sampling"
)

func TestMakeDivisibleRoundsToNearestMultiple(t *testing.T) {
	r, err := ringops.NewRing(4, []uint64{97, 193}, 0)
	if err != nil {
		t.Fatal(err)
	}
	ps := ringops.NewPrimeSet(0, 1)

	z := ringops.NewPoly(r)
	coeffs := []*big.Int{big.NewInt(10), big.NewInt(0), big.NewInt(0), big.NewInt(0)}
	r.FromBigint(coeffs, ps, z)

	coin, err := sampling.NewKeyedPRNG([]byte("deterministic-test-key-32-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	out, err := makeDivisible(r, z, ps, big.NewInt(4), coin)
	if err != nil {
		t.Fatal(err)
	}
	got := r.ToBigint(out, ps)
	// 10 rounds to the nearest multiple of 4 (either 8 or 12), divided by 4 gives 2 or 3.
	if got[0].Cmp(big.NewInt(2)) != 0 && got[0].Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("makeDivisible(10, pPow=4) = %v, want 2 or 3", got[0])
	}
}

func TestMakeDivisibleExactMultipleHasNoRemainder(t *testing.T) {
	r, err := ringops.NewRing(4, []uint64{97, 193}, 0)
	if err != nil {
		t.Fatal(err)
	}
	ps := ringops.NewPrimeSet(0, 1)

	z := ringops.NewPoly(r)
	coeffs := []*big.Int{big.NewInt(12), big.NewInt(0), big.NewInt(0), big.NewInt(0)}
	r.FromBigint(coeffs, ps, z)

	coin, err := sampling.NewKeyedPRNG([]byte("deterministic-test-key-32-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	out, err := makeDivisible(r, z, ps, big.NewInt(4), coin)
	if err != nil {
		t.Fatal(err)
	}
	got := r.ToBigint(out, ps)
	if got[0].Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("makeDivisible(12, pPow=4) = %v, want 3", got[0])
	}
}
