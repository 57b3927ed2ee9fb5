package ctxt

import (
	"errors"
	"math/big"
	"testing"

	"github.com/fhecore/bgvboot/ringops"
)

func testRing(t *testing.T) (*ringops.Ring, ringops.PrimeSet) {
	t.Helper()
	r, err := ringops.NewRing(4, []uint64{17, 97}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return r, ringops.NewPrimeSet(0, 1)
}

func TestNewCiphertextIsCanonical(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	if !c.IsCanonical(0) {
		t.Fatal("expected a freshly-created ciphertext to be canonical")
	}
	if c.Degree() != 1 {
		t.Fatalf("Degree() = %d, want 1", c.Degree())
	}
}

func TestAddSumsValuesAndNoise(t *testing.T) {
	r, ps := testRing(t)
	a := NewCiphertext(r, ps, 5, 0)
	b := NewCiphertext(r, ps, 5, 0)
	a.NoiseBound = big.NewFloat(3)
	b.NoiseBound = big.NewFloat(4)
	a.Parts[1].Value.Coeffs[0][0] = 2
	b.Parts[1].Value.Coeffs[0][0] = 5

	if err := a.Add(b); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.NoiseBound.Float64(); got != 7 {
		t.Fatalf("NoiseBound = %v, want 7", got)
	}
	if a.Parts[1].Value.Coeffs[0][0] != 7 {
		t.Fatalf("Parts[1] coeff = %d, want 7", a.Parts[1].Value.Coeffs[0][0])
	}
}

func TestAddRejectsPtxtSpaceMismatch(t *testing.T) {
	r, ps := testRing(t)
	a := NewCiphertext(r, ps, 5, 0)
	b := NewCiphertext(r, ps, 7, 0)
	if err := a.Add(b); !errors.Is(err, ErrArgumentInvalid) {
		t.Fatalf("expected ErrArgumentInvalid, got %v", err)
	}
}

func TestSubIsInverseOfAdd(t *testing.T) {
	r, ps := testRing(t)
	a := NewCiphertext(r, ps, 5, 0)
	b := NewCiphertext(r, ps, 5, 0)
	a.Parts[1].Value.Coeffs[0][0] = 10
	b.Parts[1].Value.Coeffs[0][0] = 3
	orig := a.CopyNew()

	if err := a.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := a.Sub(b); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(orig) {
		t.Fatalf("a+b-b = %v, want original %v", a.Parts[1].Value.Coeffs[0][0], orig.Parts[1].Value.Coeffs[0][0])
	}
}

func TestAddScalarTargetsOneHandle(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	if err := c.AddScalar(3); err != nil {
		t.Fatal(err)
	}
	if c.Parts[0].Value.Coeffs[0][0] != 3 {
		t.Fatalf("one-handle coeff = %d, want 3", c.Parts[0].Value.Coeffs[0][0])
	}
	if c.Parts[1].Value.Coeffs[0][0] != 0 {
		t.Fatal("AddScalar should not touch the base-handle part")
	}
}

func TestMulScalarScalesEveryPart(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	c.Parts[0].Value.Coeffs[0][0] = 2
	c.Parts[1].Value.Coeffs[0][0] = 3
	c.NoiseBound = big.NewFloat(1)

	c.MulScalar(4, big.NewFloat(4))
	if c.Parts[0].Value.Coeffs[0][0] != 8 {
		t.Fatalf("one-handle coeff = %d, want 8", c.Parts[0].Value.Coeffs[0][0])
	}
	if c.Parts[1].Value.Coeffs[0][0] != 12 {
		t.Fatalf("base-handle coeff = %d, want 12", c.Parts[1].Value.Coeffs[0][0])
	}
	if got, _ := c.NoiseBound.Float64(); got != 4 {
		t.Fatalf("NoiseBound = %v, want 4", got)
	}
}

func TestModSwitchDownShrinksPrimeSet(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	c.NoiseBound = big.NewFloat(1)

	target := ringops.NewPrimeSet(0)
	if err := c.ModSwitchDown(target); err != nil {
		t.Fatal(err)
	}
	if !c.PrimeSet.Equal(target) {
		t.Fatalf("PrimeSet = %v, want %v", c.PrimeSet, target)
	}
}

func TestModSwitchDownRejectsNonSubset(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ringops.NewPrimeSet(0), 5, 0)
	if err := c.ModSwitchDown(ps); !errors.Is(err, ErrArgumentInvalid) {
		t.Fatalf("expected ErrArgumentInvalid, got %v", err)
	}
}

func TestReducePtxtSpaceRejectsNonDivisor(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 10, 0)
	if err := c.ReducePtxtSpace(3); !errors.Is(err, ErrArgumentInvalid) {
		t.Fatalf("expected ErrArgumentInvalid, got %v", err)
	}
	if err := c.ReducePtxtSpace(5); err != nil {
		t.Fatal(err)
	}
	if c.PtxtSpace != 5 {
		t.Fatalf("PtxtSpace = %d, want 5", c.PtxtSpace)
	}
}

func TestDivideByPShrinksPtxtSpace(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 15, 0)
	c.Parts[0].Value.Coeffs[0][0] = 6
	c.Parts[0].Value.Coeffs[1][0] = 6

	if err := c.DivideByP(3); err != nil {
		t.Fatal(err)
	}
	if c.PtxtSpace != 5 {
		t.Fatalf("PtxtSpace = %d, want 5", c.PtxtSpace)
	}
	if c.Parts[0].Value.Coeffs[0][0] != 2 {
		t.Fatalf("coeff = %d, want 2", c.Parts[0].Value.Coeffs[0][0])
	}
}

func TestAddConstantPolyAddsIntoOneHandle(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	p := ringops.NewPoly(r)
	p.Coeffs[0][0] = 4
	p.Coeffs[1][0] = 4

	if err := c.AddConstantPoly(p); err != nil {
		t.Fatal(err)
	}
	if c.Parts[0].Value.Coeffs[0][0] != 4 {
		t.Fatalf("one-handle coeff = %d, want 4", c.Parts[0].Value.Coeffs[0][0])
	}
}
