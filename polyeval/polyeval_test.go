package polyeval

import (
	"testing"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
	"github.com/fhecore/bgvboot/ringops"
)

func TestPolynomialDegree(t *testing.T) {
	if d := (Polynomial{0, 0, 5, 0}).Degree(); d != 2 {
		t.Fatalf("Degree() = %d, want 2", d)
	}
	if d := (Polynomial{0, 0, 0}).Degree(); d != -1 {
		t.Fatalf("Degree() of zero polynomial = %d, want -1", d)
	}
}

func TestPolynomialAllOdd(t *testing.T) {
	if !(Polynomial{0, 3, 0, 5}).allOdd() {
		t.Fatal("expected {0,3,0,5} to be all-odd")
	}
	if (Polynomial{1, 3, 0, 5}).allOdd() {
		t.Fatal("expected {1,3,0,5} to not be all-odd (nonzero even coefficient)")
	}
}

func TestPolynomialSlice(t *testing.T) {
	p := Polynomial{1, 2, 3, 4, 5}
	got := p.slice(1, 3)
	if want := (Polynomial{2, 3}); !equalPoly(got, want) {
		t.Fatalf("slice(1,3) = %v, want %v", got, want)
	}
	if got := p.slice(10, 20); got != nil {
		t.Fatalf("slice out of range should be nil, got %v", got)
	}
}

func TestGcdSpacing(t *testing.T) {
	polys := []Polynomial{{0, 0, 0, 0, 5}, {0, 0, 3, 0, 5}}
	if g := gcdSpacing(polys); g != 2 {
		t.Fatalf("gcdSpacing = %d, want 2", g)
	}
	if g := gcdSpacing([]Polynomial{{0, 1}}); g != 1 {
		t.Fatalf("gcdSpacing of a polynomial with an odd exponent = %d, want 1", g)
	}
}

func TestCompressBySpacing(t *testing.T) {
	polys := []Polynomial{{0, 0, 3, 0, 5}}
	out := compressBySpacing(polys, 2)
	if want := (Polynomial{0, 3, 5}); !equalPoly(out[0], want) {
		t.Fatalf("compressBySpacing = %v, want %v", out[0], want)
	}
}

func TestChooseParamsZeroDegree(t *testing.T) {
	p := chooseParams(0, false, options.Auto)
	if p.k != 1 || p.m != 0 {
		t.Fatalf("chooseParams(0) = %+v, want k=1,m=0", p)
	}
}

func TestChooseParamsForceOffIsFlat(t *testing.T) {
	p := chooseParams(7, false, options.Off)
	if p.m != 0 || p.k != 7 {
		t.Fatalf("chooseParams with Off = %+v, want k=7,m=0", p)
	}
}

func TestChooseParamsForceOnMaximizesM(t *testing.T) {
	auto := chooseParams(7, false, options.Auto)
	forced := chooseParams(7, false, options.On)
	if forced.m < auto.m {
		t.Fatalf("forced m=%d should be >= auto m=%d", forced.m, auto.m)
	}
}

func TestEvaluateConstantPolynomialsNeedsNoMultiplication(t *testing.T) {
	r, err := ringops.NewRing(4, []uint64{17}, 0)
	if err != nil {
		t.Fatal(err)
	}
	ps := ringops.NewPrimeSet(0)
	x := ctxt.NewCiphertext(r, ps, 5, 0)

	out, err := Evaluate([]Polynomial{{3}, {0}}, x, Options{PtxtSpace: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Parts[0].Value.Coeffs[0][0] != 3 {
		t.Fatalf("constant-3 eval coeff = %d, want 3", out[0].Parts[0].Value.Coeffs[0][0])
	}
	if out[1].Parts[0].Value.Coeffs[0][0] != 0 {
		t.Fatalf("zero-polynomial eval coeff = %d, want 0", out[1].Parts[0].Value.Coeffs[0][0])
	}
}

func TestEvaluateEmptyPolynomialList(t *testing.T) {
	out, err := Evaluate(nil, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Fatalf("expected nil result for empty polynomial list, got %v", out)
	}
}

func equalPoly(a, b Polynomial) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
