package ringops

import "testing"

func smallRing(t *testing.T) *Ring {
	t.Helper()
	r, err := NewRing(4, []uint64{17}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestAddSub(t *testing.T) {
	r := smallRing(t)
	ps := NewPrimeSet(0)

	a := NewPoly(r)
	b := NewPoly(r)
	a.Coeffs[0] = []uint64{10, 3, 0, 16}
	b.Coeffs[0] = []uint64{10, 15, 0, 5}

	sum := NewPoly(r)
	r.Add(a, b, ps, sum)
	if want := []uint64{3, 1, 0, 4}; !equalRow(sum.Coeffs[0], want) {
		t.Fatalf("Add = %v, want %v", sum.Coeffs[0], want)
	}

	diff := NewPoly(r)
	r.Sub(a, b, ps, diff)
	if want := []uint64{0, 5, 0, 11}; !equalRow(diff.Coeffs[0], want) {
		t.Fatalf("Sub = %v, want %v", diff.Coeffs[0], want)
	}
}

func TestNeg(t *testing.T) {
	r := smallRing(t)
	ps := NewPrimeSet(0)

	a := NewPoly(r)
	a.Coeffs[0] = []uint64{0, 1, 16, 5}

	out := NewPoly(r)
	r.Neg(a, ps, out)
	if want := []uint64{0, 16, 1, 12}; !equalRow(out.Coeffs[0], want) {
		t.Fatalf("Neg = %v, want %v", out.Coeffs[0], want)
	}
}

func TestMulScalar(t *testing.T) {
	r := smallRing(t)
	ps := NewPrimeSet(0)

	a := NewPoly(r)
	a.Coeffs[0] = []uint64{1, 2, 3, 4}

	out := NewPoly(r)
	r.MulScalar(a, 5, ps, out)
	if want := []uint64{5, 10, 15, 3}; !equalRow(out.Coeffs[0], want) {
		t.Fatalf("MulScalar = %v, want %v", out.Coeffs[0], want)
	}
}

func TestAddScalarBroadcastsToConstantTermOnly(t *testing.T) {
	r := smallRing(t)
	ps := NewPrimeSet(0)

	a := NewPoly(r)
	a.Coeffs[0] = []uint64{1, 2, 3, 4}

	out := NewPoly(r)
	r.AddScalar(a, 20, ps, out)
	if want := []uint64{4, 2, 3, 4}; !equalRow(out.Coeffs[0], want) {
		t.Fatalf("AddScalar = %v, want %v", out.Coeffs[0], want)
	}
}

func TestPolyEqualAndCopy(t *testing.T) {
	r := smallRing(t)
	ps := NewPrimeSet(0)

	a := NewPoly(r)
	a.Coeffs[0] = []uint64{1, 2, 3, 4}
	b := a.CopyNew()

	if !a.Equal(b, ps) {
		t.Fatal("expected CopyNew result to be Equal to source")
	}
	b.Coeffs[0][0] = 9
	if a.Equal(b, ps) {
		t.Fatal("mutating the copy should not affect the original")
	}

	b.Copy(a)
	if !a.Equal(b, ps) {
		t.Fatal("expected Copy to overwrite b with a's coefficients")
	}
}

func equalRow(a, b []uint64) bool {
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
