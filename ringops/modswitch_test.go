package ringops

import (
	"math/big"
	"testing"
)

func TestModSwitchDownExactCase(t *testing.T) {
	r, err := NewRing(4, []uint64{17, 97}, 0)
	if err != nil {
		t.Fatal(err)
	}
	full := NewPrimeSet(0, 1)
	target := NewPrimeSet(0)

	coeffs := []*big.Int{big.NewInt(97 * 5), big.NewInt(97 * -3), big.NewInt(0), big.NewInt(97 * 2)}
	a := NewPoly(r)
	r.FromBigint(coeffs, full, a)

	out := NewPoly(r)
	dropped := r.ModSwitchDown(a, full, target, out)
	if dropped.Cmp(big.NewInt(97)) != 0 {
		t.Fatalf("dropped product = %v, want 97", dropped)
	}

	back := r.ToBigint(out, target)
	want := []int64{5, -3, 0, 2}
	for i, w := range want {
		if back[i].Cmp(big.NewInt(w)) != 0 {
			t.Fatalf("coefficient %d: got %v, want %d", i, back[i], w)
		}
	}
}

func TestModSwitchUpExtendsToSuperset(t *testing.T) {
	r, err := NewRing(4, []uint64{17, 97}, 0)
	if err != nil {
		t.Fatal(err)
	}
	small := NewPrimeSet(0)
	full := NewPrimeSet(0, 1)

	a := NewPoly(r)
	a.Coeffs[0] = []uint64{5, 12, 0, 16}

	out := NewPoly(r)
	r.ModSwitchUp(a, small, full, out)

	if !equalRow(out.Coeffs[0], a.Coeffs[0]) {
		t.Fatalf("ModSwitchUp changed the original prime's row: %v", out.Coeffs[0])
	}

	back := r.ToBigint(out, full)
	wantSmall := r.ToBigint(a, small)
	for i := range back {
		if back[i].Cmp(wantSmall[i]) != 0 {
			t.Fatalf("coefficient %d: got %v, want %v", i, back[i], wantSmall[i])
		}
	}
}
