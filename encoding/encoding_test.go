package encoding

import (
	"testing"

	"github.com/fhecore/bgvboot/ringops"
)

func testRing(t *testing.T) *ringops.Ring {
	t.Helper()
	r, err := ringops.NewRing(4, []uint64{17, 97}, 0)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := NewEncoder(testRing(t), 5)
	slots := []uint64{1, 3, 2, 4}

	p, err := e.Encode(slots)
	if err != nil {
		t.Fatal(err)
	}
	got := e.Decode(p, len(slots))
	for i := range slots {
		if got[i] != slots[i] {
			t.Fatalf("Decode()[%d] = %d, want %d", i, got[i], slots[i])
		}
	}
}

func TestEncodeRejectsTooManySlots(t *testing.T) {
	e := NewEncoder(testRing(t), 5)
	_, err := e.Encode([]uint64{1, 2, 3, 4, 5})
	if err == nil {
		t.Fatal("expected an error when slots exceed the ring degree")
	}
}

func TestEncodeUnitSelectorIsolatesOneSlot(t *testing.T) {
	e := NewEncoder(testRing(t), 5)
	p, err := e.EncodeUnitSelector(2)
	if err != nil {
		t.Fatal(err)
	}
	got := e.Decode(p, 3)
	want := []uint64{0, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EncodeUnitSelector(2) decoded = %v, want %v", got, want)
		}
	}
}

func TestBuildLinPolyCoeffsRoutesSlots(t *testing.T) {
	e := NewEncoder(testRing(t), 5)
	// swap slot 0 and slot 1; slot 2 fixed.
	coeffs, err := e.BuildLinPolyCoeffs([]int{1, 0, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(coeffs) != 3 {
		t.Fatalf("len(coeffs) = %d, want 3", len(coeffs))
	}
	// output slot 0 should be selected by input slot 1 only.
	got := e.Decode(coeffs[0], 3)
	want := []uint64{0, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("coeffs[0] decoded = %v, want %v", got, want)
		}
	}
}
