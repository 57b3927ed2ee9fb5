package ringops

import "testing"

func TestNewRingRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := NewRing(17, []uint64{97}, 0); err == nil {
		t.Fatal("expected error for non-power-of-two N")
	}
}

func TestNewRingRejectsBadSpecialCount(t *testing.T) {
	if _, err := NewRing(8, []uint64{97, 193}, 3); err == nil {
		t.Fatal("expected error for specialCount > len(moduli)")
	}
}

func TestSpecialPrimes(t *testing.T) {
	r, err := NewRing(8, []uint64{97, 193, 257, 769}, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := r.SpecialPrimes()
	want := []int{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("SpecialPrimes() = %v, want %v", got, want)
	}
}

func TestVerifyPrimeSetPartialSpecialRejected(t *testing.T) {
	r, err := NewRing(8, []uint64{97, 193, 257, 769}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.VerifyPrimeSet(NewPrimeSet(0, 1, 2)); err == nil {
		t.Fatal("expected error for prime set with only one of two special primes")
	}
	if err := r.VerifyPrimeSet(NewPrimeSet(0, 1)); err != nil {
		t.Fatalf("expected no error for prime set with no special primes: %v", err)
	}
	if err := r.VerifyPrimeSet(NewPrimeSet(0, 1, 2, 3)); err != nil {
		t.Fatalf("expected no error for prime set with all special primes: %v", err)
	}
}
