package ctxt

import (
	"bytes"
	"errors"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)
	c.Parts[1].Value.Coeffs[0][0] = 11
	c.Parts[1].Value.Coeffs[1][0] = 22

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	got := &Ciphertext{Ring: r}
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if !c.Equal(got) {
		t.Fatalf("round-tripped ciphertext does not Equal original")
	}
}

func TestWriteToReadFromRoundTrip(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 7, 2)
	c.Parts[0].Value.Coeffs[0][0] = 3

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	got := &Ciphertext{Ring: r}
	if _, err := got.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if !c.Equal(got) {
		t.Fatal("round-tripped ciphertext does not Equal original")
	}
}

func TestReadFromRejectsBadEyeCatcher(t *testing.T) {
	r, _ := testRing(t)
	got := &Ciphertext{Ring: r}
	_, err := got.ReadFrom(bytes.NewReader([]byte("not a ciphertext stream at all......")))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestReadFromDetectsCorruptPayload(t *testing.T) {
	r, ps := testRing(t)
	c := NewCiphertext(r, ps, 5, 0)

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	// flip a byte inside the payload region (well past the 20-byte header).
	data[25] ^= 0xFF

	got := &Ciphertext{Ring: r}
	if err := got.UnmarshalBinary(data); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO for corrupted payload, got %v", err)
	}
}
