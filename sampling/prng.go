// Package sampling provides the keyed pseudo-random source used for
// anything security-relevant outside the core arithmetic: the random
// tie-break in newMakeDivisible's rounding for p=2 (spec §4.4 step 5).
// Grounded on utils/sampling/prng.go's KeyedPRNG
// shape; backed by BLAKE2b like the teacher rather than a bespoke CSPRNG.
package sampling

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// KeyedPRNG deterministically expands a seed into an unbounded pseudo-random
// stream via BLAKE2b-XOF-style repeated hashing. It must not be read from
// concurrently.
type KeyedPRNG struct {
	key  []byte
	hash *blake2bState
}

type blake2bState struct {
	ctr uint64
}

// NewKeyedPRNG creates a PRNG seeded with key. A nil key samples a random
// 32-byte seed from crypto/rand.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("cannot NewKeyedPRNG: %w", err)
		}
	}
	return &KeyedPRNG{key: append([]byte{}, key...), hash: &blake2bState{}}, nil
}

// Key returns the seed, so the same stream can be reproduced later.
func (p *KeyedPRNG) Key() []byte { return append([]byte{}, p.key...) }

// Read fills sum with pseudo-random bytes, implementing io.Reader.
func (p *KeyedPRNG) Read(sum []byte) (int, error) {
	out := sum
	for len(out) > 0 {
		block, err := p.nextBlock()
		if err != nil {
			return 0, err
		}
		n := copy(out, block)
		out = out[n:]
	}
	return len(sum), nil
}

func (p *KeyedPRNG) nextBlock() ([]byte, error) {
	h, err := blake2b.New512(p.key)
	if err != nil {
		return nil, fmt.Errorf("cannot derive block: %w", err)
	}
	var ctr [8]byte
	for i := range ctr {
		ctr[i] = byte(p.hash.ctr >> (8 * i))
	}
	p.hash.ctr++
	if _, err := h.Write(ctr[:]); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

var _ io.Reader = (*KeyedPRNG)(nil)

// RandomBit returns a single uniformly random bit, used to break rounding
// ties in base-2 "powerful basis" rounding where no balanced representative
// exists (spec §4.4 step 5).
func (p *KeyedPRNG) RandomBit() (bool, error) {
	var b [1]byte
	if _, err := p.Read(b[:]); err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}
