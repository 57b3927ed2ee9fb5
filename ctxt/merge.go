package ctxt

import (
	"golang.org/x/exp/slices"

	"github.com/fhecore/bgvboot/ringops"
)

// AccumulatePart adds v into the part under handle h, creating it if it
// does not already exist, then re-sorts Parts by ascending handle degree.
// This is the primitive the key-switching layer uses to fold a decomposed
// digit's contribution back into the ciphertext (spec §4.2).
func (c *Ciphertext) AccumulatePart(h SkHandle, v ringops.Poly) {
	for i, p := range c.Parts {
		if p.Handle.Equal(h) {
			out := ringops.NewPoly(c.Ring)
			c.Ring.Add(p.Value, v, c.PrimeSet, out)
			c.Parts[i].Value = out
			return
		}
	}
	c.Parts = append(c.Parts, CiphertextPart{Handle: h, Value: v})
	degs := make([]int, len(c.Parts))
	byDeg := map[int]int{}
	for i, p := range c.Parts {
		degs[i] = p.Handle.A
		byDeg[p.Handle.A] = i
	}
	slices.Sort(degs)
	sorted := make([]CiphertextPart, len(degs))
	for i, d := range degs {
		sorted[i] = c.Parts[byDeg[d]]
	}
	c.Parts = sorted
}

// RemovePart deletes the part under handle h, if present.
func (c *Ciphertext) RemovePart(h SkHandle) {
	out := c.Parts[:0]
	for _, p := range c.Parts {
		if !p.Handle.Equal(h) {
			out = append(out, p)
		}
	}
	c.Parts = out
}
