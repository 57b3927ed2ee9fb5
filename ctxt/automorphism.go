package ctxt

import "github.com/fhecore/bgvboot/ringops"

// Automorphism applies F(X) -> F(X^k) to every part of c in place and
// updates each part's handle's T field to T*k mod m (spec §4.1
// "Automorphism"). gcd(k, m) must be 1; this is the caller's
// responsibility (mirrors the ring library's own precondition).
func (c *Ciphertext) Automorphism(k, m int) {
	for i := range c.Parts {
		out := ringops.NewPoly(c.Ring)
		c.Ring.Automorphism(c.Parts[i].Value, k, c.PrimeSet, out)
		c.Parts[i].Value = out
		c.Parts[i].Handle = c.Parts[i].Handle.WithAutomorphism(k, m)
	}
}
