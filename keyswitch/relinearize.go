package keyswitch

import (
	"fmt"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/options"
)

// Relinearize switches every non-canonical part of c (every handle other
// than OneHandle(keyID) and BaseHandle(keyID)) onto keyID using bank,
// leaving c in canonical two-part form (spec §4.2 "Relinearize"). stats, if
// non-nil, is credited one relinearization per part switched.
func Relinearize(c *ctxt.Ciphertext, keyID int, bank *Bank, stats *options.Stats) error {
	one := ctxt.OneHandle(keyID)
	base := ctxt.BaseHandle(keyID)

	// Snapshot the handles up front: Apply mutates c.Parts as it goes.
	var pending []ctxt.SkHandle
	for _, p := range c.Parts {
		if p.Handle.Equal(one) || p.Handle.Equal(base) {
			continue
		}
		pending = append(pending, p.Handle)
	}

	for _, h := range pending {
		mat := bank.Lookup(h, keyID)
		if mat == nil {
			return fmt.Errorf("cannot Relinearize: no key-switch matrix for handle %s -> key %d: %w", h, keyID, ctxt.ErrStateInvalid)
		}
		if err := Apply(c, mat, stats); err != nil {
			return fmt.Errorf("cannot Relinearize: %w", err)
		}
	}
	return nil
}

// SmartAutomorphism applies F(X) -> F(X^k) to c in a single automorphism
// and then relinearizes, key-switching every non-canonical handle back to
// keyID (spec §4.2). It does not decompose k into generator or Frobenius
// steps: bank needs a key-switch matrix for the handle X^k itself, and
// Relinearize returns ErrStateInvalid when that matrix is missing.
func SmartAutomorphism(c *ctxt.Ciphertext, k, m, keyID int, bank *Bank, stats *options.Stats) error {
	c.Automorphism(k, m)
	return Relinearize(c, keyID, bank, stats)
}
