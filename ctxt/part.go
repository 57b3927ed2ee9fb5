package ctxt

import "github.com/fhecore/bgvboot/ringops"

// CiphertextPart pairs a ring element with the secret-key handle it is
// multiplied by at decryption (spec §3 "CiphertextPart").
type CiphertextPart struct {
	Handle SkHandle
	Value  ringops.Poly
}

// CopyNew returns a deep copy of the part.
func (p CiphertextPart) CopyNew() CiphertextPart {
	return CiphertextPart{Handle: p.Handle, Value: p.Value.CopyNew()}
}
