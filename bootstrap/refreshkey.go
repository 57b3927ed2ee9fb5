package bootstrap

import "github.com/fhecore/bgvboot/ctxt"

// RefreshKey is the "encryption of the regular secret key under itself"
// that the bootstrapping pipeline's linear-combination step consumes
// (spec §4.4 step 3/7: "the refresh key is a ciphertext encryption of the
// regular secret key, encrypted under itself").
type RefreshKey struct {
	KeyID int
	Es    *ctxt.Ciphertext
}
