package bootstrap

import "sync"

// ParameterCache memoizes SelectParams results keyed by the literal fields
// that actually influence the search, mirroring HElib's ThinRecryptData
// caching the (e, e') search against a context rather than re-running it
// per ciphertext.
type ParameterCache struct {
	mu    sync.Mutex
	byKey map[paramKey]SelectedParams
}

type paramKey struct {
	p          uint64
	r          int
	eBound     int
	coeffBound float64
	fudge      float64
}

// NewParameterCache returns an empty cache.
func NewParameterCache() *ParameterCache {
	return &ParameterCache{byKey: make(map[paramKey]SelectedParams)}
}

// Select returns the cached SelectedParams for lit, computing and storing
// it on first use.
func (pc *ParameterCache) Select(lit ParametersLiteral) (SelectedParams, error) {
	key := paramKey{p: lit.P, r: lit.R, eBound: lit.EBound, coeffBound: lit.CoeffBound, fudge: lit.Fudge}

	pc.mu.Lock()
	if sp, ok := pc.byKey[key]; ok {
		pc.mu.Unlock()
		return sp, nil
	}
	pc.mu.Unlock()

	sp, err := SelectParams(lit)
	if err != nil {
		return SelectedParams{}, err
	}

	pc.mu.Lock()
	pc.byKey[key] = sp
	pc.mu.Unlock()
	return sp, nil
}
