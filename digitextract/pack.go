package digitextract

import (
	"fmt"
	"sync"

	"github.com/fhecore/bgvboot/ctxt"
	"github.com/fhecore/bgvboot/keyswitch"
	"github.com/fhecore/bgvboot/options"
)

// FrobeniusStep is one Frobenius automorphism used to unpack a fully
// packed ciphertext: Power is the automorphism exponent (a power of p),
// IsolationConstant is the precomputed slot-isolation plaintext that
// selects which coefficient each automorphed copy contributes (spec
// §4.3.4). Both are produced externally by the encoding library.
type FrobeniusStep struct {
	Power             int
	IsolationConstant ctxt.CiphertextPart // reused only for its Value field
}

// Unpack applies the d Frobenius automorphisms in steps to x and combines
// them linearly with their slot-isolation constants, producing d
// ciphertexts each holding plain integers in its slots (spec §4.3.4
// "unpack"). keyID/bank provide the key-switch needed after each rotation.
func Unpack(x *ctxt.Ciphertext, m int, steps []FrobeniusStep, keyID int, bank *keyswitch.Bank, stats *options.Stats) ([]*ctxt.Ciphertext, error) {
	out := make([]*ctxt.Ciphertext, len(steps))
	for i, step := range steps {
		rotated := x.CopyNew()
		if err := keyswitch.SmartAutomorphism(rotated, step.Power, m, keyID, bank, stats); err != nil {
			return nil, fmt.Errorf("cannot Unpack: step %d: %w", i, err)
		}
		rotated.MulConstant(step.IsolationConstant.Value, rotated.NoiseBound)
		out[i] = rotated
	}
	return out, nil
}

// UnpackParallel is Unpack with each Frobenius step dispatched to a bounded
// worker pool, per spec §4.3.4 "the design allows this to be parallel".
func UnpackParallel(x *ctxt.Ciphertext, m int, steps []FrobeniusStep, keyID int, bank *keyswitch.Bank, workers int, stats *options.Stats) ([]*ctxt.Ciphertext, error) {
	if workers <= 1 {
		return Unpack(x, m, steps, keyID, bank, stats)
	}
	out := make([]*ctxt.Ciphertext, len(steps))
	errs := make([]error, len(steps))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, step := range steps {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, step FrobeniusStep) {
			defer wg.Done()
			defer func() { <-sem }()
			rotated := x.CopyNew()
			// Stats is deliberately not threaded into the per-goroutine call:
			// *options.Stats has no internal synchronization, and concurrent
			// increments from this worker pool would race. The per-step
			// relinearization count is credited once, sequentially, below.
			if err := keyswitch.SmartAutomorphism(rotated, step.Power, m, keyID, bank, nil); err != nil {
				errs[i] = fmt.Errorf("step %d: %w", i, err)
				return
			}
			rotated.MulConstant(step.IsolationConstant.Value, rotated.NoiseBound)
			out[i] = rotated
		}(i, step)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("cannot UnpackParallel: %w", err)
		}
	}
	if stats != nil {
		stats.Relinearizations += len(steps)
	}
	return out, nil
}

// RepackTerm pairs one unpacked-and-extracted result with the slot-selector
// constant X^i used to fold it back into the packed output (spec §4.3.4
// "repack").
type RepackTerm struct {
	Result   *ctxt.Ciphertext
	Selector ctxt.CiphertextPart
}

// Repack multiplies each term's extracted result by its X^i selector
// constant and sums them into a single fully packed ciphertext.
func Repack(terms []RepackTerm) (*ctxt.Ciphertext, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("cannot Repack: no terms: %w", ctxt.ErrArgumentInvalid)
	}
	acc := terms[0].Result.CopyNew()
	acc.MulConstant(terms[0].Selector.Value, acc.NoiseBound)
	for _, t := range terms[1:] {
		term := t.Result.CopyNew()
		term.MulConstant(t.Selector.Value, term.NoiseBound)
		if err := acc.Add(term); err != nil {
			return nil, fmt.Errorf("cannot Repack: %w", err)
		}
	}
	return acc, nil
}
