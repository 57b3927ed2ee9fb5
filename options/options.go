// Package options replaces the reference implementation's process-wide
// mutable flags (force-BSGS, force-hoist, verbose, thread-local
// replicate-verbose, a global relin counter) with a per-invocation
// configuration struct threaded explicitly through the call stack (spec
// §9 "Global mutable state").
package options

// Tristate mirrors the reference's Auto|On|Off knobs without reintroducing
// a global default that call sites can't see.
type Tristate int

const (
	Auto Tristate = iota
	On
	Off
)

// Options configures one polynomial-evaluation or digit-extraction
// invocation. The zero value is Auto/Auto/unbounded/non-lazy/quiet, matching
// the reference's default behavior before any flag is touched.
type Options struct {
	// ForceBSGS overrides polyeval's baby-step/giant-step parameter choice:
	// On always uses the BSGS recursion, Off always uses the flat
	// Horner-style evaluation, Auto lets the evaluator decide from degree.
	ForceBSGS Tristate

	// ForceHoist overrides whether key-switch digit decomposition is
	// computed once and shared across an automorphism batch (hoisted) or
	// recomputed per automorphism. No package in this module reads this
	// field; linearmap.EvalMap takes the same choice through its own
	// ForceHoist field.
	ForceHoist Tristate

	// ReplicateRecursionBound is a depth limit for the replicate/repack
	// recursion, zero meaning unbounded. No package in this module reads
	// this field, so setting it limits nothing.
	ReplicateRecursionBound int

	// LazyRelinearize records whether relinearization after
	// ciphertext-ciphertext multiplication is deferred. No package in this
	// module reads this field; polyeval takes that choice from its own
	// Options.Lazy.
	LazyRelinearize bool

	// Verbose records a request for detailed output. No package in this
	// module reads this field; Stats counters are collected whether or not
	// it is set.
	Verbose bool
}

// Stats accumulates the counters the reference implementation tracked as
// global state (spec §9 "the relin counter becomes a returned statistic").
// Every exported operation that performs relinearizations or cache lookups
// takes a *Stats and adds to it rather than touching a package-level
// variable.
type Stats struct {
	Relinearizations    int
	CacheHits           int
	CacheMisses         int
	RowsComputed        int
	PolynomialsEvaluated int
}

// Add merges other's counters into s.
func (s *Stats) Add(other Stats) {
	s.Relinearizations += other.Relinearizations
	s.CacheHits += other.CacheHits
	s.CacheMisses += other.CacheMisses
	s.RowsComputed += other.RowsComputed
	s.PolynomialsEvaluated += other.PolynomialsEvaluated
}
