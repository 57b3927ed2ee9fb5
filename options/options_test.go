package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsAddMerges(t *testing.T) {
	s := Stats{Relinearizations: 1, CacheHits: 2}
	s.Add(Stats{Relinearizations: 3, CacheMisses: 4, RowsComputed: 5, PolynomialsEvaluated: 6})

	want := Stats{Relinearizations: 4, CacheHits: 2, CacheMisses: 4, RowsComputed: 5, PolynomialsEvaluated: 6}
	require.Equal(t, want, s)
}

func TestZeroValueOptionsIsAutoOffQuiet(t *testing.T) {
	var o Options
	require.Equal(t, Auto, o.ForceBSGS)
	require.Equal(t, Auto, o.ForceHoist)
	require.False(t, o.LazyRelinearize)
	require.False(t, o.Verbose)
}
