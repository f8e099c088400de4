package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat64InUnitInterval(t *testing.T) {
	src := New(1)
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestBetaConvergesToMean(t *testing.T) {
	src := New(42)
	alpha, beta := 8.0, 2.0
	wantMean := alpha / (alpha + beta)

	sum := 0.0
	const draws = 20000
	for i := 0; i < draws; i++ {
		sum += src.Beta(alpha, beta)
	}
	gotMean := sum / draws

	require.InDelta(t, wantMean, gotMean, 0.02, "sample mean should approach alpha/(alpha+beta)")
}

func TestBetaDegenerateShapeDoesNotPanic(t *testing.T) {
	src := New(7)
	require.NotPanics(t, func() {
		for i := 0; i < 100; i++ {
			v := src.Beta(-5, -5)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	})
}
