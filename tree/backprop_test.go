package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario (e): Welford's online variance matches the batch (sample)
// variance computed directly over the same values.
func TestUpdateWelfordVarianceMatchesBatch(t *testing.T) {
	values := []float64{0.1, 0.4, 0.6, 0.9}

	n := NewNode(0, 1.0)
	for _, v := range values {
		n.Update(v)
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	batchVariance := sumSquares / float64(len(values)-1)

	require.InDelta(t, batchVariance, n.GetEvalVariance(999), 1e-9)
	require.Equal(t, int64(len(values)), n.Visits())
	require.InDelta(t, mean, n.blackEvalsLoad()/float64(len(values)), 1e-9)
}

func TestGetEvalVarianceDefaultBeforeTwoVisits(t *testing.T) {
	n := NewNode(0, 1.0)
	require.Equal(t, 42.0, n.GetEvalVariance(42.0), "no visits yet")

	n.Update(0.5)
	require.Equal(t, 42.0, n.GetEvalVariance(42.0), "one visit is not enough to estimate a spread")

	n.Update(0.5)
	require.Equal(t, 0.0, n.GetEvalVariance(42.0), "two identical values have zero spread")
}

// Black and White evals are mirror images and sum to exactly 1.0 when
// backed by the same single, exactly-representable observation.
func TestGetEvalBlackWhiteAreExactMirror(t *testing.T) {
	n := NewNode(0, 1.0)
	n.Update(0.75) // exactly representable in binary64

	black := n.GetEval(Black)
	white := n.GetEval(White)
	require.Equal(t, 0.75, black)
	require.Equal(t, 0.25, white)
	require.Equal(t, 1.0, black+white)
}

func TestGetRawEvalAppliesVirtualLossOnlyToWhite(t *testing.T) {
	n := NewNode(0, 1.0)
	n.Update(0.5)

	// One real visit plus two virtual losses, each counted as a lost game
	// for the side asking: for Black they dilute the mean toward 0 (no
	// numerator contribution); for White they are added to the Black
	// numerator (Black wins are White losses) before the flip, so White's
	// mean is pulled toward 0 as well.
	black := n.GetRawEval(Black, 2)
	white := n.GetRawEval(White, 2)
	require.InDelta(t, 0.5/3.0, black, 1e-9)
	require.InDelta(t, 1-(0.5+2)/3.0, white, 1e-9)
}

func TestGetRawEvalPanicsOnNonPositiveEffectiveVisits(t *testing.T) {
	n := NewNode(0, 1.0)
	require.Panics(t, func() {
		n.GetRawEval(Black, 0)
	})
}

func TestUpdateVisitsAreMonotonic(t *testing.T) {
	n := NewNode(0, 1.0)
	last := n.Visits()
	for i := 0; i < 10; i++ {
		n.Update(0.3)
		next := n.Visits()
		require.Greater(t, next, last)
		last = next
	}
}
