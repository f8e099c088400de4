// Package eval provides tree.Evaluator implementations. It carries no
// neural network and no weight format; the reference implementation here
// is a cheap heuristic that exists only so
// tree.CreateChildren has something real to call in tests and the CLI demo,
// the same relationship christopherWilliams98-risk-agent/game/eval.go's
// EvaluateResources/EvaluateBorderStrength family has to its searcher: a
// pluggable scoring function behind a narrow interface, swappable for a
// stronger one later without touching the search core.
package eval

import (
	"math"

	"baduk/board"
	"baduk/tree"
)

// Heuristic is a reference tree.Evaluator: it scores a position from the
// area-count lead of the side to move (sigmoid-squashed into a winrate) and
// assigns policy priors by a fixed center-weighted template over empty
// points, the simplest prior that still prefers not to play on the edge —
// mirroring EvaluateResources's territory/troop tally in spirit, generalized
// to also emit a move prior instead of only a scalar.
type Heuristic struct {
	// Temperature controls how sharply FinalScore's lead is squashed into a
	// winrate; larger values flatten the curve. EvaluateBorderStrength and
	// friends have no equivalent knob (they return the raw average), but
	// Thompson sampling needs well-calibrated winrates in (0,1), not just a
	// sign, so this is new to this implementation.
	Temperature float64
}

// NewHeuristic returns a Heuristic with a fixed temperature of 12 for every
// board size (the area-count lead divided by 12 saturates the sigmoid only
// once the game is lopsided).
func NewHeuristic() *Heuristic {
	return &Heuristic{Temperature: 12.0}
}

func (h *Heuristic) Evaluate(state tree.GameState, ensemble tree.Ensemble) (tree.EvalOutput, error) {
	s, ok := state.(*board.State)
	if !ok {
		panic("eval: Heuristic requires a *board.State")
	}

	size := s.BoardSize()
	numIntersections := size * size
	policy := make([]float64, numIntersections)
	sum := 0.0

	for i := 0; i < numIntersections; i++ {
		x, y := i%size, i/size
		if s.At(x, y) != board.Empty {
			continue
		}
		w := centerWeight(x, y, size)
		policy[i] = w
		sum += w
	}
	if sum > 0 {
		for i := range policy {
			policy[i] /= sum
		}
	}

	toMove := s.ToMove()
	relativeScore := s.FinalScore()
	if toMove == tree.White {
		relativeScore = -relativeScore
	}

	winrate := sigmoid(float64(relativeScore) / h.Temperature)

	return tree.EvalOutput{
		Policy:     policy,
		PolicyPass: 1.0 / float64(numIntersections+1),
		Winrate:    winrate,
		Variance:   0.05,
	}, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// centerWeight gives interior points a higher prior than edge/corner
// points, the one structural bias every Go heuristic agrees on even without
// any learned knowledge.
func centerWeight(x, y, size int) float64 {
	center := float64(size-1) / 2
	dx := float64(x) - center
	dy := float64(y) - center
	dist := math.Hypot(dx, dy)
	maxDist := math.Hypot(center, center)
	if maxDist == 0 {
		return 1.0
	}
	return 1.0 + (maxDist-dist)/maxDist
}
