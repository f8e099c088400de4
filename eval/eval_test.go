package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"baduk/board"
	"baduk/tree"
)

func TestHeuristicEvaluatePolicySumsToOne(t *testing.T) {
	h := NewHeuristic()
	s := board.NewState(5, 0)

	out, err := h.Evaluate(s, tree.EnsembleAverage)
	require.NoError(t, err)

	sum := 0.0
	for _, p := range out.Policy {
		require.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	require.InDelta(t, 1.0, sum, 1e-9)
	require.Len(t, out.Policy, 25)
}

func TestHeuristicEvaluateWinrateInUnitInterval(t *testing.T) {
	h := NewHeuristic()
	s := board.NewState(9, 0)

	out, err := h.Evaluate(s, tree.EnsembleAverage)
	require.NoError(t, err)
	require.GreaterOrEqual(t, out.Winrate, 0.0)
	require.LessOrEqual(t, out.Winrate, 1.0)
	require.InDelta(t, 0.5, out.Winrate, 1e-9, "an empty board is a dead-even position")
}

func TestHeuristicEvaluateFavorsLeadingSide(t *testing.T) {
	h := NewHeuristic()
	s := board.NewState(9, 0)
	s = s.Play(tree.Black, s.Vertex(4, 4))
	s = s.Play(tree.Black, s.Vertex(3, 4))

	out, err := h.Evaluate(s, tree.EnsembleAverage)
	require.NoError(t, err)
	require.Less(t, out.Winrate, 0.5, "black is far ahead on area and it's white to move, so white's own winrate is low")
}

func TestHeuristicPanicsOnWrongStateType(t *testing.T) {
	h := NewHeuristic()
	require.Panics(t, func() {
		_, _ = h.Evaluate(fakeState{}, tree.EnsembleAverage)
	})
}

type fakeState struct{}

func (fakeState) ToMove() tree.Color                             { return tree.Black }
func (fakeState) IsMoveLegal(tree.Color, tree.Vertex) bool        { return true }
func (fakeState) Vertex(x, y int) tree.Vertex                     { return tree.Vertex(x + y) }
func (fakeState) Passes() int                                     { return 0 }
func (fakeState) FinalScore() int                                 { return 0 }
