package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"baduk/board"
	"baduk/config"
	"baduk/eval"
	"baduk/metrics"
	"baduk/tree"
)

func TestRunReturnsALegalLookingMove(t *testing.T) {
	cfg := config.New(config.WithBoardSize(3), config.WithDumbPass(true))
	state := board.NewState(3, 0)
	s := New(cfg, eval.NewHeuristic(), WithEpisodes(40), WithGoroutines(4))

	move := s.Run(state)
	if move != tree.PassVertex {
		require.True(t, move >= 0 && int(move) < cfg.NumIntersections)
	}
}

func TestRunWithDurationCompletes(t *testing.T) {
	cfg := config.New(config.WithBoardSize(3), config.WithDumbPass(true))
	state := board.NewState(3, 0)
	s := New(cfg, eval.NewHeuristic(), WithDuration(10_000_000 /* 10ms in ns */), WithGoroutines(2))

	require.NotPanics(t, func() {
		s.Run(state)
	})
}

func TestRunPanicsWithoutABudget(t *testing.T) {
	cfg := config.New(config.WithBoardSize(3))
	state := board.NewState(3, 0)
	s := New(cfg, eval.NewHeuristic())

	require.Panics(t, func() {
		s.Run(state)
	})
}

func TestAdvanceReusesSubtreeWhenMoveWasExplored(t *testing.T) {
	cfg := config.New(config.WithBoardSize(3), config.WithDumbPass(true))
	state := board.NewState(3, 0)
	s := New(cfg, eval.NewHeuristic(), WithEpisodes(60), WithGoroutines(2), WithMetrics(metrics.NewCollector()))

	move := s.Run(state)
	oldRoot := s.root

	s.Advance(move)
	require.NotSame(t, oldRoot, s.root, "advancing into an explored child must move the root pointer")
}

func TestAdvanceFallsBackToResetWhenMoveWasNotExplored(t *testing.T) {
	cfg := config.New(config.WithBoardSize(9))
	state := board.NewState(9, 0)
	s := New(cfg, eval.NewHeuristic())
	s.Reset()

	s.Advance(state.Vertex(4, 4))
	require.Equal(t, int64(0), s.root.Visits(), "a freshly reset root has no visits")
}
