package tree

// fakeState is a minimal GameState stand-in for expansion tests: it tracks
// which vertices are occupied on a square board and nothing else about Go
// rules (no captures, no superko), since those belong to the out-of-scope
// board/move-legality collaborator.
type fakeState struct {
	boardSize int
	toMove    Color
	occupied  map[Vertex]bool
	passes    int
	score     int
}

func newFakeState(boardSize int, toMove Color) *fakeState {
	return &fakeState{boardSize: boardSize, toMove: toMove, occupied: map[Vertex]bool{}}
}

func (s *fakeState) ToMove() Color { return s.toMove }

func (s *fakeState) IsMoveLegal(color Color, vertex Vertex) bool {
	if vertex == PassVertex {
		return true
	}
	return !s.occupied[vertex]
}

func (s *fakeState) Vertex(x, y int) Vertex {
	return Vertex(x + y*s.boardSize)
}

func (s *fakeState) Passes() int { return s.passes }

func (s *fakeState) FinalScore() int { return s.score }

// fakeEvaluator returns a canned EvalOutput (or error) regardless of state,
// letting tests drive CreateChildren's branches directly.
type fakeEvaluator struct {
	output EvalOutput
	err    error
}

func (e *fakeEvaluator) Evaluate(state GameState, ensemble Ensemble) (EvalOutput, error) {
	return e.output, e.err
}

func uniformPolicy(n int, each float64) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = each
	}
	return p
}
