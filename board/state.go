package board

import "baduk/tree"

// State is an immutable Go position: Play never mutates its receiver, it
// returns a new *State, the same copy-returns-new-state discipline
// risk-agent's GameState.Copy establishes for the teacher's game package.
type State struct {
	grid     Grid
	toMove   tree.Color
	passes   int
	koPoint  point
	hasKo    bool
	scoreAdj float64 // optional komi, added to Black's score
}

// NewState returns an empty board of the given size with Black to move.
func NewState(size int, komi float64) *State {
	return &State{grid: NewGrid(size), toMove: tree.Black, scoreAdj: komi}
}

func colorToStone(c tree.Color) Stone {
	if c == tree.Black {
		return BlackStone
	}
	return WhiteStone
}

func (s *State) xy(v tree.Vertex) (x, y int) {
	size := s.grid.Size()
	return int(v) % size, int(v) / size
}

func (s *State) ToMove() tree.Color { return s.toMove }

// BoardSize returns the board's side length, used by callers (the eval and
// search packages) that need to enumerate intersections without reaching
// into this package's internals.
func (s *State) BoardSize() int { return s.grid.Size() }

// At exposes a single intersection's occupant, used by eval's policy
// template and by callers that want to render the board.
func (s *State) At(x, y int) Stone { return s.grid.At(x, y) }

func (s *State) Vertex(x, y int) tree.Vertex {
	return tree.Vertex(x + y*s.grid.Size())
}

func (s *State) Passes() int { return s.passes }

// IsMoveLegal reports whether color may play vertex on this position: PASS
// is always legal; a board move is legal if the point is empty, is not the
// single-stone simple-ko point, and does not result in immediate suicide
// (after resolving captures).
func (s *State) IsMoveLegal(color tree.Color, vertex tree.Vertex) bool {
	if vertex == tree.PassVertex {
		return true
	}
	x, y := s.xy(vertex)
	if !s.grid.InBounds(x, y) {
		return false
	}
	if s.grid.At(x, y) != Empty {
		return false
	}
	if s.hasKo && s.koPoint == (point{x, y}) {
		return false
	}

	trial := s.grid.Clone()
	trial.Set(x, y, colorToStone(color))
	s.resolveCaptures(&trial, x, y, colorToStone(color))

	_, liberties := trial.group(x, y)
	return len(liberties) > 0
}

// resolveCaptures removes any opponent group adjacent to (x, y) that has no
// liberties left after the move at (x, y) was played, mirroring the
// standard place-then-capture-then-check-suicide order of operations.
func (s *State) resolveCaptures(g *Grid, x, y int, placed Stone) (captured []point) {
	opp := opponent(placed)
	seen := map[point]bool{}
	for _, n := range g.neighbors(x, y) {
		if seen[n] || g.At(n.x, n.y) != opp {
			continue
		}
		stones, liberties := g.group(n.x, n.y)
		for _, st := range stones {
			seen[st] = true
		}
		if len(liberties) == 0 {
			for _, st := range stones {
				g.Set(st.x, st.y, Empty)
			}
			captured = append(captured, stones...)
		}
	}
	return captured
}

// Play returns the successor state after color plays vertex. Callers must
// have already checked IsMoveLegal; Play does not re-validate.
func (s *State) Play(color tree.Color, vertex tree.Vertex) *State {
	next := &State{
		grid:     s.grid.Clone(),
		toMove:   color.Opponent(),
		passes:   0,
		scoreAdj: s.scoreAdj,
	}

	if vertex == tree.PassVertex {
		next.passes = s.passes + 1
		return next
	}

	x, y := s.xy(vertex)
	stone := colorToStone(color)
	next.grid.Set(x, y, stone)
	captured := s.resolveCaptures(&next.grid, x, y, stone)

	if len(captured) == 1 {
		stones, liberties := next.grid.group(x, y)
		if len(stones) == 1 && len(liberties) == 1 {
			next.hasKo = true
			next.koPoint = captured[0]
		}
	}

	return next
}

// PlayMove satisfies search.StateAdvancer: identical to Play, but returns
// the tree.GameState interface so callers outside this package (the search
// driver) don't need to depend on *State directly.
func (s *State) PlayMove(color tree.Color, vertex tree.Vertex) tree.GameState {
	return s.Play(color, vertex)
}

// FinalScore is simple Chinese-style area scoring (stones on board plus
// territory bordering only one color), signed positive for Black, plus
// komi. It does not resolve dame/seki nuances; it exists to exercise
// CreateChildren's pass-by-score heuristic, not to referee a real game to
// completion.
func (s *State) FinalScore() int {
	size := s.grid.Size()
	blackArea, whiteArea := 0, 0
	visited := map[point]bool{}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch s.grid.At(x, y) {
			case BlackStone:
				blackArea++
			case WhiteStone:
				whiteArea++
			case Empty:
				p := point{x, y}
				if visited[p] {
					continue
				}
				region, borders := s.floodEmptyRegion(p, visited)
				switch {
				case borders == BlackStone:
					blackArea += len(region)
				case borders == WhiteStone:
					whiteArea += len(region)
				}
			}
		}
	}

	return blackArea - whiteArea + int(s.scoreAdj)
}

// floodEmptyRegion walks one connected empty region and reports which single
// color (if any) borders the whole of it; a region touching both colors (or
// neither, e.g. the whole empty board) scores as neutral dame.
func (s *State) floodEmptyRegion(start point, visited map[point]bool) (region []point, borderColor Stone) {
	queue := []point{start}
	visited[start] = true
	seenBlack, seenWhite := false, false

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		region = append(region, p)
		for _, n := range s.grid.neighbors(p.x, p.y) {
			switch s.grid.At(n.x, n.y) {
			case Empty:
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			case BlackStone:
				seenBlack = true
			case WhiteStone:
				seenWhite = true
			}
		}
	}

	switch {
	case seenBlack && !seenWhite:
		return region, BlackStone
	case seenWhite && !seenBlack:
		return region, WhiteStone
	default:
		return region, Empty
	}
}
