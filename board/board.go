// Package board is a minimal, real Go-board implementation of tree.GameState:
// stone placement, liberty counting, captures, and simple area scoring. It
// stands in for the game-state/move-legality collaborator the tree and
// search packages need but don't own, so they have something real to
// exercise in tests and the CLI demo. It does not implement superko (a
// verdict computed elsewhere can be applied via tree.Node.KillSuperkos),
// handicap, or scoring nuances beyond simple area count.
package board

// Stone is the occupant of one board intersection.
type Stone int

const (
	Empty Stone = iota
	BlackStone
	WhiteStone
)

// Grid is the flat-slice board storage, grounded in the teacher pack's
// TheKrainBow-gomoku/backend/board.go ([]Cell indexed by y*size+x) rather
// than a [][]Stone, for the same cache-locality reason gomoku uses it.
type Grid struct {
	size  int
	cells []Stone
}

// NewGrid returns an empty size*size grid.
func NewGrid(size int) Grid {
	return Grid{size: size, cells: make([]Stone, size*size)}
}

func (g Grid) index(x, y int) int { return y*g.size + x }

func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

func (g Grid) At(x, y int) Stone { return g.cells[g.index(x, y)] }

func (g *Grid) Set(x, y int, s Stone) { g.cells[g.index(x, y)] = s }

func (g Grid) Size() int { return g.size }

// Clone returns an independent copy, used by State.Play to keep states
// immutable (grounded in risk-agent's GameState.Copy pattern).
func (g Grid) Clone() Grid {
	out := Grid{size: g.size, cells: make([]Stone, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

type point struct{ x, y int }

func (g Grid) neighbors(x, y int) []point {
	candidates := [4]point{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	out := make([]point, 0, 4)
	for _, c := range candidates {
		if g.InBounds(c.x, c.y) {
			out = append(out, c)
		}
	}
	return out
}

// group returns every point connected to (x, y) by same-colored stones, and
// that group's liberties (adjacent empty points), via breadth-first flood
// fill. Callers are expected to call this only on occupied points.
func (g Grid) group(x, y int) (stones []point, liberties map[point]bool) {
	color := g.At(x, y)
	visited := map[point]bool{{x, y}: true}
	liberties = map[point]bool{}
	queue := []point{{x, y}}
	stones = []point{{x, y}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range g.neighbors(p.x, p.y) {
			switch g.At(n.x, n.y) {
			case Empty:
				liberties[n] = true
			case color:
				if !visited[n] {
					visited[n] = true
					stones = append(stones, n)
					queue = append(queue, n)
				}
			}
		}
	}
	return stones, liberties
}

func opponent(s Stone) Stone {
	if s == BlackStone {
		return WhiteStone
	}
	return BlackStone
}
