// Package search is the worker-pool driver that exercises the tree package
// end to end: select down to a leaf, expand it, back-propagate the
// evaluator's result, undo virtual loss, repeat until a duration or episode
// budget is spent. It sits above the tree core, the way UCTSearch sits
// above UCTNode, and is needed to demonstrate the core against a real
// board and evaluator.
//
// Grounded in searcher/mcts.go's iterate/countdown goroutine+channel
// pattern and searcher/uct.go's doSelectionExpansion/doRollout/doBackup
// shape, generalized from a rollout-based evaluation to a single evaluator
// call per expansion, the same role UCTSearch::play_simulation's
// node->create_children call plays in the original.
package search

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"baduk/config"
	"baduk/metrics"
	"baduk/rng"
	"baduk/tree"
)

// Option configures a Search, matching searcher.MCTS's Option func(*MCTS)
// pattern.
type Option func(*Search)

// WithDuration bounds the search by wall-clock time.
func WithDuration(d time.Duration) Option {
	return func(s *Search) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithEpisodes bounds the search by a fixed playout count.
func WithEpisodes(n int) Option {
	return func(s *Search) {
		if n > 0 {
			s.episodes = n
		}
	}
}

// WithGoroutines sets the worker pool size.
func WithGoroutines(n int) Option {
	return func(s *Search) {
		if n > 0 {
			s.goroutines = n
		}
	}
}

// WithMetrics attaches a live metrics.Collector in place of the default
// no-op one.
func WithMetrics(c metrics.Collector) Option {
	return func(s *Search) {
		if c != nil {
			s.metrics = c
		}
	}
}

// Search owns one tree root and drives workers over it. It is safe for one
// Run call at a time; callers run successive searches sequentially,
// same as searcher.MCTS.Simulate.
type Search struct {
	cfg        config.Config
	evaluator  tree.Evaluator
	goroutines int
	duration   time.Duration
	episodes   int
	metrics    metrics.Collector
	nodeCount  atomic.Int64

	root *tree.Node
	id   uuid.UUID
}

// New builds a Search over the given config and evaluator, applying
// options over teacher-style defaults (a single goroutine, no bound until
// one of WithDuration/WithEpisodes is given — NewMCTS panics in that case
// and so does Run here).
func New(cfg config.Config, evaluator tree.Evaluator, options ...Option) *Search {
	s := &Search{
		cfg:        cfg,
		evaluator:  evaluator,
		goroutines: 1,
		metrics:    metrics.NewNoCollector(),
		id:         uuid.New(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Root returns the current root node, mainly so callers (the CLI's result
// table) can read back visit counts and priors after Run returns. Safe to
// call only once Run/Reset has been called at least once.
func (s *Search) Root() *tree.Node {
	return s.root
}

// Reset discards the current tree, starting fresh with a new, unexpanded
// root; the position it stands for is the state given to the next Run. The
// search driver -- not the tree package -- owns the decision of when reuse
// is safe: no worker may still be in the tree.
func (s *Search) Reset() {
	s.root = tree.NewNode(tree.PassVertex, 1.0)
	s.nodeCount.Store(0)
}

// Advance moves the root down to the child reached by playing move, reusing
// that subtree's statistics instead of discarding them, mirroring
// MCTS.findRoot's path-traversal reuse. If the move was never expanded
// (e.g. the opponent played something this tree never explored), it falls
// back to Reset. Before the swap, the new root's own (mean, variance) is
// seeded as its distribution override so the first selection under it has a
// sharper prior than the bare net evaluation would give.
func (s *Search) Advance(move tree.Vertex) {
	if s.root == nil {
		return
	}
	for _, child := range s.root.Children() {
		if child.Move() != move {
			continue
		}
		if !child.IsInflated() {
			break
		}
		next := child.Inflate()
		if next.Visits() > 0 {
			variance := next.GetEvalVariance(next.NetVariance())
			next.SetDistribution(next.GetEval(tree.Black), variance)
		}
		s.root = next
		s.metrics.ReusedTree()
		return
	}
	log.Warn().Msgf("search %s: move %d not found in current tree, resetting", s.id, move)
	s.Reset()
}

// Run spends the configured duration or episode budget growing the tree
// rooted at state, then returns the move the root's NodeComp ordering
// prefers.
func (s *Search) Run(state tree.GameState) tree.Vertex {
	if s.root == nil {
		s.Reset()
	}
	if s.episodes <= 0 && s.duration <= 0 {
		panic("search: must specify episodes or duration")
	}

	log.Info().Msgf("search %s: starting, goroutines=%d board=%dx%d", s.id, s.goroutines, s.cfg.BoardSize, s.cfg.BoardSize)
	s.metrics.Start()

	if s.episodes > 0 {
		s.iterate(state)
	} else {
		s.countdown(state)
	}

	s.metrics.SetTreeSize(s.root.CountNodes())
	result := s.metrics.Complete()
	log.Info().Msgf("search %s: finished, episodes=%d evaluator_calls=%d lost_races=%d",
		s.id, result.Episodes, result.EvaluatorCalls, result.LostExpandRaces)

	color := state.ToMove()
	best := s.root.BestRootChild(color)
	return best.Move()
}

func (s *Search) iterate(state tree.GameState) {
	tasks := make(chan struct{}, s.episodes)
	for i := 0; i < s.episodes; i++ {
		tasks <- struct{}{}
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < s.goroutines; i++ {
		wg.Add(1)
		src := rng.New(uint64(i) + 1)
		go func(src rng.Source) {
			defer wg.Done()
			for range tasks {
				s.playout(state, src)
				s.metrics.AddEpisode()
			}
		}(src)
	}
	wg.Wait()
}

func (s *Search) countdown(state tree.GameState) {
	deadline := time.Now().Add(s.duration)
	var wg sync.WaitGroup
	for i := 0; i < s.goroutines; i++ {
		wg.Add(1)
		src := rng.New(uint64(i) + 1)
		go func(src rng.Source) {
			defer wg.Done()
			for time.Now().Before(deadline) {
				s.playout(state, src)
				s.metrics.AddEpisode()
			}
		}(src)
	}
	wg.Wait()
}

// playout runs one select-expand-backup cycle from the root, grounded in
// uct.go's simulate (and, further back, UCTSearch::play_simulation):
// descend applying virtual loss at each step, expand the first unexpanded
// node reached, then walk back up undoing virtual loss and accumulating
// the Black-POV eval.
func (s *Search) playout(rootState tree.GameState, src rng.Source) {
	path := []*tree.Node{s.root}
	state := rootState
	node := s.root

	for {
		node.AddVirtualLoss(config.VirtualLossCount)

		// rMin is always 0: this driver does not schedule progressive
		// widening passes, matching Leela Zero's own default
		// (min_psa_ratio defaults to 0.0f there too) — a node is either
		// fully expanded on its first CreateChildren call or not expanded
		// at all.
		const rMin = 0.0
		if !node.HasChildren() && node.Expandable(rMin) {
			eval, _, ok, err := node.CreateChildren(
				s.evaluator, state, rMin,
				s.cfg.BoardSize, s.cfg.NumIntersections, s.cfg.DumbPass,
				&s.nodeCount,
			)
			if err != nil {
				s.metrics.AddEvaluatorCall()
				log.Warn().Msgf("search %s: evaluator error: %v", s.id, err)
				s.backup(path, 0.5)
				return
			}
			if ok {
				s.metrics.AddEvaluatorCall()
				s.metrics.AddFullPlayout()
				s.backup(path, eval)
				return
			}
			// CreateChildren declined without calling the evaluator: either
			// the position is terminal (two passes), or someone else won the
			// expansion race. In the latter case wait for their expansion
			// to finish (the same wait SelectChild would do internally) so
			// HasChildren reflects the outcome rather than a half-finished
			// expansion, then fall through to the terminal check below.
			if state.Passes() < 2 {
				s.metrics.AddLostExpandRace()
			}
			for node.ExpandState() == tree.StateExpanding {
			}
		}

		if !node.HasChildren() {
			// Genuinely terminal: nobody, including whoever just finished
			// expanding, found any legal children.
			s.backup(path, terminalEval(state))
			return
		}

		toMove := state.ToMove()
		child := node.SelectChild(toMove, node == s.root, src)
		state = advance(state, toMove, child.Move())
		node = child
		path = append(path, node)
	}
}

// StateAdvancer is the extra surface the search driver needs beyond
// tree.GameState: a way to produce the successor position after a chosen
// move. The tree core never needs this (it only reads a position during one
// expansion call); the driver does, since it must hand the evaluator an
// up-to-date position at every depth it descends to. board.State
// implements this via PlayMove.
type StateAdvancer interface {
	tree.GameState
	PlayMove(color tree.Color, vertex tree.Vertex) tree.GameState
}

// advance panics if state does not implement StateAdvancer: a GameState
// wired into Search without move-replay support cannot be searched past the
// root, which is a configuration error, not a recoverable outcome.
func advance(state tree.GameState, color tree.Color, move tree.Vertex) tree.GameState {
	advancer, ok := state.(StateAdvancer)
	if !ok {
		panic("search: GameState must implement StateAdvancer to be searched below the root")
	}
	return advancer.PlayMove(color, move)
}

// terminalEval scores a position with no expandable children left, using
// the game's own FinalScore (already signed positive for Black), squashed
// into [0,1] the same way a real evaluator's winrate would be. The result
// is already in Black's perspective, matching what CreateChildren's eval
// return and Node.Update both expect.
func terminalEval(state tree.GameState) float64 {
	score := state.FinalScore()
	switch {
	case score > 0:
		return 1.0
	case score < 0:
		return 0.0
	default:
		return 0.5
	}
}

// backup walks path from leaf to root applying Update with a value already
// in Black's perspective, and reverses the virtual loss every node in path
// was given on the way down.
func (s *Search) backup(path []*tree.Node, blackEval float64) {
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		node.Update(blackEval)
		node.UndoVirtualLoss(config.VirtualLossCount)
	}
}
