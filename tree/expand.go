package tree

import (
	"sort"
	"sync/atomic"
)

// acquireExpanding is the CAS at the heart of the expansion handshake,
// mirroring UCTNode::acquire_expanding: exactly one caller observes success
// per INITIAL→EXPANDING transition.
func (n *Node) acquireExpanding() bool {
	return n.expandState.CompareAndSwap(int32(StateInitial), int32(StateExpanding))
}

// expandDone transitions EXPANDING→EXPANDED, mirroring UCTNode::expand_done.
// It panics if the prior state was not EXPANDING — an assertion violation,
// not a runtime error a caller can recover from.
func (n *Node) expandDone() {
	old := n.expandState.Swap(int32(StateExpanded))
	if ExpandState(old) != StateExpanding {
		panic("tree: expand_done called while not EXPANDING")
	}
}

// expandCancel transitions EXPANDING→INITIAL, mirroring
// UCTNode::expand_cancel. Used when expansion is abandoned after the lock
// was acquired: CreateChildren calls it when the evaluator fails (a
// terminal state is rejected before the lock is taken).
func (n *Node) expandCancel() {
	old := n.expandState.Swap(int32(StateInitial))
	if ExpandState(old) != StateExpanding {
		panic("tree: expand_cancel called while not EXPANDING")
	}
}

// waitExpanded spins until this node's expansion, if one is in flight,
// completes. The happens-before this establishes (all writes to children
// made while EXPANDING become visible once EXPANDED is observed) relies on
// expandState's CompareAndSwap/Swap/Load being at least acquire/release,
// which sync/atomic guarantees.
func (n *Node) waitExpanded() {
	for ExpandState(n.expandState.Load()) == StateExpanding {
	}
}

// ExpandState reports the current handshake state, mostly useful for
// tests and telemetry.
func (n *Node) ExpandState() ExpandState {
	return ExpandState(n.expandState.Load())
}

// PriorPair is one (vertex, prior) candidate produced while enumerating
// legal moves, before sorting and pruning.
type PriorPair struct {
	Vertex Vertex
	Policy float64
}

const floatMin = 2.2250738585072014e-308 // math.SmallestNonzeroFloat64

// CreateChildren runs the expansion algorithm, mirroring UCTNode::create_children:
// it acquires the expansion lock, consults the evaluator, enumerates legal
// moves, decides whether to admit PASS, renormalizes priors, and links the
// result via linkNodeList. nodeCount, if non-nil, is incremented once per
// child actually added, the same running node-count UCTSearch threads
// through its own create_children calls.
func (n *Node) CreateChildren(
	evaluator Evaluator,
	state GameState,
	rMin float64,
	boardSize int,
	numIntersections int,
	dumbPass bool,
	nodeCount *atomic.Int64,
) (eval float64, variance float64, ok bool, err error) {
	if state.Passes() >= 2 {
		return 0, 0, false, nil
	}

	if !n.acquireExpanding() {
		return 0, 0, false, nil
	}

	if !n.Expandable(rMin) {
		n.expandDone()
		return 0, 0, false, nil
	}

	output, evalErr := evaluator.Evaluate(state, EnsembleAverage)
	if evalErr != nil {
		n.expandCancel()
		return 0, 0, false, evalErr
	}

	toMove := state.ToMove()
	if toMove == Black {
		n.netEval = output.Winrate
	} else {
		n.netEval = 1 - output.Winrate
	}
	n.netVariance = output.Variance
	eval, variance = n.netEval, n.netVariance

	pairs := make([]PriorPair, 0, numIntersections+1)
	legalSum := 0.0
	for i := 0; i < numIntersections; i++ {
		x := i % boardSize
		y := i / boardSize
		vertex := state.Vertex(x, y)
		if state.IsMoveLegal(toMove, vertex) {
			pairs = append(pairs, PriorPair{Vertex: vertex, Policy: output.Policy[i]})
			legalSum += output.Policy[i]
		}
	}

	allowPass := dumbPass
	if len(pairs) <= maxInt(5, boardSize) {
		allowPass = true
	}
	if !allowPass && output.Winrate > 0.8 {
		relativeScore := state.FinalScore()
		if toMove == White {
			relativeScore = -relativeScore
		}
		if relativeScore >= 0 {
			allowPass = true
		}
	}
	if allowPass {
		pairs = append(pairs, PriorPair{Vertex: PassVertex, Policy: output.PolicyPass})
		legalSum += output.PolicyPass
	}

	if legalSum > floatMin {
		for i := range pairs {
			pairs[i].Policy /= legalSum
		}
	} else if len(pairs) > 0 {
		uniform := 1.0 / float64(len(pairs))
		for i := range pairs {
			pairs[i].Policy = uniform
		}
	}

	n.linkNodeList(pairs, rMin, nodeCount)
	n.expandDone()
	return eval, variance, true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// linkNodeList installs children the way UCTNode::link_nodelist does: only
// pairs whose prior falls in [new_min, old_min) are new; pairs below
// new_min are skipped (and mark the threshold as still loosenable), pairs
// at or above old_min were already added by an earlier, looser call.
func (n *Node) linkNodeList(pairs []PriorPair, rMin float64, nodeCount *atomic.Int64) {
	if len(pairs) == 0 {
		return
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Policy > pairs[j].Policy })

	maxPsa := pairs[0].Policy
	newMin := maxPsa * rMin
	oldMin := maxPsa * n.MinPsaRatioChildren()

	skipped := false
	added := make([]*ChildSlot, 0, len(pairs))
	for _, p := range pairs {
		switch {
		case p.Policy < newMin:
			skipped = true
		case p.Policy < oldMin:
			added = append(added, newChildSlot(p.Vertex, p.Policy))
		default:
			// already present from an earlier, looser expansion.
		}
	}

	if len(added) > 0 {
		n.mu.Lock()
		n.children = append(n.children, added...)
		n.mu.Unlock()
		if nodeCount != nil {
			nodeCount.Add(int64(len(added)))
		}
	}

	if skipped {
		n.setMinPsaRatioChildren(rMin)
	} else {
		n.setMinPsaRatioChildren(0.0)
	}
}

// Children returns a snapshot of the current child slots. The returned
// slice must not be mutated; append-only growth under mu means it is safe
// to read concurrently with further expansion, but two snapshots taken at
// different times may differ in length.
func (n *Node) Children() []*ChildSlot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*ChildSlot, len(n.children))
	copy(out, n.children)
	return out
}
