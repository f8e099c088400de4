package tree

import (
	"math"
	"sort"
)

// tQuantile975 is Student's-t 97.5th-percentile table for degrees of
// freedom 1..30, used by EvalLCB the way UCTNode::get_eval_lcb consults its
// own precomputed table. Beyond 30 degrees of freedom the t-distribution is
// close enough to normal that the table falls back to the z=1.96 normal
// quantile.
var tQuantile975 = [...]float64{
	12.706, 4.303, 3.182, 2.776, 2.571, 2.447, 2.365, 2.306, 2.262, 2.228,
	2.201, 2.179, 2.160, 2.145, 2.131, 2.120, 2.110, 2.101, 2.093, 2.086,
	2.080, 2.074, 2.069, 2.064, 2.060, 2.056, 2.052, 2.048, 2.045, 2.042,
}

func cachedTQuantile(degreesOfFreedom int64) float64 {
	if degreesOfFreedom < 1 {
		degreesOfFreedom = 1
	}
	if int(degreesOfFreedom) <= len(tQuantile975) {
		return tQuantile975[degreesOfFreedom-1]
	}
	return 1.960
}

// EvalLCB returns mean - z*stddev, the lower confidence bound of the
// winrate estimate, mirroring UCTNode::get_eval_lcb. Nodes with fewer than
// two visits rank by -1e6+visits so deeper-tied-on-visits nodes still sort
// consistently.
func (n *Node) EvalLCB(color Color) float64 {
	visits := n.visits.Load()
	if visits < 2 {
		return -1e6 + float64(visits)
	}

	mean := n.GetRawEval(color, 0)
	stddev := math.Sqrt(n.GetEvalVariance(1.0) / float64(visits))
	z := cachedTQuantile(visits - 1)
	return mean - z*stddev
}

// Compare implements NodeComp's active ordering: ascending by visits, then
// (if both unvisited) by prior, then by eval. Callers reverse the result to
// get a descending "best first" order, as the original does by sorting
// with rbegin/rend.
//
// NodeComp also carries a commented-out LCB tie-break branch in the
// original; that is design history, not active behavior, and is not
// implemented here.
func Compare(a, b *ChildSlot, color Color) int {
	av, bv := a.Visits(), b.Visits()
	if av != bv {
		return cmpInt64(av, bv)
	}
	if av == 0 {
		return cmpFloat64(a.Policy(), b.Policy())
	}
	return cmpFloat64(a.Node().GetEval(color), b.Node().GetEval(color))
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortChildren stable-sorts this node's children descending by Compare
// (best first), mirroring UCTNode::sort_children.
func (n *Node) SortChildren(color Color) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sort.SliceStable(n.children, func(i, j int) bool {
		return Compare(n.children[i], n.children[j], color) > 0
	})
}

// BestRootChild waits for this node's expansion, finds the child that wins
// the NodeComp ordering, inflates it, and returns it, mirroring
// UCTNode::get_best_root_child. Intended to be called only on the search
// root, once workers have quiesced.
func (n *Node) BestRootChild(color Color) *Node {
	n.waitExpanded()

	children := n.Children()
	if len(children) == 0 {
		panic("tree: BestRootChild called on a node with no children")
	}

	best := children[0]
	for _, child := range children[1:] {
		if Compare(child, best, color) > 0 {
			best = child
		}
	}
	return best.Inflate()
}
