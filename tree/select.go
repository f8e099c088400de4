package tree

import (
	"math"

	"baduk/rng"
)

// betaParamsFromDistribution converts a (mean, variance) pair into
// moment-matched Beta(alpha, beta) parameters, the same moment-matching
// get_beta_param/get_net_beta_param do in the original.
func betaParamsFromDistribution(mean, variance float64) (alpha, beta float64) {
	v := variance
	if v < 1e-9 {
		v = 1e-9
	}
	k := mean*(1-mean)/v - 1
	alpha = 1 + mean*k
	beta = 1 + (1-mean)*k
	return alpha, beta
}

// GetNetBetaParam uses the evaluator's own (net_eval, net_variance),
// ignoring any distribution override, mirroring UCTNode::get_net_beta_param.
func (n *Node) GetNetBetaParam(color Color) (alpha, beta float64) {
	return betaParamsFromDistribution(n.GetNetEval(color), n.netVariance)
}

// GetBetaParam uses GetDistribution (override if present, else net values),
// the source uct_select_child's Thompson-sampling draw actually uses,
// mirroring UCTNode::get_beta_param.
func (n *Node) GetBetaParam(color Color) (alpha, beta float64) {
	mean, variance := n.GetDistribution(color)
	return betaParamsFromDistribution(mean, variance)
}

// SelectChild runs Thompson sampling over the posterior Beta distribution
// of each explored child, falling back to the highest-prior unexplored
// child with probability proportional to the still-unexplored policy mass,
// mirroring UCTNode::uct_select_child. It waits for this node's own
// expansion to complete first, then inflates and returns the chosen child.
//
// The active code path is Thompson sampling; PUCT-style priors and an FPU
// reduction exist in UCTNode::uct_select_child only as commented-out code
// and are not implemented here.
func (n *Node) SelectChild(color Color, isRoot bool, src rng.Source) *Node {
	n.waitExpanded()

	children := n.Children()

	maxPolicy := 0.0
	policyExplored := 0.0
	numUnexplored := 0
	var unexplored *ChildSlot

	for _, child := range children {
		if !child.Valid() {
			continue
		}
		if child.Policy() > maxPolicy {
			maxPolicy = child.Policy()
		}
		if child.Visits() > 0 {
			policyExplored += child.Policy()
			continue
		}
		numUnexplored++
		if unexplored == nil && !child.IsExpanding() {
			unexplored = child
		}
	}

	if numUnexplored == 0 {
		policyExplored = 1.0
	}

	var chosen *ChildSlot
	if unexplored != nil {
		u := src.Float64()
		if u >= policyExplored {
			chosen = unexplored
			policyExplored += chosen.Policy()
		}
	}

	if chosen == nil {
		bestValue := math.Inf(-1)
		for _, child := range children {
			if !child.Active() || child.Visits() == 0 {
				continue
			}

			if child.IsExpanding() {
				// Someone else is expanding this child; never select it if
				// we can avoid it, since we'd block on it in waitExpanded.
				if -1.0 > bestValue {
					bestValue = -1.0
					chosen = child
				}
				continue
			}

			alpha, beta := child.Node().GetBetaParam(color)
			value := src.Beta(alpha, beta)
			if value > bestValue {
				bestValue = value
				chosen = child
			}
		}
	}

	n.policyExplored = policyExplored

	if chosen == nil {
		panic("tree: SelectChild found no eligible child")
	}
	return chosen.Inflate()
}

// PolicyExplored returns the last value SelectChild computed, for
// telemetry. Like m_policy_explored, this field is deliberately
// unsynchronized and may be stale under concurrent selection.
func (n *Node) PolicyExplored() float64 {
	return n.policyExplored
}
