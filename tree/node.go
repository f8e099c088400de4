package tree

import (
	"math"
	"sync"
	"sync/atomic"
)

// Status is a node's validity/activity state, mirroring UCTNode::Status.
type Status int32

const (
	StatusActive Status = iota
	StatusPruned
	StatusInvalid
)

// ExpandState is the three-state expansion handshake UCTNode::acquire_expanding
// / expand_done / expand_cancel drive a node through.
type ExpandState int32

const (
	StateInitial ExpandState = iota
	StateExpanding
	StateExpanded
)

// initialMinPsaRatio is the "looser than any real threshold" sentinel a
// fresh node starts with, so the very first CreateChildren call (whatever
// its r_min) is always allowed to add children.
const initialMinPsaRatio = 2.0

// Node is a position in the search tree. All statistics fields are atomic;
// the children slice is guarded by mu because appends to it must be
// serialized against concurrent readers even though the expansion CAS
// already serializes writers against each other.
type Node struct {
	move   Vertex
	policy float64

	netEval     float64
	netVariance float64

	visits      atomic.Int64
	virtualLoss atomic.Int32

	// blackEvals and squaredEvalDiff are float64s stored as their IEEE-754
	// bit pattern in an atomic.Uint64, the same bitcast-onto-an-integer-atomic
	// trick m_blackevals uses in C++ (Go has no atomic.Float64).
	blackEvals       atomic.Uint64
	squaredEvalDiff  atomic.Uint64
	minPsaRatioChildren atomic.Uint64

	status      atomic.Int32
	expandState atomic.Int32

	// distribution is an optional (mean, variance) override packed as two
	// float32s into one uint64; distributionSet guards the zero-value
	// ambiguity, since (0,0) is itself a valid distribution.
	distribution    atomic.Uint64
	distributionSet atomic.Bool

	mu       sync.RWMutex
	children []*ChildSlot

	// policyExplored is telemetry only, intentionally unsynchronized, the
	// same as m_policy_explored's plain (non-atomic) store.
	policyExplored float64
}

// NewNode constructs a node for the given move with the given prior. Net
// eval/variance are zero until an expansion writes real values through
// CreateChildren, matching the deflated-slot's eventual inflated node.
func NewNode(move Vertex, policy float64) *Node {
	n := &Node{move: move, policy: policy}
	n.minPsaRatioChildren.Store(math.Float64bits(initialMinPsaRatio))
	n.status.Store(int32(StatusActive))
	n.expandState.Store(int32(StateInitial))
	return n
}

func (n *Node) Move() Vertex    { return n.move }
func (n *Node) Policy() float64 { return n.policy }

func (n *Node) Visits() int64 { return n.visits.Load() }

func (n *Node) FirstVisit() bool { return n.visits.Load() == 0 }

func (n *Node) VirtualLoss() int32 { return n.virtualLoss.Load() }

// AddVirtualLoss applies VIRTUAL_LOSS_COUNT pending-visit pessimism on
// selection; UndoVirtualLoss reverses it once the real outcome backs up
// through this node.
func (n *Node) AddVirtualLoss(count int32) { n.virtualLoss.Add(count) }
func (n *Node) UndoVirtualLoss(count int32) { n.virtualLoss.Add(-count) }

func (n *Node) blackEvalsLoad() float64 {
	return math.Float64frombits(n.blackEvals.Load())
}

// atomicAddFloat64 does a CAS-retry fetch-add on a float64 stored as bits,
// standing in for C++'s atomic_add helper over std::atomic<double>.
func atomicAddFloat64(addr *atomic.Uint64, delta float64) {
	for {
		old := addr.Load()
		newVal := math.Float64frombits(old) + delta
		if addr.CompareAndSwap(old, math.Float64bits(newVal)) {
			return
		}
	}
}

func (n *Node) accumulateEval(eval float64) {
	atomicAddFloat64(&n.blackEvals, eval)
}

func (n *Node) accumulateSquaredEvalDiff(delta float64) {
	atomicAddFloat64(&n.squaredEvalDiff, delta)
}

func (n *Node) squaredEvalDiffLoad() float64 {
	return math.Float64frombits(n.squaredEvalDiff.Load())
}

// MinPsaRatioChildren returns the prior ratio threshold used when children
// were last constructed.
func (n *Node) MinPsaRatioChildren() float64 {
	return math.Float64frombits(n.minPsaRatioChildren.Load())
}

// setMinPsaRatioChildren enforces the monotonic-non-increasing invariant
// m_min_psa_ratio_children keeps in the original: a CAS retry loop only
// ever lowers the stored value.
func (n *Node) setMinPsaRatioChildren(v float64) {
	for {
		old := n.minPsaRatioChildren.Load()
		if v >= math.Float64frombits(old) {
			return
		}
		if n.minPsaRatioChildren.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}

// HasChildren reports whether this node is at least partially expanded.
func (n *Node) HasChildren() bool {
	return n.MinPsaRatioChildren() <= 1.0
}

// Expandable reports whether a CreateChildren call with the given r_min
// would add anything new.
func (n *Node) Expandable(rMin float64) bool {
	return rMin < n.MinPsaRatioChildren()
}

func (n *Node) NetEval() float64     { return n.netEval }
func (n *Node) NetVariance() float64 { return n.netVariance }

// GetNetEval returns the evaluator's raw value from color's perspective.
func (n *Node) GetNetEval(color Color) float64 {
	if color == White {
		return 1 - n.netEval
	}
	return n.netEval
}

func (n *Node) Invalidate()            { n.status.Store(int32(StatusInvalid)) }
func (n *Node) Valid() bool            { return Status(n.status.Load()) != StatusInvalid }
func (n *Node) Active() bool           { return Status(n.status.Load()) == StatusActive }

// SetActive toggles between ACTIVE and PRUNED; it is a no-op on an already
// INVALID node, since invalidation is permanent.
func (n *Node) SetActive(active bool) {
	if !n.Valid() {
		return
	}
	if active {
		n.status.Store(int32(StatusActive))
	} else {
		n.status.Store(int32(StatusPruned))
	}
}

func packDistribution(mean, variance float64) uint64 {
	lo := math.Float32bits(float32(mean))
	hi := math.Float32bits(float32(variance))
	return uint64(lo) | uint64(hi)<<32
}

func unpackDistribution(bits uint64) (mean, variance float64) {
	lo := uint32(bits)
	hi := uint32(bits >> 32)
	return float64(math.Float32frombits(lo)), float64(math.Float32frombits(hi))
}

// SetDistribution installs an override (mean, variance) pair used by
// GetDistribution/GetBetaParam in place of the net evaluator's own values.
// Callers wire this from a node's own back-propagation aggregate when they
// want to reuse an already-visited subtree's own statistics as its Beta
// prior rather than the network's static evaluation.
func (n *Node) SetDistribution(mean, variance float64) {
	n.distribution.Store(packDistribution(mean, variance))
	n.distributionSet.Store(true)
}

func (n *Node) HasDistribution() bool { return n.distributionSet.Load() }

// GetDistribution returns (mean, variance) from color's perspective: the
// override if one was set, otherwise the net evaluator's (net_eval,
// net_variance). Mean is inverted for White; variance is perspective-free.
func (n *Node) GetDistribution(color Color) (mean, variance float64) {
	if n.distributionSet.Load() {
		mean, variance = unpackDistribution(n.distribution.Load())
	} else {
		mean, variance = n.netEval, n.netVariance
	}
	if color == White {
		mean = 1 - mean
	}
	return mean, variance
}

// ResetForReuse clears a node's children and search statistics so it can
// become a fresh root; its move, prior and net eval/variance are kept. This
// is only safe to call when no worker is in the tree; callers are
// responsible for that quiescence guarantee — this method performs no
// synchronization of its own beyond what's needed to keep the fields
// internally consistent.
func (n *Node) ResetForReuse() {
	n.mu.Lock()
	n.children = nil
	n.mu.Unlock()

	n.visits.Store(0)
	n.virtualLoss.Store(0)
	n.blackEvals.Store(0)
	n.squaredEvalDiff.Store(0)
	n.minPsaRatioChildren.Store(math.Float64bits(initialMinPsaRatio))
	n.status.Store(int32(StatusActive))
	n.expandState.Store(int32(StateInitial))
	n.distributionSet.Store(false)
	n.policyExplored = 0
}
