package tree

// The methods in this file round out the node API with the rest of
// UCTNode.{h,cpp}'s surface: tree maintenance a search driver needs between
// moves (superko cleanup, node counting, PV walking) but that doesn't
// touch game rules itself.

// KillSuperkos applies an externally computed superko verdict to this
// node's children. It performs no detection itself — isInvalid is supplied
// by the (out-of-scope) game-state/move-legality module via the search
// driver — and is meant to be called once, before workers start a new
// search, matching UCTNode::kill_superkos's "only called on m_root"
// contract.
func (n *Node) KillSuperkos(isInvalid func(move Vertex) bool) {
	for _, child := range n.Children() {
		if isInvalid(child.Move()) {
			child.Inflate().Invalidate()
		}
	}
}

// CountNodes recursively counts this node's children plus every inflated
// descendant's children, and resets any node that is still Expandable back
// to INITIAL along the way, mirroring
// UCTNode::count_nodes_and_clear_expand_state. That reset is what lets a
// subtree kept across moves progressively widen again: once a node reaches
// EXPANDED, acquireExpanding's CAS from INITIAL can never succeed again
// without it.
func (n *Node) CountNodes() int64 {
	children := n.Children()
	count := int64(len(children))

	if n.Expandable(0) {
		n.expandState.Store(int32(StateInitial))
	}

	for _, child := range children {
		if child.IsInflated() {
			count += child.Node().CountNodes()
		}
	}
	return count
}

// InflateAllChildren eagerly promotes every deflated slot, grounded in
// UCTNode::inflate_all_children. Used by callers (e.g. a PV printer) that
// want to walk every child without special-casing deflated ones.
func (n *Node) InflateAllChildren() {
	for _, child := range n.Children() {
		child.Inflate()
	}
}

// FirstChild returns the highest-prior child (children are kept in
// descending-prior order since CreateChildren's sort), or nil if this node
// has none, grounded in UCTNode::get_first_child.
func (n *Node) FirstChild() *Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0].Inflate()
}

// NoPassChild returns the highest-prior child whose move is not PASS, or
// nil if every child is PASS, grounded in UCTNode::get_nopass_child.
func (n *Node) NoPassChild() *Node {
	for _, child := range n.Children() {
		if child.Move() != PassVertex {
			return child.Inflate()
		}
	}
	return nil
}
