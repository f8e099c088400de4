package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSource is a scripted rng.Source: Float64 returns values from a fixed
// queue (repeating the last one once exhausted) and Beta returns a value
// keyed by the caller's (alpha, beta) pair, letting tests pick a winner
// deterministically without depending on real sampling.
type fakeSource struct {
	floats   []float64
	floatPos int
	betas    map[[2]float64]float64
	betaDef  float64
}

func (f *fakeSource) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	if f.floatPos >= len(f.floats) {
		return f.floats[len(f.floats)-1]
	}
	v := f.floats[f.floatPos]
	f.floatPos++
	return v
}

func (f *fakeSource) Beta(alpha, beta float64) float64 {
	if v, ok := f.betas[[2]float64{alpha, beta}]; ok {
		return v
	}
	return f.betaDef
}

func TestSelectChildPicksUnexploredWhenDrawBeatsExploredMass(t *testing.T) {
	root := NewNode(0, 1.0)

	a := newChildSlot(1, 0.7)
	b := newChildSlot(2, 0.3)
	root.children = []*ChildSlot{a, b}
	root.expandState.Store(int32(StateExpanded))

	// a has been explored once; b is still unexplored.
	aNode := a.Inflate()
	aNode.Update(0.5)

	src := &fakeSource{floats: []float64{0.99}} // >= policyExplored(0.7) -> pick unexplored
	chosen := root.SelectChild(Black, true, src)
	require.Equal(t, Vertex(2), chosen.Move())
}

func TestSelectChildPicksHighestBetaDrawAmongExplored(t *testing.T) {
	root := NewNode(0, 1.0)

	a := newChildSlot(1, 0.6)
	b := newChildSlot(2, 0.4)
	root.children = []*ChildSlot{a, b}
	root.expandState.Store(int32(StateExpanded))

	aNode := a.Inflate()
	aNode.Update(0.5)
	aNode.SetDistribution(0.4, 0.05)
	bNode := b.Inflate()
	bNode.Update(0.5)
	bNode.SetDistribution(0.6, 0.05)

	// Both explored, so numUnexplored == 0 forces policyExplored to 1.0 and
	// the unexplored branch never triggers regardless of Float64. Distinct
	// distributions give the two children distinct beta params so the fake
	// source can tell them apart.
	aAlpha, aBeta := aNode.GetBetaParam(Black)
	bAlpha, bBeta := bNode.GetBetaParam(Black)
	src := &fakeSource{
		floats: []float64{0.01},
		betas: map[[2]float64]float64{
			{aAlpha, aBeta}: 0.2,
			{bAlpha, bBeta}: 0.9,
		},
	}
	chosen := root.SelectChild(Black, true, src)
	require.Equal(t, Vertex(2), chosen.Move())
	require.Equal(t, 1.0, root.PolicyExplored())
}

func TestSelectChildSkipsInvalidChildren(t *testing.T) {
	root := NewNode(0, 1.0)

	a := newChildSlot(1, 0.6)
	b := newChildSlot(2, 0.4)
	root.children = []*ChildSlot{a, b}
	root.expandState.Store(int32(StateExpanded))

	aNode := a.Inflate()
	aNode.Update(0.5)
	aNode.Invalidate()
	bNode := b.Inflate()
	bNode.Update(0.5)

	bAlpha, bBeta := bNode.GetBetaParam(Black)
	src := &fakeSource{
		floats: []float64{0.01},
		betas: map[[2]float64]float64{
			{bAlpha, bBeta}: 0.5,
		},
	}
	chosen := root.SelectChild(Black, true, src)
	require.Equal(t, Vertex(2), chosen.Move(), "the invalidated sibling must never be chosen")
}

func TestSelectChildSingleUnexploredChild(t *testing.T) {
	root := NewNode(0, 1.0)
	root.expandState.Store(int32(StateExpanded))
	a := newChildSlot(1, 1.0)
	root.children = []*ChildSlot{a}

	src := &fakeSource{floats: []float64{0.99}}
	chosen := root.SelectChild(Black, true, src)
	require.Equal(t, Vertex(1), chosen.Move())
}
