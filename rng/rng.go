// Package rng provides the per-thread random source the tree package's
// selection rule consumes: a uniform draw in [0,1) and a Beta(alpha, beta)
// sample.
//
// The teacher (searcher/uct.go, searcher/mcts.go) already depends on
// golang.org/x/exp/rand for rollout move selection; this package reuses it
// as the uniform source underneath Beta sampling. No library in the
// retrieval pack provides Beta/Gamma sampling, so it is implemented here
// directly via the standard Marsaglia-Tsang Gamma algorithm — this is core
// selection math, not an ambient concern that should reach for a
// dependency.
package rng

import (
	"math"

	"golang.org/x/exp/rand"
)

// Source is what the tree package's selection rule needs from an RNG.
// Implementations must be safe for use by exactly one goroutine at a time;
// callers keep one Source per worker goroutine and own its seed lifecycle.
type Source interface {
	// Float64 returns a uniform draw in [0,1).
	Float64() float64
	// Beta returns one sample from Beta(alpha, beta).
	Beta(alpha, beta float64) float64
}

type source struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed. Callers
// typically derive distinct seeds per worker goroutine (e.g. a counter or
// time-derived value) so concurrent searches don't share a generator.
func New(seed uint64) Source {
	return &source{r: rand.New(rand.NewSource(seed))}
}

func (s *source) Float64() float64 {
	return s.r.Float64()
}

// minShape keeps Gamma sampling well-defined even if a caller's (mean,
// variance) pair produces a non-positive Beta parameter; betaParamsFromDistribution
// only guards the variance floor, not the resulting alpha/beta.
const minShape = 1e-3

func (s *source) Beta(alpha, beta float64) float64 {
	if alpha < minShape {
		alpha = minShape
	}
	if beta < minShape {
		beta = minShape
	}
	x := s.gamma(alpha)
	y := s.gamma(beta)
	if x+y <= 0 {
		return 0.5
	}
	return x / (x + y)
}

// gamma draws one Gamma(shape, 1) sample. For shape < 1 it uses the
// standard boosting trick (Gamma(shape) = Gamma(shape+1) * U^(1/shape))
// before falling into Marsaglia-Tsang, which only applies for shape >= 1.
func (s *source) gamma(shape float64) float64 {
	if shape < 1 {
		u := s.r.Float64()
		return s.gammaMT(shape+1) * math.Pow(u, 1/shape)
	}
	return s.gammaMT(shape)
}

// gammaMT implements Marsaglia & Tsang's "A Simple Method for Generating
// Gamma Variables" (2000) for shape >= 1.
func (s *source) gammaMT(shape float64) float64 {
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)

	for {
		x := s.r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.r.Float64()

		x2 := x * x
		if u < 1-0.0331*x2*x2 {
			return d * v
		}
		if math.Log(u) < 0.5*x2+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
