// Package config holds the tunables the tree package needs from its callers.
//
// None of these are read from a file or flag by this package itself — that
// wiring lives in cmd/baduk. This package only defines the knobs and their
// defaults, the same way searcher/policy.go's hyperparameter consts did for
// the teacher.
package config

// VirtualLossCount is the number of pending-visit "losses" a selector
// applies to a node on the way down and reverses on the way back up.
const VirtualLossCount = 3

// Config is the set of tunables the tree and search packages consume.
type Config struct {
	// BoardSize is the board's side length.
	BoardSize int
	// NumIntersections is BoardSize*BoardSize, kept as a separate field so
	// callers don't have to recompute it on every expansion.
	NumIntersections int
	// DumbPass, if true, always offers PASS as a legal candidate during
	// expansion regardless of the score-based heuristic.
	DumbPass bool
	// LCBMinVisitRatio is the fraction of the root's max child visit count
	// below which a child cannot win the root comparator on LCB grounds.
	// tree.Compare has no LCB branch, so nothing in this repository reads it.
	LCBMinVisitRatio float64
}

type Option func(*Config)

// WithBoardSize sets BoardSize and its derived NumIntersections together so
// the two can never drift apart.
func WithBoardSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BoardSize = size
			c.NumIntersections = size * size
		}
	}
}

func WithDumbPass(on bool) Option {
	return func(c *Config) {
		c.DumbPass = on
	}
}

func WithLCBMinVisitRatio(ratio float64) Option {
	return func(c *Config) {
		if ratio >= 0 {
			c.LCBMinVisitRatio = ratio
		}
	}
}

// New builds a Config with the teacher-style defaults (a 19x19 board, dumb
// pass off, and an 8% LCB visit floor) and applies options over them.
func New(options ...Option) Config {
	c := Config{
		BoardSize:        19,
		NumIntersections: 19 * 19,
		DumbPass:         false,
		LCBMinVisitRatio: 0.08,
	}
	for _, option := range options {
		option(&c)
	}
	return c
}
