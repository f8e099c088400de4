// Package metrics collects atomic counters describing one search, grounded
// in the teacher's searcher/metrics.go and searcher/experiments/metrics.go
// collectors, extended with counters specific to this tree: expansion-CAS
// contention and final tree size.
package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetrics is the immutable snapshot a Collector hands back once a
// search completes.
type SearchMetrics struct {
	Duration        time.Duration
	Episodes        int64
	FullPlayouts    int64
	EvaluatorCalls  int64
	LostExpandRaces int64
	TreeReused      bool
	TreeSize        int64
}

// Collector is the telemetry sink the search driver reports into. As in the
// teacher, a no-op implementation exists so callers that don't want metrics
// don't pay for atomics they never read.
type Collector interface {
	Start()
	AddEpisode()
	AddFullPlayout()
	AddEvaluatorCall()
	AddLostExpandRace()
	ReusedTree()
	SetTreeSize(n int64)
	Complete() SearchMetrics
}

type collector struct {
	startTime       time.Time
	episodes        atomic.Int64
	fullPlayouts    atomic.Int64
	evaluatorCalls  atomic.Int64
	lostExpandRaces atomic.Int64
	treeReused      atomic.Bool
	treeSize        atomic.Int64
}

// NewCollector returns a live Collector, mirroring NewMetricsCollector.
func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() { c.startTime = time.Now() }

func (c *collector) AddEpisode()        { c.episodes.Add(1) }
func (c *collector) AddFullPlayout()    { c.fullPlayouts.Add(1) }
func (c *collector) AddEvaluatorCall()  { c.evaluatorCalls.Add(1) }
func (c *collector) AddLostExpandRace() { c.lostExpandRaces.Add(1) }
func (c *collector) ReusedTree()        { c.treeReused.Store(true) }
func (c *collector) SetTreeSize(n int64) { c.treeSize.Store(n) }

func (c *collector) Complete() SearchMetrics {
	return SearchMetrics{
		Duration:        time.Since(c.startTime),
		Episodes:        c.episodes.Load(),
		FullPlayouts:    c.fullPlayouts.Load(),
		EvaluatorCalls:  c.evaluatorCalls.Load(),
		LostExpandRaces: c.lostExpandRaces.Load(),
		TreeReused:      c.treeReused.Load(),
		TreeSize:        c.treeSize.Load(),
	}
}

type noCollector struct{}

// NewNoCollector returns a Collector whose methods are all no-ops, matching
// the teacher's NewNoMetricsCollector escape hatch.
func NewNoCollector() Collector {
	return &noCollector{}
}

func (*noCollector) Start()                    {}
func (*noCollector) AddEpisode()               {}
func (*noCollector) AddFullPlayout()           {}
func (*noCollector) AddEvaluatorCall()         {}
func (*noCollector) AddLostExpandRace()        {}
func (*noCollector) ReusedTree()               {}
func (*noCollector) SetTreeSize(int64)         {}
func (*noCollector) Complete() SearchMetrics   { return SearchMetrics{} }
