// Package solvecache memoizes solver results for repeated parameter sets.
// The cache is owned by the caller; nothing here is global.
package solvecache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xtding233/hammer-calc/internal/chain"
	"github.com/xtding233/hammer-calc/internal/enhance"
	"github.com/xtding233/hammer-calc/internal/policy"
	"github.com/xtding233/hammer-calc/internal/pricing"
)

// Solver kinds used as the "kind" metric label.
const (
	KindPolicy = "policy"
	KindSearch = "search"
)

type policyKey struct {
	level       int // Result.Rows labels read it
	chainLength int
	ladder      enhance.Ladder
	hidden      bool
	costs       pricing.Costs
}

type searchKey struct {
	chainLength int
	costs       pricing.Costs
}

// Cache holds solved policy tables and searched assignments.
type Cache struct {
	mu       sync.RWMutex
	policies map[policyKey]*policy.Result
	searches map[searchKey]chain.Estimate

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates an empty cache. Metrics are registered on reg when it is not nil.
func New(reg prometheus.Registerer) *Cache {
	c := &Cache{
		policies: make(map[policyKey]*policy.Result),
		searches: make(map[searchKey]chain.Estimate),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hammer_solve_cache_requests_total",
				Help: "Solver cache lookups by solver kind and result",
			},
			[]string{"kind", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hammer_solve_duration_seconds",
				Help:    "Time spent in uncached solves",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(c.requests, c.duration)
	}
	return c
}

// Policy returns the solved table for model and costs, solving on a miss.
// The returned result is shared and must not be modified.
func (c *Cache) Policy(model *enhance.Model, costs pricing.Costs) (*policy.Result, error) {
	if model == nil {
		return policy.Solve(model, costs)
	}
	k := policyKey{level: model.Level, chainLength: model.ChainLength, ladder: model.Ladder, hidden: model.HiddenRate, costs: costs}

	c.mu.RLock()
	r, ok := c.policies[k]
	c.mu.RUnlock()
	if ok {
		c.requests.WithLabelValues(KindPolicy, "hit").Inc()
		return r, nil
	}
	c.requests.WithLabelValues(KindPolicy, "miss").Inc()

	start := time.Now()
	r, err := policy.Solve(model, costs)
	if err != nil {
		return nil, err
	}
	c.duration.WithLabelValues(KindPolicy).Observe(time.Since(start).Seconds())

	c.mu.Lock()
	if prev, ok := c.policies[k]; ok {
		r = prev
	} else {
		c.policies[k] = r
	}
	c.mu.Unlock()
	return r, nil
}

// Search returns the cheapest fixed assignment for a chain, searching on a miss.
func (c *Cache) Search(chainLength int, costs pricing.Costs) (chain.Estimate, error) {
	k := searchKey{chainLength: chainLength, costs: costs}

	c.mu.RLock()
	e, ok := c.searches[k]
	c.mu.RUnlock()
	if ok {
		c.requests.WithLabelValues(KindSearch, "hit").Inc()
		return e, nil
	}
	c.requests.WithLabelValues(KindSearch, "miss").Inc()

	start := time.Now()
	e, err := chain.Search(chainLength, costs)
	if err != nil {
		return chain.Estimate{}, err
	}
	c.duration.WithLabelValues(KindSearch).Observe(time.Since(start).Seconds())

	c.mu.Lock()
	c.searches[k] = e
	c.mu.Unlock()
	return e, nil
}

// Len reports the number of cached entries per kind.
func (c *Cache) Len() (policies, searches int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.policies), len(c.searches)
}

// Reset drops every cached entry. Metrics keep counting.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.policies = make(map[policyKey]*policy.Result)
	c.searches = make(map[searchKey]chain.Estimate)
	c.mu.Unlock()
}
