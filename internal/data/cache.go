package data

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"gashpwh-sim/internal/simulation"
)

// CachedRun is a completed simulation kept for later record retrieval.
type CachedRun struct {
	ProfileName string
	Result      *simulation.Result
}

// ResultCache keeps the most recent simulation results in memory, keyed by
// run id. Old entries are evicted once the cache is full.
type ResultCache struct {
	lru *lru.Cache
}

func NewResultCache(size int) (*ResultCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &ResultCache{lru: c}, nil
}

// Add stores a run and reports whether an older entry was evicted.
func (c *ResultCache) Add(id string, run *CachedRun) bool {
	if c == nil {
		return false
	}
	return c.lru.Add(id, run)
}

func (c *ResultCache) Get(id string) (*CachedRun, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	run, ok := v.(*CachedRun)
	return run, ok
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
