package analysis

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// BoundKey identifies a (relation, bound-column-set, bound-constant-values)
// query into the relation statistics the Selinger planner consults. Column
// indices refer to the atom's argument positions, not storage columns.
type BoundKey struct {
	Relation string
	Bound    string // canonical encoding of the bound columns + constant values
}

// RelationStats estimates join-planning costs for a relation under a given
// set of already-bound columns (spec.md §4.4.6). uniqueKeys is always
// clamped to at least 1 by callers per the Selinger planner caveat
// (spec.md §9): this interface may return 0 to mean "unknown", and callers
// must clamp.
type RelationStats interface {
	RelSize(key BoundKey) int
	UniqueKeys(key BoundKey) int
}

// InMemoryStats is a reference RelationStats backed by a plain map, meant
// for tests and small fixture programs.
type InMemoryStats struct {
	Sizes      map[BoundKey]int
	Uniques    map[BoundKey]int
	DefaultSize int
	DefaultUnique int
}

// NewInMemoryStats returns an InMemoryStats with reasonable defaults so
// relations never queried explicitly still produce a plannable estimate.
func NewInMemoryStats() *InMemoryStats {
	return &InMemoryStats{
		Sizes:         map[BoundKey]int{},
		Uniques:       map[BoundKey]int{},
		DefaultSize:   1000,
		DefaultUnique: 100,
	}
}

func (s *InMemoryStats) RelSize(key BoundKey) int {
	if v, ok := s.Sizes[key]; ok {
		return v
	}
	return s.DefaultSize
}

func (s *InMemoryStats) UniqueKeys(key BoundKey) int {
	if v, ok := s.Uniques[key]; ok {
		return v
	}
	return s.DefaultUnique
}

// CachedStats wraps a RelationStats with an LRU cache, since the planner's
// cost table re-queries the same (relation, bound-set) pairs repeatedly
// while exploring overlapping atom subsets.
type CachedStats struct {
	inner     RelationStats
	sizeCache *lru.Cache[BoundKey, int]
	keyCache  *lru.Cache[BoundKey, int]
}

// NewCachedStats wraps inner with two LRU caches of capacity size each, one
// per query kind.
func NewCachedStats(inner RelationStats, size int) (*CachedStats, error) {
	sc, err := lru.New[BoundKey, int](size)
	if err != nil {
		return nil, err
	}
	kc, err := lru.New[BoundKey, int](size)
	if err != nil {
		return nil, err
	}
	return &CachedStats{inner: inner, sizeCache: sc, keyCache: kc}, nil
}

func (c *CachedStats) RelSize(key BoundKey) int {
	if v, ok := c.sizeCache.Get(key); ok {
		return v
	}
	v := c.inner.RelSize(key)
	c.sizeCache.Add(key, v)
	return v
}

func (c *CachedStats) UniqueKeys(key BoundKey) int {
	if v, ok := c.keyCache.Get(key); ok {
		return v
	}
	v := c.inner.UniqueKeys(key)
	c.keyCache.Add(key, v)
	return v
}
