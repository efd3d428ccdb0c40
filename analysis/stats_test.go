package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStatsDefaultsWhenUnset(t *testing.T) {
	s := NewInMemoryStats()
	key := BoundKey{Relation: "edge", Bound: ""}

	assert.Equal(t, 1000, s.RelSize(key))
	assert.Equal(t, 100, s.UniqueKeys(key))
}

func TestInMemoryStatsExplicitEntry(t *testing.T) {
	s := NewInMemoryStats()
	key := BoundKey{Relation: "edge", Bound: "0"}
	s.Sizes[key] = 42
	s.Uniques[key] = 7

	assert.Equal(t, 42, s.RelSize(key))
	assert.Equal(t, 7, s.UniqueKeys(key))
	// A distinct key still falls back to the defaults.
	assert.Equal(t, 1000, s.RelSize(BoundKey{Relation: "edge", Bound: "1"}))
}

// countingStats counts how many times each method is actually invoked, so
// tests can assert that CachedStats's LRU layer suppresses repeat calls.
type countingStats struct {
	inner       *InMemoryStats
	sizeCalls   int
	uniqueCalls int
}

func (c *countingStats) RelSize(key BoundKey) int {
	c.sizeCalls++
	return c.inner.RelSize(key)
}

func (c *countingStats) UniqueKeys(key BoundKey) int {
	c.uniqueCalls++
	return c.inner.UniqueKeys(key)
}

func TestCachedStatsSuppressesRepeatQueries(t *testing.T) {
	inner := NewInMemoryStats()
	key := BoundKey{Relation: "reach", Bound: "01"}
	inner.Sizes[key] = 500
	inner.Uniques[key] = 50

	counting := &countingStats{inner: inner}
	cached, err := NewCachedStats(counting, 16)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 500, cached.RelSize(key))
		assert.Equal(t, 50, cached.UniqueKeys(key))
	}

	assert.Equal(t, 1, counting.sizeCalls, "expected the inner RelSize to be queried exactly once")
	assert.Equal(t, 1, counting.uniqueCalls, "expected the inner UniqueKeys to be queried exactly once")
}

func TestCachedStatsDistinctKeysQueryIndependently(t *testing.T) {
	inner := NewInMemoryStats()
	counting := &countingStats{inner: inner}
	cached, err := NewCachedStats(counting, 16)
	require.NoError(t, err)

	cached.RelSize(BoundKey{Relation: "a", Bound: "0"})
	cached.RelSize(BoundKey{Relation: "b", Bound: "0"})

	assert.Equal(t, 2, counting.sizeCalls)
}

func TestNewCachedStatsRejectsNonPositiveSize(t *testing.T) {
	_, err := NewCachedStats(NewInMemoryStats(), 0)
	require.Error(t, err)
}
