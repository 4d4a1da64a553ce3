package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_InsertAndRetrieve(t *testing.T) {
	c := New[string](10)

	require.NoError(t, c.Insert("A", "valueA", 1))
	require.NoError(t, c.Insert("B", "valueB", 2))
	assert.Equal(t, 3, c.GetWeight())
	assert.Equal(t, 10, c.GetBudget())

	actual, ok := c.Retrieve("A")
	require.True(t, ok)
	assert.Equal(t, "valueA", actual)

	_, ok = c.Retrieve("missing")
	assert.False(t, ok)

	assert.Equal(t, ErrExists, c.Insert("A", "other", 1))
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2)
	c.SetVerbose(true)

	require.NoError(t, c.Insert("evicted", 0, 1))
	require.NoError(t, c.Insert("A", 1, 1))
	require.NoError(t, c.Insert("B", 2, 1))

	_, ok := c.Retrieve("evicted")
	assert.False(t, ok)
	assert.Equal(t, 2, c.GetWeight())

	// Touching A makes B the eviction candidate
	_, ok = c.Retrieve("A")
	require.True(t, ok)
	require.NoError(t, c.Insert("C", 3, 1))

	_, ok = c.Retrieve("B")
	assert.False(t, ok)
	for _, key := range []string{"A", "C"} {
		_, ok = c.Retrieve(key)
		assert.True(t, ok, key)
	}
}

func TestCache_OversizedEntry(t *testing.T) {
	c := New[int](2)

	require.NoError(t, c.Insert("A", 1, 1))
	require.NoError(t, c.Insert("big", 2, 3))

	assert.Equal(t, 0, c.GetWeight())
	_, ok := c.Retrieve("A")
	assert.False(t, ok)
	_, ok = c.Retrieve("big")
	assert.False(t, ok)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[int](10)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Insert(fmt.Sprintf("key%d", i), i, 1))
	}

	assert.True(t, c.Delete("key1"))
	assert.False(t, c.Delete("key1"))
	assert.Equal(t, 2, c.GetWeight())

	_, ok := c.Retrieve("key1")
	assert.False(t, ok)
	require.NoError(t, c.Insert("key1", 1, 1))

	c.Clear()
	assert.Equal(t, 0, c.GetWeight())
	for i := 0; i < 3; i++ {
		_, ok := c.Retrieve(fmt.Sprintf("key%d", i))
		assert.False(t, ok)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[int](50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			key := fmt.Sprintf("key%d", i%20)
			_ = c.Insert(key, i, 1)
			c.Retrieve(key)
			if i%7 == 0 {
				c.Delete(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.GetWeight(), c.GetBudget())
}
