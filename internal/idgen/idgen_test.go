package idgen

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_StartsAtOne(t *testing.T) {
	g := New()
	assert.Equal(t, int64(0), g.Current())
	assert.Equal(t, int64(1), g.Next())
	assert.Equal(t, int64(2), g.Next())
	assert.Equal(t, int64(2), g.Current())
}

func TestNext_ZeroValueUsable(t *testing.T) {
	var g Generator
	assert.Equal(t, int64(1), g.Next())
}

func TestNext_Concurrent(t *testing.T) {
	const workers = 16
	const perWorker = 500

	g := New()
	results := make([][]int64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ids := make([]int64, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				ids = append(ids, g.Next())
			}
			results[w] = ids
		}(w)
	}
	wg.Wait()

	var all []int64
	for _, ids := range results {
		// each caller observes its own values in increasing order
		for i := 1; i < len(ids); i++ {
			require.Less(t, ids[i-1], ids[i])
		}
		all = append(all, ids...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	require.Len(t, all, workers*perWorker)
	for i, id := range all {
		// no duplicates, no gaps
		require.Equal(t, int64(i+1), id)
	}
	assert.Equal(t, int64(workers*perWorker), g.Current())
}
