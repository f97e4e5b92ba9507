package bulk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sqlmw/go-sql-middleware/value"
)

func rowOf(n int64) Row { return Row{value.Int(n)} }

func TestStreamChunksBySize(t *testing.T) {
	rows := make(chan Row, 5)
	for i := int64(1); i <= 5; i++ {
		rows <- rowOf(i)
	}
	close(rows)

	var mu sync.Mutex
	var chunks [][]Row

	exec := func(_ context.Context, c []Row) (int64, error) {
		mu.Lock()
		chunks = append(chunks, c)
		mu.Unlock()
		return int64(len(c)), nil
	}

	total, err := Stream(context.Background(), rows, exec, Options{ChunkSize: 2})
	require.NoError(t, err)
	require.Equal(t, uint64(5), total)

	var got int
	for _, c := range chunks {
		require.LessOrEqual(t, len(c), 2)
		got += len(c)
	}
	require.Equal(t, 5, got)
}

func TestStreamSplitPolicyForcesNewChunk(t *testing.T) {
	rows := make(chan Row, 3)
	rows <- rowOf(1)
	rows <- rowOf(1) // duplicate key, must start a new chunk
	rows <- rowOf(2)
	close(rows)

	seen := map[int64]bool{}
	split := func(r Row) bool {
		n, _ := r[0].AsInt()
		if seen[n] {
			return true
		}
		seen[n] = true
		return false
	}

	var mu sync.Mutex
	var chunkSizes []int

	exec := func(_ context.Context, c []Row) (int64, error) {
		mu.Lock()
		chunkSizes = append(chunkSizes, len(c))
		mu.Unlock()
		return int64(len(c)), nil
	}

	total, err := Stream(context.Background(), rows, exec, Options{ChunkSize: 10, Split: split})
	require.NoError(t, err)
	require.Equal(t, uint64(3), total)
	require.Equal(t, []int{1, 2}, chunkSizes)
}

func TestStreamPropagatesExecError(t *testing.T) {
	rows := make(chan Row, 1)
	rows <- rowOf(1)
	close(rows)

	exec := func(_ context.Context, _ []Row) (int64, error) {
		return 0, context.Canceled
	}

	_, err := Stream(context.Background(), rows, exec, Options{ChunkSize: 1})
	require.Error(t, err)
}

func TestStreamAbortsOnProducerStall(t *testing.T) {
	rows := make(chan Row) // never sent to, never closed

	exec := func(_ context.Context, c []Row) (int64, error) {
		return int64(len(c)), nil
	}

	start := time.Now()
	_, err := Stream(context.Background(), rows, exec, Options{ChunkSize: 10, StallTimeout: 20 * time.Millisecond})
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestCounterAdd(t *testing.T) {
	var c Counter
	c.Add(3)
	c.Add(4)
	require.Equal(t, uint64(7), c.Total())
}
