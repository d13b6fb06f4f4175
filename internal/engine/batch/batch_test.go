package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessor(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		workers   int
		wantErr   bool
		wantWork  int
	}{
		{"valid", 10, 3, false, 3},
		{"min_size", MinBatchSize, 1, false, 1},
		{"max_size", MaxBatchSize, 1, false, 1},
		{"zero_workers_clamped", 5, 0, false, 1},
		{"zero_size", 0, 1, true, 0},
		{"too_large", MaxBatchSize + 1, 1, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProcessor[int](tt.batchSize, tt.workers)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidBatchSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.batchSize, p.BatchSize())
			assert.Equal(t, tt.wantWork, p.Workers())
		})
	}

}

func TestProcessor_Batches(t *testing.T) {
	p, err := NewProcessor[int](10, 1)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{0, 10}, {10, 20}, {20, 25}}, p.Batches(25))
	assert.Equal(t, [][2]int{{0, 10}}, p.Batches(10))
	assert.Nil(t, p.Batches(0))
}

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	p, err := NewProcessor[int](5, 3)
	require.NoError(t, err)

	var processed atomic.Int32
	var mu sync.Mutex
	var last ProgressSnapshot
	p.WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		if s.ProcessedBatches > last.ProcessedBatches {
			last = s
		}
	})

	err = p.Process(context.Background(), items, func(_ context.Context, batch []int, offset int) error {
		assert.Equal(t, offset, batch[0])
		processed.Add(int32(len(batch)))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(25), processed.Load())
	assert.Equal(t, 5, last.ProcessedBatches)
	assert.True(t, last.IsComplete())
	assert.InDelta(t, 100.0, last.PercentComplete(), 1e-9)
}

func TestProcessor_ProcessEdgeCases(t *testing.T) {
	p, err := NewProcessor[int](DefaultBatchSize, DefaultWorkers)
	require.NoError(t, err)

	require.ErrorIs(t, p.Process(context.Background(), []int{1}, nil), ErrNilCallback)
	require.NoError(t, p.Process(context.Background(), nil, func(context.Context, []int, int) error {
		t.Fatal("callback must not run for empty input")
		return nil
	}))
}

func TestProcessor_ErrorStopsRemaining(t *testing.T) {
	items := make([]int, 100)
	p, err := NewProcessor[int](1, 1)
	require.NoError(t, err)

	var calls atomic.Int32
	boom := errors.New("boom")
	err = p.Process(context.Background(), items, func(_ context.Context, _ []int, offset int) error {
		calls.Add(1)
		if offset == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "batch at 2")
	assert.Less(t, calls.Load(), int32(100))
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := NewProcessor[int](DefaultBatchSize, DefaultWorkers)
	require.NoError(t, err)
	err = p.Process(ctx, []int{1, 2, 3}, func(context.Context, []int, int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestMap_PreservesOrder(t *testing.T) {
	items := make([]int, 37)
	for i := range items {
		items[i] = i
	}
	p, err := NewProcessor[int](4, 8)
	require.NoError(t, err)

	out, err := Map(context.Background(), p, items, func(_ context.Context, i, v int) (int, error) {
		return v * v, nil
	})
	require.NoError(t, err)
	require.Len(t, out, len(items))
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}

	_, err = Map[int, int](context.Background(), p, items, nil)
	require.ErrorIs(t, err, ErrNilCallback)

	_, err = Map(context.Background(), p, items, func(_ context.Context, i, _ int) (int, error) {
		if i == 20 {
			return 0, errors.New("bad item")
		}
		return i, nil
	})
	require.Error(t, err)
}

func TestProgress(t *testing.T) {
	pr := NewProgress(0, 0)
	assert.Zero(t, pr.Snapshot().PercentComplete())
	assert.True(t, pr.Snapshot().IsComplete())

	pr = NewProgress(10, 2)
	s := pr.Add(4)
	assert.InDelta(t, 40.0, s.PercentComplete(), 1e-9)
	assert.False(t, s.IsComplete())
	assert.Equal(t, 1, s.ProcessedBatches)
}
