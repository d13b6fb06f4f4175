package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 50

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000

	// DefaultWorkers is the default number of batches evaluated at once.
	DefaultWorkers = 4
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// BatchCallback processes one batch. offset is the index of batch[0] in the
// full item slice.
//
//nolint:revive // BatchCallback is the canonical name for this exported type.
type BatchCallback[T any] func(ctx context.Context, batch []T, offset int) error

// ProgressCallback is invoked after each batch completes. It may be called
// from several goroutines at once.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor splits items into fixed-size batches and runs them on a bounded
// number of goroutines.
type Processor[T any] struct {
	batchSize  int
	workers    int
	onProgress ProgressCallback
}

// NewProcessor creates a processor. workers below 1 means 1.
func NewProcessor[T any](batchSize, workers int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if workers < 1 {
		workers = 1
	}
	return &Processor[T]{batchSize: batchSize, workers: workers}, nil
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int { return p.batchSize }

// Workers returns the configured concurrency limit.
func (p *Processor[T]) Workers() int { return p.workers }

// Process runs callback over every batch. The first error cancels the
// context passed to the remaining batches and is returned. An empty item
// slice is a no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback BatchCallback[T]) error {
	if callback == nil {
		return ErrNilCallback
	}
	if len(items) == 0 {
		return nil
	}

	bounds := p.Batches(len(items))
	progress := NewProgress(len(items), len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, b := range bounds {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := callback(gctx, items[b[0]:b[1]], b[0]); err != nil {
				return fmt.Errorf("batch at %d failed: %w", b[0], err)
			}
			snap := progress.Add(b[1] - b[0])
			if p.onProgress != nil {
				p.onProgress(snap)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Batches returns the [start, end) bounds of each batch for n items.
func (p *Processor[T]) Batches(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	out := make([][2]int, 0, (n+p.batchSize-1)/p.batchSize)
	for start := 0; start < n; start += p.batchSize {
		out = append(out, [2]int{start, min(start+p.batchSize, n)})
	}
	return out
}

// Map applies fn to every item using p and returns the results in input
// order.
func Map[T, R any](
	ctx context.Context,
	p *Processor[T],
	items []T,
	fn func(ctx context.Context, index int, item T) (R, error),
) ([]R, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	out := make([]R, len(items))
	err := p.Process(ctx, items, func(ctx context.Context, batch []T, offset int) error {
		for i, item := range batch {
			r, err := fn(ctx, offset+i, item)
			if err != nil {
				return err
			}
			out[offset+i] = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
