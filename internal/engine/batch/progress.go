package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks completed items and batches. It is safe for concurrent use.
type Progress struct {
	mu               sync.Mutex
	totalItems       int
	processedItems   int
	totalBatches     int
	processedBatches int
	startTime        time.Time
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches int) *Progress {
	return &Progress{
		totalItems:   totalItems,
		totalBatches: totalBatches,
		startTime:    time.Now(),
	}
}

// Add records one finished batch of n items and returns the new state.
func (p *Progress) Add(n int) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedItems += n
	p.processedBatches++
	return p.snapshotLocked()
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	return ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		Elapsed:          time.Since(p.startTime),
	}
}

// ProgressSnapshot is an immutable view of progress.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	Elapsed          time.Duration
}

// PercentComplete returns the completion percentage (0-100).
func (s ProgressSnapshot) PercentComplete() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.ProcessedItems) / float64(s.TotalItems) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}
