package tasks

import "sync"

// Snapshot is an immutable progress report describing batch state after one
// task completion. Exactly one snapshot is produced per completed task.
type Snapshot struct {
	Completed       int    // Tasks resolved so far (monotonic, 0..Total)
	Total           int    // Tasks in the batch
	PostersUploaded int    // Running poster upload count across all tasks
	ActiveWorkers   int    // min(Total-Completed, maxWorkers); display estimate only
	URL             string // URL of the task that just completed
}

// batchTracker aggregates per-task completion events into batch counters.
//
// Counters are guarded by a mutex because workers complete concurrently and
// race to record results. Completed and PostersUploaded are monotonically
// non-decreasing for the lifetime of a batch.
type batchTracker struct {
	mu sync.Mutex

	total      int
	maxWorkers int

	completed       int
	postersUploaded int
	results         []TaskResult
}

func newBatchTracker(total, maxWorkers int) *batchTracker {
	return &batchTracker{
		total:      total,
		maxWorkers: maxWorkers,
		results:    make([]TaskResult, 0, total),
	}
}

// onComplete records one task result and returns the resulting snapshot.
func (t *batchTracker) onComplete(res TaskResult) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++
	t.postersUploaded += res.PosterCount
	t.results = append(t.results, res)

	active := t.total - t.completed
	if active > t.maxWorkers {
		active = t.maxWorkers
	}

	return Snapshot{
		Completed:       t.completed,
		Total:           t.total,
		PostersUploaded: t.postersUploaded,
		ActiveWorkers:   active,
		URL:             res.URL,
	}
}

// summary freezes the tracker into the batch's final state.
func (t *batchTracker) summary(cancelled bool) *BatchSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	results := make([]TaskResult, len(t.results))
	copy(results, t.results)

	return &BatchSummary{
		Total:           t.total,
		Completed:       t.completed,
		PostersUploaded: t.postersUploaded,
		Cancelled:       cancelled,
		Results:         results,
	}
}
