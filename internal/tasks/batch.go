package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	"golang.org/x/time/rate"
)

// urlTask is the unit of work handed to a pool worker: one source URL plus
// its position in submission order.
type urlTask struct {
	url   string
	index int
}

// ProcessBatch scrapes and uploads posters for multiple URLs concurrently.
//
// One task is submitted per URL, preserving input order for attribution; the
// pool is free to complete tasks in whatever order I/O finishes. Exactly one
// completion snapshot is emitted per task that runs, in completion order. A
// fetch or upload failure for one URL never aborts the batch: it is recorded
// on that task's result and the batch proceeds.
//
// Cancellation is cooperative. Once opts.Cancel is set (or ctx is done),
// queued tasks are dropped without ever invoking the fetcher, while tasks
// already running finish naturally and are counted in the summary.
func (e *PosterEngine) ProcessBatch(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	urls []string,
	opts BatchOpts,
) (*BatchSummary, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: no poster source configured", shared.ErrBatchSetup)
	}
	if e.uploader == nil {
		return nil, fmt.Errorf("%w: no uploader configured", shared.ErrBatchSetup)
	}

	if len(urls) == 0 {
		e.sendStatus(progress, nothingToDoUpdate())
		return &BatchSummary{}, nil
	}

	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 3
	}
	if opts.MaxWorkers > 10 {
		opts.MaxWorkers = 10
	}
	if opts.MaxWorkers > len(urls) {
		opts.MaxWorkers = len(urls)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	token := opts.Cancel
	if token == nil {
		token = NewCancelToken()
	}

	tracker := newBatchTracker(len(urls), opts.MaxWorkers)
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan urlTask, len(urls))
	results := make(chan TaskResult, len(urls))

	for i, url := range urls {
		jobs <- urlTask{url: url, index: i}
	}
	close(jobs)

	e.logger.Info("submitted batch", "urls", len(urls), "workers", opts.MaxWorkers)
	e.sendStatus(progress, batchStartUpdate(len(urls), opts.MaxWorkers))

	var wg sync.WaitGroup
	for i := 0; i < opts.MaxWorkers; i++ {
		wg.Add(1)
		go e.batchWorker(ctx, &wg, token, limiter, progress, jobs, results)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single consumer: snapshots are emitted strictly in completion order.
	for res := range results {
		snap := tracker.onComplete(res)

		if res.Err != nil {
			e.logger.Warn("task failed", "url", res.URL, "error", res.Err)
		}

		e.sendSnapshot(progress, taskCompleteUpdate(snap, res))
	}

	cancelled := token.Cancelled() || ctx.Err() != nil
	summary := tracker.summary(cancelled)

	// The terminal update is delivered like a snapshot: consumers key their
	// shutdown on it, so it must not be dropped.
	if cancelled {
		e.sendSnapshot(progress, batchCancelledUpdate(summary))
	} else {
		e.sendSnapshot(progress, batchDoneUpdate(summary))
	}

	e.logger.Info("batch finished",
		"total", summary.Total,
		"completed", summary.Completed,
		"posters", summary.PostersUploaded,
		"cancelled", summary.Cancelled,
	)

	return summary, nil
}

// batchWorker drains the jobs channel, checking for cancellation before
// starting each queued task. Dropped tasks never reach the fetcher and never
// produce a result.
func (e *PosterEngine) batchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	token *CancelToken,
	limiter *rate.Limiter,
	progress chan<- ProgressUpdate,
	jobs <-chan urlTask,
	results chan<- TaskResult,
) {
	defer wg.Done()

	for job := range jobs {
		if token.Cancelled() || ctx.Err() != nil {
			return
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		e.sendStatus(progress, taskStartUpdate(job.url, cap(jobs)))
		results <- e.processURL(ctx, token, job)
	}
}

// processURL scrapes one URL and uploads every poster it yields.
//
// Uploads are best-effort: a failed descriptor is logged and counted, and the
// remaining descriptors in the same task still run. Posters uploaded before a
// failure persist; only the task's counters reflect the error.
func (e *PosterEngine) processURL(ctx context.Context, token *CancelToken, job urlTask) TaskResult {
	result := TaskResult{URL: job.url, Index: job.index}

	e.logger.Info("starting scrape", "url", job.url)

	set, err := e.fetcher.Scrape(ctx, job.url)
	if err != nil {
		result.Err = fmt.Errorf("error processing %s: %w", job.url, err)
		return result
	}

	e.logger.Info("scraped posters",
		"url", job.url,
		"movies", len(set.Movies),
		"shows", len(set.Shows),
		"collections", len(set.Collections),
	)

	for _, poster := range set.All() {
		if token.Cancelled() || ctx.Err() != nil {
			break
		}

		if err := e.uploader.Upload(ctx, job.url, poster); err != nil {
			result.UploadErrors++
			e.logger.Warn("upload failed", "url", job.url, "target", poster.DisplayTitle(), "error", err)
			continue
		}
		result.PosterCount++
	}

	e.logger.Info("completed upload", "url", job.url, "posters", result.PosterCount)
	return result
}
