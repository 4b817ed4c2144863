package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

// Fetcher resolves a source URL into a set of poster descriptors.
//
// Implemented by services.SourceRegistry; fakes implement it in tests.
type Fetcher interface {
	Scrape(ctx context.Context, url string) (*models.PosterSet, error)
}

// Uploader matches one poster descriptor to a library item and pushes the
// image. sourceURL identifies the originating set for upload history.
type Uploader interface {
	Upload(ctx context.Context, sourceURL string, poster models.Poster) error
}

// TaskResult is the outcome of processing one source URL.
//
// Err is set when the fetch itself failed; in that case PosterCount is zero.
// Upload failures inside a task do not set Err: uploads are best-effort per
// descriptor, with failures counted in UploadErrors. Posters uploaded before
// a later failure are never rolled back.
type TaskResult struct {
	URL          string // Source URL
	Index        int    // Position in submission order
	PosterCount  int    // Posters successfully uploaded
	UploadErrors int    // Descriptors whose upload failed
	Err          error  // Fetch error, nil on success
}

// BatchSummary reflects the final state of one batch run.
type BatchSummary struct {
	Total           int          // URLs submitted
	Completed       int          // Tasks that ran to completion (<= Total when cancelled)
	PostersUploaded int          // Sum of PosterCount across completed tasks
	Cancelled       bool         // Whether cancellation was requested during the run
	Results         []TaskResult // Per-task outcomes in completion order
}

// FailedCount returns the number of completed tasks that recorded a fetch error.
func (s *BatchSummary) FailedCount() int {
	n := 0
	for _, res := range s.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// BatchOpts contains configuration for one batch run.
type BatchOpts struct {
	MaxWorkers int          // Concurrent workers (default 3, capped at 10)
	RateLimit  float64      // Scrape requests per second across all workers (default 2)
	Cancel     *CancelToken // Optional external cancellation control
}

// PosterEngine orchestrates scrape-then-upload batches.
//
// The engine holds no global state: the logger and both collaborators are
// injected, and each ProcessBatch call owns its batch state exclusively.
type PosterEngine struct {
	fetcher  Fetcher
	uploader Uploader
	logger   *log.Logger
}

// NewPosterEngine creates a PosterEngine with the provided collaborators.
// A nil logger discards engine logs.
func NewPosterEngine(fetcher Fetcher, uploader Uploader, logger *log.Logger) *PosterEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PosterEngine{
		fetcher:  fetcher,
		uploader: uploader,
		logger:   logger,
	}
}

// sendStatus sends an informational update through the channel without blocking.
// Uses select with default so status reporting never stalls batch execution.
func (e *PosterEngine) sendStatus(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// sendSnapshot delivers a completion snapshot. Unlike status messages,
// completion snapshots are never dropped: one is emitted per completed task.
func (e *PosterEngine) sendSnapshot(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	progress <- update
}
