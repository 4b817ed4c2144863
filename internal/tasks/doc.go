// Package tasks orchestrates concurrent poster scrape-and-upload batches with real-time progress reporting.
//
// # Core Operation
//
// [PosterEngine.ProcessBatch] runs one batch over a list of source URLs:
//   - Submits one task per URL to a bounded worker pool (MaxWorkers slots)
//   - Each task fetches poster descriptors via [Fetcher], then pushes each
//     descriptor through [Uploader]
//   - Per-task failures are captured on [TaskResult]; the batch always proceeds
//   - Returns a [BatchSummary] with final counters and per-task outcomes
//
// # Progress Reporting
//
// Updates flow through a caller-owned channel of [ProgressUpdate].
// Completion snapshots (one per finished task, in completion order) are never
// dropped; informational status messages use a non-blocking send so display
// can never stall the pipeline. A [Snapshot] carries the aggregated counters
// after each completion.
//
// # Cancellation
//
// [CancelToken] is a shared atomic flag. Once set, queued tasks are dropped
// without ever invoking the fetcher; tasks already running finish naturally.
// Task bodies also poll the token between uploads, so a long set stops at the
// next descriptor boundary.
//
// # Rate Limiting
//
// Scrape requests across all workers share one golang.org/x/time/rate limiter
// so concurrent workers cannot hammer the poster sites.
package tasks
