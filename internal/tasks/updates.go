package tasks

import "fmt"

// Severity classifies status messages for display purposes.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// ProgressUpdate represents a progress event during a batch run.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Phase         Phase    // Operation phase
	Step          int      // Completed task count at emission time
	Total         int      // Total tasks in the batch
	URL           string   // Source URL the update refers to (may be empty)
	ActiveWorkers int      // Estimate of workers still busy
	Severity      Severity // Display severity
	Message       string   // Human-readable message for display
	Data          any      // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	BatchStart Phase = iota
	TaskStart
	TaskComplete
	TaskFailed
	BatchDone
	BatchCancelled
)

func (p Phase) String() string {
	switch p {
	case BatchStart:
		return "batch_start"
	case TaskStart:
		return "task_start"
	case TaskComplete:
		return "task_complete"
	case TaskFailed:
		return "task_failed"
	case BatchDone:
		return "batch_done"
	case BatchCancelled:
		return "batch_cancelled"
	default:
		return ""
	}
}

func batchStartUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:         BatchStart,
		Total:         total,
		ActiveWorkers: workers,
		Message:       fmt.Sprintf("Scraping %d URL(s) with %d worker(s)...", total, workers),
	}
}

func nothingToDoUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchDone,
		Message: "Nothing to do: no URLs supplied",
	}
}

func taskStartUpdate(url string, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TaskStart,
		Total:   total,
		URL:     url,
		Message: fmt.Sprintf("Processing %s...", url),
	}
}

func taskCompleteUpdate(snap Snapshot, res TaskResult) ProgressUpdate {
	phase := TaskComplete
	severity := SeverityInfo
	message := fmt.Sprintf("[%d/%d] ✓ %s (%d posters)", snap.Completed, snap.Total, res.URL, res.PosterCount)

	switch {
	case res.Err != nil:
		phase = TaskFailed
		severity = SeverityError
		message = fmt.Sprintf("[%d/%d] ✗ %s: %v", snap.Completed, snap.Total, res.URL, res.Err)
	case res.UploadErrors > 0:
		severity = SeverityWarning
		message = fmt.Sprintf("[%d/%d] ⚠ %s (%d posters, %d failed)", snap.Completed, snap.Total, res.URL, res.PosterCount, res.UploadErrors)
	}

	return ProgressUpdate{
		Phase:         phase,
		Step:          snap.Completed,
		Total:         snap.Total,
		URL:           res.URL,
		ActiveWorkers: snap.ActiveWorkers,
		Severity:      severity,
		Message:       message,
		Data:          snap,
	}
}

func batchDoneUpdate(summary *BatchSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BatchDone,
		Step:    summary.Completed,
		Total:   summary.Total,
		Message: fmt.Sprintf("✓ Processed %d URL(s) - Uploaded %d posters!", summary.Total, summary.PostersUploaded),
		Data:    summary,
	}
}

func batchCancelledUpdate(summary *BatchSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:    BatchCancelled,
		Step:     summary.Completed,
		Total:    summary.Total,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Operation cancelled. Processed %d/%d URLs.", summary.Completed, summary.Total),
		Data:     summary,
	}
}
