// package formatter provides functions to export batch results to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
)

// reportRow is the JSON shape of one processed URL.
type reportRow struct {
	URL          string `json:"url"`
	Posters      int    `json:"posters"`
	UploadErrors int    `json:"upload_errors,omitempty"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// report is the JSON shape of a full batch run.
type report struct {
	GeneratedAt     time.Time   `json:"generated_at"`
	Total           int         `json:"total"`
	Completed       int         `json:"completed"`
	Failed          int         `json:"failed"`
	PostersUploaded int         `json:"posters_uploaded"`
	Cancelled       bool        `json:"cancelled,omitempty"`
	Results         []reportRow `json:"results"`
}

func buildReport(summary *tasks.BatchSummary) report {
	rows := make([]reportRow, 0, len(summary.Results))

	results := make([]tasks.TaskResult, len(summary.Results))
	copy(results, summary.Results)
	// Results arrive in completion order; reports read better in input order.
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	for _, res := range results {
		row := reportRow{
			URL:          res.URL,
			Posters:      res.PosterCount,
			UploadErrors: res.UploadErrors,
			Status:       "ok",
		}
		switch {
		case res.Err != nil:
			row.Status = "failed"
			row.Error = res.Err.Error()
		case res.UploadErrors > 0:
			row.Status = "partial"
		}
		rows = append(rows, row)
	}

	return report{
		GeneratedAt:     time.Now().UTC(),
		Total:           summary.Total,
		Completed:       summary.Completed,
		Failed:          summary.FailedCount(),
		PostersUploaded: summary.PostersUploaded,
		Cancelled:       summary.Cancelled,
		Results:         rows,
	}
}

// ExportToJSON converts a batch summary to an indented JSON report
func ExportToJSON(summary *tasks.BatchSummary) ([]byte, error) {
	data, err := json.MarshalIndent(buildReport(summary), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts a batch summary to CSV format with columns: URL, Posters, UploadErrors, Status, Error
func ExportToCSV(summary *tasks.BatchSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URL", "Posters", "UploadErrors", "Status", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range buildReport(summary).Results {
		record := []string{
			row.URL,
			strconv.Itoa(row.Posters),
			strconv.Itoa(row.UploadErrors),
			row.Status,
			row.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a batch summary to a Markdown report
func ExportToMarkdown(summary *tasks.BatchSummary) ([]byte, error) {
	var buf bytes.Buffer
	rep := buildReport(summary)

	buf.WriteString("# Poster Batch Report\n\n")
	if rep.Cancelled {
		buf.WriteString("**Cancelled before completion.**\n\n")
	}
	buf.WriteString(fmt.Sprintf("**URLs**: %d/%d processed\n", rep.Completed, rep.Total))
	buf.WriteString(fmt.Sprintf("**Posters uploaded**: %d\n", rep.PostersUploaded))
	buf.WriteString(fmt.Sprintf("**Failures**: %d\n\n", rep.Failed))

	buf.WriteString("## Results\n\n")
	buf.WriteString("| URL | Posters | Status |\n")
	buf.WriteString("| --- | ---: | --- |\n")
	for _, row := range rep.Results {
		status := row.Status
		if row.Error != "" {
			status = fmt.Sprintf("%s: %s", row.Status, row.Error)
		}
		buf.WriteString(fmt.Sprintf("| %s | %d | %s |\n", row.URL, row.Posters, status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a batch summary to plain text format
func ExportToText(summary *tasks.BatchSummary) ([]byte, error) {
	var buf bytes.Buffer
	rep := buildReport(summary)

	if rep.Cancelled {
		buf.WriteString("Batch cancelled before completion\n")
	}
	buf.WriteString(fmt.Sprintf("Processed: %d/%d URLs\n", rep.Completed, rep.Total))
	buf.WriteString(fmt.Sprintf("Posters uploaded: %d\n\n", rep.PostersUploaded))

	for i, row := range rep.Results {
		line := fmt.Sprintf("%d. %s - %d poster(s)", i+1, row.URL, row.Posters)
		if row.Error != "" {
			line += fmt.Sprintf(" [%s]", row.Error)
		} else if row.UploadErrors > 0 {
			line += fmt.Sprintf(" [%d upload error(s)]", row.UploadErrors)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteReport writes a batch report to the given path, choosing the format
// from the file extension (.json, .csv, .md; anything else is plain text).
func WriteReport(summary *tasks.BatchSummary, path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = ExportToJSON(summary)
	case ".csv":
		data, err = ExportToCSV(summary)
	case ".md":
		data, err = ExportToMarkdown(summary)
	default:
		data, err = ExportToText(summary)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
