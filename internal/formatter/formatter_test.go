package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tonywied17/plex-poster-set-helper/internal/tasks"
	tu "github.com/tonywied17/plex-poster-set-helper/internal/testing"
)

func sampleSummary() *tasks.BatchSummary {
	return &tasks.BatchSummary{
		Total:           3,
		Completed:       3,
		PostersUploaded: 7,
		Results: []tasks.TaskResult{
			{URL: "https://theposterdb.com/set/2", Index: 1, PosterCount: 0, Err: errors.New("fetch failed")},
			{URL: "https://theposterdb.com/set/1", Index: 0, PosterCount: 4},
			{URL: "https://mediux.pro/sets/3", Index: 2, PosterCount: 3, UploadErrors: 1},
		},
	}
}

func TestExportToJSON(t *testing.T) {
	data, err := ExportToJSON(sampleSummary())
	if err != nil {
		t.Fatalf("failed to export JSON: %v", err)
	}

	var rep struct {
		Total   int `json:"total"`
		Failed  int `json:"failed"`
		Results []struct {
			URL    string `json:"url"`
			Status string `json:"status"`
		} `json:"results"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}

	if rep.Total != 3 || rep.Failed != 1 {
		t.Errorf("unexpected totals: %+v", rep)
	}

	// Rows come back in input order regardless of completion order
	if rep.Results[0].URL != "https://theposterdb.com/set/1" {
		t.Errorf("expected input ordering, got %s first", rep.Results[0].URL)
	}
	if rep.Results[1].Status != "failed" {
		t.Errorf("expected failed status, got %s", rep.Results[1].Status)
	}
	if rep.Results[2].Status != "partial" {
		t.Errorf("expected partial status, got %s", rep.Results[2].Status)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleSummary())
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if records[0][0] != "URL" {
		t.Errorf("unexpected header row: %v", records[0])
	}
	if records[2][3] != "failed" || records[2][4] != "fetch failed" {
		t.Errorf("unexpected failure row: %v", records[2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	summary := sampleSummary()
	summary.Cancelled = true

	data, err := ExportToMarkdown(summary)
	if err != nil {
		t.Fatalf("failed to export Markdown: %v", err)
	}

	text := string(data)
	for _, want := range []string{
		"# Poster Batch Report",
		"Cancelled before completion",
		"**Posters uploaded**: 7",
		"| https://mediux.pro/sets/3 | 3 | partial |",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleSummary())
	if err != nil {
		t.Fatalf("failed to export text: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Processed: 3/3 URLs") {
		t.Errorf("missing totals in %q", text)
	}
	if !strings.Contains(text, "[fetch failed]") {
		t.Errorf("missing failure note in %q", text)
	}
	if !strings.Contains(text, "[1 upload error(s)]") {
		t.Errorf("missing upload error note in %q", text)
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		want string
	}{
		{"report.json", "\"posters_uploaded\": 7"},
		{"report.csv", "URL,Posters,UploadErrors,Status,Error"},
		{"report.md", "# Poster Batch Report"},
		{"report.txt", "Processed: 3/3 URLs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := WriteReport(sampleSummary(), path); err != nil {
				t.Fatalf("failed to write report: %v", err)
			}

			if content := tu.MustReadFile(t, path); !strings.Contains(content, tc.want) {
				t.Errorf("expected %s to contain %q", tc.name, tc.want)
			}
		})
	}
}
