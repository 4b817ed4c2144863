package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tonywied17/plex-poster-set-helper/internal/services"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	tu "github.com/tonywied17/plex-poster-set-helper/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			plex := services.NewPlexService(config.Plex, httpClient, logger)
			registry := services.NewSourceRegistry(logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Plex:       plex,
				Registry:   registry,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.plex != plex {
				t.Error("expected plex to be set")
			}
			if runner.registry != registry {
				t.Error("expected registry to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("builds default services", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.plex == nil {
				t.Error("expected default plex service")
			}
			if runner.registry == nil {
				t.Error("expected default source registry")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"posters": 3}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := output.String(); got != "{\"posters\":3}\n" {
			t.Errorf("unexpected output: %q", got)
		}

		output.Reset()
		if err := runner.writeJSON(map[string]int{"posters": 3}, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "  \"posters\": 3") {
			t.Errorf("expected pretty output, got %q", output.String())
		}
	})

	t.Run("writeJSON write errors", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := runner.writeJSON(map[string]int{"posters": 3}, false); err == nil {
			t.Error("expected error from failing writer")
		}

		// First write (the payload) succeeds, the trailing newline fails.
		limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
		runner = NewRunner(RunnerOpts{Output: &limited})
		if err := runner.writeJSON(map[string]int{"posters": 3}, false); err == nil {
			t.Error("expected error when the newline write fails")
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("uploaded %d\n", 7); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "uploaded 7\n" {
			t.Errorf("unexpected output: %q", output.String())
		}

		if err := (&Runner{output: &tu.FWriter{}}).writePlain("x"); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestReadBulkFile(t *testing.T) {
	t.Run("skips blanks and comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bulk_import.txt")
		content := "# poster sets\nhttps://theposterdb.com/set/1\n\n  https://mediux.pro/sets/2  \n# done\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write bulk file: %v", err)
		}

		urls, err := readBulkFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{"https://theposterdb.com/set/1", "https://mediux.pro/sets/2"}
		if len(urls) != len(want) {
			t.Fatalf("expected %d urls, got %d", len(want), len(urls))
		}
		for i := range want {
			if urls[i] != want[i] {
				t.Errorf("expected %q, got %q", want[i], urls[i])
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := readBulkFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
