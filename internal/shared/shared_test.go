package shared

import (
	"os"
	"path/filepath"
	"testing"

	tu "github.com/tonywied17/plex-poster-set-helper/internal/testing"
)

func TestNormalizeTitle(t *testing.T) {
	tc := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "basic normalization",
			title: "Show Title",
			want:  "show title",
		},
		{
			name:  "extra whitespace",
			title: "  Show   Title  ",
			want:  "show title",
		},
		{
			name:  "mixed case",
			title: "ShOw TiTlE",
			want:  "show title",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTitle(tt.title)
			if got != tt.want {
				t.Errorf("NormalizeTitle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Errorf("expected unique IDs, got %s twice", a)
	}
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "logs", "debug.log")

		logger, err := NewFileLogger(path, true)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		logger.Info("hello")
		tu.AssertDirExists(t, filepath.Dir(path))
		tu.AssertFileExists(t, path)
	})

	t.Run("truncates when append disabled", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "debug.log")

		if err := os.WriteFile(path, []byte("previous run\n"), 0644); err != nil {
			t.Fatalf("failed to seed log file: %v", err)
		}

		if _, err := NewFileLogger(path, false); err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if len(content) != 0 {
			t.Errorf("expected truncated log file, got %q", content)
		}
	})
}
