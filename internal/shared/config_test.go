package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Plex.BaseURL != "http://localhost:32400" {
			t.Errorf("expected plex base URL http://localhost:32400, got %s", config.Plex.BaseURL)
		}

		if config.Batch.MaxWorkers != 3 {
			t.Errorf("expected 3 max workers, got %d", config.Batch.MaxWorkers)
		}

		if config.Database.Path != "./posters.db" {
			t.Errorf("expected database path ./posters.db, got %s", config.Database.Path)
		}

		if len(config.Plex.TVLibraries) != 2 {
			t.Errorf("expected 2 default TV libraries, got %d", len(config.Plex.TVLibraries))
		}

		if len(config.Mediux.Filters) == 0 {
			t.Error("expected default mediux filters")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[plex]
base_url = "http://plex.local:32400"
token = "abc123"
tv_libraries = ["TV Shows"]
movie_libraries = ["Movies", "4K Movies"]

[batch]
max_workers = 5

[title_mappings]
"The Office (US)" = "The Office"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Plex.Token != "abc123" {
			t.Errorf("expected token abc123, got %s", config.Plex.Token)
		}
		if config.Batch.MaxWorkers != 5 {
			t.Errorf("expected 5 max workers, got %d", config.Batch.MaxWorkers)
		}
		if len(config.Plex.MovieLibraries) != 2 {
			t.Errorf("expected 2 movie libraries, got %d", len(config.Plex.MovieLibraries))
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Plex.Token = "saved-token"
		config.TitleMappings = map[string]string{"Poster Title": "Plex Title"}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Plex.Token != "saved-token" {
			t.Errorf("expected saved token, got %s", loaded.Plex.Token)
		}
		if loaded.TitleMappings["Poster Title"] != "Plex Title" {
			t.Errorf("title mappings did not survive round trip: %v", loaded.TitleMappings)
		}
	})
}

func TestMappedTitle(t *testing.T) {
	config := &Config{
		TitleMappings: map[string]string{
			"The Office (US)": "The Office",
			"Dr. Stone":       "Dr. STONE",
		},
	}

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "exact match", title: "The Office (US)", want: "The Office"},
		{name: "case insensitive match", title: "the office (us)", want: "The Office"},
		{name: "whitespace normalized match", title: "  Dr.   Stone ", want: "Dr. STONE"},
		{name: "unmapped title passes through", title: "Breaking Bad", want: "Breaking Bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := config.MappedTitle(tt.title); got != tt.want {
				t.Errorf("MappedTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}

	t.Run("nil mappings", func(t *testing.T) {
		empty := &Config{}
		if got := empty.MappedTitle("Anything"); got != "Anything" {
			t.Errorf("expected passthrough with no mappings, got %q", got)
		}
	})
}
