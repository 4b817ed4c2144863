package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Plex          PlexConfig        `toml:"plex"`
	Scraper       ScraperConfig     `toml:"scraper"`
	Mediux        MediuxConfig      `toml:"mediux"`
	Batch         BatchConfig       `toml:"batch"`
	Database      DatabaseConfig    `toml:"database"`
	Logging       LoggingConfig     `toml:"logging"`
	TitleMappings map[string]string `toml:"title_mappings"`
}

// PlexConfig contains Plex server connection settings.
type PlexConfig struct {
	BaseURL        string   `toml:"base_url"`
	Token          string   `toml:"token"`
	TVLibraries    []string `toml:"tv_libraries"`
	MovieLibraries []string `toml:"movie_libraries"`
	Label          string   `toml:"label"`
}

// ScraperConfig contains poster site request settings.
//
// RequestsPerSecond throttles outbound scrape requests across all workers.
// Headers are sent verbatim with every scrape request; use `setup headers`
// to populate them from a browser "Copy as cURL" command.
type ScraperConfig struct {
	RequestsPerSecond float64           `toml:"requests_per_second"`
	UserAgent         string            `toml:"user_agent"`
	Headers           map[string]string `toml:"headers"`
}

// MediuxConfig contains MediUX-specific scrape settings.
type MediuxConfig struct {
	Filters []string `toml:"filters"`
}

// BatchConfig contains URL batch processing settings.
type BatchConfig struct {
	MaxWorkers int      `toml:"max_workers"`
	BulkFiles  []string `toml:"bulk_files"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoggingConfig contains log file settings.
type LoggingConfig struct {
	File   string `toml:"file"`
	Append bool   `toml:"append"`
	Level  string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to the specified path as TOML.
//
// Used by the mappings and auth commands, which mutate config at runtime.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MappedTitle resolves a scraped poster title through the configured
// title mapping overrides. Lookups are normalized; unmapped titles are
// returned unchanged.
func (c *Config) MappedTitle(title string) string {
	if len(c.TitleMappings) == 0 {
		return title
	}

	if mapped, ok := c.TitleMappings[title]; ok {
		return mapped
	}

	normalized := NormalizeTitle(title)
	for original, mapped := range c.TitleMappings {
		if NormalizeTitle(original) == normalized {
			return mapped
		}
	}

	return title
}
