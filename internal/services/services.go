// package services defines the poster site scrapers and the Plex client.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

// Source defines the interface for poster site scrapers (ThePosterDB, MediUX)
// that resolve a set or user URL into poster descriptors.
type Source interface {
	// Name returns the source site name (e.g. "ThePosterDB", "MediUX")
	Name() string

	// Matches reports whether this source can handle the given URL.
	Matches(url string) bool

	// Scrape fetches the page and extracts all poster descriptors from it.
	Scrape(ctx context.Context, url string) (*models.PosterSet, error)
}

// SourceRegistry resolves URLs to their scraper. It implements the batch
// engine's Fetcher contract.
type SourceRegistry struct {
	sources []Source
	logger  *log.Logger
}

// NewSourceRegistry creates a registry over the given sources. Resolution
// checks sources in registration order.
func NewSourceRegistry(logger *log.Logger, sources ...Source) *SourceRegistry {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &SourceRegistry{sources: sources, logger: logger}
}

// Resolve returns the source that handles the given URL.
func (r *SourceRegistry) Resolve(url string) (Source, error) {
	for _, s := range r.sources {
		if s.Matches(url) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedURL, url)
}

// Scrape resolves the URL to a source and scrapes it.
func (r *SourceRegistry) Scrape(ctx context.Context, url string) (*models.PosterSet, error) {
	source, err := r.Resolve(url)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("scraping", "source", source.Name(), "url", url)
	return source.Scrape(ctx, url)
}

// fetchPage performs a GET request with the scraper's configured headers and
// returns the response body.
func fetchPage(ctx context.Context, client *http.Client, url string, scraper shared.ScraperConfig) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if scraper.UserAgent != "" {
		req.Header.Set("User-Agent", scraper.UserAgent)
	}
	for key, value := range scraper.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", shared.ErrScrapeFailed, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
