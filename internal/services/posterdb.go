package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

const posterDBSourceName = "ThePosterDB"

// Poster cards on theposterdb set and user pages carry the asset link, the
// media kind and the display title in adjacent markup. The overlay div holds
// the asset id, the sibling paragraphs hold the kind ("Movie", "Show",
// "Collection") and the title text.
var (
	posterDBCardRe = regexp.MustCompile(`(?s)<div class="overlay[^"]*"[^>]*data-poster-id="(\d+)"[^>]*>.*?<p class="text-break[^"]*"[^>]*>\s*([^<]+?)\s*</p>.*?<p[^>]*id="poster_name"[^>]*>\s*([^<]+?)\s*</p>`)
	posterDBYearRe = regexp.MustCompile(`^(.*)\s+\((\d{4})\)$`)
)

// PosterDBSource scrapes theposterdb.com set and user pages.
type PosterDBSource struct {
	client  *http.Client
	scraper shared.ScraperConfig
	logger  *log.Logger
}

// NewPosterDBSource creates a scraper for theposterdb.com. A nil client
// falls back to a default with a 30 second timeout.
func NewPosterDBSource(client *http.Client, scraper shared.ScraperConfig, logger *log.Logger) *PosterDBSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PosterDBSource{client: client, scraper: scraper, logger: logger}
}

func (s *PosterDBSource) Name() string {
	return posterDBSourceName
}

func (s *PosterDBSource) Matches(url string) bool {
	return strings.Contains(url, "theposterdb.com")
}

// Scrape fetches a set, poster or user page and extracts every poster card.
// Poster pages redirect to the set they belong to, so all three URL shapes
// resolve through the same parser.
func (s *PosterDBSource) Scrape(ctx context.Context, url string) (*models.PosterSet, error) {
	body, err := fetchPage(ctx, s.client, url, s.scraper)
	if err != nil {
		return nil, err
	}

	set := s.parsePage(url, string(body))
	if set.Total() == 0 {
		return nil, fmt.Errorf("%w: no posters found at %s", shared.ErrScrapeFailed, url)
	}

	s.logger.Debug("parsed poster page",
		"url", url,
		"movies", len(set.Movies),
		"shows", len(set.Shows),
		"collections", len(set.Collections))

	return set, nil
}

func (s *PosterDBSource) parsePage(url, page string) *models.PosterSet {
	set := &models.PosterSet{}

	for _, match := range posterDBCardRe.FindAllStringSubmatch(page, -1) {
		assetID, kind, rawTitle := match[1], strings.TrimSpace(match[2]), strings.TrimSpace(match[3])

		poster := models.Poster{
			Source: posterDBSourceName,
			URL:    fmt.Sprintf("https://theposterdb.com/api/assets/%s", assetID),
		}

		switch kind {
		case "Movie":
			poster.MediaType = models.MediaTypeMovie
			poster.Title, poster.Year = splitTitleYear(rawTitle)
			set.Movies = append(set.Movies, poster)
		case "Show":
			// Season suffixes follow the year, so strip them first.
			poster.MediaType = models.MediaTypeShow
			poster.Title, poster.Season = splitShowSeason(rawTitle)
			poster.Title, poster.Year = splitTitleYear(poster.Title)
			set.Shows = append(set.Shows, poster)
		case "Collection":
			poster.MediaType = models.MediaTypeCollection
			poster.Title, poster.Year = splitTitleYear(rawTitle)
			set.Collections = append(set.Collections, poster)
		default:
			s.logger.Warn("skipping poster with unknown kind", "kind", kind, "title", rawTitle, "url", url)
		}
	}

	return set
}

// splitTitleYear splits "Title (2008)" into its title and year parts. Titles
// without a trailing year return a zero year.
func splitTitleYear(raw string) (string, int) {
	match := posterDBYearRe.FindStringSubmatch(raw)
	if match == nil {
		return raw, 0
	}
	year, _ := strconv.Atoi(match[2])
	return strings.TrimSpace(match[1]), year
}

// splitShowSeason extracts the season from show poster titles. Set pages
// label season covers "Title - Season N" and the specials cover
// "Title - Specials"; a bare title is the show cover.
func splitShowSeason(title string) (string, int) {
	base, suffix, found := strings.Cut(title, " - ")
	if !found {
		return title, models.SeasonShowCover
	}

	suffix = strings.TrimSpace(suffix)
	if suffix == "Specials" {
		return strings.TrimSpace(base), 0
	}
	if rest, ok := strings.CutPrefix(suffix, "Season "); ok {
		if season, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			return strings.TrimSpace(base), season
		}
	}

	return title, models.SeasonShowCover
}
