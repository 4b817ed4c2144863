package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

const mediuxSourceName = "MediUX"

// MediUX set pages embed the full set payload as JSON in a script tag
// rather than rendering poster cards server side.
var mediuxDataRe = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

// mediuxPage mirrors the slice of the embedded payload we care about.
type mediuxPage struct {
	Props struct {
		PageProps struct {
			Set mediuxSet `json:"set"`
		} `json:"pageProps"`
	} `json:"props"`
}

type mediuxSet struct {
	Name  string       `json:"set_name"`
	Files []mediuxFile `json:"files"`
}

type mediuxFile struct {
	ID        string `json:"id"`
	FileType  string `json:"fileType"`
	MediaType string `json:"mediaType"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
}

// MediuxSource scrapes mediux.pro set pages.
type MediuxSource struct {
	client  *http.Client
	scraper shared.ScraperConfig
	filters map[string]bool
	logger  *log.Logger
}

// NewMediuxSource creates a scraper for mediux.pro. Only files whose type is
// listed in filters are kept; an empty filter list keeps everything.
func NewMediuxSource(client *http.Client, scraper shared.ScraperConfig, filters []string, logger *log.Logger) *MediuxSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	keep := make(map[string]bool, len(filters))
	for _, f := range filters {
		keep[f] = true
	}

	return &MediuxSource{client: client, scraper: scraper, filters: keep, logger: logger}
}

func (s *MediuxSource) Name() string {
	return mediuxSourceName
}

func (s *MediuxSource) Matches(url string) bool {
	return strings.Contains(url, "mediux.pro")
}

// Scrape fetches a set page, decodes the embedded JSON payload and converts
// the set's files into poster descriptors.
func (s *MediuxSource) Scrape(ctx context.Context, url string) (*models.PosterSet, error) {
	body, err := fetchPage(ctx, s.client, url, s.scraper)
	if err != nil {
		return nil, err
	}

	match := mediuxDataRe.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: no embedded set data at %s", shared.ErrScrapeFailed, url)
	}

	var page mediuxPage
	if err := json.Unmarshal(match[1], &page); err != nil {
		return nil, fmt.Errorf("%w: malformed set data at %s: %v", shared.ErrScrapeFailed, url, err)
	}

	set := s.convert(page.Props.PageProps.Set)
	if set.Total() == 0 {
		return nil, fmt.Errorf("%w: no posters found at %s", shared.ErrScrapeFailed, url)
	}

	s.logger.Debug("parsed set",
		"set", page.Props.PageProps.Set.Name,
		"url", url,
		"movies", len(set.Movies),
		"shows", len(set.Shows),
		"collections", len(set.Collections))

	return set, nil
}

func (s *MediuxSource) convert(raw mediuxSet) *models.PosterSet {
	set := &models.PosterSet{}

	for _, file := range raw.Files {
		if len(s.filters) > 0 && !s.filters[file.FileType] {
			continue
		}

		poster := models.Poster{
			Source: mediuxSourceName,
			Title:  file.Title,
			Year:   file.Year,
			URL:    fmt.Sprintf("https://api.mediux.pro/assets/%s", file.ID),
		}

		switch file.FileType {
		case "show_cover":
			poster.MediaType = models.MediaTypeShow
			poster.Season = models.SeasonShowCover
			set.Shows = append(set.Shows, poster)
		case "season_cover":
			poster.MediaType = models.MediaTypeShow
			poster.Season = file.Season
			set.Shows = append(set.Shows, poster)
		case "title_card":
			poster.MediaType = models.MediaTypeShow
			poster.Season = file.Season
			poster.Episode = file.Episode
			set.Shows = append(set.Shows, poster)
		case "movie_poster":
			poster.MediaType = models.MediaTypeMovie
			set.Movies = append(set.Movies, poster)
		case "collection_poster":
			poster.MediaType = models.MediaTypeCollection
			set.Collections = append(set.Collections, poster)
		case "background":
			// Plex stores backgrounds as art rather than posters.
			poster.Art = true
			if file.MediaType == "movie" {
				poster.MediaType = models.MediaTypeMovie
				set.Movies = append(set.Movies, poster)
			} else {
				poster.MediaType = models.MediaTypeShow
				poster.Season = models.SeasonShowCover
				set.Shows = append(set.Shows, poster)
			}
		default:
			s.logger.Warn("skipping file with unknown type", "fileType", file.FileType, "title", file.Title)
		}
	}

	return set
}
