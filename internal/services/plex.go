package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

// PlexLibrary is one library section on the connected server.
type PlexLibrary struct {
	Key   string
	Title string
	Type  string // "movie" or "show"
}

// PlexItem is a library item (movie, show, season, episode or collection).
type PlexItem struct {
	RatingKey string
	Title     string
	Year      int
	Index     int // season or episode number for children
}

// PlexService talks to a Plex Media Server over its HTTP API.
//
// Connect must be called before the library lookup and upload methods.
type PlexService struct {
	baseURL    string
	token      string
	label      string
	client     *http.Client
	logger     *log.Logger
	tvNames    []string
	movieNames []string

	tvLibraries    []PlexLibrary
	movieLibraries []PlexLibrary
}

// NewPlexService creates a Plex client from the given config. A nil client
// falls back to a default with a 30 second timeout.
func NewPlexService(cfg shared.PlexConfig, client *http.Client, logger *log.Logger) *PlexService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &PlexService{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		label:      cfg.Label,
		client:     client,
		logger:     logger,
		tvNames:    cfg.TVLibraries,
		movieNames: cfg.MovieLibraries,
	}
}

// plexContainer mirrors the MediaContainer envelope Plex wraps every
// response in when asked for JSON.
type plexContainer struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"Directory"`
		Metadata []struct {
			RatingKey string `json:"ratingKey"`
			Title     string `json:"title"`
			Year      int    `json:"year"`
			Index     int    `json:"index"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

// Connect verifies the server is reachable and partitions its library
// sections into the configured TV and movie libraries.
func (s *PlexService) Connect(ctx context.Context) error {
	if s.baseURL == "" {
		return fmt.Errorf("%w: plex base_url is not set", shared.ErrMissingConfig)
	}
	if s.token == "" {
		return fmt.Errorf("%w: plex token is not set", shared.ErrMissingToken)
	}

	var container plexContainer
	if err := s.get(ctx, "/library/sections", nil, &container); err != nil {
		return fmt.Errorf("failed to connect to plex: %w", err)
	}

	s.tvLibraries = s.tvLibraries[:0]
	s.movieLibraries = s.movieLibraries[:0]

	for _, dir := range container.MediaContainer.Directory {
		lib := PlexLibrary{Key: dir.Key, Title: dir.Title, Type: dir.Type}
		switch {
		case dir.Type == "show" && containsTitle(s.tvNames, dir.Title):
			s.tvLibraries = append(s.tvLibraries, lib)
		case dir.Type == "movie" && containsTitle(s.movieNames, dir.Title):
			s.movieLibraries = append(s.movieLibraries, lib)
		}
	}

	if len(s.tvLibraries) == 0 && len(s.movieLibraries) == 0 {
		return fmt.Errorf("%w: none of the configured libraries exist on the server", shared.ErrLibraryNotFound)
	}

	s.logger.Debug("connected to plex",
		"tvLibraries", len(s.tvLibraries),
		"movieLibraries", len(s.movieLibraries))

	return nil
}

// TVLibraries returns the configured show sections found on Connect.
func (s *PlexService) TVLibraries() []PlexLibrary { return s.tvLibraries }

// MovieLibraries returns the configured movie sections found on Connect.
func (s *PlexService) MovieLibraries() []PlexLibrary { return s.movieLibraries }

// FindItem looks up a movie or show by title in the given library. When the
// poster carries a year and the library holds several title matches, the
// year disambiguates.
func (s *PlexService) FindItem(ctx context.Context, library PlexLibrary, title string, year int) (*PlexItem, error) {
	query := url.Values{"title": {title}}

	var container plexContainer
	path := fmt.Sprintf("/library/sections/%s/all", library.Key)
	if err := s.get(ctx, path, query, &container); err != nil {
		return nil, err
	}

	want := shared.NormalizeTitle(title)
	var fallback *PlexItem
	for _, md := range container.MediaContainer.Metadata {
		if shared.NormalizeTitle(md.Title) != want {
			continue
		}
		item := &PlexItem{RatingKey: md.RatingKey, Title: md.Title, Year: md.Year}
		if year == 0 || md.Year == year {
			return item, nil
		}
		if fallback == nil {
			fallback = item
		}
	}
	if fallback != nil {
		return fallback, nil
	}

	return nil, fmt.Errorf("%w: %q in library %q", shared.ErrItemNotFound, title, library.Title)
}

// FindCollection looks up a collection by title in the given library.
func (s *PlexService) FindCollection(ctx context.Context, library PlexLibrary, title string) (*PlexItem, error) {
	var container plexContainer
	path := fmt.Sprintf("/library/sections/%s/collections", library.Key)
	if err := s.get(ctx, path, nil, &container); err != nil {
		return nil, err
	}

	want := shared.NormalizeTitle(title)
	for _, md := range container.MediaContainer.Metadata {
		if shared.NormalizeTitle(md.Title) == want {
			return &PlexItem{RatingKey: md.RatingKey, Title: md.Title, Year: md.Year}, nil
		}
	}

	return nil, fmt.Errorf("%w: collection %q in library %q", shared.ErrItemNotFound, title, library.Title)
}

// Children returns the child items of a show or season (its seasons or
// episodes), keyed by index.
func (s *PlexService) Children(ctx context.Context, ratingKey string) ([]PlexItem, error) {
	var container plexContainer
	path := fmt.Sprintf("/library/metadata/%s/children", ratingKey)
	if err := s.get(ctx, path, nil, &container); err != nil {
		return nil, err
	}

	items := make([]PlexItem, 0, len(container.MediaContainer.Metadata))
	for _, md := range container.MediaContainer.Metadata {
		items = append(items, PlexItem{RatingKey: md.RatingKey, Title: md.Title, Year: md.Year, Index: md.Index})
	}
	return items, nil
}

// FindChild returns the child of ratingKey with the given index, such as
// season 2 of a show or episode 5 of a season.
func (s *PlexService) FindChild(ctx context.Context, ratingKey string, index int) (*PlexItem, error) {
	children, err := s.Children(ctx, ratingKey)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.Index == index {
			return &child, nil
		}
	}
	return nil, fmt.Errorf("%w: child %d of item %s", shared.ErrItemNotFound, index, ratingKey)
}

// SetPoster tells the server to fetch and apply a poster from the given
// image URL. When art is true the image is applied as background art
// instead.
func (s *PlexService) SetPoster(ctx context.Context, ratingKey, imageURL string, art bool) error {
	endpoint := "posters"
	if art {
		endpoint = "arts"
	}

	path := fmt.Sprintf("/library/metadata/%s/%s", ratingKey, endpoint)
	query := url.Values{"url": {imageURL}}
	if err := s.post(ctx, path, query); err != nil {
		return fmt.Errorf("%w: item %s: %v", shared.ErrUploadFailed, ratingKey, err)
	}
	return nil
}

// ResetPoster clears the selected poster so Plex falls back to its default.
func (s *PlexService) ResetPoster(ctx context.Context, ratingKey string) error {
	path := fmt.Sprintf("/library/metadata/%s/poster", ratingKey)
	query := url.Values{"url": {""}}
	if err := s.put(ctx, path, query); err != nil {
		return fmt.Errorf("%w: item %s: %v", shared.ErrUploadFailed, ratingKey, err)
	}
	return nil
}

// ApplyLabel tags the item with the configured tracking label so labeled
// items can be listed and reset later. A blank configured label disables
// tagging.
func (s *PlexService) ApplyLabel(ctx context.Context, ratingKey string) error {
	if s.label == "" {
		return nil
	}

	path := fmt.Sprintf("/library/metadata/%s", ratingKey)
	query := url.Values{
		"label[0].tag.tag": {s.label},
		"label.locked":     {"1"},
	}
	return s.put(ctx, path, query)
}

// ItemsByLabel returns every item across the configured libraries tagged
// with the configured tracking label.
func (s *PlexService) ItemsByLabel(ctx context.Context) ([]PlexItem, error) {
	if s.label == "" {
		return nil, fmt.Errorf("%w: plex label is not set", shared.ErrMissingConfig)
	}

	var items []PlexItem
	for _, lib := range append(append([]PlexLibrary{}, s.movieLibraries...), s.tvLibraries...) {
		var container plexContainer
		path := fmt.Sprintf("/library/sections/%s/all", lib.Key)
		query := url.Values{"label": {s.label}}
		if err := s.get(ctx, path, query, &container); err != nil {
			return nil, err
		}
		for _, md := range container.MediaContainer.Metadata {
			items = append(items, PlexItem{RatingKey: md.RatingKey, Title: md.Title, Year: md.Year})
		}
	}
	return items, nil
}

func (s *PlexService) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := s.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode plex response: %w", err)
	}
	return nil
}

func (s *PlexService) post(ctx context.Context, path string, query url.Values) error {
	resp, err := s.do(ctx, http.MethodPost, path, query)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *PlexService) put(ctx context.Context, path string, query url.Values) error {
	resp, err := s.do(ctx, http.MethodPut, path, query)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *PlexService) do(ctx context.Context, method, path string, query url.Values) (*http.Response, error) {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: plex rejected the token", shared.ErrAuthFailed)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s returned %d", shared.ErrAPIRequest, method, path, resp.StatusCode)
	}

	return resp, nil
}

func containsTitle(names []string, title string) bool {
	for _, name := range names {
		if strings.EqualFold(name, title) {
			return true
		}
	}
	return false
}
