package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
	tu "github.com/tonywied17/plex-poster-set-helper/internal/testing"
)

func posterDBCard(id int, kind, title string) string {
	return fmt.Sprintf(`
<div class="col-6 col-lg-2 p-1">
  <div class="overlay rounded" data-poster-id="%d" data-toggle="tooltip">
    <a href="https://theposterdb.com/api/assets/%d"></a>
  </div>
  <p class="text-break mb-0">%s</p>
  <p class="p-0 mb-1" id="poster_name">%s</p>
</div>`, id, id, kind, title)
}

func TestPosterDBSource(t *testing.T) {
	t.Run("Matches", func(t *testing.T) {
		source := NewPosterDBSource(nil, shared.ScraperConfig{}, nil)

		if !source.Matches("https://theposterdb.com/set/12345") {
			t.Error("expected set URL to match")
		}
		if source.Matches("https://mediux.pro/sets/999") {
			t.Error("expected mediux URL not to match")
		}
	})

	t.Run("Scrape Set Page", func(t *testing.T) {
		page := "<html><body>" +
			posterDBCard(101, "Movie", "Blade Runner (1982)") +
			posterDBCard(102, "Show", "Severance (2022) - Season 1") +
			posterDBCard(103, "Show", "Severance (2022) - Specials") +
			posterDBCard(104, "Show", "Severance (2022)") +
			posterDBCard(105, "Collection", "Alien Collection") +
			"</body></html>"

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "test-agent" {
				t.Errorf("expected configured user agent, got %q", got)
			}
			fmt.Fprint(w, page)
		}))
		defer server.Close()

		source := NewPosterDBSource(server.Client(), shared.ScraperConfig{UserAgent: "test-agent"}, nil)
		set, err := source.Scrape(context.Background(), server.URL+"/set/1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if set.Total() != 5 {
			t.Fatalf("expected 5 posters, got %d", set.Total())
		}

		movie := set.Movies[0]
		if movie.Title != "Blade Runner" || movie.Year != 1982 {
			t.Errorf("unexpected movie descriptor: %+v", movie)
		}
		if movie.URL != "https://theposterdb.com/api/assets/101" {
			t.Errorf("unexpected asset URL: %s", movie.URL)
		}

		if len(set.Shows) != 3 {
			t.Fatalf("expected 3 show posters, got %d", len(set.Shows))
		}
		if set.Shows[0].Season != 1 {
			t.Errorf("expected season 1 cover, got season %d", set.Shows[0].Season)
		}
		if set.Shows[1].Season != 0 {
			t.Errorf("expected specials cover, got season %d", set.Shows[1].Season)
		}
		if set.Shows[2].Season != models.SeasonShowCover {
			t.Errorf("expected show cover, got season %d", set.Shows[2].Season)
		}

		if set.Collections[0].Title != "Alien Collection" {
			t.Errorf("unexpected collection title: %s", set.Collections[0].Title)
		}
	})

	t.Run("Empty Page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body>nothing here</body></html>")
		}))
		defer server.Close()

		source := NewPosterDBSource(server.Client(), shared.ScraperConfig{}, nil)
		_, err := source.Scrape(context.Background(), server.URL+"/set/1")
		if !errors.Is(err, shared.ErrScrapeFailed) {
			t.Errorf("expected ErrScrapeFailed, got %v", err)
		}
	})

	t.Run("HTTP Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		source := NewPosterDBSource(server.Client(), shared.ScraperConfig{}, nil)
		_, err := source.Scrape(context.Background(), server.URL+"/set/1")
		if !errors.Is(err, shared.ErrScrapeFailed) {
			t.Errorf("expected ErrScrapeFailed, got %v", err)
		}
	})
}

func TestSplitShowSeason(t *testing.T) {
	tests := []struct {
		raw    string
		title  string
		season int
	}{
		{"Severance - Season 2", "Severance", 2},
		{"Severance - Specials", "Severance", 0},
		{"Severance", "Severance", models.SeasonShowCover},
		{"Ash vs Evil Dead - Season 10", "Ash vs Evil Dead", 10},
		{"Twin Peaks - The Return", "Twin Peaks - The Return", models.SeasonShowCover},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			title, season := splitShowSeason(tc.raw)
			if title != tc.title || season != tc.season {
				t.Errorf("got (%q, %d), want (%q, %d)", title, season, tc.title, tc.season)
			}
		})
	}
}

func mediuxPageBody(files string) string {
	return fmt.Sprintf(`<html><body>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"set":{"set_name":"Test Set","files":[%s]}}}}</script>
</body></html>`, files)
}

func TestMediuxSource(t *testing.T) {
	t.Run("Matches", func(t *testing.T) {
		source := NewMediuxSource(nil, shared.ScraperConfig{}, nil, nil)

		if !source.Matches("https://mediux.pro/sets/9000") {
			t.Error("expected set URL to match")
		}
		if source.Matches("https://theposterdb.com/set/1") {
			t.Error("expected theposterdb URL not to match")
		}
	})

	t.Run("Scrape Set Page", func(t *testing.T) {
		files := `{"id":"a1","fileType":"show_cover","mediaType":"show","title":"Severance","year":2022},
{"id":"a2","fileType":"season_cover","mediaType":"show","title":"Severance","year":2022,"season":1},
{"id":"a3","fileType":"title_card","mediaType":"show","title":"Severance","year":2022,"season":1,"episode":4},
{"id":"a4","fileType":"background","mediaType":"show","title":"Severance","year":2022},
{"id":"a5","fileType":"movie_poster","mediaType":"movie","title":"Dune","year":2021}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, mediuxPageBody(files))
		}))
		defer server.Close()

		filters := []string{"show_cover", "season_cover", "title_card", "movie_poster"}
		source := NewMediuxSource(server.Client(), shared.ScraperConfig{}, filters, nil)
		set, err := source.Scrape(context.Background(), server.URL+"/sets/9000")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// The background is filtered out
		if set.Total() != 4 {
			t.Fatalf("expected 4 posters, got %d", set.Total())
		}
		if len(set.Shows) != 3 || len(set.Movies) != 1 {
			t.Fatalf("unexpected split: %d shows, %d movies", len(set.Shows), len(set.Movies))
		}

		card := set.Shows[2]
		if card.Season != 1 || card.Episode != 4 {
			t.Errorf("unexpected title card target: S%d E%d", card.Season, card.Episode)
		}
		if card.URL != "https://api.mediux.pro/assets/a3" {
			t.Errorf("unexpected asset URL: %s", card.URL)
		}
	})

	t.Run("Background Kept Without Filters", func(t *testing.T) {
		files := `{"id":"bg","fileType":"background","mediaType":"movie","title":"Dune","year":2021}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, mediuxPageBody(files))
		}))
		defer server.Close()

		source := NewMediuxSource(server.Client(), shared.ScraperConfig{}, nil, nil)
		set, err := source.Scrape(context.Background(), server.URL+"/sets/1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(set.Movies) != 1 || !set.Movies[0].Art {
			t.Errorf("expected one movie background, got %+v", set.Movies)
		}
	})

	t.Run("Missing Payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body>no data</body></html>")
		}))
		defer server.Close()

		source := NewMediuxSource(server.Client(), shared.ScraperConfig{}, nil, nil)
		_, err := source.Scrape(context.Background(), server.URL+"/sets/1")
		if !errors.Is(err, shared.ErrScrapeFailed) {
			t.Errorf("expected ErrScrapeFailed, got %v", err)
		}
	})
}

func TestSourceRegistry(t *testing.T) {
	posterSet := &models.PosterSet{Movies: []models.Poster{{Title: "Dune", MediaType: models.MediaTypeMovie}}}

	first := &tu.MockSource{SourceName: "first", Prefix: "https://first.example", Set: posterSet}
	second := &tu.MockSource{SourceName: "second", Prefix: "https://second.example", Err: errors.New("boom")}

	registry := NewSourceRegistry(nil, first, second)

	t.Run("Resolve", func(t *testing.T) {
		source, err := registry.Resolve("https://second.example/set/1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if source.Name() != "second" {
			t.Errorf("expected second source, got %s", source.Name())
		}
	})

	t.Run("Scrape Routes To Source", func(t *testing.T) {
		set, err := registry.Scrape(context.Background(), "https://first.example/set/1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if set.Total() != 1 {
			t.Errorf("expected 1 poster, got %d", set.Total())
		}
	})

	t.Run("Scrape Propagates Source Error", func(t *testing.T) {
		_, err := registry.Scrape(context.Background(), "https://second.example/set/1")
		if err == nil {
			t.Error("expected source error to propagate")
		}
	})

	t.Run("Unsupported URL", func(t *testing.T) {
		_, err := registry.Scrape(context.Background(), "https://imgur.com/a/xyz")
		if !errors.Is(err, shared.ErrUnsupportedURL) {
			t.Errorf("expected ErrUnsupportedURL, got %v", err)
		}
	})
}
