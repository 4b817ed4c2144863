// package models defines the data model for the poster set helper
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include UploadRecord.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// MediaType identifies what kind of library item a poster targets.
type MediaType string

const (
	MediaTypeMovie      MediaType = "movie"
	MediaTypeShow       MediaType = "show"
	MediaTypeCollection MediaType = "collection"
)

// SeasonShowCover marks a show poster as the series cover rather than a
// season or specials cover.
const SeasonShowCover = -1

// Poster is a single poster descriptor scraped from a source site.
//
// Season/Episode are only meaningful for show posters: Season -1 means the
// poster is the show cover, 0 means Specials. Episode 0 means the poster is a
// season cover rather than a title card.
type Poster struct {
	Source    string    // Source site name (e.g. "ThePosterDB", "MediUX")
	MediaType MediaType // Target item kind
	Title     string    // Target title as it appears on the source site
	Year      int       // Release year when the source provides one (0 otherwise)
	Season    int       // Season number for show posters
	Episode   int       // Episode number for title cards
	URL       string    // Direct image URL
	Art       bool      // Background art rather than a poster
}

// PosterSet groups the posters scraped from one source URL.
type PosterSet struct {
	Movies      []Poster
	Shows       []Poster
	Collections []Poster
}

// Total returns the number of posters in the set.
func (s *PosterSet) Total() int {
	return len(s.Movies) + len(s.Shows) + len(s.Collections)
}

// All returns the set's posters in upload order: collections first, then
// movies, then shows, matching how sets are organized on the source sites.
func (s *PosterSet) All() []Poster {
	out := make([]Poster, 0, s.Total())
	out = append(out, s.Collections...)
	out = append(out, s.Movies...)
	out = append(out, s.Shows...)
	return out
}

// DisplayTitle renders the poster's target for status rows and logs.
func (p Poster) DisplayTitle() string {
	switch {
	case p.MediaType != MediaTypeShow:
		return p.Title
	case p.Episode > 0:
		return fmt.Sprintf("%s S%02dE%02d", p.Title, p.Season, p.Episode)
	case p.Season >= 0:
		return fmt.Sprintf("%s Season %d", p.Title, p.Season)
	default:
		return p.Title
	}
}

// UploadRecord is the persisted record of one successful poster upload.
type UploadRecord struct {
	id        string
	sequence  int
	sourceURL string
	itemTitle string
	library   string
	mediaType MediaType
	season    int
	episode   int
	createdAt time.Time
	updatedAt time.Time
}

// NewUploadRecord creates an UploadRecord for a poster that was pushed to the
// given library item. The ID is assigned by the repository on Create.
func NewUploadRecord(sourceURL, itemTitle, library string, poster Poster) *UploadRecord {
	now := time.Now().UTC()
	return &UploadRecord{
		sourceURL: sourceURL,
		itemTitle: itemTitle,
		library:   library,
		mediaType: poster.MediaType,
		season:    poster.Season,
		episode:   poster.Episode,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreUploadRecord rebuilds an UploadRecord from database columns.
func RestoreUploadRecord(id string, sequence int, sourceURL, itemTitle, library string, mediaType MediaType, season, episode int, createdAt, updatedAt time.Time) *UploadRecord {
	return &UploadRecord{
		id:        id,
		sequence:  sequence,
		sourceURL: sourceURL,
		itemTitle: itemTitle,
		library:   library,
		mediaType: mediaType,
		season:    season,
		episode:   episode,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *UploadRecord) ID() string           { return u.id }
func (u *UploadRecord) CreatedAt() time.Time { return u.createdAt }
func (u *UploadRecord) UpdatedAt() time.Time { return u.updatedAt }

// SetID assigns the record's identifier; called by the repository on Create.
func (u *UploadRecord) SetID(id string) { u.id = id }

// SetSequence assigns the record's human-readable sequence number.
func (u *UploadRecord) SetSequence(seq int) { u.sequence = seq }

func (u *UploadRecord) Sequence() int        { return u.sequence }
func (u *UploadRecord) SourceURL() string    { return u.sourceURL }
func (u *UploadRecord) ItemTitle() string    { return u.itemTitle }
func (u *UploadRecord) Library() string      { return u.library }
func (u *UploadRecord) MediaType() MediaType { return u.mediaType }
func (u *UploadRecord) Season() int          { return u.season }
func (u *UploadRecord) Episode() int         { return u.episode }

// Validate checks that the record has the fields the uploads table requires.
func (u *UploadRecord) Validate() error {
	if u.id == "" {
		return fmt.Errorf("upload record missing ID")
	}
	if u.itemTitle == "" {
		return fmt.Errorf("upload record missing item title")
	}
	if u.sourceURL == "" {
		return fmt.Errorf("upload record missing source URL")
	}
	switch u.mediaType {
	case MediaTypeMovie, MediaTypeShow, MediaTypeCollection:
	default:
		return fmt.Errorf("upload record has invalid media type %q", u.mediaType)
	}
	return nil
}
