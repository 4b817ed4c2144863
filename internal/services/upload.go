package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

// UploadRecorder persists a record of each applied poster. Implemented by
// repositories.UploadRepository.
type UploadRecorder interface {
	Create(record *models.UploadRecord) error
}

// UploadService resolves poster descriptors to Plex items and applies them.
// It implements the batch engine's Uploader contract.
type UploadService struct {
	plex     *PlexService
	config   *shared.Config
	recorder UploadRecorder
	logger   *log.Logger
}

// NewUploadService creates an uploader over a connected Plex client. The
// recorder is optional; pass nil to skip upload history.
func NewUploadService(plex *PlexService, config *shared.Config, recorder UploadRecorder, logger *log.Logger) *UploadService {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &UploadService{plex: plex, config: config, recorder: recorder, logger: logger}
}

// Upload applies one poster to the library item it describes. Title mapping
// overrides are applied before lookup. Items missing from every configured
// library return ErrItemNotFound.
func (s *UploadService) Upload(ctx context.Context, sourceURL string, poster models.Poster) error {
	title := s.config.MappedTitle(poster.Title)

	item, root, library, err := s.resolveTarget(ctx, poster, title)
	if err != nil {
		return err
	}

	if err := s.plex.SetPoster(ctx, item.RatingKey, poster.URL, poster.Art); err != nil {
		return err
	}

	// Label the top-level item so reset and stats can find everything the
	// tool has touched.
	if err := s.plex.ApplyLabel(ctx, root.RatingKey); err != nil {
		s.logger.Warn("failed to apply label", "title", title, "error", err)
	}

	s.logger.Debug("applied poster", "target", poster.DisplayTitle(), "library", library)
	s.record(sourceURL, title, library, poster)
	return nil
}

// resolveTarget finds the item the poster applies to, searching each
// configured library of the poster's media type in turn. It returns the
// direct target (possibly a season or episode), the top-level item it
// belongs to, and the library title.
func (s *UploadService) resolveTarget(ctx context.Context, poster models.Poster, title string) (item, root *PlexItem, library string, err error) {
	switch poster.MediaType {
	case models.MediaTypeCollection:
		for _, lib := range s.plex.MovieLibraries() {
			found, ferr := s.plex.FindCollection(ctx, lib, title)
			if ferr != nil {
				if errors.Is(ferr, shared.ErrItemNotFound) {
					continue
				}
				return nil, nil, "", ferr
			}
			return found, found, lib.Title, nil
		}

	case models.MediaTypeMovie:
		for _, lib := range s.plex.MovieLibraries() {
			found, ferr := s.plex.FindItem(ctx, lib, title, poster.Year)
			if ferr != nil {
				if errors.Is(ferr, shared.ErrItemNotFound) {
					continue
				}
				return nil, nil, "", ferr
			}
			return found, found, lib.Title, nil
		}

	case models.MediaTypeShow:
		for _, lib := range s.plex.TVLibraries() {
			show, ferr := s.plex.FindItem(ctx, lib, title, poster.Year)
			if ferr != nil {
				if errors.Is(ferr, shared.ErrItemNotFound) {
					continue
				}
				return nil, nil, "", ferr
			}

			target, ferr := s.resolveShowTarget(ctx, show, poster)
			if ferr != nil {
				return nil, nil, "", ferr
			}
			return target, show, lib.Title, nil
		}

	default:
		return nil, nil, "", fmt.Errorf("%w: unknown media type %q", shared.ErrInvalidInput, poster.MediaType)
	}

	return nil, nil, "", fmt.Errorf("%w: %q not found in any configured library", shared.ErrItemNotFound, title)
}

// resolveShowTarget drills from a show down to the season or episode the
// poster names. Show covers target the show itself.
func (s *UploadService) resolveShowTarget(ctx context.Context, show *PlexItem, poster models.Poster) (*PlexItem, error) {
	if poster.Season == models.SeasonShowCover {
		return show, nil
	}

	season, err := s.plex.FindChild(ctx, show.RatingKey, poster.Season)
	if err != nil {
		return nil, err
	}
	if poster.Episode == 0 {
		return season, nil
	}

	return s.plex.FindChild(ctx, season.RatingKey, poster.Episode)
}

func (s *UploadService) record(sourceURL, title, library string, poster models.Poster) {
	if s.recorder == nil {
		return
	}

	rec := models.NewUploadRecord(sourceURL, title, library, poster)
	if err := s.recorder.Create(rec); err != nil {
		s.logger.Warn("failed to record upload", "title", title, "error", err)
	}
}
