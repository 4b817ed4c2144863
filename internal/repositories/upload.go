package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tonywied17/plex-poster-set-helper/internal/models"
	"github.com/tonywied17/plex-poster-set-helper/internal/shared"
)

// UploadRepository implements [models.Repository] for upload history
// [models.UploadRecord] persistence.
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new [UploadRepository] with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create inserts a new upload record into the database with generated ID and sequence
func (r *UploadRepository) Create(record *models.UploadRecord) error {
	sequence, err := NextSequence(r.db, "uploads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.SetID(shared.GenerateID())
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO uploads (id, sequence, source_url, item_title, library, media_type, season, episode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID(), record.Sequence(), record.SourceURL(), record.ItemTitle(),
		record.Library(), string(record.MediaType()), record.Season(), record.Episode(),
		record.CreatedAt(), record.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert upload record: %w", err)
	}

	return nil
}

// Get retrieves an upload record by ID, excluding soft-deleted records
func (r *UploadRepository) Get(id string) (*models.UploadRecord, error) {
	query := `
		SELECT id, sequence, source_url, item_title, library, media_type, season, episode, created_at, updated_at
		FROM uploads
		WHERE id = ? AND deleted_at IS NULL
	`

	record, err := scanUpload(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("upload record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query upload record: %w", err)
	}

	return record, nil
}

// Update modifies an existing upload record in the database
func (r *UploadRepository) Update(record *models.UploadRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE uploads
		SET source_url = ?, item_title = ?, library = ?, media_type = ?, season = ?, episode = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		record.SourceURL(), record.ItemTitle(), record.Library(), string(record.MediaType()),
		record.Season(), record.Episode(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update upload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("upload record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes an upload record by ID
func (r *UploadRepository) Delete(id string) error {
	query := `
		UPDATE uploads
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete upload record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("upload record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves upload records matching the given criteria, excluding
// soft-deleted records. Supported criteria: "item_title", "library",
// "media_type", "source_url".
func (r *UploadRepository) List(criteria map[string]any) ([]*models.UploadRecord, error) {
	query := `
		SELECT id, sequence, source_url, item_title, library, media_type, season, episode, created_at, updated_at
		FROM uploads
		WHERE deleted_at IS NULL
	`

	args := []any{}
	for _, col := range []string{"item_title", "library", "media_type", "source_url"} {
		if value, ok := criteria[col].(string); ok && value != "" {
			query += fmt.Sprintf(" AND %s = ?", col)
			args = append(args, value)
		}
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query upload records: %w", err)
	}
	defer rows.Close()

	var records []*models.UploadRecord
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upload record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// UploadStats summarizes the upload history for the stats command.
type UploadStats struct {
	Total         int            `json:"total"`
	DistinctItems int            `json:"distinct_items"`
	ByMediaType   map[string]int `json:"by_media_type"`
	LastUpload    time.Time      `json:"last_upload,omitzero"`
}

// Stats aggregates counts over the non-deleted upload history.
func (r *UploadRepository) Stats() (*UploadStats, error) {
	stats := &UploadStats{ByMediaType: map[string]int{}}

	query := `
		SELECT COUNT(*), COUNT(DISTINCT item_title)
		FROM uploads
		WHERE deleted_at IS NULL
	`

	if err := r.db.QueryRow(query).Scan(&stats.Total, &stats.DistinctItems); err != nil {
		return nil, fmt.Errorf("failed to aggregate uploads: %w", err)
	}

	// MAX(created_at) loses the column's declared type, so the driver
	// would hand back a raw string. Read the newest row instead.
	var last time.Time
	err := r.db.QueryRow(`
		SELECT created_at FROM uploads
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 1
	`).Scan(&last)
	switch err {
	case nil:
		stats.LastUpload = last
	case sql.ErrNoRows:
	default:
		return nil, fmt.Errorf("failed to read last upload time: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT media_type, COUNT(*)
		FROM uploads
		WHERE deleted_at IS NULL
		GROUP BY media_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate media types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mediaType string
		var count int
		if err := rows.Scan(&mediaType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan media type count: %w", err)
		}
		stats.ByMediaType[mediaType] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return stats, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(row scanner) (*models.UploadRecord, error) {
	var (
		id        string
		sequence  int
		sourceURL string
		itemTitle string
		library   string
		mediaType string
		season    sql.NullInt64
		episode   sql.NullInt64
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &sourceURL, &itemTitle, &library, &mediaType, &season, &episode, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return models.RestoreUploadRecord(
		id, sequence, sourceURL, itemTitle, library,
		models.MediaType(mediaType), int(season.Int64), int(episode.Int64),
		createdAt, updatedAt), nil
}
