package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/passcheck/passcheck-go/internal/model"
)

// MetadataRepository writes metadata log entries to psc_logs.
type MetadataRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewMetadataRepository creates a new MetadataRepository.
func NewMetadataRepository(db *sql.DB, dialect Dialect) *MetadataRepository {
	return &MetadataRepository{db: db, dialect: dialect}
}

// Insert stores a single entry. Rules and checks are stored as JSON.
func (r *MetadataRepository) Insert(ctx context.Context, entry *model.MetadataEntry) error {
	rulesJSON, err := json.Marshal(entry.Rules)
	if err != nil {
		return err
	}
	checksJSON, err := json.Marshal(entry.Checks)
	if err != nil {
		return err
	}

	var originHash sql.NullString
	if entry.OriginHash != "" {
		originHash = sql.NullString{String: entry.OriginHash, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, r.dialect.logQuery,
		entry.ID,
		entry.ActionURL,
		entry.Score,
		string(rulesJSON),
		string(checksJSON),
		entry.Satisfied,
		entry.UserAgent,
		originHash,
		entry.CreatedAt.UTC(),
	)
	return err
}

// SlogMetadataSink writes metadata entries to a structured logger. It is
// used when no SQL database is configured.
type SlogMetadataSink struct {
	logger *slog.Logger
}

// NewSlogMetadataSink creates a SlogMetadataSink. A nil logger uses slog.Default().
func NewSlogMetadataSink(logger *slog.Logger) *SlogMetadataSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogMetadataSink{logger: logger}
}

// Insert logs the entry at info level.
func (s *SlogMetadataSink) Insert(ctx context.Context, entry *model.MetadataEntry) error {
	s.logger.InfoContext(ctx, "strength check recorded",
		"id", entry.ID,
		"action_url", entry.ActionURL,
		"score", entry.Score,
		"rules", entry.Rules,
		"checks", entry.Checks,
		"satisfied", entry.Satisfied,
		"origin_hash", entry.OriginHash,
	)
	return nil
}
