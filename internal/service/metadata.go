package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
	"unicode/utf8"

	"github.com/passcheck/passcheck-go/internal/crypto"
	"github.com/passcheck/passcheck-go/internal/ids"
	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/strength"
	"golang.org/x/time/rate"
)

const (
	maxActionURLLength = 1024
	maxUserAgentLength = 512
)

var (
	ErrInvalidScore    = errors.New("score must be between 0 and 4")
	ErrScoreMismatch   = errors.New("score does not match checks")
	ErrSinkUnavailable = errors.New("metadata log unavailable")
)

// MetadataSink persists metadata entries.
type MetadataSink interface {
	Insert(ctx context.Context, entry *model.MetadataEntry) error
}

// Origin identifies where a request came from. It is only ever stored as a
// keyed fingerprint.
type Origin struct {
	RemoteAddr string
	UserAgent  string
}

// MetadataService records strength-check metadata. It never sees a password.
type MetadataService struct {
	sink      MetadataSink
	originKey []byte
	now       func() time.Time
	metrics   *Metrics
	logger    *slog.Logger
	warn      *rate.Sometimes
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(sink MetadataSink, originKey []byte, metrics *Metrics, logger *slog.Logger) *MetadataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataService{
		sink:      sink,
		originKey: originKey,
		now:       time.Now,
		metrics:   metrics,
		logger:    logger,
		warn:      &rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
}

// Record validates a client report and writes it to the sink. The reported
// score must agree with strength.Score applied to the reported checks.
func (s *MetadataService) Record(ctx context.Context, req model.LogRequest, origin Origin) error {
	if req.Score == nil || *req.Score < 0 || *req.Score > strength.MaxScore {
		return ErrInvalidScore
	}
	if strength.Score(req.Checks) != *req.Score {
		return ErrScoreMismatch
	}

	now := s.now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		s.logger.ErrorContext(ctx, "generating metadata entry id", "error", err)
		return ErrInternal
	}

	entry := &model.MetadataEntry{
		ID:         id,
		ActionURL:  truncate(req.ActionURL, maxActionURLLength),
		Score:      *req.Score,
		Rules:      req.Rules,
		Checks:     req.Checks,
		Satisfied:  req.Rules.Satisfied(req.Checks),
		UserAgent:  truncate(origin.UserAgent, maxUserAgentLength),
		OriginHash: s.originHash(origin.RemoteAddr),
		CreatedAt:  now,
	}

	if err := s.sink.Insert(ctx, entry); err != nil {
		s.warn.Do(func() {
			s.logger.WarnContext(ctx, "writing metadata entry", "error", err)
		})
		s.metrics.observeLogEntry("error")
		return ErrSinkUnavailable
	}

	s.metrics.observeLogEntry("ok")
	return nil
}

// originHash fingerprints the host part of addr. The raw address is discarded.
func (s *MetadataService) originHash(addr string) string {
	if addr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return crypto.NewFingerprint(s.originKey, host).Hex()
}

// truncate shortens s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
