package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/passcheck/passcheck-go/internal/crypto"
	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/repository"
	"github.com/passcheck/passcheck-go/internal/strength"
	"golang.org/x/time/rate"
)

const (
	MinSuggestLength = 9
	MaxSuggestLength = strength.MaxMinLength

	DefaultMaxAttempts     = 12
	DefaultPreferredLength = 16
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrExhausted        = errors.New("could not find an unused password, please try again")
	ErrStoreUnavailable = errors.New("suggestion index unavailable")
	ErrInternal         = errors.New("internal error")
)

// FingerprintIndex is an atomic insert-if-absent set of fingerprints.
type FingerprintIndex interface {
	Claim(ctx context.Context, fp crypto.Fingerprint, at time.Time) (repository.ClaimResult, error)
}

// Claimer reserves a candidate password so it is never suggested again.
type Claimer interface {
	Claim(ctx context.Context, password string) (repository.ClaimResult, error)
}

// CandidateGenerator produces passwords of at least minLength characters.
type CandidateGenerator interface {
	Generate(minLength int) (string, error)
}

// Registrar turns candidates into fingerprints and claims them in the index.
// The plaintext never leaves this function; only the fingerprint is written.
type Registrar struct {
	index   FingerprintIndex
	key     []byte
	timeout time.Duration
	now     func() time.Time
}

// NewRegistrar creates a Registrar. A zero timeout leaves deadlines to ctx.
func NewRegistrar(index FingerprintIndex, key []byte, timeout time.Duration) *Registrar {
	return &Registrar{
		index:   index,
		key:     key,
		timeout: timeout,
		now:     time.Now,
	}
}

// Claim fingerprints password and attempts to reserve it. Any failure other
// than a collision is reported as ErrStoreUnavailable.
func (r *Registrar) Claim(ctx context.Context, password string) (repository.ClaimResult, error) {
	fp := crypto.NewFingerprint(r.key, password)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	result, err := r.index.Claim(ctx, fp, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	switch result {
	case repository.ClaimAccepted, repository.ClaimCollision:
		return result, nil
	default:
		return 0, fmt.Errorf("%w: unexpected claim result %d", ErrStoreUnavailable, result)
	}
}

// SuggestionService issues unique, strength-qualifying password suggestions.
type SuggestionService struct {
	generator       CandidateGenerator
	registrar       Claimer
	rules           strength.RuleSet
	maxAttempts     int
	preferredLength int
	metrics         *Metrics
	logger          *slog.Logger
	warn            *rate.Sometimes
}

// SuggestionOption configures a SuggestionService.
type SuggestionOption func(*SuggestionService)

// WithMaxAttempts bounds the generate and claim attempts per request.
func WithMaxAttempts(n int) SuggestionOption {
	return func(s *SuggestionService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithPreferredLength sets the length suggestions are padded to when the
// caller asks for less. Zero disables it.
func WithPreferredLength(n int) SuggestionOption {
	return func(s *SuggestionService) {
		s.preferredLength = n
	}
}

// WithGenerator replaces the passphrase generator.
func WithGenerator(g CandidateGenerator) SuggestionOption {
	return func(s *SuggestionService) {
		s.generator = g
	}
}

// WithMetrics records outcomes in m.
func WithMetrics(m *Metrics) SuggestionOption {
	return func(s *SuggestionService) {
		s.metrics = m
	}
}

// WithLogger sets the logger used for internal failures.
func WithLogger(l *slog.Logger) SuggestionOption {
	return func(s *SuggestionService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSuggestionService creates a SuggestionService that validates candidates
// against rules and claims them through registrar. A rule minimum above
// MaxSuggestLength is lowered to it, since no suggestion could meet it.
func NewSuggestionService(registrar Claimer, rules strength.RuleSet, opts ...SuggestionOption) *SuggestionService {
	if rules.MinLength > MaxSuggestLength {
		rules.MinLength = MaxSuggestLength
	}
	s := &SuggestionService{
		generator:       crypto.NewGenerator(),
		registrar:       registrar,
		rules:           rules,
		maxAttempts:     DefaultMaxAttempts,
		preferredLength: DefaultPreferredLength,
		logger:          slog.Default(),
		warn:            &rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rule set suggestions are validated against.
func (s *SuggestionService) Rules() strength.RuleSet {
	return s.rules
}

// ParseMinLength parses the optional requested minimum length. An empty value
// selects the rule set's minimum; anything that is not an integer is
// ErrInvalidInput.
func ParseMinLength(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: min must be an integer", ErrInvalidInput)
	}
	return n, nil
}

// ClampLength normalizes a requested minimum length into
// [MinSuggestLength, MaxSuggestLength]. Zero selects the rule set's minimum.
func (s *SuggestionService) ClampLength(n int) int {
	if n == 0 {
		n = s.rules.MinLength
	}
	return min(max(n, MinSuggestLength), MaxSuggestLength)
}

// TargetLength is the length actually passed to the generator. It never
// drops below the rule set's minimum, so every suggestion rates "very strong".
func (s *SuggestionService) TargetLength(n int) int {
	return min(max(s.ClampLength(n), s.preferredLength, s.rules.MinLength), MaxSuggestLength)
}

// Suggest returns a password of at least the requested length that scores
// the maximum under the rule set and has never been suggested before.
// The plaintext is returned once and is not retained.
func (s *SuggestionService) Suggest(ctx context.Context, minLength int) (model.SuggestResponse, error) {
	target := s.TargetLength(minLength)
	rules := s.rules.WithMinLength(target)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			s.metrics.observeSuggestion("canceled", attempt-1)
			return model.SuggestResponse{}, err
		}

		password, err := s.generator.Generate(target)
		if err != nil {
			s.logger.ErrorContext(ctx, "generating suggestion candidate", "error", err)
			s.metrics.observeSuggestion("error", attempt)
			return model.SuggestResponse{}, ErrInternal
		}

		result := strength.Evaluate(password, rules)
		if result.Score != strength.MaxScore {
			s.logger.ErrorContext(ctx, "generated candidate below maximum score",
				"score", result.Score, "checks", result.Checks, "target_length", target)
			s.metrics.observeSuggestion("error", attempt)
			return model.SuggestResponse{}, ErrInternal
		}

		claim, err := s.registrar.Claim(ctx, password)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.metrics.observeSuggestion("canceled", attempt)
				return model.SuggestResponse{}, ctxErr
			}
			s.warn.Do(func() {
				s.logger.WarnContext(ctx, "claiming suggestion fingerprint", "error", err)
			})
			s.metrics.observeSuggestion("store_unavailable", attempt)
			return model.SuggestResponse{}, ErrStoreUnavailable
		}

		if claim == repository.ClaimAccepted {
			s.metrics.observeSuggestion("accepted", attempt)
			return model.SuggestResponse{
				Password: password,
				Length:   len(password),
				Strength: strength.Evaluate(password, s.rules).Label,
				Unique:   true,
			}, nil
		}

		s.metrics.observeCollision()
		s.logger.DebugContext(ctx, "suggestion fingerprint collision", "attempt", attempt)
	}

	s.logger.WarnContext(ctx, "suggestion attempts exhausted", "attempts", s.maxAttempts)
	s.metrics.observeSuggestion("exhausted", s.maxAttempts)
	return model.SuggestResponse{}, ErrExhausted
}
