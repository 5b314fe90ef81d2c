package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/passcheck/passcheck-go/internal/crypto"
	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/strength"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var testOriginKey = []byte("test-origin-key")

type stubSink struct {
	entries []*model.MetadataEntry
	err     error
}

func (s *stubSink) Insert(ctx context.Context, entry *model.MetadataEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func intPtr(n int) *int { return &n }

func newTestMetadataService(sink MetadataSink, metrics *Metrics) *MetadataService {
	svc := NewMetadataService(sink, testOriginKey, metrics, discardLogger())
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validLogRequest() model.LogRequest {
	return model.LogRequest{
		ActionURL: "https://example.com/signup",
		Score:     intPtr(3),
		Rules:     strength.DefaultRuleSet(),
		Checks: strength.Checks{
			LengthOK: true, HasLower: true, HasNumber: true, HasSymbol: true,
		},
	}
}

func TestRecord_Valid(t *testing.T) {
	sink := &stubSink{}
	svc := newTestMetadataService(sink, nil)

	err := svc.Record(context.Background(), validLogRequest(), Origin{
		RemoteAddr: "203.0.113.7:54321",
		UserAgent:  "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sink.entries))
	}

	e := sink.entries[0]
	if len(e.ID) != 26 {
		t.Errorf("expected ULID id, got %q", e.ID)
	}
	if e.Score != 3 || e.ActionURL != "https://example.com/signup" || e.UserAgent != "Mozilla/5.0" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Satisfied {
		t.Error("checks without an upper case letter do not satisfy the default rules")
	}
	if !e.CreatedAt.Equal(svc.now()) {
		t.Errorf("created_at = %v, want %v", e.CreatedAt, svc.now())
	}

	want := crypto.NewFingerprint(testOriginKey, "203.0.113.7").Hex()
	if e.OriginHash != want {
		t.Errorf("origin hash = %q, want fingerprint of host", e.OriginHash)
	}
	if strings.Contains(e.OriginHash, "203.0.113.7") {
		t.Error("origin hash must not contain the raw address")
	}
}

func TestRecord_SameHostSameFingerprint(t *testing.T) {
	sink := &stubSink{}
	svc := newTestMetadataService(sink, nil)

	for _, addr := range []string{"198.51.100.1:1000", "198.51.100.1:2000"} {
		if err := svc.Record(context.Background(), validLogRequest(), Origin{RemoteAddr: addr}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if sink.entries[0].OriginHash != sink.entries[1].OriginHash {
		t.Error("the port must not influence the origin fingerprint")
	}
}

func TestRecord_NoOrigin(t *testing.T) {
	sink := &stubSink{}
	svc := newTestMetadataService(sink, nil)

	if err := svc.Record(context.Background(), validLogRequest(), Origin{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sink.entries[0].OriginHash != "" {
		t.Errorf("expected empty origin hash, got %q", sink.entries[0].OriginHash)
	}
}

func TestRecord_InvalidScore(t *testing.T) {
	tests := []struct {
		name  string
		score *int
	}{
		{"missing", nil},
		{"negative", intPtr(-1)},
		{"too high", intPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{}
			req := validLogRequest()
			req.Score = tt.score

			err := newTestMetadataService(sink, nil).Record(context.Background(), req, Origin{})
			if err != ErrInvalidScore {
				t.Errorf("expected ErrInvalidScore, got %v", err)
			}
			if len(sink.entries) != 0 {
				t.Error("invalid reports must not be written")
			}
		})
	}
}

func TestRecord_ScoreMismatch(t *testing.T) {
	req := validLogRequest()
	req.Score = intPtr(4)

	err := newTestMetadataService(&stubSink{}, nil).Record(context.Background(), req, Origin{})
	if err != ErrScoreMismatch {
		t.Fatalf("expected ErrScoreMismatch, got %v", err)
	}
}

func TestRecord_Truncates(t *testing.T) {
	sink := &stubSink{}
	req := validLogRequest()
	req.ActionURL = "https://example.com/" + strings.Repeat("ä", 2000)

	err := newTestMetadataService(sink, nil).Record(context.Background(), req, Origin{
		UserAgent: strings.Repeat("u", 1000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := sink.entries[0]
	if n := len([]rune(e.ActionURL)); n != maxActionURLLength {
		t.Errorf("action url has %d characters, want %d", n, maxActionURLLength)
	}
	if len(e.UserAgent) != maxUserAgentLength {
		t.Errorf("user agent has %d characters, want %d", len(e.UserAgent), maxUserAgentLength)
	}
}

func TestRecord_SinkError(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	sink := &stubSink{err: errors.New("Error 1146: Table 'psc_logs' doesn't exist")}

	err := newTestMetadataService(sink, metrics).Record(context.Background(), validLogRequest(), Origin{})
	if err != ErrSinkUnavailable {
		t.Fatalf("expected bare ErrSinkUnavailable, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.logEntries.WithLabelValues("error")); got != 1 {
		t.Errorf("error outcomes = %v, want 1", got)
	}
}

func TestRecord_RuleCompliance(t *testing.T) {
	all := strength.Checks{LengthOK: true, HasLower: true, HasUpper: true, HasNumber: true, HasSymbol: true}
	noSymbol := all
	noSymbol.HasSymbol = false

	relaxed := strength.DefaultRuleSet()
	relaxed.RequireSymbol = false

	tests := []struct {
		name   string
		rules  strength.RuleSet
		checks strength.Checks
		want   bool
	}{
		{"all checks pass", strength.DefaultRuleSet(), all, true},
		{"required symbol missing", strength.DefaultRuleSet(), noSymbol, false},
		{"symbol not required", relaxed, noSymbol, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{}
			req := validLogRequest()
			req.Rules = tt.rules
			req.Checks = tt.checks
			req.Score = intPtr(strength.Score(tt.checks))

			if err := newTestMetadataService(sink, nil).Record(context.Background(), req, Origin{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sink.entries[0].Satisfied; got != tt.want {
				t.Errorf("Satisfied = %v, want %v", got, tt.want)
			}
		})
	}
}
