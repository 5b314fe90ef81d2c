package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/strength"
)

func testEntry() *model.MetadataEntry {
	return &model.MetadataEntry{
		ID:        "01J9ZQ4S7V5W1X2Y3Z4A5B6C7D",
		ActionURL: "https://example.com/signup",
		Score:     3,
		Rules:     strength.DefaultRuleSet(),
		Checks: strength.Checks{
			LengthOK: true, HasLower: true, HasNumber: true, HasSymbol: true,
		},
		UserAgent:  "Mozilla/5.0",
		OriginHash: strings.Repeat("ab", 32),
		CreatedAt:  time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestMetadataRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entry := testEntry()
	rulesJSON, _ := json.Marshal(entry.Rules)
	checksJSON, _ := json.Marshal(entry.Checks)

	mock.ExpectExec(regexp.QuoteMeta(MySQL.logQuery)).
		WithArgs(
			entry.ID,
			entry.ActionURL,
			entry.Score,
			string(rulesJSON),
			string(checksJSON),
			entry.Satisfied,
			entry.UserAgent,
			entry.OriginHash,
			entry.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMetadataRepository(db, MySQL)
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMetadataRepositoryInsertWithoutOrigin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entry := testEntry()
	entry.OriginHash = ""
	entry.Satisfied = true

	mock.ExpectExec(regexp.QuoteMeta(Postgres.logQuery)).
		WithArgs(
			entry.ID,
			entry.ActionURL,
			entry.Score,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			true,
			entry.UserAgent,
			nil,
			entry.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMetadataRepository(db, Postgres)
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMetadataRepositoryInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(MySQL.logQuery)).WillReturnError(sql.ErrConnDone)

	err = NewMetadataRepository(db, MySQL).Insert(context.Background(), testEntry())
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("Insert() error = %v, want %v", err, sql.ErrConnDone)
	}
}

func TestSlogMetadataSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	if err := NewSlogMetadataSink(logger).Insert(context.Background(), testEntry()); err != nil {
		t.Fatalf("Insert() unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"score":3`) {
		t.Errorf("log output %q missing score", out)
	}
	if !strings.Contains(out, "https://example.com/signup") {
		t.Errorf("log output %q missing action url", out)
	}
	if !strings.Contains(out, `"satisfied":false`) {
		t.Errorf("log output %q missing rule compliance", out)
	}
}

func TestDialectsStoreRuleCompliance(t *testing.T) {
	for _, dialect := range []Dialect{MySQL, Postgres} {
		if !strings.Contains(dialect.logQuery, "satisfied") {
			t.Errorf("%s log query does not write the satisfied column", dialect.Name())
		}
		if !strings.Contains(dialect.schema[1], "satisfied") {
			t.Errorf("%s psc_logs schema has no satisfied column", dialect.Name())
		}
	}
}
