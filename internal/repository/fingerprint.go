package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/passcheck/passcheck-go/internal/crypto"
	"github.com/redis/go-redis/v9"
)

// SQLFingerprintIndex stores issued suggestion fingerprints in psc_suggestions.
type SQLFingerprintIndex struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLFingerprintIndex creates a new SQLFingerprintIndex.
func NewSQLFingerprintIndex(db *sql.DB, dialect Dialect) *SQLFingerprintIndex {
	return &SQLFingerprintIndex{db: db, dialect: dialect}
}

// Claim inserts fp if it is absent. The uniqueness decision is made by the
// database's primary key, never by a prior SELECT.
func (r *SQLFingerprintIndex) Claim(ctx context.Context, fp crypto.Fingerprint, at time.Time) (ClaimResult, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.claimQuery, fp.Hex(), at.UTC())
	if err != nil {
		if r.dialect.isDuplicate(err) {
			return ClaimCollision, nil
		}
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rowsAffected == 0 {
		return ClaimCollision, nil
	}

	return ClaimAccepted, nil
}

// EnsureSchema creates the tables used by this package if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for _, stmt := range dialect.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", dialect.name, err)
		}
	}
	return nil
}

const redisKeyPrefix = "psc:suggestion:"

// RedisFingerprintIndex stores fingerprints as Redis keys without expiry.
type RedisFingerprintIndex struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisFingerprintIndex creates a new RedisFingerprintIndex.
func NewRedisFingerprintIndex(rdb *redis.Client) *RedisFingerprintIndex {
	return &RedisFingerprintIndex{rdb: rdb, prefix: redisKeyPrefix}
}

// Claim reserves fp with SETNX; the value is the claim time in unix seconds.
func (r *RedisFingerprintIndex) Claim(ctx context.Context, fp crypto.Fingerprint, at time.Time) (ClaimResult, error) {
	ok, err := r.rdb.SetNX(ctx, r.prefix+fp.Hex(), at.UTC().Unix(), 0).Result()
	if err != nil {
		return 0, err
	}
	if !ok {
		return ClaimCollision, nil
	}
	return ClaimAccepted, nil
}

// MemoryFingerprintIndex keeps fingerprints in process memory. Claims are
// lost on restart, so it only suits development and tests.
type MemoryFingerprintIndex struct {
	entries sync.Map // crypto.Fingerprint -> time.Time
}

// NewMemoryFingerprintIndex creates an empty MemoryFingerprintIndex.
func NewMemoryFingerprintIndex() *MemoryFingerprintIndex {
	return &MemoryFingerprintIndex{}
}

// Claim reserves fp with LoadOrStore.
func (m *MemoryFingerprintIndex) Claim(ctx context.Context, fp crypto.Fingerprint, at time.Time) (ClaimResult, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, loaded := m.entries.LoadOrStore(fp, at.UTC()); loaded {
		return ClaimCollision, nil
	}
	return ClaimAccepted, nil
}

// Len returns the number of claimed fingerprints.
func (m *MemoryFingerprintIndex) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
