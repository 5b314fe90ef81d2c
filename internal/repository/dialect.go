package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	name   string
	driver string

	claimQuery    string
	logQuery      string
	schema        []string
	isDuplicateFn func(error) bool
}

// Name returns the dialect name as used in configuration.
func (d Dialect) Name() string {
	return d.name
}

func (d Dialect) isDuplicate(err error) bool {
	return d.isDuplicateFn != nil && d.isDuplicateFn(err)
}

// MySQL relies on the primary key: a duplicate insert fails with error 1062.
var MySQL = Dialect{
	name:       "mysql",
	driver:     "mysql",
	claimQuery: `INSERT INTO psc_suggestions (hash, created_at) VALUES (?, ?)`,
	logQuery: `INSERT INTO psc_logs (id, action_url, score, rules_json, checks_json, satisfied, user_agent, ip_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS psc_suggestions (
			hash       CHAR(64)    NOT NULL PRIMARY KEY,
			created_at DATETIME(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS psc_logs (
			id          CHAR(26)      NOT NULL PRIMARY KEY,
			action_url  VARCHAR(1024) NOT NULL DEFAULT '',
			score       TINYINT       NOT NULL,
			rules_json  TEXT          NOT NULL,
			checks_json TEXT          NOT NULL,
			satisfied   BOOLEAN       NOT NULL DEFAULT FALSE,
			user_agent  VARCHAR(512)  NOT NULL DEFAULT '',
			ip_hash     CHAR(64)      NULL,
			created_at  DATETIME(6)   NOT NULL
		)`,
	},
	isDuplicateFn: isDuplicateEntryError,
}

// Postgres makes the insert-if-absent explicit with ON CONFLICT DO NOTHING;
// a collision shows up as zero affected rows.
var Postgres = Dialect{
	name:   "postgres",
	driver: "pgx",
	claimQuery: `INSERT INTO psc_suggestions (hash, created_at) VALUES ($1, $2)
		ON CONFLICT (hash) DO NOTHING`,
	logQuery: `INSERT INTO psc_logs (id, action_url, score, rules_json, checks_json, satisfied, user_agent, ip_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS psc_suggestions (
			hash       CHAR(64)    NOT NULL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS psc_logs (
			id          CHAR(26)      NOT NULL PRIMARY KEY,
			action_url  VARCHAR(1024) NOT NULL DEFAULT '',
			score       SMALLINT      NOT NULL,
			rules_json  JSONB         NOT NULL,
			checks_json JSONB         NOT NULL,
			satisfied   BOOLEAN       NOT NULL DEFAULT FALSE,
			user_agent  VARCHAR(512)  NOT NULL DEFAULT '',
			ip_hash     CHAR(64)      NULL,
			created_at  TIMESTAMPTZ   NOT NULL
		)`,
	},
	isDuplicateFn: isUniqueViolation,
}

// DialectByName returns the dialect for "mysql" or "postgres".
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MySQL.name:
		return MySQL, nil
	case Postgres.name, "postgresql", "pgx":
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isUniqueViolation checks for PostgreSQL SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
