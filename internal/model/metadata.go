package model

import (
	"time"

	"github.com/passcheck/passcheck-go/internal/strength"
)

// LogRequest represents the metadata a client reports after a strength check.
// It carries no password.
type LogRequest struct {
	ActionURL string           `json:"action_url"`
	Score     *int             `json:"score"`
	Rules     strength.RuleSet `json:"rules"`
	Checks    strength.Checks  `json:"checks"`
}

// MetadataEntry represents a row in the metadata log.
type MetadataEntry struct {
	ID         string
	ActionURL  string
	Score      int
	Rules      strength.RuleSet
	Checks     strength.Checks
	Satisfied  bool // checks meet every requirement of Rules
	UserAgent  string
	OriginHash string // hex HMAC of the remote address, empty if unknown
	CreatedAt  time.Time
}
