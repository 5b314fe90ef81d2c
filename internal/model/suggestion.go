package model

import "github.com/passcheck/passcheck-go/internal/strength"

// SuggestResponse represents a unique password suggestion. The password is
// handed out once and never stored.
type SuggestResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
	Strength string `json:"strength"`
	Unique   bool   `json:"unique"`
}

// SuggestBounds describes the accepted range of the suggestion length.
type SuggestBounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// RulesResponse exposes the scoring policy so a client-side scorer can mirror it.
type RulesResponse struct {
	Rules    strength.RuleSet `json:"rules"`
	Labels   []string         `json:"labels"`
	MaxScore int              `json:"max_score"`
	Suggest  SuggestBounds    `json:"suggest"`
}
