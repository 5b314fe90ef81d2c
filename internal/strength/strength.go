// Package strength scores passwords against a character-class rule set.
//
// The same Evaluate function backs the live feedback shown to users, the
// self-check the passphrase generator's output must pass, and the consistency
// check applied to client-reported scores. Any client-side mirror must follow
// these rules exactly.
package strength

import (
	"errors"
	"unicode/utf8"
)

const (
	// DefaultMinLength is the minimum length of the default rule set.
	DefaultMinLength = 12

	// MaxMinLength is the longest minimum a rule set may demand. Suggestions
	// are never longer, so a stricter policy could not be met by them.
	MaxMinLength = 128

	// MaxScore is the score of a password that passes every check.
	MaxScore = 4
)

var ErrInvalidMinLength = errors.New("min length must be between 1 and 128")

// RuleSet is the configurable strength policy.
type RuleSet struct {
	MinLength     int  `json:"minLength"`
	RequireLower  bool `json:"lowercase"`
	RequireUpper  bool `json:"uppercase"`
	RequireNumber bool `json:"number"`
	RequireSymbol bool `json:"symbol"`
}

// DefaultRuleSet returns the policy used when no other is configured:
// 12 characters with every character class required.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		MinLength:     DefaultMinLength,
		RequireLower:  true,
		RequireUpper:  true,
		RequireNumber: true,
		RequireSymbol: true,
	}
}

// WithMinLength returns a copy of rs with a different minimum length.
func (rs RuleSet) WithMinLength(n int) RuleSet {
	rs.MinLength = n
	return rs
}

// Validate reports whether the rule set can be evaluated.
func (rs RuleSet) Validate() error {
	if rs.MinLength < 1 || rs.MinLength > MaxMinLength {
		return ErrInvalidMinLength
	}
	return nil
}

// Satisfied reports whether checks meet every requirement of the rule set.
func (rs RuleSet) Satisfied(c Checks) bool {
	if !c.LengthOK {
		return false
	}
	if rs.RequireLower && !c.HasLower {
		return false
	}
	if rs.RequireUpper && !c.HasUpper {
		return false
	}
	if rs.RequireNumber && !c.HasNumber {
		return false
	}
	if rs.RequireSymbol && !c.HasSymbol {
		return false
	}
	return true
}

// Checks holds the individual rule outcomes for a password.
type Checks struct {
	LengthOK  bool `json:"lengthOk"`
	HasLower  bool `json:"hasLower"`
	HasUpper  bool `json:"hasUpper"`
	HasNumber bool `json:"hasNumber"`
	HasSymbol bool `json:"hasSymbol"`
}

// Result is the strength classification of a password.
type Result struct {
	Score  int    `json:"score"`
	Label  string `json:"label"`
	Checks Checks `json:"checks"`
}

// Evaluate scores password against rules. It is pure and deterministic.
func Evaluate(password string, rules RuleSet) Result {
	checks := Checks{
		LengthOK: utf8.RuneCountInString(password) >= rules.MinLength,
	}

	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			checks.HasLower = true
		case r >= 'A' && r <= 'Z':
			checks.HasUpper = true
		case r >= '0' && r <= '9':
			checks.HasNumber = true
		default:
			checks.HasSymbol = true
		}
	}

	score := Score(checks)
	return Result{
		Score:  score,
		Label:  Label(score),
		Checks: checks,
	}
}

// Score sums the check contributions. Lower and upper case only count
// together: a password with a single letter case earns nothing for case.
func Score(c Checks) int {
	score := 0
	if c.LengthOK {
		score++
	}
	if c.HasLower && c.HasUpper {
		score++
	}
	if c.HasNumber {
		score++
	}
	if c.HasSymbol {
		score++
	}
	return score
}

// Label maps a score to its display label.
func Label(score int) string {
	switch {
	case score >= 4:
		return "very strong"
	case score == 3:
		return "strong"
	case score == 2:
		return "medium"
	default:
		return "weak"
	}
}

// Labels returns the label of every reachable score, indexed by score.
func Labels() []string {
	labels := make([]string, MaxScore+1)
	for i := range labels {
		labels[i] = Label(i)
	}
	return labels
}
