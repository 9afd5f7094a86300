package models

import (
	"errors"
	"strings"
)

var ErrMatchRuleMatchMissing = errors.New("match rules must have a match pattern")

// MatchRule automatically assigns a category to incoming transactions whose
// note matches the glob pattern. Rules are checked in ascending priority
// order, the first match wins.
type MatchRule struct {
	DefaultModel
	Priority   uint   `json:"priority"`
	Match      string `json:"match"`
	CategoryID string `json:"categoryId"`
}

// Normalize trims the match pattern.
func (m *MatchRule) Normalize() {
	m.Match = strings.TrimSpace(m.Match)
}

// Validate verifies the state of the match rule before it is persisted.
func (m MatchRule) Validate() error {
	if m.Match == "" {
		return ErrMatchRuleMatchMissing
	}

	return nil
}
