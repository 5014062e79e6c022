package grouping

import "errors"

var (
	// ErrNoRules is returned when an engine is built without rules.
	ErrNoRules = errors.New("at least one rule required")

	// ErrEmptyRuleName is returned when a rule has no category name.
	ErrEmptyRuleName = errors.New("rule name cannot be empty")

	// ErrDuplicateRuleName is returned when two rules share a category name.
	ErrDuplicateRuleName = errors.New("duplicate rule name")

	// ErrMissingCatchAll is returned when the last rule is not a catch-all.
	ErrMissingCatchAll = errors.New("last rule must be a keywordless catch-all")

	// ErrEmptyKeywords is returned when a non-terminal rule has no keywords.
	ErrEmptyKeywords = errors.New("only the terminal catch-all rule may have no keywords")
)
