package slack

import "errors"

var (
	// ErrTokenRequired is returned when no bot token is configured.
	ErrTokenRequired = errors.New("slack bot token required")

	// ErrUnsupportedKind is returned when a non-message kind is requested.
	ErrUnsupportedKind = errors.New("slack source produces message records only")
)
