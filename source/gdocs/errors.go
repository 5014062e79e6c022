package gdocs

import "errors"

var (
	// ErrCredentialsRequired is returned when no credentials file is configured.
	ErrCredentialsRequired = errors.New("google drive credentials file required")

	// ErrUnsupportedKind is returned when a non-document kind is requested.
	ErrUnsupportedKind = errors.New("gdocs source produces document records only")
)
