package gmail

import "errors"

var (
	// ErrCredentialsRequired is returned when no credentials file is configured.
	ErrCredentialsRequired = errors.New("gmail credentials file required")

	// ErrUnsupportedKind is returned when a non-email kind is requested.
	ErrUnsupportedKind = errors.New("gmail source produces email records only")
)
