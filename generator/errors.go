package generator

import "errors"

// Sentinel errors for generator operations.
var (
	// ErrUnsupportedFormat is returned by ExportHistory for an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrNoProvider is reported when a Generator was built without a
	// Completer and a remote call is needed.
	ErrNoProvider = errors.New("no model provider configured")
)
