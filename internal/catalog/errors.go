package catalog

import "errors"

// Sentinel errors for catalog operations.
var (
	ErrUnknownMediaType = errors.New("unknown media type")
	ErrUnknownFilter    = errors.New("unknown filter")
	ErrBusy             = errors.New("a load is already in progress")
	ErrNoMorePages      = errors.New("no more pages")
)
