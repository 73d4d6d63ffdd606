package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for upstream calls.
var (
	ErrNoAPIKey        = errors.New("API key is not configured")
	ErrMissingEndpoint = errors.New("no endpoint provided")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrInvalidBody     = errors.New("upstream body is not JSON")
	ErrBuildRequest    = errors.New("cannot build upstream request")
	ErrNotFound        = errors.New("not found")
)

// UpstreamError is a non-2xx reply from the metadata API.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 reply.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
