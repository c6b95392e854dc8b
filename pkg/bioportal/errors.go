package bioportal

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidRequest marks malformed caller input. No upstream call
	// is attempted; use errors.Is to classify.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoAPIKey is returned when no credential is available.
	ErrNoAPIKey = errors.New("BioPortal API key is required: provide api_key or set " + EnvAPIKey)
)

// UpstreamError reports a failed upstream call: a transport failure,
// a non-2xx status, or a body that is not valid JSON. The Excerpt is
// truncated for diagnostics; calls are never retried.
type UpstreamError struct {
	// StatusCode is the HTTP status, 0 when the request never completed.
	StatusCode int
	// Excerpt holds the beginning of the response body, if any.
	Excerpt string

	cause error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("bioportal: request failed: %v", e.cause)
	case e.cause != nil:
		return fmt.Sprintf("bioportal: unable to parse response: status %d: %v", e.StatusCode, e.cause)
	default:
		return fmt.Sprintf("bioportal: upstream returned status %d: %s", e.StatusCode, e.Excerpt)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.cause
}
