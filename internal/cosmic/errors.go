package cosmic

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-2xx response from the bucket API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cosmic: status %d", e.StatusCode)
	}
	return fmt.Sprintf("cosmic: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err carries the API's 404 signal. The bucket
// answers 404 both for unknown slugs and for queries matching nothing.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}
	return false
}
