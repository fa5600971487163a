package catalog

import "fmt"

// NetworkError wraps a transport-level failure while fetching the feed.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("feed network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-success response status from the feed endpoint.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("feed returned http status %d", e.Status)
}
