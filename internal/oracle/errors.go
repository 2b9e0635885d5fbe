package oracle

import "fmt"

// NetworkError means the request never produced a response: DNS failure,
// refused connection, timeout at the transport layer.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("oracle unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BackendError means the Oracle responded with a non-success status.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("oracle returned %d: %s", e.StatusCode, e.Body)
}

// MalformedResponseError means the response parsed but is unusable, e.g. an
// empty question list.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed oracle response: " + e.Reason
}
