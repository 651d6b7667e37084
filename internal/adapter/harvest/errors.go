package harvest

import "fmt"

// TransportError wraps a request that never produced an HTTP response:
// connection refused, timeout, TLS failure, or a body cut short.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("harvest: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteRejection is a non-2xx response. It only surfaces when the body also
// fails to decode as the expected resource; see domain.DecodeError.
type RemoteRejection struct {
	Status int
	Body   string
}

func (e *RemoteRejection) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	return fmt.Sprintf("harvest: unexpected status %d: %s", e.Status, body)
}
