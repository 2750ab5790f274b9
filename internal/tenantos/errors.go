package tenantos

import "fmt"

// RequestError reports a non-2xx reply from the remote API, with the body
// kept for the operator (the remote puts its error detail there).
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("tenantos: unexpected status %d: %s", e.StatusCode, e.Body)
}
