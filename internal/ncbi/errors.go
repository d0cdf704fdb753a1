package ncbi

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports a failed exchange with E-utilities: either the
// request never got a response (StatusCode 0) or the response status was
// not 2xx.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("NCBI %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("NCBI returned HTTP %d (%s) for %s", e.StatusCode, http.StatusText(e.StatusCode), e.Endpoint)
	case e.Err != nil:
		return fmt.Sprintf("NCBI %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("NCBI %s: transport failure", e.Endpoint)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
