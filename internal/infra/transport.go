package infra

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"vista-nav/internal/domain"
)

// TransportError is returned by backend clients for any failed exchange:
// network errors, non-2xx statuses and undecodable bodies alike.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == domain.ErrTransport
}

// CheckStatus turns a non-2xx response into an error carrying a bounded
// excerpt of the body.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if len(body) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), string(body))
}
