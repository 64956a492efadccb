// Package upstream classifies failures of calls to third-party HTTP services
// (the LLM provider and the geocoder).
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"unicode/utf8"
)

var (
	ErrUnavailable = errors.New("upstream service unavailable")
	ErrTimeout     = errors.New("upstream service timed out")
	ErrStatus      = errors.New("upstream service returned an error status")
)

const maxBodyExcerpt = 200

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func NewStatusError(service string, statusCode int, body []byte) *StatusError {
	return &StatusError{Service: service, StatusCode: statusCode, Body: excerpt(string(body), maxBodyExcerpt)}
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// ClassifyTransportError maps an error from http.Client.Do onto ErrTimeout or ErrUnavailable.
// A cancelled caller context is returned unchanged.
func ClassifyTransportError(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w: %v", service, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", service, ErrUnavailable, err)
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
