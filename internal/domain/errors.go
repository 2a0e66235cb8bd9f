package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingCredentials = errors.New("COC_EMAIL and COC_PASSWORD must be set")
	ErrUpstreamTimeout    = errors.New("upstream request timed out")
)

// AuthError reports that no upstream session could be established.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream login failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsTimeout reports whether err means the upstream did not answer in time.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "aborted") || strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}
