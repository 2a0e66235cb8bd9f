package api

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ReasonNotFound      = "notFound"
	ReasonAccessDenied  = "accessDenied"
	ReasonPrivateWarLog = "privateWarLog"
	ReasonNotInWar      = "notInWar"
)

// Error is a non-2xx answer from the game API or the developer portal.
type Error struct {
	Status  int    `json:"-"`
	Path    string `json:"-"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d on %s: %s (%s)", e.Status, e.Path, e.Reason, e.Message)
	}
	return fmt.Sprintf("API error %d on %s: %s", e.Status, e.Path, e.Reason)
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.Status == 404 || apiErr.Reason == ReasonNotFound
}

// IsPrivateWarLog reports whether the clan hides its war data.
func IsPrivateWarLog(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.Status == 403 ||
		apiErr.Reason == ReasonAccessDenied ||
		apiErr.Reason == ReasonPrivateWarLog ||
		strings.Contains(apiErr.Message, ReasonPrivateWarLog)
}

// IsNotInWar reports whether the clan has no league group this season.
func IsNotInWar(err error) bool {
	apiErr, ok := asError(err)
	if !ok {
		return false
	}
	return apiErr.Status == 404 || apiErr.Reason == ReasonNotInWar || apiErr.Reason == ReasonNotFound
}

// Status returns the HTTP status of an upstream error, or 0.
func Status(err error) int {
	apiErr, ok := asError(err)
	if !ok {
		return 0
	}
	return apiErr.Status
}
