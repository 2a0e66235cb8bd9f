package domain

import "encoding/json"

type ResultState string

const (
	StateOK       ResultState = "ok"
	StatePrivate  ResultState = "private"
	StateNotInCWL ResultState = "notInCWL"
)

// Result is either a fetched record or an expected upstream condition that
// the dashboard renders as a message instead of an error.
type Result[T any] struct {
	Value  T
	State  ResultState
	Reason string
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, State: StateOK}
}

func Private[T any](reason string) Result[T] {
	return Result[T]{State: StatePrivate, Reason: reason}
}

func NotInCWL[T any](reason string) Result[T] {
	return Result[T]{State: StateNotInCWL, Reason: reason}
}

func (r Result[T]) IsOK() bool {
	return r.State == StateOK
}

type sentinelJSON struct {
	State  ResultState `json:"state"`
	Error  string      `json:"error"`
	Cached bool        `json:"cached"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.IsOK() {
		return json.Marshal(r.Value)
	}
	return json.Marshal(sentinelJSON{State: r.State, Error: r.Reason})
}
