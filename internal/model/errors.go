package model

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery rejects a missing or blank subject query
var ErrEmptyQuery = errors.New("query must not be empty")

// ResolutionKind separates a genuine miss from an upstream failure. Both
// map to the same client-facing not-found response, but the kind is kept
// for logging.
type ResolutionKind string

const (
	ResolutionMissing  ResolutionKind = "missing"
	ResolutionUpstream ResolutionKind = "upstream"
)

// ResolutionError is a terminal failure in the ordered dependency chain
// (summary lookup, entity id, claims). Stage names the failed dependency.
type ResolutionError struct {
	Stage string
	Kind  ResolutionKind
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %s (%s): %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %s (%s)", e.Stage, e.Kind)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NotFound builds a missing-data resolution error for a stage
func NotFound(stage string) *ResolutionError {
	return &ResolutionError{Stage: stage, Kind: ResolutionMissing}
}

// UpstreamFailure builds an upstream-failure resolution error for a stage
func UpstreamFailure(stage string, err error) *ResolutionError {
	return &ResolutionError{Stage: stage, Kind: ResolutionUpstream, Err: err}
}
