package rag

import (
	"errors"
	"fmt"
)

// Sentinel outcomes of the pipelines. Handlers map these to user-facing
// responses; anything else is treated as an internal error.
var (
	// ErrUnsupportedInput marks a file type no reader accepts. The file is
	// skipped, sibling files in the batch still ingest.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrUnavailable marks a failed call to an upstream collaborator
	// (embeddings, vector index, completion model, blob store). Retryable.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrNotFound marks a missing notebook or collection. Query paths treat
	// it as an empty result, not a failure.
	ErrNotFound = errors.New("not found")
)

// BlockedError is returned when the completion model refuses a turn on
// safety grounds. Callers must surface it distinctly from ErrUnavailable:
// the user sees the safety reason, not a retry hint.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("completion blocked: %s", e.Reason)
}

// PersistenceError wraps a document-database write failure that happened
// after a successful model call. It is logged, never propagated in place of
// the generated answer.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
