package strategy

import (
	"errors"
	"fmt"

	"signaldesk/src/model"
)

var (
	// ErrInvalidPair rejects an empty or oversized instrument name.
	ErrInvalidPair = errors.New("pair is required and must be at most 32 characters")
	// ErrAllProvidersFailed is returned when no provider produced an opinion.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
)

// ProviderError records why one provider did not contribute an opinion.
type ProviderError struct {
	Provider model.ProviderName
	Stage    Stage
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s %s: %v", e.Provider, e.Stage, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrorKind names the failure class for logs and metrics.
func ErrorKind(err error) string {
	var perr *PersistenceError
	var provErr *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPair):
		return "validation"
	case errors.Is(err, ErrAllProvidersFailed):
		return "providers"
	case errors.As(err, &provErr):
		return "provider_" + string(provErr.Stage)
	case errors.As(err, &perr):
		return "persistence"
	default:
		return "internal"
	}
}
