package categorizererror

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is matched by every InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient training data")

	// ErrInvalidCorrection signals a structurally invalid correction request.
	ErrInvalidCorrection = errors.New("invalid correction")
)

// InsufficientDataError reports that training could not run because too few
// labeled samples were available.
type InsufficientDataError struct {
	Scope string // "total" or "category"
	Count int
	Min   int
}

func (e *InsufficientDataError) Error() string {
	switch e.Scope {
	case "category":
		return fmt.Sprintf("no category has at least %d training samples", e.Min)
	default:
		return fmt.Sprintf("need at least %d training samples, have %d", e.Min, e.Count)
	}
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// PersistenceError represents a failed read or write of durable state.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PersistenceWarning wraps a persistence failure that happened after the
// in-memory state was already updated. Callers may treat it as non-fatal.
type PersistenceWarning struct {
	Err error
}

func (e *PersistenceWarning) Error() string {
	return fmt.Sprintf("state updated in memory but not persisted: %v", e.Err)
}

func (e *PersistenceWarning) Unwrap() error {
	return e.Err
}

// IsWarning reports whether err only carries persistence warnings. For a
// joined error every member must be a warning.
func IsWarning(err error) bool {
	for err != nil {
		if _, ok := err.(*PersistenceWarning); ok {
			return true
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return false
			}
			for _, e := range errs {
				if !IsWarning(e) {
					return false
				}
			}
			return true
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		default:
			return false
		}
	}
	return false
}
