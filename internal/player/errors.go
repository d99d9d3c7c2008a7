package player

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced player does not exist.
	ErrNotFound = errors.New("player not found")
	// ErrMalformedEntry marks a metric value that is not a non-negative integer.
	ErrMalformedEntry = errors.New("malformed match entry")
	// ErrStorage wraps every failure of the persistence layer.
	ErrStorage = errors.New("storage error")
	// ErrConflict is returned by Persist when the stored version moved underneath the caller.
	ErrConflict = fmt.Errorf("%w: version conflict", ErrStorage)
)

// MalformedEntry describes one value that could not be parsed during aggregation.
type MalformedEntry struct {
	Metric Metric `json:"metric"`
	Index  int    `json:"index"`
	Value  string `json:"value"`
}

func (m MalformedEntry) Error() string {
	return fmt.Sprintf("%s entry %d has non-numeric value %q", m.Metric, m.Index, m.Value)
}

// Unwrap lets errors.Is match ErrMalformedEntry.
func (m MalformedEntry) Unwrap() error {
	return ErrMalformedEntry
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
