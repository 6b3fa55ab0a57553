package models

import (
	"fmt"
	"sort"
	"strings"
)

// FetchError is returned when the catalog or the init-data call fails.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError keeps the message for every rejected checkout field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// OrderSubmissionError is returned when the backend did not accept an order.
type OrderSubmissionError struct {
	StatusCode int
	Err        error
}

func (e *OrderSubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("order submission failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *OrderSubmissionError) Unwrap() error {
	return e.Err
}

// StorageCorruptionError means a stored cart could not be decoded.
// Callers treat it as "no prior cart".
type StorageCorruptionError struct {
	Slot string
	Err  error
}

func (e *StorageCorruptionError) Error() string {
	return fmt.Sprintf("cart slot %q is corrupt: %v", e.Slot, e.Err)
}

func (e *StorageCorruptionError) Unwrap() error {
	return e.Err
}
