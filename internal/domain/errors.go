package domain

import (
	"fmt"
	"net/http"
)

// FetchFailedError is returned when a GitHub request does not yield a usable
// collection: a non-2xx status, a transport failure or an undecodable body.
// Status is zero when no HTTP response was received.
type FetchFailedError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchFailedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s failed: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("fetch %s failed with status %d %s: %v", e.Resource, e.Status, http.StatusText(e.Status), e.Err)
}

func (e *FetchFailedError) Unwrap() error { return e.Err }

// MissingFieldError is returned when a record lacks a field a report needs.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("record %d: missing field %q", e.Index, e.Field)
}

// InvalidFieldError is returned when a field is present but holds a JSON type
// the report cannot use.
type InvalidFieldError struct {
	Field string
	Index int
	Want  string
	Value any
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("record %d: field %q is %T, want %s", e.Index, e.Field, e.Value, e.Want)
}

// MalformedTimestampError is returned when a timestamp field does not match
// TimestampLayout.
type MalformedTimestampError struct {
	Field string
	Index int
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("record %d: field %q has malformed timestamp %q", e.Index, e.Field, e.Value)
}

// LengthMismatchError is returned when parallel series passed to an aggregation
// are not aligned.
type LengthMismatchError struct {
	Want, Got int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("series length mismatch: want %d, got %d", e.Want, e.Got)
}

// UnclassifiedError is returned when a record's state fits no bucket of a
// status partition.
type UnclassifiedError struct {
	Index int
	State string
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("record %d: state %q fits no bucket", e.Index, e.State)
}
