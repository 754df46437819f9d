package errors

import (
	stderrors "errors"
	"fmt"
)

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount  = fmt.Errorf("invalid field count")
	ErrInvalidAge         = fmt.Errorf("invalid age")
	ErrInvalidArea        = fmt.Errorf("invalid area")
	ErrInvalidPriority    = fmt.Errorf("invalid priority")
	ErrInvalidStatus      = fmt.Errorf("invalid status")
	ErrInvalidArrivalTime = fmt.Errorf("invalid arrival time")
	ErrInvalidAvailable   = fmt.Errorf("invalid availability")
	ErrEmptyName          = fmt.Errorf("empty name")
	ErrNoInput            = fmt.Errorf("no snapshot input given")
)

// Kind returns a short label for err suitable for a metric label.
func Kind(err error) string {
	switch {
	case stderrors.Is(err, ErrInvalidFieldCount):
		return "field_count"
	case stderrors.Is(err, ErrInvalidAge):
		return "age"
	case stderrors.Is(err, ErrInvalidArea):
		return "area"
	case stderrors.Is(err, ErrInvalidPriority):
		return "priority"
	case stderrors.Is(err, ErrInvalidStatus):
		return "status"
	case stderrors.Is(err, ErrInvalidArrivalTime):
		return "arrival_time"
	case stderrors.Is(err, ErrInvalidAvailable):
		return "available"
	case stderrors.Is(err, ErrEmptyName):
		return "name"
	default:
		return "other"
	}
}
