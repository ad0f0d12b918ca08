package model

import "fmt"

const (
	MsgTitleRequired  = "Title is required."
	MsgDateRequired   = "Date is required."
	MsgTimeRequired   = "Time is required."
	MsgInvalidInstant = "Invalid date/time."
)

// ValidationError reports a missing or malformed event field. Its message is
// shown to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model: event %d not found", e.ID)
}

// ImportError reports an import payload that is not an array of objects.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return "model: import failed"
	}
	return fmt.Sprintf("model: import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
