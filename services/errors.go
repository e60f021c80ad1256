package services

import (
	"errors"
	"fmt"
)

// RejectionError marks a user-correctable rejection: blank names, missing
// reasons, empty amendment diffs, duplicate guests. Nothing is partially
// applied when one is returned.
type RejectionError struct {
	msg string
}

func (e *RejectionError) Error() string {
	return e.msg
}

// Reject builds a user-facing rejection error.
func Reject(format string, args ...any) error {
	return &RejectionError{msg: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is user-correctable rather than internal.
func IsRejection(err error) bool {
	var r *RejectionError
	return errors.As(err, &r)
}
