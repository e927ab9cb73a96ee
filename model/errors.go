package model

import "errors"

// NotFoundError reports a request against an appointment id the data layer
// does not know about. The data layer is the source of truth; callers surface
// this and do not retry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "appointment " + e.ID + " not found"
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
