package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrCalendarMissing = errors.New("room calendar entry missing")

	ErrLockUnavailable = errors.New("room calendar lock unavailable")

	ErrStatusConflict = errors.New("reservation status changed concurrently")
)
