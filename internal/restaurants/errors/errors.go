package errors

import "errors"

var (
	ErrNotFound = errors.New("restaurant not found")

	ErrRoomNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid ID format")
)
