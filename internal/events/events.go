package events

const (
	// EventReservationConfirmed is published after a reservation commits.
	EventReservationConfirmed = "reservation.confirmed"

	// Source identifies this system in event headers.
	Source = "dinehall"
)
