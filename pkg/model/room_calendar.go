package model

import "time"

// RoomCalendarEntry is the per-(room, date) lock anchor. It carries no
// reservation data: it exists so that the very first booking attempt for a
// room-day has a stable document to lock, without serializing unrelated days
// or rooms. Entries are created lazily and never deleted.
type RoomCalendarEntry struct {
	ID            string    `bson:"_id" json:"id"` // "<room_id>:<date>"
	RoomID        string    `bson:"room_id" json:"room_id"`
	Date          string    `bson:"date" json:"date"`
	Locked        bool      `bson:"locked" json:"locked"`
	LockOwner     string    `bson:"lock_owner,omitempty" json:"lock_owner,omitempty"`
	LockExpiresAt time.Time `bson:"lock_expires_at,omitempty" json:"lock_expires_at,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// CalendarLockKey is the anchor document id for a room and date.
func CalendarLockKey(roomID, date string) string {
	return roomID + ":" + date
}

// CalendarLock is a held lock handle. Release must be called with the same
// handle; the owner token guards against releasing a lock taken over by
// another caller after expiry.
type CalendarLock struct {
	Key   string
	Owner string
}
