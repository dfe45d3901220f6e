package model

import (
	"strings"
	"time"
)

const (
	RoomTypePrivate = "PRIVATE"
	RoomTypeRooftop = "ROOFTOP"
	RoomTypeGarden  = "GARDEN"
	RoomTypeBanquet = "BANQUET"
)

type Room struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID  string    `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	RoomType      string    `json:"room_type" bson:"room_type" validate:"required,oneof=PRIVATE ROOFTOP GARDEN BANQUET"`
	MinCapacity   int       `json:"min_capacity" bson:"min_capacity" validate:"required,min=1"`
	MaxCapacity   int       `json:"max_capacity" bson:"max_capacity" validate:"required,gtefield=MinCapacity"`
	MinSpendCents int64     `json:"min_spend_cents" bson:"min_spend_cents" validate:"omitempty,min=0"`
	OpeningTime   string    `json:"opening_time" bson:"opening_time" validate:"required,datetime=15:04"`
	ClosingTime   string    `json:"closing_time" bson:"closing_time" validate:"required,datetime=15:04"`
	OpenDays      []string  `json:"open_days" bson:"open_days" validate:"required,min=1,max=7,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// AllWeekdays is the explicit default for rooms created without an open-day
// set. Callers get a fresh slice, never a shared one.
func AllWeekdays() []string {
	return []string{
		"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
	}
}

// WeekdayName maps a time.Weekday onto the open-day vocabulary.
func WeekdayName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

// OpenOn reports whether the room operates on the given weekday.
func (r *Room) OpenOn(d time.Weekday) bool {
	name := WeekdayName(d)
	for _, day := range r.OpenDays {
		if day == name {
			return true
		}
	}
	return false
}

// OperatingWindow resolves the room's opening hours for a date using the same
// midnight-crossing rule reservations use, so a 18:00-02:00 room closes on
// the following day.
func (r *Room) OperatingWindow(date string) (TimeWindow, error) {
	return ResolveWindow(date, r.OpeningTime, r.ClosingTime)
}

// FitsGroup reports whether the room's capacity range accommodates groupSize.
func (r *Room) FitsGroup(groupSize int) bool {
	return groupSize >= r.MinCapacity && groupSize <= r.MaxCapacity
}
