package model

import "time"

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Reservation struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RestaurantID string    `json:"restaurant_id" bson:"restaurant_id" validate:"required,mongodb"`
	RoomID       string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	DinerEmail   string    `json:"diner_email" bson:"diner_email" validate:"required,email"`
	Date         string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string    `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime      string    `json:"end_time" bson:"end_time" validate:"required,datetime=15:04"`
	GroupSize    int       `json:"group_size" bson:"group_size" validate:"required,min=1"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=CONFIRMED CANCELLED"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Window resolves the reservation's absolute time window, interpreting an end
// time at or before the start time as crossing midnight.
func (r *Reservation) Window() (TimeWindow, error) {
	return ResolveWindow(r.Date, r.StartTime, r.EndTime)
}

// AutoAssignRequest asks the system to pick a fitting room of the requested
// type instead of naming one.
type AutoAssignRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required,mongodb"`
	RoomType     string `json:"room_type" validate:"required,oneof=PRIVATE ROOFTOP GARDEN BANQUET"`
	DinerEmail   string `json:"diner_email" validate:"required,email"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
	GroupSize    int    `json:"group_size" validate:"required,min=1"`
}

// TimeFrame is a requested slot used by availability queries.
type TimeFrame struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

// ReservationView is the projection returned to clients and published on the
// confirmation topic.
type ReservationView struct {
	ID             string `json:"id"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	RoomID         string `json:"room_id"`
	RoomName       string `json:"room_name"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	GroupSize      int    `json:"group_size"`
	Status         string `json:"status"`
	DinerEmail     string `json:"diner_email"`
}

// NewReservationView builds the projection from a persisted reservation and
// its owning restaurant and room.
func NewReservationView(res *Reservation, restaurant *Restaurant, room *Room) ReservationView {
	return ReservationView{
		ID:             res.ID,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
		RoomID:         room.ID,
		RoomName:       room.Name,
		Date:           res.Date,
		StartTime:      res.StartTime,
		EndTime:        res.EndTime,
		GroupSize:      res.GroupSize,
		Status:         res.Status,
		DinerEmail:     res.DinerEmail,
	}
}
