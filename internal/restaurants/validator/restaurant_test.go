package validator

import (
	"io"
	"testing"

	"dinehall/pkg/logger"
	"dinehall/pkg/model"
)

func testLog() *logger.Logger {
	return logger.New(logger.Config{
		Level:  "error",
		Format: logger.JSON,
		Output: io.Discard,
	})
}

func validRestaurant() *model.Restaurant {
	return &model.Restaurant{
		Name:         "Trattoria Prova",
		Address:      "12 Harbour St",
		Contact:      "+14155551234",
		Email:        "host@trattoria.example",
		CurrencyCode: "USD",
	}
}

func TestValidateRestaurant(t *testing.T) {
	v := NewRestaurantValidator(testLog())

	if err := v.Validate(validRestaurant()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *model.Restaurant)
	}{
		{"missing name", func(r *model.Restaurant) { r.Name = "" }},
		{"name too short", func(r *model.Restaurant) { r.Name = "a" }},
		{"bad phone", func(r *model.Restaurant) { r.Contact = "555-1234" }},
		{"bad email", func(r *model.Restaurant) { r.Email = "not-an-email" }},
		{"bad currency", func(r *model.Restaurant) { r.CurrencyCode = "DOLLARS" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRestaurant()
			tt.mutate(r)
			if err := v.Validate(r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func validRoom() *model.Room {
	return &model.Room{
		RestaurantID: "507f1f77bcf86cd799439011",
		Name:         "Garden Room",
		RoomType:     model.RoomTypeGarden,
		MinCapacity:  5,
		MaxCapacity:  20,
		OpeningTime:  "17:00",
		ClosingTime:  "02:00",
		OpenDays:     model.AllWeekdays(),
	}
}

func TestValidateRoom(t *testing.T) {
	v := NewRestaurantValidator(testLog())

	if err := v.ValidateRoom(validRoom()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *model.Room)
	}{
		{"bad room type", func(r *model.Room) { r.RoomType = "CELLAR" }},
		{"max below min capacity", func(r *model.Room) { r.MaxCapacity = 4 }},
		{"bad opening time", func(r *model.Room) { r.OpeningTime = "5pm" }},
		{"closing equals opening", func(r *model.Room) { r.ClosingTime = r.OpeningTime }},
		{"empty open days", func(r *model.Room) { r.OpenDays = []string{} }},
		{"unknown open day", func(r *model.Room) { r.OpenDays = []string{"FUNDAY"} }},
		{"duplicate open day", func(r *model.Room) { r.OpenDays = []string{"MONDAY", "MONDAY"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoom()
			tt.mutate(r)
			if err := v.ValidateRoom(r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
