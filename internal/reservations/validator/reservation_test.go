package validator

import (
	"io"
	"testing"
	"time"

	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"
)

func testValidator(t *testing.T) *ReservationValidator {
	t.Helper()

	log := logger.New(logger.Config{
		Level:  "error",
		Format: logger.JSON,
		Output: io.Discard,
	})
	cfg := &config.Config{
		AdvanceBookingDays: 30,
		MinBookingHours:    3,
		Log:                log,
	}

	v := NewReservationValidator(log, cfg)
	v.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return v
}

func code(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return apperrors.AsAppError(err).Code
}

func TestValidateSlot(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
		wantCode  string
	}{
		{
			name: "tomorrow evening is fine",
			date: "2026-09-02", startTime: "18:00", endTime: "22:00",
		},
		{
			name: "last day of the horizon is fine",
			date: "2026-10-01", startTime: "18:00", endTime: "22:00",
		},
		{
			name: "today later than now is fine",
			date: "2026-09-01", startTime: "15:00", endTime: "19:00",
		},
		{
			name: "yesterday is rejected",
			date: "2026-08-31", startTime: "18:00", endTime: "22:00",
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "beyond the booking horizon is rejected",
			date: "2026-10-02", startTime: "18:00", endTime: "22:00",
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "today at the current instant is rejected",
			date: "2026-09-01", startTime: "12:00", endTime: "16:00",
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "today in the past is rejected",
			date: "2026-09-01", startTime: "10:00", endTime: "14:00",
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "shorter than three hours is rejected",
			date: "2026-09-02", startTime: "18:00", endTime: "20:59",
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "exactly three hours is fine",
			date: "2026-09-02", startTime: "18:00", endTime: "21:00",
		},
		{
			name: "three hours across midnight is fine",
			date: "2026-09-02", startTime: "23:00", endTime: "02:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSlot(tt.date, tt.startTime, tt.endTime)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := code(t, err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestValidateRoomRules(t *testing.T) {
	v := testValidator(t)

	room := &model.Room{
		MinCapacity: 10,
		MaxCapacity: 20,
		OpeningTime: "17:00",
		ClosingTime: "02:00",
		OpenDays:    []string{"WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"},
	}

	// 2026-09-02 is a Wednesday.
	base := model.Reservation{
		Date:      "2026-09-02",
		StartTime: "18:00",
		EndTime:   "22:00",
		GroupSize: 12,
	}

	tests := []struct {
		name     string
		mutate   func(res *model.Reservation)
		wantCode string
	}{
		{
			name:   "valid reservation",
			mutate: func(res *model.Reservation) {},
		},
		{
			name:   "group size at lower bound",
			mutate: func(res *model.Reservation) { res.GroupSize = 10 },
		},
		{
			name:   "group size at upper bound",
			mutate: func(res *model.Reservation) { res.GroupSize = 20 },
		},
		{
			name:   "zero group size skips the capacity filter",
			mutate: func(res *model.Reservation) { res.GroupSize = 0 },
		},
		{
			name:     "group size below minimum",
			mutate:   func(res *model.Reservation) { res.GroupSize = 9 },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "group size above maximum",
			mutate:   func(res *model.Reservation) { res.GroupSize = 21 },
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "closed weekday",
			mutate:   func(res *model.Reservation) { res.Date = "2026-09-07" }, // Monday
			wantCode: apperrors.CodeRoomNotAvailable,
		},
		{
			name: "starts before opening",
			mutate: func(res *model.Reservation) {
				res.StartTime = "16:00"
				res.EndTime = "20:00"
			},
			wantCode: apperrors.CodeRoomNotAvailable,
		},
		{
			name: "ends after closing",
			mutate: func(res *model.Reservation) {
				res.StartTime = "22:00"
				res.EndTime = "03:00"
			},
			wantCode: apperrors.CodeRoomNotAvailable,
		},
		{
			name: "crossing midnight within operating hours",
			mutate: func(res *model.Reservation) {
				res.StartTime = "22:00"
				res.EndTime = "01:30"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := base
			tt.mutate(&res)

			err := v.ValidateRoomRules(&res, room)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := code(t, err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestCheckConflicts(t *testing.T) {
	v := testValidator(t)

	confirmed := func(id, start, end string) *model.Reservation {
		return &model.Reservation{
			ID:        id,
			Date:      "2026-09-02",
			StartTime: start,
			EndTime:   end,
			Status:    model.StatusConfirmed,
		}
	}

	request := &model.Reservation{
		Date:      "2026-09-02",
		StartTime: "18:00",
		EndTime:   "22:00",
		Status:    model.StatusConfirmed,
	}

	tests := []struct {
		name     string
		existing []*model.Reservation
		wantCode string
	}{
		{
			name: "empty calendar",
		},
		{
			name:     "identical window conflicts",
			existing: []*model.Reservation{confirmed("a", "18:00", "22:00")},
			wantCode: apperrors.CodeRoomNotAvailable,
		},
		{
			name:     "partial overlap conflicts",
			existing: []*model.Reservation{confirmed("a", "20:00", "23:30")},
			wantCode: apperrors.CodeRoomNotAvailable,
		},
		{
			name:     "back to back is allowed",
			existing: []*model.Reservation{confirmed("a", "14:00", "18:00"), confirmed("b", "22:00", "23:30")},
		},
		{
			name: "cancelled reservation is ignored",
			existing: []*model.Reservation{{
				ID:        "a",
				Date:      "2026-09-02",
				StartTime: "18:00",
				EndTime:   "22:00",
				Status:    model.StatusCancelled,
			}},
		},
		{
			name:     "previous day crossing midnight does not reach evening",
			existing: []*model.Reservation{{ID: "a", Date: "2026-09-01", StartTime: "22:00", EndTime: "02:00", Status: model.StatusConfirmed}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckConflicts(request, tt.existing)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if got := code(t, err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestValidateStructShapes(t *testing.T) {
	v := testValidator(t)

	res := &model.Reservation{
		RestaurantID: "507f1f77bcf86cd799439011",
		RoomID:       "507f1f77bcf86cd799439012",
		DinerEmail:   "diner@example.com",
		Date:         "2026-09-02",
		StartTime:    "18:00",
		EndTime:      "22:00",
		GroupSize:    12,
		Status:       model.StatusConfirmed,
	}
	if err := v.Validate(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res.DinerEmail = "not-an-email"
	if err := v.Validate(res); err == nil {
		t.Fatal("expected validation error for bad email")
	}

	req := &model.AutoAssignRequest{
		RestaurantID: "507f1f77bcf86cd799439011",
		RoomType:     "BAD_TYPE",
		DinerEmail:   "diner@example.com",
		Date:         "2026-09-02",
		StartTime:    "18:00",
		EndTime:      "22:00",
		GroupSize:    12,
	}
	if err := v.ValidateAutoAssign(req); err == nil {
		t.Fatal("expected validation error for bad room type")
	}
}
