package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dinehall/pkg/config"
	apperrors "dinehall/pkg/errors"
	"dinehall/pkg/logger"
	"dinehall/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate    *validator.Validate
	logger      *logger.Logger
	advanceDays int
	minDuration time.Duration

	now func() time.Time
}

func NewReservationValidator(log *logger.Logger, cfg *config.Config) *ReservationValidator {
	return &ReservationValidator{
		validate:    validator.New(),
		logger:      log,
		advanceDays: cfg.AdvanceBookingDays,
		minDuration: time.Duration(cfg.MinBookingHours) * time.Hour,
		now:         time.Now,
	}
}

// Validate checks the structural shape of a reservation request.
func (v *ReservationValidator) Validate(res *model.Reservation) error {
	return v.structOf(res)
}

// ValidateAutoAssign checks the structural shape of an auto-assignment request.
func (v *ReservationValidator) ValidateAutoAssign(req *model.AutoAssignRequest) error {
	return v.structOf(req)
}

// ValidateTimeFrame checks the structural shape of an availability query.
func (v *ReservationValidator) ValidateTimeFrame(frame *model.TimeFrame) error {
	return v.structOf(frame)
}

func (v *ReservationValidator) structOf(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateBookingRules applies the full booking policy for a structurally
// valid reservation against the target room. It runs entirely in memory so
// the orchestrator can reject bad requests before taking the calendar lock.
func (v *ReservationValidator) ValidateBookingRules(res *model.Reservation, room *model.Room) error {
	if err := v.ValidateSlot(res.Date, res.StartTime, res.EndTime); err != nil {
		return err
	}
	return v.ValidateRoomRules(res, room)
}

// ValidateSlot checks the rules that depend only on the requested slot:
// booking horizon, same-day lead time, and minimum duration.
func (v *ReservationValidator) ValidateSlot(resDate, startTime, endTime string) error {
	window, err := model.ResolveWindow(resDate, startTime, endTime)
	if err != nil {
		return apperrors.Validation("Invalid reservation time", map[string]any{"error": err.Error()})
	}

	date, err := time.ParseInLocation(model.DateLayout, resDate, time.Local)
	if err != nil {
		return apperrors.Validation("Invalid reservation date", map[string]any{"error": err.Error()})
	}

	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	if date.Before(today) {
		return apperrors.Validation("Reservation date cannot be in the past", map[string]any{"date": resDate})
	}
	if date.After(today.AddDate(0, 0, v.advanceDays)) {
		return apperrors.Validation(
			fmt.Sprintf("Reservations can be made at most %d days in advance", v.advanceDays),
			map[string]any{"date": resDate},
		)
	}
	if date.Equal(today) && !window.Start.After(now) {
		return apperrors.Validation("Reservation start time must be in the future", map[string]any{
			"date":       resDate,
			"start_time": startTime,
		})
	}

	if window.Duration() < v.minDuration {
		return apperrors.Validation(
			fmt.Sprintf("Reservations must last at least %s", v.minDuration),
			map[string]any{"start_time": startTime, "end_time": endTime},
		)
	}

	return nil
}

// ValidateRoomRules checks the rules specific to a candidate room: open
// days, operating hours, and capacity.
func (v *ReservationValidator) ValidateRoomRules(res *model.Reservation, room *model.Room) error {
	window, err := res.Window()
	if err != nil {
		return apperrors.Validation("Invalid reservation time", map[string]any{"error": err.Error()})
	}

	date, err := time.ParseInLocation(model.DateLayout, res.Date, time.Local)
	if err != nil {
		return apperrors.Validation("Invalid reservation date", map[string]any{"error": err.Error()})
	}

	if !room.OpenOn(date.Weekday()) {
		return apperrors.RoomNotAvailable(
			fmt.Sprintf("Room is closed on %s", model.WeekdayName(date.Weekday())),
		)
	}

	operating, err := room.OperatingWindow(res.Date)
	if err != nil {
		return apperrors.Internal("Failed to resolve room operating hours", err)
	}
	if !window.Within(operating) {
		return apperrors.RoomNotAvailable(
			fmt.Sprintf("Room operates between %s and %s", room.OpeningTime, room.ClosingTime),
		)
	}

	// A zero group size means the caller did not constrain capacity;
	// booking requests always carry a positive size.
	if res.GroupSize > 0 && !room.FitsGroup(res.GroupSize) {
		return apperrors.Validation(
			fmt.Sprintf("Group size must be between %d and %d for this room", room.MinCapacity, room.MaxCapacity),
			map[string]any{"group_size": res.GroupSize},
		)
	}

	return nil
}

// CheckConflicts reports the room as unavailable when the requested window
// overlaps any confirmed reservation in the same room-day. Windows sharing
// only a boundary instant do not conflict.
func (v *ReservationValidator) CheckConflicts(res *model.Reservation, existing []*model.Reservation) error {
	window, err := res.Window()
	if err != nil {
		return apperrors.Validation("Invalid reservation time", map[string]any{"error": err.Error()})
	}

	for _, other := range existing {
		if other.Status != model.StatusConfirmed || other.ID == res.ID {
			continue
		}
		otherWindow, err := other.Window()
		if err != nil {
			v.logger.Warn("Skipping reservation with unresolvable window",
				"id", other.ID,
				"error", err,
			)
			continue
		}
		if window.Overlaps(otherWindow) {
			return apperrors.RoomNotAvailable(
				fmt.Sprintf("Room is already reserved between %s and %s on %s", other.StartTime, other.EndTime, other.Date),
			)
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
