package validator

import (
	"errors"
	"fmt"
	"strings"

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

type RestaurantValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRestaurantValidator(log *logger.Logger) *RestaurantValidator {
	return &RestaurantValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *RestaurantValidator) Validate(restaurant *model.Restaurant) error {
	if err := v.validate.Struct(restaurant); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RestaurantValidator) ValidateRoom(room *model.Room) error {
	if err := v.validate.Struct(room); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if room.OpeningTime == room.ClosingTime {
		return ValidationErrors{
			ValidationError{
				Field:   "ClosingTime",
				Message: "closing_time must differ from opening_time",
			},
		}
	}

	seen := make(map[string]bool, len(room.OpenDays))
	for _, day := range room.OpenDays {
		if seen[day] {
			return ValidationErrors{
				ValidationError{
					Field:   "OpenDays",
					Message: fmt.Sprintf("open_days contains %s more than once", day),
				},
			}
		}
		seen[day] = true
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
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155551234)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "iso4217":
			message = fmt.Sprintf("%s must be a valid ISO 4217 currency code", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must match the format %s", err.Field(), err.Param())
		case "gtefield":
			message = fmt.Sprintf("%s must not be less than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
