package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"roombook/internal/scheduling"
	"roombook/pkg/logger"
	"roombook/pkg/model"
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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks a complete booking: struct tags first, then the
// time-of-day fields. Times must parse as H:MM or HH:MM and satisfy the
// strict start < end ordering; an unparsable time is rejected before any
// overlap logic ever sees it.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateTimeRange(booking.StartTime, booking.EndTime)
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	// Partial times are only sanity-checked here; the full ordering check
	// runs against the merged booking in the service.
	for field, value := range map[string]string{"StartTime": update.StartTime, "EndTime": update.EndTime} {
		if value == "" {
			continue
		}
		if _, err := scheduling.ParseClock(value); err != nil {
			return ValidationErrors{
				ValidationError{Field: field, Message: err.Error()},
			}
		}
	}

	return nil
}

func (v *BookingValidator) validateTimeRange(startTime, endTime string) error {
	start, err := scheduling.ParseClock(startTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "StartTime", Message: err.Error()},
		}
	}
	end, err := scheduling.ParseClock(endTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{Field: "EndTime", Message: err.Error()},
		}
	}

	if start >= end {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start time must be before end time",
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
