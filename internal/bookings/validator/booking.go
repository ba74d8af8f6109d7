package validator

import (
	"errors"
	"fmt"
	"strings"
	"vizit/internal/catalog"
	"vizit/pkg/logger"
	"vizit/pkg/model"

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("visit_slot", validateVisitSlot); err != nil {
		log.Fatal("Failed to register 'visit_slot' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateVisitSlot(fl validator.FieldLevel) bool {
	slot, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return catalog.Contains(slot)
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.structErrors(booking)
}

func (v *BookingValidator) ValidateSlotChange(req *model.SlotChangeRequest) error {
	return v.structErrors(req)
}

func (v *BookingValidator) ValidateStatusChange(req *model.StatusChangeRequest) error {
	return v.structErrors(req)
}

func (v *BookingValidator) ValidateProposal(req *model.RescheduleProposalRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(req.ProposedSlots))
	for _, opt := range req.ProposedSlots {
		key := opt.Date + "|" + opt.Slot
		if _, dup := seen[key]; dup {
			return ValidationErrors{
				ValidationError{
					Field:   "ProposedSlots",
					Message: fmt.Sprintf("duplicate proposed slot %s %s", opt.Date, opt.Slot),
				},
			}
		}
		seen[key] = struct{}{}
	}

	return nil
}

func (v *BookingValidator) ValidateResolution(req *model.RescheduleResolutionRequest) error {
	if req.ChosenSlot == nil {
		return nil
	}
	return v.structErrors(req.ChosenSlot)
}

func (v *BookingValidator) structErrors(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
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
		case "datetime":
			message = fmt.Sprintf("%s must be a calendar date in %s format", err.Field(), err.Param())
		case "visit_slot":
			message = fmt.Sprintf("%s must be one of the published visit windows: %s", err.Field(), strings.Join(catalog.All(), ", "))
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
