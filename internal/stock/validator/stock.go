package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"museumtix/pkg/logger"
	"museumtix/pkg/model"
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

type StockValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStockValidator(log *logger.Logger) *StockValidator {
	v := validator.New()

	if err := v.RegisterValidation("ticket_category", validateTicketCategory); err != nil {
		log.Fatal("Failed to register 'ticket_category' validator",
			"error", err,
		)
	}

	log.Info("Stock validator initialized successfully")

	return &StockValidator{
		validate: v,
		logger:   log,
	}
}

func validateTicketCategory(fl validator.FieldLevel) bool {
	category, ok := fl.Field().Interface().(model.TicketCategory)
	if !ok {
		return false
	}
	return category.Valid()
}

func (v *StockValidator) ValidateCreate(req *model.CreateBatchRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *StockValidator) ValidateResize(req *model.ResizeBatchRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *StockValidator) ValidateAllocate(req *model.AllocateRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *StockValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var validationErrors ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "ticket_category":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), categoryList())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func categoryList() string {
	categories := model.AllCategories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
