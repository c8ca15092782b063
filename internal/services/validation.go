package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/campus-reports/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

// reportFields holds the trimmed text fields of a new report.
type reportFields struct {
	Title    string `json:"title" validate:"required,min=5,max=100"`
	Category string `json:"category" validate:"required,category"`
	Content  string `json:"content" validate:"required,min=20,max=1000"`
}

type replyFields struct {
	Reply string `json:"reply" validate:"required,min=10,max=1000"`
}

// validationError converts the first validator failure into a ValidationError.
func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return invalid(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "category":
		return "must be one of the report categories"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
