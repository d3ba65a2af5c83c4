package repositories

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/poofware/mono-repo/backend/shared/go-models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so problems match what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// `enum` delegates to the type's own Valid method.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(models.Enum)
		return ok && e.Valid()
	})
	return v
}

// validateInput runs struct tags plus the metadata primitive check and
// converts failures into a *ValidationError.
func validateInput(in any, meta models.Metadata) error {
	var problems []FieldProblem

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return storeFailure("validate input", err)
		}
		problems = formatValidationErrors(verrs)
	}
	if err := meta.Validate(); err != nil {
		problems = append(problems, FieldProblem{Field: "metadata", Message: err.Error(), Code: CodeInvalidMetadata})
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) []FieldProblem {
	out := make([]FieldProblem, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "min", "gte":
			message = fmt.Sprintf("Field '%s' must be at least %s", err.Field(), err.Param())
		case "max", "lte":
			message = fmt.Sprintf("Field '%s' must not exceed %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("Field '%s' must be greater than %s", err.Field(), err.Param())
		case "enum":
			message = fmt.Sprintf("Field '%s' has an unknown value %v", err.Field(), err.Value())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		out = append(out, FieldProblem{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return out
}

// checkRange reports end <= start as a problem on endField.
func checkRange(startField, endField string, start, end time.Time) error {
	if !end.After(start) {
		return invalid(endField, CodeInvalidRange, fmt.Sprintf("%s must be after %s", endField, startField))
	}
	return nil
}
