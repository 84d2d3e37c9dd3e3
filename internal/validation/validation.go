package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// Normalizer is implemented by forms that clean up their input (trimming,
// for example) before validation runs.
type Normalizer interface {
	Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("integer", isInteger); err != nil {
		panic(err)
	}

	return v
}

// isInteger accepts anything strconv.Atoi accepts, so a value that passes
// can always be converted later.
func isInteger(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(fl.Field().String())
	return err == nil
}

// BindAndValidateForm binds form fields into dst, normalizes it and
// validates it. A non-nil error means the request body could not be parsed;
// field errors are returned separately and are meant to be shown to the user.
func BindAndValidateForm(c *gin.Context, dst any) ([]FieldError, error) {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return nil, err
	}

	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}

	return Struct(dst), nil
}

func Struct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return formatValidationErrors(verrs)
	}

	return []FieldError{{Rule: "invalid", Message: err.Error()}}
}

func formatValidationErrors(verrs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(verrs))

	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: buildMessage(fe),
		})
	}

	return fields
}

func toLabel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func buildMessage(fe validator.FieldError) string {
	label := toLabel(fe.Field())

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "integer":
		return label + " must be a whole number."
	}

	return label + " is invalid."
}
