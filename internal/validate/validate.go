package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for money.
const MoneyScale = 2

// ErrInvalid is matched by every *Error returned from Struct.
var ErrInvalid = errors.New("invalid input")

// FieldError describes a single failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s failed on '%s=%s'", f.Field, f.Tag, f.Param))
			continue
		}

		parts = append(parts, fmt.Sprintf("%s failed on '%s'", f.Field, f.Tag))
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// dgte0 / dgt0 / dmoney check shopspring decimals, which the built-in numeric tags ignore.
	_ = v.RegisterValidation("dgte0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && !d.IsNegative()
	})
	_ = v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
	// Money columns are NUMERIC(12,2); finer amounts would be rounded by storage.
	_ = v.RegisterValidation("dmoney", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.Equal(d.Round(MoneyScale))
	})

	return v
}

// Struct validates s against its `validate` tags and returns an *Error
// describing every failed field, or nil.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}

	return out
}
