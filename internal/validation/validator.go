// Package validation wraps go-playground/validator with the storefront's custom rules
// and converts failures into VALIDATION_ERROR domain errors.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/qasim12343/MarketPlace-sub002/pkg/util/errorutil"
)

// mobilePattern matches Iranian mobile numbers: 09 followed by nine digits.
var mobilePattern = regexp.MustCompile(`^09\d{9}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("ir_mobile", func(fl validator.FieldLevel) bool {
			return IsMobile(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// IsMobile reports whether phone is a well-formed Iranian mobile number.
func IsMobile(phone string) bool {
	return mobilePattern.MatchString(phone)
}

// Struct validates s and returns a VALIDATION_ERROR listing every failing field.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid input", nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[snakeCase(fe.Field())] = describe(fe)
	}
	return apperrors.NewValidationError("invalid input", details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "ir_mobile":
		return "must start with 09 and be 11 digits"
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must contain digits only"
	case "gt", "gte":
		return fmt.Sprintf("must be %s %s", comparison(fe.Tag()), fe.Param())
	default:
		return "is invalid"
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
