package validation

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("strongpassword", isStrongPassword); err != nil {
		panic(err)
	}
	return v
}

const minPasswordLength = 12

// isStrongPassword requires at least 12 characters with one lowercase, one
// uppercase, one digit and one symbol.
func isStrongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	var length, lower, upper, digit, symbol int
	for _, r := range s {
		length++
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digit++
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || r == ' ':
			symbol++
		}
	}
	return length >= minPasswordLength && lower > 0 && upper > 0 && digit > 0 && symbol > 0
}

func tag(t string) CheckFunc {
	return func(_ context.Context, value string, _ url.Values) (bool, error) {
		return validate.Var(value, t) == nil, nil
	}
}

var intPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)

func intRange(min, max int) CheckFunc {
	rule := fmt.Sprintf("gte=%d,lte=%d", min, max)
	return func(_ context.Context, value string, _ url.Values) (bool, error) {
		if !intPattern.MatchString(value) {
			return false, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, nil
		}
		return validate.Var(n, rule) == nil, nil
	}
}

var floatPattern = regexp.MustCompile(`^[-+]?[0-9]*(\.[0-9]*)?([eE][-+]?[0-9]+)?$`)

func floatMin(min float64) CheckFunc {
	rule := "gte=" + strconv.FormatFloat(min, 'f', -1, 64)
	return func(_ context.Context, value string, _ url.Values) (bool, error) {
		switch value {
		case "", ".", "-", "+":
			return false, nil
		}
		if !floatPattern.MatchString(value) {
			return false, nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false, nil
		}
		return validate.Var(f, rule) == nil, nil
	}
}
