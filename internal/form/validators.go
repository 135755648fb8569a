package form

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"transitcrm/internal/utils"
)

// Validator returns an error message for v, or "" when v is acceptable.
// Validators only run once the required check has passed.
type Validator func(label string, v any) string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email() Validator {
	return func(_ string, v any) string {
		if !emailPattern.MatchString(strings.TrimSpace(stringValue(v))) {
			return "Please enter a valid email address"
		}
		return ""
	}
}

func NonNegative() Validator {
	return func(label string, v any) string {
		n, ok := numberValue(v)
		if !ok {
			return label + " must be a valid number"
		}
		if n < 0 {
			return label + " cannot be negative"
		}
		return ""
	}
}

func Positive() Validator {
	return func(label string, v any) string {
		n, ok := numberValue(v)
		if !ok {
			return label + " must be a valid number"
		}
		if n <= 0 {
			return label + " must be greater than 0"
		}
		return ""
	}
}

func ValidDateTime() Validator {
	return func(_ string, v any) string {
		if _, ok := utils.ParseTimestamp(stringValue(v)); !ok {
			return "Please enter a valid date and time format"
		}
		return ""
	}
}

// MaxLength limits a text value to n characters.
func MaxLength(n int) Validator {
	return func(label string, v any) string {
		if len([]rune(stringValue(v))) > n {
			return fmt.Sprintf("%s must be at most %d characters", label, n)
		}
		return ""
	}
}

func required(label string, v any) string {
	if isEmpty(v) {
		return label + " is required"
	}
	return ""
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x)) == ""
	}
}

func numberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
