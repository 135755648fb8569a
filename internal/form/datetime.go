package form

import (
	"time"

	"transitcrm/internal/utils"
)

// DateTimeInputLayout is the minute-precision datetime-local value format.
const DateTimeInputLayout = "2006-01-02T15:04"

// FormatDateTimeInput normalizes a stored timestamp for a datetime-local
// input. Values carrying a zone are shown in UTC; malformed values give "".
func FormatDateTimeInput(v any) string {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.UTC().Format(DateTimeInputLayout)
	case string:
		return utils.FormatInputDateTime(x)
	default:
		return ""
	}
}
