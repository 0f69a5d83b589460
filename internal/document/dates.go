package document

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// weekdayNames maps time.Weekday (0=Sunday) to the Chinese weekday
// character.
var weekdayNames = [7]string{"日", "一", "二", "三", "四", "五", "六"}

// Weekday returns the Chinese weekday character for a YYYY-MM-DD date.
func Weekday(dateStr string) (string, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return weekdayNames[int(t.Weekday())], nil
}

// splitDate validates a YYYY-MM-DD date and returns its zero-padded
// year, month and day parts as written.
func splitDate(dateStr string) (year, month, day string, err error) {
	if _, perr := time.Parse(dateLayout, dateStr); perr != nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	parts := strings.SplitN(dateStr, "-", 3)
	return parts[0], parts[1], parts[2], nil
}

// dateDigits validates a YYYY-MM-DD date and returns it as YYYYMMDD,
// the form both exported filenames start with.
func dateDigits(dateStr string) (string, error) {
	if _, err := time.Parse(dateLayout, dateStr); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return strings.ReplaceAll(dateStr, "-", ""), nil
}
