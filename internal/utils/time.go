package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns now as seen from the specified timezone.
func NowInTimezone(timezone string, now time.Time) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return now.In(loc), nil
}

// GetTodayInTimezone returns the date key (YYYY-MM-DD) that now falls on in
// the given timezone.
func GetTodayInTimezone(timezone string, now time.Time) (string, error) {
	t, err := NowInTimezone(timezone, now)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// FormatDate renders the calendar date of t as a date key.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDate parses a YYYY-MM-DD date key as midnight UTC. Only the
// calendar date matters, so the location is fixed.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// IsDateKey reports whether s is a well-formed YYYY-MM-DD date.
func IsDateKey(s string) bool {
	t, err := ParseDate(s)
	return err == nil && FormatDate(t) == s
}

// WeekdayOf returns the day of week for a date key.
func WeekdayOf(dateStr string) (time.Weekday, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t.Weekday(), nil
}

// ShiftDate moves a date key by days. Arithmetic happens on the calendar
// date so DST transitions never skip or repeat a day.
func ShiftDate(dateStr string, days int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
