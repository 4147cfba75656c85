package utils

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekdays given as names
// (mon, Monday) or numbers (0=Sunday, 6=Saturday). The result is sorted
// and free of duplicates. An empty string yields no weekdays.
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var weekdays []time.Weekday
	if strings.TrimSpace(s) == "" {
		return weekdays, nil
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := weekdayNames[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}

	return NormalizeWeekdays(weekdays), nil
}

// NormalizeWeekdays sorts weekdays Sunday first and drops duplicates.
// The input is not modified.
func NormalizeWeekdays(weekdays []time.Weekday) []time.Weekday {
	out := slices.Clone(weekdays)
	slices.Sort(out)
	return slices.Compact(out)
}

// FormatWeekdays renders weekdays as short names, e.g. "Mon,Wed,Fri".
func FormatWeekdays(weekdays []time.Weekday) string {
	days := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		days = append(days, wd.String()[:3])
	}
	return strings.Join(days, ",")
}
