package timex

import "time"

// DayLayout is the calendar day key format used throughout the profile
// model: habit records, weight history, and remote metric rows are all
// keyed by it.
const DayLayout = "2006-01-02"

// DayKey formats t as a calendar day key in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Today returns the day key for the current time.
func Today() string {
	return DayKey(time.Now())
}

// NormalizeDay reduces any recognizable date string to a day key. Accepted
// inputs are day keys themselves, RFC 3339 timestamps, and dd/mm/yyyy (a
// legacy form seen in imported data). It returns "" when v cannot be
// parsed.
func NormalizeDay(v string) string {
	if v == "" {
		return ""
	}
	for _, layout := range []string{DayLayout, time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return DayKey(t)
		}
	}
	return ""
}

// ParseDay parses a day key back into a UTC midnight time. The zero time is
// returned for unparseable input.
func ParseDay(key string) time.Time {
	t, err := time.Parse(DayLayout, key)
	if err != nil {
		return time.Time{}
	}
	return t
}
