package utils

import (
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
)

// DayKey formats t as a canonical YYYY-MM-DD key in t's own location.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// StartOfDay returns local midnight of t's calendar day. Day arithmetic is done
// on this value with AddDate so DST shifts never skip or repeat a day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDay parses a day key into midnight in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(constants.DateFormat, key, loc)
}

// IsDayKey reports whether key is a well-formed canonical day key.
func IsDayKey(key string) bool {
	t, err := time.Parse(constants.DateFormat, key)
	return err == nil && t.Format(constants.DateFormat) == key
}

// Window returns n consecutive day keys ending at end inclusive, oldest first.
func Window(end time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	last := StartOfDay(end)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = DayKey(last.AddDate(0, 0, i-(n-1)))
	}
	return days
}

// WindowTimes is Window returning the midnights instead of keys, for callers
// that need the weekday of each day.
func WindowTimes(end time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	last := StartOfDay(end)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = last.AddDate(0, 0, i-(n-1))
	}
	return days
}

// DaysBetween counts calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
