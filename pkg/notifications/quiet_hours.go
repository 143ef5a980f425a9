package notifications

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// FormatClock returns HH:MM for minutes since midnight.
func FormatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60%24, mins%60)
}

// QuietHoursLocation picks the zone the user's quiet hours are read in: the
// user's own timezone when it loads, otherwise fallback.
func QuietHoursLocation(s *Settings, fallback *time.Location) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return fallback
}

// IsInQuietHours reports whether now, read as wall-clock time in loc, falls in
// the user's daily quiet window. The window includes its start minute and
// excludes its end minute, and wraps past midnight when start > end.
// Missing or unparseable bounds disable quiet hours.
func IsInQuietHours(s *Settings, now time.Time, loc *time.Location) bool {
	if s.QuietHoursStart == "" || s.QuietHoursEnd == "" {
		return false
	}
	start, err := ParseClock(s.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := ParseClock(s.QuietHoursEnd)
	if err != nil {
		return false
	}

	if loc != nil {
		now = now.In(loc)
	}
	nowMinutes := now.Hour()*60 + now.Minute()

	if start <= end {
		return nowMinutes >= start && nowMinutes < end
	}
	return nowMinutes >= start || nowMinutes < end
}
