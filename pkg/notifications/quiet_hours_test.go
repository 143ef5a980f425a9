package notifications

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hh, mm int) time.Time {
	return time.Date(2025, time.March, 10, hh, mm, 0, 0, time.UTC)
}

func quiet(start, end string) *Settings {
	s := DefaultSettings(1, "r")
	s.QuietHoursStart = start
	s.QuietHoursEnd = end
	return s
}

func TestIsInQuietHours_Overnight(t *testing.T) {
	s := quiet("22:00", "06:00")
	assert.True(t, IsInQuietHours(s, at(23, 30), time.UTC))
	assert.True(t, IsInQuietHours(s, at(5, 30), time.UTC))
	assert.False(t, IsInQuietHours(s, at(12, 0), time.UTC))
	assert.True(t, IsInQuietHours(s, at(22, 0), time.UTC), "start is inclusive")
	assert.False(t, IsInQuietHours(s, at(6, 0), time.UTC), "end is exclusive")
}

func TestIsInQuietHours_SameDay(t *testing.T) {
	s := quiet("09:00", "17:00")
	assert.True(t, IsInQuietHours(s, at(12, 0), time.UTC))
	assert.False(t, IsInQuietHours(s, at(8, 59), time.UTC))
	assert.False(t, IsInQuietHours(s, at(17, 0), time.UTC))
	assert.True(t, IsInQuietHours(s, at(9, 0), time.UTC))
}

func TestIsInQuietHours_NotConfigured(t *testing.T) {
	assert.False(t, IsInQuietHours(quiet("", ""), at(3, 0), time.UTC))
	assert.False(t, IsInQuietHours(quiet("22:00", ""), at(23, 0), time.UTC))
	assert.False(t, IsInQuietHours(quiet("", "06:00"), at(3, 0), time.UTC))
}

func TestIsInQuietHours_Unparseable(t *testing.T) {
	assert.False(t, IsInQuietHours(quiet("late", "06:00"), at(3, 0), time.UTC))
	assert.False(t, IsInQuietHours(quiet("22:00", "25:00"), at(23, 0), time.UTC))
}

func TestIsInQuietHours_EmptyWindow(t *testing.T) {
	assert.False(t, IsInQuietHours(quiet("10:00", "10:00"), at(10, 0), time.UTC))
}

func TestIsInQuietHours_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	s := quiet("22:00", "06:00")
	// 20:30 UTC is 23:30 at UTC+3.
	assert.True(t, IsInQuietHours(s, at(20, 30), loc))
	assert.False(t, IsInQuietHours(s, at(20, 30), time.UTC))
}

func TestQuietHoursLocation(t *testing.T) {
	s := DefaultSettings(1, "r")
	assert.Equal(t, time.UTC, QuietHoursLocation(s, time.UTC))

	s.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, QuietHoursLocation(s, time.UTC))

	s.Timezone = "Asia/Tokyo"
	assert.Equal(t, "Asia/Tokyo", QuietHoursLocation(s, time.UTC).String())
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, 7*60+5, m)

	m, err = ParseClock("7:05")
	require.NoError(t, err)
	assert.Equal(t, 7*60+5, m)

	for _, bad := range []string{"", "24:00", "12:60", "12", "12:5", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, "input %q", bad)
	}
	assert.Equal(t, "07:05", FormatClock(7*60+5))
}
