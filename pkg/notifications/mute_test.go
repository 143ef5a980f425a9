package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestCalculateMuteExpiration_Forever(t *testing.T) {
	until, err := CalculateMuteExpiration(MuteForever, refNow)
	require.NoError(t, err)
	assert.Nil(t, until)
}

func TestCalculateMuteExpiration_Offsets(t *testing.T) {
	cases := map[MuteDuration]time.Duration{
		Mute15Minutes: 15 * time.Minute,
		Mute1Hour:     time.Hour,
		Mute8Hours:    8 * time.Hour,
		Mute24Hours:   24 * time.Hour,
	}
	for d, offset := range cases {
		t.Run(string(d), func(t *testing.T) {
			until, err := CalculateMuteExpiration(d, refNow)
			require.NoError(t, err)
			require.NotNil(t, until)
			assert.Equal(t, refNow.Add(offset), *until)
		})
	}
}

func TestCalculateMuteExpiration_Invalid(t *testing.T) {
	_, err := CalculateMuteExpiration("2w", refNow)
	assert.ErrorIs(t, err, ErrInvalidMuteDuration)
}

func TestIsMuteExpired_OneHour(t *testing.T) {
	until, err := CalculateMuteExpiration(Mute1Hour, refNow)
	require.NoError(t, err)

	assert.False(t, IsMuteExpired(until, refNow.Add(59*time.Minute)))
	assert.True(t, IsMuteExpired(until, refNow.Add(61*time.Minute)))
}

func TestIsMuteExpired_Boundary(t *testing.T) {
	until := refNow
	assert.False(t, IsMuteExpired(&until, refNow), "expiry is strictly after mutedUntil")
	assert.True(t, IsMuteExpired(&until, refNow.Add(time.Millisecond)))
}

func TestIsMuteExpired_NilNeverExpires(t *testing.T) {
	assert.False(t, IsMuteExpired(nil, refNow.AddDate(100, 0, 0)))
}

func TestParseMuteDuration(t *testing.T) {
	for _, s := range []string{"15m", "1h", "8h", "24h", "forever"} {
		d, err := ParseMuteDuration(s)
		require.NoError(t, err)
		assert.Equal(t, MuteDuration(s), d)
	}
	_, err := ParseMuteDuration("30m")
	assert.ErrorIs(t, err, ErrInvalidMuteDuration)
}
