package notifications

import (
	"fmt"
	"time"
)

type MuteDuration string

const (
	Mute15Minutes MuteDuration = "15m"
	Mute1Hour     MuteDuration = "1h"
	Mute8Hours    MuteDuration = "8h"
	Mute24Hours   MuteDuration = "24h"
	MuteForever   MuteDuration = "forever"
)

var muteOffsets = map[MuteDuration]time.Duration{
	Mute15Minutes: 15 * time.Minute,
	Mute1Hour:     time.Hour,
	Mute8Hours:    8 * time.Hour,
	Mute24Hours:   24 * time.Hour,
}

func ParseMuteDuration(s string) (MuteDuration, error) {
	d := MuteDuration(s)
	if _, ok := muteOffsets[d]; ok || d == MuteForever {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMuteDuration, s)
}

// CalculateMuteExpiration returns the instant a mute of the given duration
// started at now stops applying, or nil for a mute that never expires.
func CalculateMuteExpiration(duration MuteDuration, now time.Time) (*time.Time, error) {
	if duration == MuteForever {
		return nil, nil
	}
	offset, ok := muteOffsets[duration]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMuteDuration, duration)
	}
	until := now.Add(offset)
	return &until, nil
}

// IsMuteExpired reports whether mutedUntil lies strictly before now.
// A nil expiration never expires.
func IsMuteExpired(mutedUntil *time.Time, now time.Time) bool {
	if mutedUntil == nil {
		return false
	}
	return mutedUntil.Before(now)
}
