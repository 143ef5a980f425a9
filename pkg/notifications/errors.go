package notifications

import "errors"

var (
	ErrInvalidLevel        = errors.New("invalid notification level")
	ErrInvalidMuteDuration = errors.New("invalid mute duration")
	ErrInvalidScope        = errors.New("invalid override scope")
	ErrInvalidClock        = errors.New("invalid clock time")
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrQuietHoursPair      = errors.New("quiet hours start and end must be set together")
	ErrSettingsUnavailable = errors.New("notification settings unavailable")
	ErrMissingTarget       = errors.New("missing override target")
)
