package notifications

import (
	"fmt"
	"time"
)

type Scope string

const (
	ScopeServer       Scope = "server"
	ScopeChannel      Scope = "channel"
	ScopeConversation Scope = "conversation"
)

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeServer, ScopeChannel, ScopeConversation:
		return Scope(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidScope, s)
}

type Override struct {
	Level      Level      `msgpack:"level"`
	MutedUntil *time.Time `msgpack:"muted_until,omitempty"` // nil: until removed
}

// Active reports whether the override still applies at now.
func (o Override) Active(now time.Time) bool {
	return !IsMuteExpired(o.MutedUntil, now)
}

type Overrides map[string]Override

func (o Overrides) clone() Overrides {
	if o == nil {
		return Overrides{}
	}
	c := make(Overrides, len(o))
	for k, v := range o {
		if v.MutedUntil != nil {
			t := *v.MutedUntil
			v.MutedUntil = &t
		}
		c[k] = v
	}
	return c
}

// Settings is a user's notification preferences. There is exactly one per user.
type Settings struct {
	Id     int64  `msgpack:"id"`
	UserId string `msgpack:"user_id"`

	GlobalNotifications  Level `msgpack:"global"`
	DesktopNotifications bool  `msgpack:"desktop"`
	PushNotifications    bool  `msgpack:"push"`
	NotificationSound    bool  `msgpack:"sound"`

	QuietHoursStart string `msgpack:"quiet_start,omitempty"` // HH:MM
	QuietHoursEnd   string `msgpack:"quiet_end,omitempty"`   // HH:MM
	Timezone        string `msgpack:"tz,omitempty"`          // IANA name, empty means engine default

	ServerOverrides       Overrides `msgpack:"server_overrides"`
	ChannelOverrides      Overrides `msgpack:"channel_overrides"`
	ConversationOverrides Overrides `msgpack:"conversation_overrides"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(id int64, userId string) *Settings {
	return &Settings{
		Id:                    id,
		UserId:                userId,
		GlobalNotifications:   LevelAll,
		DesktopNotifications:  true,
		PushNotifications:     true,
		NotificationSound:     true,
		ServerOverrides:       Overrides{},
		ChannelOverrides:      Overrides{},
		ConversationOverrides: Overrides{},
	}
}

func (s *Settings) Clone() *Settings {
	c := *s
	c.ServerOverrides = s.ServerOverrides.clone()
	c.ChannelOverrides = s.ChannelOverrides.clone()
	c.ConversationOverrides = s.ConversationOverrides.clone()
	return &c
}

// Overrides returns the override map for a scope. The map may be nil.
func (s *Settings) Overrides(scope Scope) Overrides {
	switch scope {
	case ScopeServer:
		return s.ServerOverrides
	case ScopeChannel:
		return s.ChannelOverrides
	case ScopeConversation:
		return s.ConversationOverrides
	}
	return nil
}

// PruneExpired returns a copy of s without overrides that have expired at now.
func (s *Settings) PruneExpired(now time.Time) *Settings {
	c := s.Clone()
	for _, m := range []Overrides{c.ServerOverrides, c.ChannelOverrides, c.ConversationOverrides} {
		for id, o := range m {
			if !o.Active(now) {
				delete(m, id)
			}
		}
	}
	return c
}

// Patch is a partial settings update. Nil fields are left untouched and a
// non-nil override map replaces the stored map for that scope entirely.
type Patch struct {
	GlobalNotifications  *Level
	DesktopNotifications *bool
	PushNotifications    *bool
	NotificationSound    *bool
	QuietHoursStart      *string
	QuietHoursEnd        *string
	Timezone             *string

	ServerOverrides       Overrides
	ChannelOverrides      Overrides
	ConversationOverrides Overrides
}

// OverridesPatch builds a patch replacing the override map of one scope.
func OverridesPatch(scope Scope, m Overrides) (Patch, error) {
	if m == nil {
		m = Overrides{}
	}
	var p Patch
	switch scope {
	case ScopeServer:
		p.ServerOverrides = m
	case ScopeChannel:
		p.ChannelOverrides = m
	case ScopeConversation:
		p.ConversationOverrides = m
	default:
		return p, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return p, nil
}

// Apply merges p into s in place.
func (p Patch) Apply(s *Settings) {
	if p.GlobalNotifications != nil {
		s.GlobalNotifications = *p.GlobalNotifications
	}
	if p.DesktopNotifications != nil {
		s.DesktopNotifications = *p.DesktopNotifications
	}
	if p.PushNotifications != nil {
		s.PushNotifications = *p.PushNotifications
	}
	if p.NotificationSound != nil {
		s.NotificationSound = *p.NotificationSound
	}
	if p.QuietHoursStart != nil {
		s.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		s.QuietHoursEnd = *p.QuietHoursEnd
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.ServerOverrides != nil {
		s.ServerOverrides = p.ServerOverrides.clone()
	}
	if p.ChannelOverrides != nil {
		s.ChannelOverrides = p.ChannelOverrides.clone()
	}
	if p.ConversationOverrides != nil {
		s.ConversationOverrides = p.ConversationOverrides.clone()
	}
}

// Validate checks the patch in isolation and against the current settings,
// so that quiet hours always end up set as a pair or not at all.
func (p Patch) Validate(current *Settings) error {
	if p.GlobalNotifications != nil && !p.GlobalNotifications.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, *p.GlobalNotifications)
	}
	for _, b := range []*string{p.QuietHoursStart, p.QuietHoursEnd} {
		if b != nil && *b != "" {
			if _, err := ParseClock(*b); err != nil {
				return err
			}
		}
	}
	start, end := current.QuietHoursStart, current.QuietHoursEnd
	if p.QuietHoursStart != nil {
		start = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		end = *p.QuietHoursEnd
	}
	if (start == "") != (end == "") {
		return ErrQuietHoursPair
	}
	if p.Timezone != nil && *p.Timezone != "" {
		if _, err := time.LoadLocation(*p.Timezone); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTimezone, *p.Timezone)
		}
	}
	for _, m := range []Overrides{p.ServerOverrides, p.ChannelOverrides, p.ConversationOverrides} {
		for id, o := range m {
			if id == "" {
				return ErrMissingTarget
			}
			if !o.Level.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidLevel, o.Level)
			}
		}
	}
	return nil
}
