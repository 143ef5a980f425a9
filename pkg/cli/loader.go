package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"gopkg.in/yaml.v3"
)

// loadYAML decodes a fixture file, rejecting unknown keys so typos don't
// silently fall back to defaults.
func loadYAML(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type overrideFixture struct {
	Level      string     `yaml:"level"`
	MutedUntil *time.Time `yaml:"muted_until"`
}

// settingsFixture is a settings file. Missing fields keep their defaults.
type settingsFixture struct {
	UserId          string  `yaml:"user_id"`
	Global          *string `yaml:"global"`
	Desktop         *bool   `yaml:"desktop"`
	Push            *bool   `yaml:"push"`
	Sound           *bool   `yaml:"sound"`
	QuietHoursStart string  `yaml:"quiet_hours_start"`
	QuietHoursEnd   string  `yaml:"quiet_hours_end"`
	Timezone        string  `yaml:"timezone"`

	Servers       map[string]overrideFixture `yaml:"servers"`
	Channels      map[string]overrideFixture `yaml:"channels"`
	Conversations map[string]overrideFixture `yaml:"conversations"`
}

func (f *settingsFixture) overrides(m map[string]overrideFixture) (notifications.Overrides, error) {
	out := make(notifications.Overrides, len(m))
	for id, o := range m {
		level, err := notifications.ParseLevel(o.Level)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", id, err)
		}
		out[id] = notifications.Override{Level: level, MutedUntil: o.MutedUntil}
	}
	return out, nil
}

func (f *settingsFixture) settings(userId string) (*notifications.Settings, error) {
	if f.UserId != "" {
		userId = f.UserId
	}
	s := notifications.DefaultSettings(0, userId)
	if f.Global != nil {
		level, err := notifications.ParseLevel(*f.Global)
		if err != nil {
			return nil, err
		}
		s.GlobalNotifications = level
	}
	if f.Desktop != nil {
		s.DesktopNotifications = *f.Desktop
	}
	if f.Push != nil {
		s.PushNotifications = *f.Push
	}
	if f.Sound != nil {
		s.NotificationSound = *f.Sound
	}

	// Same rules as a preference update: a valid pair of bounds or none.
	quiet := notifications.Patch{
		QuietHoursStart: &f.QuietHoursStart,
		QuietHoursEnd:   &f.QuietHoursEnd,
		Timezone:        &f.Timezone,
	}
	if err := quiet.Validate(s); err != nil {
		return nil, err
	}
	quiet.Apply(s)

	var err error
	if s.ServerOverrides, err = f.overrides(f.Servers); err != nil {
		return nil, err
	}
	if s.ChannelOverrides, err = f.overrides(f.Channels); err != nil {
		return nil, err
	}
	if s.ConversationOverrides, err = f.overrides(f.Conversations); err != nil {
		return nil, err
	}
	return s, nil
}
