package settings

import (
	"encoding/json"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type overrideDoc struct {
	Level      string `bson:"level"`
	MutedUntil int64  `bson:"muted_until,omitempty"` // unix millis, 0 for no expiry
}

// legacyOverride is the shape of overrides written as JSON strings by the
// previous settings service.
type legacyOverride struct {
	Level      string     `json:"level"`
	MutedUntil *time.Time `json:"mutedUntil,omitempty"`
}

type settingsDoc struct {
	Id     int64  `bson:"_id"`
	UserId string `bson:"user_id"`

	Global  string `bson:"global"`
	Desktop bool   `bson:"desktop"`
	Push    bool   `bson:"push"`
	Sound   bool   `bson:"sound"`

	QuietHoursStart string `bson:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string `bson:"quiet_hours_end,omitempty"`
	Timezone        string `bson:"timezone,omitempty"`

	// Decoded by hand, see decodeOverrides.
	ServerOverrides       bson.RawValue `bson:"server_overrides,omitempty"`
	ChannelOverrides      bson.RawValue `bson:"channel_overrides,omitempty"`
	ConversationOverrides bson.RawValue `bson:"conversation_overrides,omitempty"`
}

func (d *settingsDoc) toSettings() *notifications.Settings {
	global := notifications.Level(d.Global)
	if !global.Valid() {
		global = notifications.LevelAll
	}
	return &notifications.Settings{
		Id:                    d.Id,
		UserId:                d.UserId,
		GlobalNotifications:   global,
		DesktopNotifications:  d.Desktop,
		PushNotifications:     d.Push,
		NotificationSound:     d.Sound,
		QuietHoursStart:       d.QuietHoursStart,
		QuietHoursEnd:         d.QuietHoursEnd,
		Timezone:              d.Timezone,
		ServerOverrides:       decodeOverrides(d.ServerOverrides),
		ChannelOverrides:      decodeOverrides(d.ChannelOverrides),
		ConversationOverrides: decodeOverrides(d.ConversationOverrides),
	}
}

// decodeOverrides turns a stored override map into typed overrides. Anything
// that can't be decoded becomes an empty map, and entries with unknown levels
// are dropped.
func decodeOverrides(rv bson.RawValue) notifications.Overrides {
	out := notifications.Overrides{}

	switch rv.Type {
	case bsontype.EmbeddedDocument:
		var m map[string]overrideDoc
		if err := rv.Unmarshal(&m); err != nil {
			return out
		}
		for id, o := range m {
			level := notifications.Level(o.Level)
			if id == "" || !level.Valid() {
				continue
			}
			var until *time.Time
			if o.MutedUntil != 0 {
				t := time.UnixMilli(o.MutedUntil).UTC()
				until = &t
			}
			out[id] = notifications.Override{Level: level, MutedUntil: until}
		}

	case bsontype.String:
		var m map[string]legacyOverride
		if err := json.Unmarshal([]byte(rv.StringValue()), &m); err != nil {
			return out
		}
		for id, o := range m {
			level := notifications.Level(o.Level)
			if id == "" || !level.Valid() {
				continue
			}
			out[id] = notifications.Override{Level: level, MutedUntil: o.MutedUntil}
		}
	}

	return out
}

func encodeOverrides(o notifications.Overrides) map[string]overrideDoc {
	m := make(map[string]overrideDoc, len(o))
	for id, v := range o {
		d := overrideDoc{Level: string(v.Level)}
		if v.MutedUntil != nil {
			d.MutedUntil = v.MutedUntil.UnixMilli()
		}
		m[id] = d
	}
	return m
}

// defaultsDoc is inserted the first time a user's settings are read.
func defaultsDoc(s *notifications.Settings) bson.M {
	return bson.M{
		"_id":                    s.Id,
		"global":                 string(s.GlobalNotifications),
		"desktop":                s.DesktopNotifications,
		"push":                   s.PushNotifications,
		"sound":                  s.NotificationSound,
		"server_overrides":       encodeOverrides(s.ServerOverrides),
		"channel_overrides":      encodeOverrides(s.ChannelOverrides),
		"conversation_overrides": encodeOverrides(s.ConversationOverrides),
	}
}

// updateSet builds the $set document for a patch. Empty quiet hours and
// timezone are unset rather than stored as empty strings.
func updateSet(p notifications.Patch) (set bson.M, unset bson.M) {
	set, unset = bson.M{}, bson.M{}

	if p.GlobalNotifications != nil {
		set["global"] = string(*p.GlobalNotifications)
	}
	if p.DesktopNotifications != nil {
		set["desktop"] = *p.DesktopNotifications
	}
	if p.PushNotifications != nil {
		set["push"] = *p.PushNotifications
	}
	if p.NotificationSound != nil {
		set["sound"] = *p.NotificationSound
	}
	for field, v := range map[string]*string{
		"quiet_hours_start": p.QuietHoursStart,
		"quiet_hours_end":   p.QuietHoursEnd,
		"timezone":          p.Timezone,
	} {
		if v == nil {
			continue
		}
		if *v == "" {
			unset[field] = ""
		} else {
			set[field] = *v
		}
	}
	if p.ServerOverrides != nil {
		set["server_overrides"] = encodeOverrides(p.ServerOverrides)
	}
	if p.ChannelOverrides != nil {
		set["channel_overrides"] = encodeOverrides(p.ChannelOverrides)
	}
	if p.ConversationOverrides != nil {
		set["conversation_overrides"] = encodeOverrides(p.ConversationOverrides)
	}

	return set, unset
}
