package notifications

import (
	"time"

	"github.com/meower-media/notifications/pkg/structs"
)

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (o Overrides) v0() map[string]structs.V0NotificationOverride {
	out := make(map[string]structs.V0NotificationOverride, len(o))
	for id, override := range o {
		mutedUntil := int64(-1)
		if override.MutedUntil != nil {
			mutedUntil = override.MutedUntil.UnixMilli()
		}
		out[id] = structs.V0NotificationOverride{
			Level:      string(override.Level),
			MutedUntil: mutedUntil,
		}
	}
	return out
}

// V0 renders the settings as seen at now. Expired overrides are left out.
func (s *Settings) V0(now time.Time) structs.V0NotificationSettings {
	visible := s.PruneExpired(now)
	return structs.V0NotificationSettings{
		Id:              visible.Id,
		UserId:          visible.UserId,
		Global:          string(visible.GlobalNotifications),
		Desktop:         visible.DesktopNotifications,
		Push:            visible.PushNotifications,
		Sound:           visible.NotificationSound,
		QuietHoursStart: optionalString(visible.QuietHoursStart),
		QuietHoursEnd:   optionalString(visible.QuietHoursEnd),
		Timezone:        optionalString(visible.Timezone),
		Servers:         visible.ServerOverrides.v0(),
		Channels:        visible.ChannelOverrides.v0(),
		Conversations:   visible.ConversationOverrides.v0(),
	}
}

func (r Result) V0() structs.V0NotificationDecision {
	var d structs.V0NotificationDecision
	d.ShouldNotify = r.ShouldNotify
	d.Type = string(r.Type)
	d.Reason = r.Reason
	d.Channels.Sound = r.PlaySound
	d.Channels.Desktop = r.ShowDesktop
	d.Channels.Push = r.SendPush
	return d
}

func (p Payload) V0() structs.V0NotificationPayload {
	return structs.V0NotificationPayload{
		Title: p.Title,
		Body:  p.Body,
		Url:   p.Url,
		Icon:  optionalString(p.Icon),
	}
}
