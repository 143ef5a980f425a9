package structs

type V0NotificationOverride struct {
	Level      string `json:"level"`       // all, mentions or nothing
	MutedUntil int64  `json:"muted_until"` // unix ms, -1 until removed
}

type V0NotificationSettings struct {
	Id     int64  `json:"_id"`
	UserId string `json:"user_id"`

	Global  string `json:"global"`
	Desktop bool   `json:"desktop"`
	Push    bool   `json:"push"`
	Sound   bool   `json:"sound"`

	QuietHoursStart *string `json:"quiet_hours_start"`
	QuietHoursEnd   *string `json:"quiet_hours_end"`
	Timezone        *string `json:"timezone"`

	Servers       map[string]V0NotificationOverride `json:"servers"`
	Channels      map[string]V0NotificationOverride `json:"channels"`
	Conversations map[string]V0NotificationOverride `json:"conversations"`
}
