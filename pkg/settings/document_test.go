package settings

import (
	"testing"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func decodeDoc(t *testing.T, m bson.M) *notifications.Settings {
	t.Helper()
	raw, err := bson.Marshal(m)
	require.NoError(t, err)
	var doc settingsDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc.toSettings()
}

func TestDecode_Defaults(t *testing.T) {
	defaults := notifications.DefaultSettings(42, "u1")
	m := defaultsDoc(defaults)
	m["user_id"] = "u1"

	assert.Equal(t, defaults, decodeDoc(t, m))
}

func TestDecode_Overrides(t *testing.T) {
	until := time.Date(2025, time.March, 10, 13, 0, 0, 0, time.UTC)
	s := decodeDoc(t, bson.M{
		"_id":     int64(5),
		"user_id": "u1",
		"global":  "mentions",
		"desktop": true,
		"server_overrides": bson.M{
			"s1": bson.M{"level": "nothing", "muted_until": until.UnixMilli()},
			"s2": bson.M{"level": "mentions"},
			"s3": bson.M{"level": "bogus"},
		},
	})

	assert.Equal(t, notifications.LevelMentions, s.GlobalNotifications)
	assert.True(t, s.DesktopNotifications)
	assert.False(t, s.PushNotifications)
	require.Len(t, s.ServerOverrides, 2)
	require.NotNil(t, s.ServerOverrides["s1"].MutedUntil)
	assert.True(t, until.Equal(*s.ServerOverrides["s1"].MutedUntil))
	assert.Nil(t, s.ServerOverrides["s2"].MutedUntil)
	assert.NotNil(t, s.ChannelOverrides)
	assert.Empty(t, s.ChannelOverrides)
	assert.NotNil(t, s.ConversationOverrides)
}

func TestDecode_LegacyJSONOverrides(t *testing.T) {
	s := decodeDoc(t, bson.M{
		"_id":               int64(5),
		"user_id":           "u1",
		"global":            "all",
		"channel_overrides": `{"c1":{"level":"mentions","mutedUntil":"2025-03-10T13:00:00Z"},"c2":{"level":"nothing"}}`,
	})

	require.Len(t, s.ChannelOverrides, 2)
	require.NotNil(t, s.ChannelOverrides["c1"].MutedUntil)
	assert.Equal(t, 13, s.ChannelOverrides["c1"].MutedUntil.Hour())
	assert.Equal(t, notifications.LevelNothing, s.ChannelOverrides["c2"].Level)
}

func TestDecode_MalformedOverridesBecomeEmpty(t *testing.T) {
	s := decodeDoc(t, bson.M{
		"_id":                    int64(5),
		"user_id":                "u1",
		"global":                 "loud",
		"server_overrides":       "{not json",
		"channel_overrides":      int32(42),
		"conversation_overrides": bson.M{"d1": bson.M{"level": 7}},
	})

	assert.Equal(t, notifications.LevelAll, s.GlobalNotifications, "unknown global level normalises to all")
	assert.Empty(t, s.ServerOverrides)
	assert.Empty(t, s.ChannelOverrides)
	assert.Empty(t, s.ConversationOverrides)
	assert.NotNil(t, s.ServerOverrides)
}

func TestUpdateSet(t *testing.T) {
	level := notifications.LevelNothing
	off := false
	start, end, tz := "22:00", "", "Europe/Berlin"
	until := time.UnixMilli(1700000000000)

	set, unset := updateSet(notifications.Patch{
		GlobalNotifications: &level,
		PushNotifications:   &off,
		QuietHoursStart:     &start,
		QuietHoursEnd:       &end,
		Timezone:            &tz,
		ChannelOverrides: notifications.Overrides{
			"c1": {Level: notifications.LevelMentions, MutedUntil: &until},
		},
	})

	assert.Equal(t, bson.M{
		"global":            "nothing",
		"push":              false,
		"quiet_hours_start": "22:00",
		"timezone":          "Europe/Berlin",
		"channel_overrides": map[string]overrideDoc{
			"c1": {Level: "mentions", MutedUntil: 1700000000000},
		},
	}, set)
	assert.Equal(t, bson.M{"quiet_hours_end": ""}, unset)
}

func TestUpdateSet_Empty(t *testing.T) {
	set, unset := updateSet(notifications.Patch{})
	assert.Empty(t, set)
	assert.Empty(t, unset)
}

func TestUpdateSet_EmptyMapReplaces(t *testing.T) {
	set, _ := updateSet(notifications.Patch{ServerOverrides: notifications.Overrides{}})
	assert.Equal(t, map[string]overrideDoc{}, set["server_overrides"])
}
