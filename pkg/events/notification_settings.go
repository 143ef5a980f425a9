package events

import (
	"context"
	"fmt"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// EmitUpdateNotificationSettingsEvent tells the user's other sessions that
// their notification settings changed.
func EmitUpdateNotificationSettingsEvent(ctx context.Context, pub Publisher, s *notifications.Settings) error {
	// Marshal packet
	marshaledPacket, err := msgpack.Marshal(s)
	if err != nil {
		return err
	}
	marshaledPacket = append(marshaledPacket, utils.EvOpUpdateNotificationSettings)

	// Send packet
	return pub.Publish(ctx, fmt.Sprint("u", s.UserId), marshaledPacket).Err()
}
