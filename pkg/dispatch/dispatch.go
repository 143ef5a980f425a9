package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MessageEvent is a message-like event with the users who might hear about it.
type MessageEvent struct {
	MessageId       string `msgpack:"message_id"`
	SenderId        string `msgpack:"sender_id"`
	SenderName      string `msgpack:"sender_name"`
	SenderAvatarUrl string `msgpack:"sender_avatar_url,omitempty"`
	Content         string `msgpack:"content"`

	ServerId       string `msgpack:"server_id,omitempty"`
	ServerName     string `msgpack:"server_name,omitempty"`
	ChannelId      string `msgpack:"channel_id,omitempty"`
	ChannelName    string `msgpack:"channel_name,omitempty"`
	ConversationId string `msgpack:"conversation_id,omitempty"`

	MentionedUserIds []string `msgpack:"mentioned_user_ids,omitempty"`
	ReplyToUserId    string   `msgpack:"reply_to_user_id,omitempty"` // author of the message being replied to

	Recipients []string `msgpack:"recipients"`
}

func (ev *MessageEvent) contextFor(recipientId string) notifications.EventContext {
	return notifications.EventContext{
		ServerId:           ev.ServerId,
		ChannelId:          ev.ChannelId,
		ConversationId:     ev.ConversationId,
		SenderId:           ev.SenderId,
		RecipientId:        recipientId,
		MentionedUserIds:   ev.MentionedUserIds,
		IsReplyToRecipient: ev.ReplyToUserId != "" && ev.ReplyToUserId == recipientId,
	}
}

func (ev *MessageEvent) payloadData() notifications.PayloadData {
	return notifications.PayloadData{
		SenderName:      ev.SenderName,
		SenderAvatarUrl: ev.SenderAvatarUrl,
		MessageContent:  ev.Content,
		MessageId:       ev.MessageId,
		ChannelName:     ev.ChannelName,
		ChannelId:       ev.ChannelId,
		ServerName:      ev.ServerName,
		ServerId:        ev.ServerId,
		ConversationId:  ev.ConversationId,
	}
}

// Delivery is the outcome for one recipient. Payload is only set when the
// recipient should be notified.
type Delivery struct {
	RecipientId string                 `msgpack:"recipient_id"`
	MessageId   string                 `msgpack:"message_id"`
	Decision    notifications.Result   `msgpack:"decision"`
	Payload     *notifications.Payload `msgpack:"payload,omitempty"`
}

// Decider is the engine as seen by the dispatcher.
type Decider interface {
	ShouldNotify(ctx context.Context, c notifications.EventContext) (notifications.Result, error)
}

// Publisher is the part of the Redis client used to hand deliveries on.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type Dispatcher struct {
	decider     Decider
	pub         Publisher
	log         *zap.Logger
	concurrency int
}

func NewDispatcher(decider Decider, pub Publisher, log *zap.Logger, concurrency int) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{decider: decider, pub: pub, log: log, concurrency: concurrency}
}

// UserChannel is the Redis channel deliveries for a user are published on.
func UserChannel(userId string) string {
	return fmt.Sprint("u", userId)
}

// Dispatch evaluates every recipient of ev on its own and publishes a delivery
// for each one that should be notified. Deliveries come back in recipient
// order, including recipients whose delivery failed to publish. A settings or
// publish failure for one recipient never affects the others; publish
// failures are joined into the returned error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *MessageEvent) ([]Delivery, error) {
	deliveries := make([]Delivery, len(ev.Recipients))
	publishErrs := make([]error, len(ev.Recipients))
	data := ev.payloadData()

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, recipientId := range ev.Recipients {
		i, recipientId := i, recipientId
		g.Go(func() error {
			res, err := d.decider.ShouldNotify(ctx, ev.contextFor(recipientId))
			if err != nil {
				d.log.Warn("recipient skipped",
					zap.String("message", ev.MessageId),
					zap.String("recipient", recipientId),
					zap.Error(err),
				)
			}

			deliveries[i] = Delivery{RecipientId: recipientId, MessageId: ev.MessageId, Decision: res}
			if res.ShouldNotify {
				payload := notifications.BuildNotificationPayload(res.Type, data)
				deliveries[i].Payload = &payload
				publishErrs[i] = d.publish(ctx, &deliveries[i])
			}
			return nil
		})
	}
	g.Wait()

	if err := errors.Join(publishErrs...); err != nil {
		sentry.CaptureException(err)
		return deliveries, err
	}
	return deliveries, nil
}

func (d *Dispatcher) publish(ctx context.Context, delivery *Delivery) error {
	// Marshal packet
	marshaledPacket, err := msgpack.Marshal(delivery)
	if err != nil {
		return err
	}
	marshaledPacket = append(marshaledPacket, utils.EvOpNotify)

	// Send packet
	if err := d.pub.Publish(ctx, UserChannel(delivery.RecipientId), marshaledPacket).Err(); err != nil {
		return fmt.Errorf("publish delivery for %s: %w", delivery.RecipientId, err)
	}
	return nil
}
