package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/settings"
	"github.com/meower-media/notifications/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var refNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type published struct {
	channel string
	packet  []byte
}

type fakePublisher struct {
	mu      sync.Mutex
	sent    []published
	err     error
	failFor string // only this channel fails when set
}

func (p *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil && (p.failFor == "" || p.failFor == channel) {
		return redis.NewIntResult(0, p.err)
	}
	p.sent = append(p.sent, published{channel: channel, packet: message.([]byte)})
	return redis.NewIntResult(1, nil)
}

func (p *fakePublisher) byChannel() map[string]Delivery {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := map[string]Delivery{}
	for _, s := range p.sent {
		body, op, _ := utils.SplitPacket(s.packet)
		if op != utils.EvOpNotify {
			continue
		}
		var d Delivery
		if err := msgpack.Unmarshal(body, &d); err == nil {
			out[s.channel] = d
		}
	}
	return out
}

// ctxRepo fails reads on a done context, as the Mongo driver does.
type ctxRepo struct {
	*settings.MemoryRepository
}

func (r ctxRepo) GetOrCreate(ctx context.Context, userId string) (*notifications.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.MemoryRepository.GetOrCreate(ctx, userId)
}

type failingDecider struct {
	inner   Decider
	failFor string
}

func (d failingDecider) ShouldNotify(ctx context.Context, c notifications.EventContext) (notifications.Result, error) {
	if c.RecipientId == d.failFor {
		return notifications.Result{Type: notifications.DetermineEventType(&c), Reason: notifications.ReasonFailedToLoadSettings},
			notifications.ErrSettingsUnavailable
	}
	return d.inner.ShouldNotify(ctx, c)
}

func setup(t *testing.T) (*settings.MemoryRepository, *notifications.Engine) {
	t.Helper()
	repo := settings.NewMemoryRepository()
	e := notifications.NewEngine(repo,
		notifications.WithClock(func() time.Time { return refNow }),
		notifications.WithLocation(time.UTC),
	)
	return repo, e
}

func channelEvent(recipients ...string) *MessageEvent {
	return &MessageEvent{
		MessageId:   "m1",
		SenderId:    "alice",
		SenderName:  "Alice",
		Content:     "hello there",
		ServerId:    "s1",
		ServerName:  "Guild",
		ChannelId:   "c1",
		ChannelName: "general",
		Recipients:  recipients,
	}
}

func TestDispatch_EvaluatesEachRecipient(t *testing.T) {
	repo, e := setup(t)
	s := notifications.DefaultSettings(0, "carol")
	s.GlobalNotifications = notifications.LevelMentions
	repo.Put(s)

	pub := &fakePublisher{}
	d := NewDispatcher(e, pub, nil, 4)

	ev := channelEvent("alice", "bob", "carol", "dave")
	ev.MentionedUserIds = []string{"dave"}

	deliveries, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	require.Len(t, deliveries, 4)

	assert.Equal(t, "alice", deliveries[0].RecipientId)
	assert.False(t, deliveries[0].Decision.ShouldNotify)
	assert.Equal(t, notifications.ReasonSenderIsRecipient, deliveries[0].Decision.Reason)

	assert.True(t, deliveries[1].Decision.ShouldNotify)
	assert.Equal(t, notifications.EventMessage, deliveries[1].Decision.Type)
	require.NotNil(t, deliveries[1].Payload)
	assert.Equal(t, "#general in Guild", deliveries[1].Payload.Title)

	assert.False(t, deliveries[2].Decision.ShouldNotify)
	assert.Equal(t, "level_mentions_blocks_message", deliveries[2].Decision.Reason)
	assert.Nil(t, deliveries[2].Payload)

	assert.Equal(t, notifications.EventMention, deliveries[3].Decision.Type)
	require.NotNil(t, deliveries[3].Payload)
	assert.Equal(t, "Alice mentioned you in #general", deliveries[3].Payload.Title)
	assert.Equal(t, "/servers/s1/channels/c1?message=m1", deliveries[3].Payload.Url)

	sent := pub.byChannel()
	assert.Len(t, sent, 2)
	assert.Contains(t, sent, "ubob")
	assert.Contains(t, sent, "udave")
	assert.Equal(t, "m1", sent["udave"].MessageId)
}

func TestDispatch_ReplyOnlyTargetsRepliedUser(t *testing.T) {
	_, e := setup(t)
	pub := &fakePublisher{}
	d := NewDispatcher(e, pub, nil, 2)

	ev := channelEvent("bob", "carol")
	ev.ReplyToUserId = "carol"

	deliveries, err := d.Dispatch(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, notifications.EventMessage, deliveries[0].Decision.Type)
	assert.Equal(t, notifications.EventThreadReply, deliveries[1].Decision.Type)
	assert.Equal(t, "Alice replied in #general", deliveries[1].Payload.Title)
}

func TestDispatch_SettingsFailureIsolated(t *testing.T) {
	_, e := setup(t)
	pub := &fakePublisher{}
	d := NewDispatcher(failingDecider{inner: e, failFor: "bob"}, pub, nil, 1)

	deliveries, err := d.Dispatch(context.Background(), channelEvent("bob", "carol"))
	require.NoError(t, err)
	assert.False(t, deliveries[0].Decision.ShouldNotify)
	assert.Equal(t, notifications.ReasonFailedToLoadSettings, deliveries[0].Decision.Reason)
	assert.True(t, deliveries[1].Decision.ShouldNotify)

	sent := pub.byChannel()
	assert.Len(t, sent, 1)
	assert.Contains(t, sent, "ucarol")
}

func TestDispatch_PublishError(t *testing.T) {
	_, e := setup(t)
	boom := errors.New("redis gone")
	d := NewDispatcher(e, &fakePublisher{err: boom}, nil, 2)

	_, err := d.Dispatch(context.Background(), channelEvent("bob"))
	assert.ErrorIs(t, err, boom)
}

func TestDispatch_NoRecipients(t *testing.T) {
	_, e := setup(t)
	pub := &fakePublisher{}
	deliveries, err := NewDispatcher(e, pub, nil, 0).Dispatch(context.Background(), channelEvent())
	require.NoError(t, err)
	assert.Empty(t, deliveries)
	assert.Empty(t, pub.sent)
}

func TestDispatch_PublishErrorIsolated(t *testing.T) {
	e := notifications.NewEngine(ctxRepo{settings.NewMemoryRepository()},
		notifications.WithClock(func() time.Time { return refNow }),
		notifications.WithLocation(time.UTC),
	)
	boom := errors.New("redis blip")
	pub := &fakePublisher{err: boom, failFor: "ubob"}
	d := NewDispatcher(e, pub, nil, 1)

	deliveries, err := d.Dispatch(context.Background(), channelEvent("bob", "carol", "dave"))
	assert.ErrorIs(t, err, boom)
	require.Len(t, deliveries, 3)

	for i, recipientId := range []string{"bob", "carol", "dave"} {
		assert.Equal(t, recipientId, deliveries[i].RecipientId)
		assert.True(t, deliveries[i].Decision.ShouldNotify, recipientId)
		assert.Empty(t, deliveries[i].Decision.Reason, recipientId)
		assert.NotNil(t, deliveries[i].Payload, recipientId)
	}

	sent := pub.byChannel()
	assert.Len(t, sent, 2)
	assert.Contains(t, sent, "ucarol")
	assert.Contains(t, sent, "udave")
}
