package settings

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "notifications:settings:"

// CacheClient is the part of the Redis client the cache uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedRepository keeps msgpack copies of settings in Redis in front of
// another repository. Updates are written through, so a user always reads
// back their own mute/unmute.
type CachedRepository struct {
	inner  notifications.Repository
	client CacheClient
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedRepository(inner notifications.Repository, client CacheClient, ttl time.Duration, log *zap.Logger) *CachedRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedRepository{inner: inner, client: client, ttl: ttl, log: log}
}

func cacheKey(userId string) string {
	return cacheKeyPrefix + userId
}

func (r *CachedRepository) GetOrCreate(ctx context.Context, userId string) (*notifications.Settings, error) {
	if s, ok := r.load(ctx, userId); ok {
		return s, nil
	}

	s, err := r.inner.GetOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	r.store(ctx, s)
	return s, nil
}

func (r *CachedRepository) Update(ctx context.Context, settingsId int64, p notifications.Patch) (*notifications.Settings, error) {
	s, err := r.inner.Update(ctx, settingsId, p)
	if err != nil {
		return nil, err
	}
	if !r.store(ctx, s) {
		// A stale entry must not outlive a failed write-through.
		if err := r.client.Del(ctx, cacheKey(s.UserId)).Err(); err != nil {
			r.log.Error("settings cache invalidation failed", zap.String("user", s.UserId), zap.Error(err))
			sentry.CaptureException(err)
		}
	}
	return s, nil
}

func (r *CachedRepository) load(ctx context.Context, userId string) (*notifications.Settings, bool) {
	b, err := r.client.Get(ctx, cacheKey(userId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	} else if err != nil {
		r.log.Warn("settings cache read failed", zap.String("user", userId), zap.Error(err))
		return nil, false
	}

	var s notifications.Settings
	if err := msgpack.Unmarshal(b, &s); err != nil {
		r.log.Warn("settings cache entry corrupt", zap.String("user", userId), zap.Error(err))
		return nil, false
	}
	normalize(&s)
	return &s, true
}

func (r *CachedRepository) store(ctx context.Context, s *notifications.Settings) bool {
	b, err := msgpack.Marshal(s)
	if err != nil {
		r.log.Warn("settings cache encode failed", zap.String("user", s.UserId), zap.Error(err))
		return false
	}
	if err := r.client.Set(ctx, cacheKey(s.UserId), b, r.ttl).Err(); err != nil {
		r.log.Warn("settings cache write failed", zap.String("user", s.UserId), zap.Error(err))
		return false
	}
	return true
}

// normalize restores the invariants a decoded cache entry may have lost.
func normalize(s *notifications.Settings) {
	if !s.GlobalNotifications.Valid() {
		s.GlobalNotifications = notifications.LevelAll
	}
	for _, m := range []*notifications.Overrides{&s.ServerOverrides, &s.ChannelOverrides, &s.ConversationOverrides} {
		if *m == nil {
			*m = notifications.Overrides{}
		}
		for id, o := range *m {
			if !o.Level.Valid() {
				delete(*m, id)
			}
		}
	}
}
