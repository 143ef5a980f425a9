package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Repository stores settings documents. Implementations must hand back fully
// populated settings with well-typed (possibly empty) override maps.
type Repository interface {
	GetOrCreate(ctx context.Context, userId string) (*Settings, error)
	Update(ctx context.Context, settingsId int64, patch Patch) (*Settings, error)
}

const (
	ReasonSenderIsRecipient    = "sender_is_recipient"
	ReasonFailedToLoadSettings = "failed_to_load_settings"
	ReasonQuietHours           = "quiet_hours"
	reasonLevelBlocksEventFmt  = "level_%s_blocks_%s"
)

type Result struct {
	ShouldNotify bool      `json:"should_notify" msgpack:"should_notify" yaml:"should_notify"`
	Type         EventType `json:"type" msgpack:"type" yaml:"type"`
	Reason       string    `json:"reason,omitempty" msgpack:"reason,omitempty" yaml:"reason,omitempty"`
	PlaySound    bool      `json:"play_sound" msgpack:"play_sound" yaml:"play_sound"`
	ShowDesktop  bool      `json:"show_desktop" msgpack:"show_desktop" yaml:"show_desktop"`
	SendPush     bool      `json:"send_push" msgpack:"send_push" yaml:"send_push"`
}

func reject(t EventType, reason string) Result {
	return Result{Type: t, Reason: reason}
}

type Engine struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location
	log  *zap.Logger
}

type Option func(*Engine)

// WithClock replaces the wall clock used for mute expiry and quiet hours.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone quiet hours are read in for users without a
// timezone of their own.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(repo Repository, opts ...Option) *Engine {
	e := &Engine{
		repo: repo,
		now:  time.Now,
		loc:  time.Local,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Now() time.Time {
	return e.now()
}

// ShouldNotify decides whether the recipient in c gets notified and through
// which channels. The returned error is set only when the recipient's
// settings could not be loaded; the result is still a complete rejection.
func (e *Engine) ShouldNotify(ctx context.Context, c EventContext) (Result, error) {
	eventType := DetermineEventType(&c)

	if c.SenderId == c.RecipientId {
		return reject(eventType, ReasonSenderIsRecipient), nil
	}

	settings, err := e.repo.GetOrCreate(ctx, c.RecipientId)
	if err == nil && settings == nil {
		err = ErrSettingsUnavailable
	}
	if err != nil {
		e.log.Warn("load notification settings failed",
			zap.String("recipient", c.RecipientId),
			zap.Error(err),
		)
		sentry.CaptureException(err)
		return reject(eventType, ReasonFailedToLoadSettings), fmt.Errorf("%w: %w", ErrSettingsUnavailable, err)
	}

	now := e.now()
	if IsInQuietHours(settings, now, QuietHoursLocation(settings, e.loc)) {
		return reject(eventType, ReasonQuietHours), nil
	}

	level := GetEffectiveNotificationLevel(settings, &c, now)
	if !IsEventAllowedByLevel(level, eventType) {
		return reject(eventType, fmt.Sprintf(reasonLevelBlocksEventFmt, level, eventType)), nil
	}

	return Result{
		ShouldNotify: true,
		Type:         eventType,
		PlaySound:    settings.NotificationSound,
		ShowDesktop:  settings.DesktopNotifications,
		SendPush:     settings.PushNotifications,
	}, nil
}

// Settings returns the user's settings, creating the defaults on first use.
func (e *Engine) Settings(ctx context.Context, userId string) (*Settings, error) {
	return e.repo.GetOrCreate(ctx, userId)
}

// UpdatePreferences validates and applies a partial update to the user's settings.
func (e *Engine) UpdatePreferences(ctx context.Context, userId string, p Patch) (*Settings, error) {
	current, err := e.repo.GetOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(current); err != nil {
		return nil, err
	}
	return e.repo.Update(ctx, current.Id, p)
}

// Mute installs an override for targetId in the given scope, replacing any
// existing one. An empty level mutes completely.
func (e *Engine) Mute(ctx context.Context, userId string, scope Scope, targetId string, level Level, duration MuteDuration) (*Settings, error) {
	if targetId == "" {
		return nil, ErrMissingTarget
	}
	if level == "" {
		level = LevelNothing
	}
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}
	until, err := CalculateMuteExpiration(duration, e.now())
	if err != nil {
		return nil, err
	}

	current, err := e.repo.GetOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	m := current.Overrides(scope).clone()
	m[targetId] = Override{Level: level, MutedUntil: until}
	p, err := OverridesPatch(scope, m)
	if err != nil {
		return nil, err
	}
	return e.repo.Update(ctx, current.Id, p)
}

// Unmute removes the override for targetId in the given scope. Removing a
// missing override is not an error.
func (e *Engine) Unmute(ctx context.Context, userId string, scope Scope, targetId string) (*Settings, error) {
	if targetId == "" {
		return nil, ErrMissingTarget
	}
	current, err := e.repo.GetOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	m := current.Overrides(scope).clone()
	delete(m, targetId)
	p, err := OverridesPatch(scope, m)
	if err != nil {
		return nil, err
	}
	return e.repo.Update(ctx, current.Id, p)
}
