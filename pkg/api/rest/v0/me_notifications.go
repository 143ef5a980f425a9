package v0_rest

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/meower-media/notifications/pkg/events"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/rdb"
)

const (
	updateBucket  = "notifications-update"
	updateLimit   = 30
	updateSeconds = 60
)

var scopeParams = map[string]notifications.Scope{
	"servers":       notifications.ScopeServer,
	"channels":      notifications.ScopeChannel,
	"conversations": notifications.ScopeConversation,
}

func MeNotificationsRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/", getNotificationSettings)
	r.Patch("/", updateNotificationSettings)
	r.Route("/{scope:(?:servers|channels|conversations)}/{targetId}/mute", func(r chi.Router) {
		r.Put("/", muteTarget)
		r.Delete("/", unmuteTarget)
	})

	return r
}

// checkUpdateRatelimit applies the settings update ratelimit and reports
// whether the request may go ahead.
func checkUpdateRatelimit(w http.ResponseWriter, r *http.Request, userId string) bool {
	if ratelimited(r.Context(), updateBucket, "user", userId) {
		returnErr(w, http.StatusTooManyRequests, ErrRatelimited, nil)
		return false
	}
	if err := ratelimit(r.Context(), w, updateBucket, "user", userId, updateLimit, updateSeconds); err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return false
	}
	return true
}

// emitSettingsUpdate lets the user's other sessions pick up the change.
func emitSettingsUpdate(r *http.Request, settings *notifications.Settings) {
	if rdb.Client == nil {
		return
	}
	if err := events.EmitUpdateNotificationSettingsEvent(r.Context(), rdb.Client, settings); err != nil {
		sentry.CaptureException(err)
	}
}

func getNotificationSettings(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	userId := getAuthedUserId(r)
	if userId == "" {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Get settings
	settings, err := engine.Settings(r.Context(), userId)
	if err != nil {
		returnEngineErr(w, err)
		return
	}

	returnData(w, http.StatusOK, NotificationSettingsResp{
		V0NotificationSettings: settings.V0(engine.Now()),
	})
}

func updateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	userId := getAuthedUserId(r)
	if userId == "" {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Decode body
	var body UpdateNotificationSettingsReq
	if !decodeBody(w, r, &body) {
		return
	}

	// Check ratelimit
	if !checkUpdateRatelimit(w, r, userId) {
		return
	}

	// Update settings
	settings, err := engine.UpdatePreferences(r.Context(), userId, body.patch())
	if err != nil {
		returnEngineErr(w, err)
		return
	}
	emitSettingsUpdate(r, settings)

	returnData(w, http.StatusOK, NotificationSettingsResp{
		V0NotificationSettings: settings.V0(engine.Now()),
	})
}

func muteTarget(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	userId := getAuthedUserId(r)
	if userId == "" {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Decode body
	var body MuteReq
	if !decodeBody(w, r, &body) {
		return
	}

	// Check ratelimit
	if !checkUpdateRatelimit(w, r, userId) {
		return
	}

	// Mute
	settings, err := engine.Mute(
		r.Context(),
		userId,
		scopeParams[chi.URLParam(r, "scope")],
		chi.URLParam(r, "targetId"),
		notifications.Level(body.Level),
		notifications.MuteDuration(body.Duration),
	)
	if err != nil {
		returnEngineErr(w, err)
		return
	}
	emitSettingsUpdate(r, settings)

	returnData(w, http.StatusOK, NotificationSettingsResp{
		V0NotificationSettings: settings.V0(engine.Now()),
	})
}

func unmuteTarget(w http.ResponseWriter, r *http.Request) {
	// Get authed user
	userId := getAuthedUserId(r)
	if userId == "" {
		returnErr(w, http.StatusUnauthorized, ErrUnauthorized, nil)
		return
	}

	// Check ratelimit
	if !checkUpdateRatelimit(w, r, userId) {
		return
	}

	// Unmute
	settings, err := engine.Unmute(
		r.Context(),
		userId,
		scopeParams[chi.URLParam(r, "scope")],
		chi.URLParam(r, "targetId"),
	)
	if err != nil {
		returnEngineErr(w, err)
		return
	}
	emitSettingsUpdate(r, settings)

	returnData(w, http.StatusOK, NotificationSettingsResp{
		V0NotificationSettings: settings.V0(engine.Now()),
	})
}
