package v0_rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meower-media/notifications/pkg/notifications"
)

func NotificationsRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Post("/evaluate", evaluateNotification)
	r.Post("/payload", buildPayload)

	return r
}

func evaluateNotification(w http.ResponseWriter, r *http.Request) {
	// Decode body
	var body EvaluateReq
	if !decodeBody(w, r, &body) {
		return
	}

	// A settings failure still yields a complete rejection, so it is
	// returned like any other decision.
	result, _ := engine.ShouldNotify(r.Context(), body.eventContext())

	returnData(w, http.StatusOK, DecisionResp{V0NotificationDecision: result.V0()})
}

func buildPayload(w http.ResponseWriter, r *http.Request) {
	// Decode body
	var body PayloadReq
	if !decodeBody(w, r, &body) {
		return
	}

	payload := notifications.BuildNotificationPayload(notifications.EventType(body.Type), body.Data)

	returnData(w, http.StatusOK, PayloadResp{V0NotificationPayload: payload.V0()})
}
