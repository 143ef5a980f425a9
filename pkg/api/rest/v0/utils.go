package v0_rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/meower-media/notifications/pkg/notifications"
	"github.com/meower-media/notifications/pkg/rdb"
	"github.com/meower-media/notifications/pkg/settings"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/sha3"
)

// Set by the gateway once it has authenticated the caller.
const userIdHeader = "X-User-Id"

var validate = validator.New()

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	// Decode body
	contentType := r.Header.Get("Content-Type")
	if contentType == "application/json" || contentType == "" { // default
		err := json.NewDecoder(r.Body).Decode(v)
		if err != nil {
			returnErr(w, http.StatusBadRequest, ErrBadRequest, nil)
			return false
		}
	} else {
		returnErr(w, http.StatusBadRequest, ErrBadRequest, nil)
		return false
	}

	// Get struct type
	structType := reflect.TypeOf(v)
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	// Validate
	err := validate.Struct(v)
	if err != nil {
		errFields := make(map[string]string, len(err.(validator.ValidationErrors)))
		for _, err := range err.(validator.ValidationErrors) {
			field, _ := structType.FieldByName(err.StructField())
			errFields[field.Tag.Get("json")] = err.Error()
		}
		returnErr(w, http.StatusBadRequest, ErrBadRequest, errFields)
		return false
	}

	return true
}

func returnData(w http.ResponseWriter, code int, data interface{}) {
	marshaled, err := json.Marshal(data)
	if err != nil {
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write(marshaled)
	}
}

func returnErr(w http.ResponseWriter, code int, errType error, fields map[string]string) {
	marshaled, err := json.Marshal(ErrResp{
		Error:  true,
		Type:   errType.Error(),
		Fields: fields,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("An error occurred while sending the error response."))
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write(marshaled)
	}
}

// returnEngineErr maps an error from the notifications engine to a response.
// Validation errors name the offending field, a vanished settings document
// is a 404 and anything else is a 500.
func returnEngineErr(w http.ResponseWriter, err error) {
	if errors.Is(err, settings.ErrNotFound) {
		returnErr(w, http.StatusNotFound, ErrNotFound, nil)
		return
	}

	var field string
	switch {
	case errors.Is(err, notifications.ErrInvalidLevel):
		field = "level"
	case errors.Is(err, notifications.ErrInvalidMuteDuration):
		field = "duration"
	case errors.Is(err, notifications.ErrInvalidClock), errors.Is(err, notifications.ErrQuietHoursPair):
		field = "quiet_hours"
	case errors.Is(err, notifications.ErrInvalidTimezone):
		field = "timezone"
	case errors.Is(err, notifications.ErrInvalidScope):
		field = "scope"
	case errors.Is(err, notifications.ErrMissingTarget):
		field = "target_id"
	default:
		sentry.CaptureException(err)
		returnErr(w, http.StatusInternalServerError, ErrInternal, nil)
		return
	}
	returnErr(w, http.StatusBadRequest, ErrBadRequest, map[string]string{field: err.Error()})
}

func getAuthedUserId(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(userIdHeader))
}

// Update a ratelimit for a resource (bucket) based on a scope and identifier.
//
// Only 1 ratelimit should be set before returning a response.
// Otherwise, the ratelimit headers might accidentally be overwritten.
//
// Ratelimits are skipped entirely when Redis isn't configured.
func ratelimit(ctx context.Context, w http.ResponseWriter, bucket string, scope string, id string, limit int, seconds int) error {
	if rdb.Client == nil {
		return nil
	}

	// Get ratelimit hash
	ratelimitHash := getRatelimitHash(bucket, scope, id)

	// Get remaining limit and TTL
	var newRemaining int
	var newTTL time.Duration
	remaining, err := rdb.Client.Get(ctx, ratelimitHash).Int()
	if err == redis.Nil {
		newRemaining = limit - 1
		newTTL = time.Duration(seconds) * time.Second
	} else if err != nil {
		return err
	} else {
		newRemaining = remaining - 1
		newTTL = rdb.Client.TTL(ctx, ratelimitHash).Val()
	}

	// Set new limit
	if err := rdb.Client.Set(ctx, ratelimitHash, newRemaining, newTTL).Err(); err != nil {
		return err
	}

	// Set response headers
	w.Header().Add("X-Rtl-Bucket", bucket)
	w.Header().Add("X-Rtl-Scope", scope)
	w.Header().Add("X-Rtl-Remaining", strconv.FormatInt(int64(newRemaining), 10))
	w.Header().Add("X-Rtl-Reset", strconv.FormatInt(time.Now().Add(newTTL).UnixMilli(), 10))

	return nil
}

func ratelimited(ctx context.Context, bucket string, scope string, id string) bool {
	if rdb.Client == nil {
		return false
	}
	ratelimitHash := getRatelimitHash(bucket, scope, id)
	remaining, err := rdb.Client.Get(ctx, ratelimitHash).Int()
	if err != nil || remaining > 0 {
		return false
	}
	return true
}

func getRatelimitHash(bucket string, scope string, id string) string {
	h := sha3.NewShake256()
	h.Write([]byte("rtl"))
	h.Write([]byte(bucket))
	h.Write([]byte(scope))
	h.Write([]byte(id))

	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}
