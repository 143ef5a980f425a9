package v0_rest

import "errors"

var (
	ErrBadRequest       = errors.New("badRequest")       // 400
	ErrUnauthorized     = errors.New("Unauthorized")     // 401
	ErrUntrustedNetwork = errors.New("untrustedNetwork") // 403
	ErrNotFound         = errors.New("notFound")         // 404
	ErrRatelimited      = errors.New("tooManyRequests")  // 429
	ErrInternal         = errors.New("Internal")         // 500
)
