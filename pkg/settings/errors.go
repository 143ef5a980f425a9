package settings

import "errors"

var (
	ErrNotFound = errors.New("notification settings not found")
)
