package readiness

import "errors"

// ErrTimeoutExceeded is returned when a timeout is exceeded.
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// ErrResourceFailed is returned when a resource reaches a failed state.
var ErrResourceFailed = errors.New("resource failed")

var errUnknownCheckKind = errors.New("unknown check kind")
