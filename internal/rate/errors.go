package rate

import "errors"

// ErrRateLimited means an attempt budget is spent for the current window.
var ErrRateLimited = errors.New("rate: limited")

// ErrRedisUnavailable wraps any Redis error seen while counting.
var ErrRedisUnavailable = errors.New("rate: redis unavailable")
