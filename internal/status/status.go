package status

import (
	"errors"
	"strings"
)

var (
	ErrRateLimited       = errors.New("rate limit: too many requests")
	ErrDuplicateInFlight = errors.New("submission: already in progress")
	ErrPersistFailed     = errors.New("persistence: insert failed")
	ErrNotifyFailed      = errors.New("notification: delivery failed")
	ErrUnresolvable      = errors.New("embed: cannot resolve url")
)

// Rate-limit signatures emitted by backends we do not control.
var rateLimitMarkers = []string{
	"rate limit",
	"too many requests",
	"policy rejection",
}

// IsRateLimited reports whether err carries a rate-limit condition, either
// as our sentinel or as a foreign error matched by signature.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
