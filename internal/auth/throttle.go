package auth

import (
	"context"
	"strings"
	"time"

	"stockledger/internal/cache"
)

const (
	loginAttemptKeyPrefix = "login_attempts:"
	loginAttemptLimit     = 10
	loginAttemptWindow    = 15 * time.Minute
)

// LoginThrottleInterface defines the interface for login throttling.
type LoginThrottleInterface interface {
	Attempt(ctx context.Context, email string) bool
	Reset(ctx context.Context, email string)
}

// LoginThrottle counts login attempts per email in Redis. It inherits the
// cache client's fail-safe behavior: with Redis down every attempt is
// allowed, so throttling can degrade but never lock users out of login.
type LoginThrottle struct {
	cache *cache.Client
}

// Ensure LoginThrottle implements LoginThrottleInterface
var _ LoginThrottleInterface = (*LoginThrottle)(nil)

// NewLoginThrottle creates a new login throttle.
func NewLoginThrottle(cache *cache.Client) *LoginThrottle {
	return &LoginThrottle{cache: cache}
}

// Attempt records one login attempt and reports whether it is still within
// the allowed window.
func (t *LoginThrottle) Attempt(ctx context.Context, email string) bool {
	n, _ := t.cache.Incr(ctx, loginAttemptKey(email), loginAttemptWindow)
	return n <= loginAttemptLimit
}

// Reset clears the attempt counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	_ = t.cache.Delete(ctx, loginAttemptKey(email))
}

func loginAttemptKey(email string) string {
	return loginAttemptKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}
