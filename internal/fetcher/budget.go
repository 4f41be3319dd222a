package fetcher

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Unauthenticated GitHub clients get 60 requests per hour.
const DefaultRequestLimit = 60

// ErrRateLimited is wrapped by TryAcquire errors.
var ErrRateLimited = errors.New("rate limit exhausted")

// RateLimitedError reports a spent quota or an active Retry-After cooldown.
// Until is zero while the first request of a new window is in flight.
type RateLimitedError struct {
	Until time.Time
}

func (e *RateLimitedError) Error() string {
	if e.Until.IsZero() {
		return ErrRateLimited.Error()
	}
	return ErrRateLimited.Error() + " until " + e.Until.Local().Format("15:04")
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// RequestBudget tracks GitHub API quota using the rate-limit headers of
// earlier responses. Callers TryAcquire before each request and Observe the
// response afterwards. It never waits: a spent quota fails the call.
type RequestBudget struct {
	mu         sync.Mutex
	remaining  int
	reset      time.Time
	cooldown   time.Time
	refreshing bool
	now        func() time.Time
}

// NewRequestBudget starts with limit requests in a one-hour window.
func NewRequestBudget(limit int) *RequestBudget {
	if limit <= 0 {
		limit = DefaultRequestLimit
	}
	return &RequestBudget{
		remaining: limit,
		reset:     time.Now().Add(time.Hour),
		now:       time.Now,
	}
}

func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// TryAcquire takes one request from the budget, or returns a
// *RateLimitedError without blocking.
func (b *RequestBudget) TryAcquire() error {
	if b == nil || b.now == nil {
		return errors.New("acquire: budget not initialised (use NewRequestBudget)")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	switch {
	case now.Before(b.cooldown):
		return &RateLimitedError{Until: b.cooldown}
	case b.remaining > 0:
		b.remaining--
		return nil
	case now.Before(b.reset):
		return &RateLimitedError{Until: b.reset}
	case !b.refreshing:
		// The window has rolled over but no response has confirmed the new
		// quota yet: let a single request through to find out.
		b.refreshing = true
		return nil
	default:
		return &RateLimitedError{}
	}
}

// Observe records the rate-limit state reported by resp.
func (b *RequestBudget) Observe(resp *http.Response) {
	if b == nil || resp == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false
	if secs, ok := headerInt(resp.Header, "Retry-After"); ok && secs > 0 {
		if until := b.now().Add(time.Duration(secs) * time.Second); until.After(b.cooldown) {
			b.cooldown = until
			changed = true
		}
	}
	if n, ok := headerInt(resp.Header, "X-RateLimit-Remaining"); ok && n >= 0 && int(n) != b.remaining {
		b.remaining = int(n)
		changed = true
	}
	if unix, ok := headerInt(resp.Header, "X-RateLimit-Reset"); ok && unix > 0 {
		if reset := time.Unix(unix, 0); !reset.Equal(b.reset) {
			b.reset = reset
			changed = true
		}
	}

	if changed {
		b.refreshing = false
	}
}

func headerInt(h http.Header, key string) (int64, bool) {
	v := h.Get(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
