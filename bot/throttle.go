package bot

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// throttle rate-limits each Telegram user independently. A limiter idle for
// longer than a full refill behaves like a new one, so it is dropped.
type throttle struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	limiters  map[int64]*userLimiter
	lastSweep time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newThrottle(perMinute, burst int) *throttle {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(perMinute)
	return &throttle{
		limit:    rate.Every(every),
		burst:    burst,
		idle:     every * time.Duration(burst),
		limiters: make(map[int64]*userLimiter),
	}
}

// waitSeconds consumes a token for userID at now. It returns 0 when the
// request may proceed, otherwise the seconds to wait (rounded up), in which
// case no token is consumed.
func (t *throttle) waitSeconds(userID int64, now time.Time) int {
	t.mu.Lock()
	if now.Sub(t.lastSweep) >= t.idle {
		t.sweep(now)
	}
	ul, ok := t.limiters[userID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[userID] = ul
	}
	if now.After(ul.lastSeen) {
		ul.lastSeen = now
	}
	lim := ul.lim
	t.mu.Unlock()

	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now).Round(time.Millisecond)
	if delay <= 0 {
		return 0
	}
	r.CancelAt(now)
	return int(math.Ceil(delay.Seconds()))
}

// sweep drops limiters unused for t.idle. Callers hold t.mu.
func (t *throttle) sweep(now time.Time) {
	t.lastSweep = now
	for id, ul := range t.limiters {
		if now.Sub(ul.lastSeen) >= t.idle {
			delete(t.limiters, id)
		}
	}
}
