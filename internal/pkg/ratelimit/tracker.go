package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Tracker keeps a best-effort, process-local limiter per caller address.
// Entries idle longer than the sweep window are dropped by a background
// goroutine; everything here is acceptable to lose on restart.
type Tracker struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
	cancel   context.CancelFunc
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewTracker(perMinute int, burst int) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		visitors: make(map[string]*visitor),
		cancel:   cancel,
	}
	go t.sweep(ctx)
	return t
}

// Allow records a request from the address and reports whether it stays
// within the rolling limit.
func (t *Tracker) Allow(addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.visitors[addr] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// Stop terminates the sweep goroutine.
func (t *Tracker) Stop() {
	t.cancel()
}

func (t *Tracker) sweep(ctx context.Context) {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			for addr, v := range t.visitors {
				if time.Since(v.lastSeen) > 10*time.Minute {
					delete(t.visitors, addr)
				}
			}
			t.mu.Unlock()
		}
	}
}

// Size reports how many addresses are currently tracked.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.visitors)
}
