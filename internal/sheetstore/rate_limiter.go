package sheetstore

import (
	"sync"
	"time"
)

// One command typically fires a short cluster of API calls (a metadata fetch
// plus an append, or a pair of sheet reads for a report). The burst allowance
// lets such a cluster through unthrottled; sustained traffic is paced to the
// configured rate so a bulk apply stays inside the Sheets per-minute quota.
const burstSize = 4

// RateLimiter is a token bucket over Sheets API calls. Tokens refill at the
// steady rate up to burstSize.
type RateLimiter struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	rate   float64
}

func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &RateLimiter{
		tokens: burstSize,
		last:   time.Now(),
		rate:   float64(requestsPerSecond),
	}
}

func (r *RateLimiter) WaitTurn() {
	r.mu.Lock()
	now := time.Now()
	r.tokens += now.Sub(r.last).Seconds() * r.rate
	if r.tokens > burstSize {
		r.tokens = burstSize
	}
	r.last = now

	var sleep time.Duration
	if r.tokens >= 1 {
		r.tokens--
	} else {
		// Charge the deficit against the refill rate and hand the waiter its
		// slot in line; later callers queue behind the advanced clock.
		sleep = time.Duration((1 - r.tokens) / r.rate * float64(time.Second))
		r.tokens = 0
		r.last = now.Add(sleep)
	}
	r.mu.Unlock()

	if sleep > 0 {
		time.Sleep(sleep)
	}
}
