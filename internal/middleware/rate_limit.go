package middleware

import (
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplate/internal/domain/dto"
	"github.com/guttosm/nutriplate/internal/i18n"
	"github.com/guttosm/nutriplate/internal/metrics"
)

const defaultNumShards = 16

// window is the fixed-window counter of one client.
type window struct {
	used  int
	start time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	clients map[string]*window
}

// RateLimiter caps analysis requests per client IP in fixed windows. Each
// request may cost a model call, so the limit is per client rather than global.
// Clients are spread over shards to keep lock contention low.
type RateLimiter struct {
	shards []*limiterShard
	limit  int
	period time.Duration
	now    func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter allows limit requests per client in every period.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := newRateLimiter(limit, period, defaultNumShards, time.Now)
	go rl.sweep(time.Minute)
	return rl
}

func newRateLimiter(limit int, period time.Duration, numShards int, now func() time.Time) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	shards := make([]*limiterShard, numShards)
	for i := range shards {
		shards[i] = &limiterShard{clients: make(map[string]*window)}
	}
	return &RateLimiter{
		shards: shards,
		limit:  limit,
		period: period,
		now:    now,
		stopCh: make(chan struct{}),
	}
}

func (rl *RateLimiter) shard(client string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(client))
	return rl.shards[h.Sum32()%uint32(len(rl.shards))]
}

// Allow consumes one request for client. It returns whether the request is
// allowed, how many remain and when the current window resets.
func (rl *RateLimiter) Allow(client string) (allowed bool, remaining int, reset time.Time) {
	s := rl.shard(client)
	now := rl.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.clients[client]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		s.clients[client] = w
	}
	reset = w.start.Add(rl.period)

	if w.used >= rl.limit {
		return false, 0, reset
	}
	w.used++
	return true, rl.limit - w.used, reset
}

// Middleware rejects requests over the limit with 429 and a Retry-After hint.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.limit)

	return func(c *gin.Context) {
		allowed, remaining, reset := rl.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			wait := math.Ceil(reset.Sub(rl.now()).Seconds())
			c.Header("Retry-After", strconv.Itoa(int(math.Max(wait, 1))))
			metrics.RecordRateLimited(c.FullPath())
			abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimit, i18n.ErrKeyRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictExpired()
		case <-rl.stopCh:
			return
		}
	}
}

// evictExpired drops clients whose window ended at least one period ago.
func (rl *RateLimiter) evictExpired() {
	cutoff := rl.now().Add(-2 * rl.period)
	for _, s := range rl.shards {
		s.mu.Lock()
		for client, w := range s.clients {
			if w.start.Before(cutoff) {
				delete(s.clients, client)
			}
		}
		s.mu.Unlock()
	}
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	n := 0
	for _, s := range rl.shards {
		s.mu.Lock()
		n += len(s.clients)
		s.mu.Unlock()
	}
	return n
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}
