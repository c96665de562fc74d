package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/utils"
)

const limiterIdleTTL = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// limiterSet holds one token bucket per client key.
type limiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rateLimiter
	swept    time.Time
}

func newLimiterSet(perMinute int) *limiterSet {
	perMinute = max(perMinute, 1)
	return &limiterSet{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*rateLimiter{},
		swept:    time.Now(),
	}
}

func (s *limiterSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.swept) >= limiterIdleTTL {
		s.sweep(now)
	}

	l, ok := s.limiters[key]
	if !ok {
		l = &rateLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = l
	}
	l.expires = now.Add(limiterIdleTTL)
	return l.limiter.Allow()
}

// sweep drops buckets idle for longer than limiterIdleTTL. Caller holds mu.
func (s *limiterSet) sweep(now time.Time) {
	for k, l := range s.limiters {
		if now.After(l.expires) {
			delete(s.limiters, k)
		}
	}
	s.swept = now
}

// RateLimitMiddleware applies a token bucket per authenticated user, or per client IP
// when the request is anonymous.
func RateLimitMiddleware() gin.HandlerFunc {
	return RateLimit(config.Get().RateLimitPerMinute)
}

// RateLimit is RateLimitMiddleware with an explicit budget.
func RateLimit(perMinute int) gin.HandlerFunc {
	set := newLimiterSet(perMinute)
	return func(ctx *gin.Context) {
		key := "ip:" + ctx.ClientIP()
		if uid := ctx.GetString(ContextUserIDKey); uid != "" {
			key = "user:" + uid
		}
		if !set.allow(key) {
			utils.Error(ctx, http.StatusTooManyRequests, "rate limit exceeded", "Rate Limit Error")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
