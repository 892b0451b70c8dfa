package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/invoicedoc/internal/cache"
	"github.com/flexprice/invoicedoc/internal/config"
	ierr "github.com/flexprice/invoicedoc/internal/errors"
	"github.com/flexprice/invoicedoc/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	prefixRateLimit       = "ratelimit:v1:"
	prefixClientRateLimit = "ratelimit:client:v1:"
	// limiters of tenants that stopped rendering are dropped after this
	limiterIdleExpiry = 30 * time.Minute
)

// RenderLimiter hands out one token bucket per tenant and one per client
// address. The client bucket is drawn first so a client cycling tenant
// headers cannot mint new tenant buckets faster than its own budget.
type RenderLimiter struct {
	limit       rate.Limit
	burst       int
	clientLimit rate.Limit
	clientBurst int
	limiters    cache.Cache
	mu          sync.Mutex
}

// NewRenderLimiter returns nil when rate limiting is disabled
func NewRenderLimiter(cfg *config.Configuration) *RenderLimiter {
	if cfg == nil || cfg.RateLimit.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.RateLimit.Burst
	if burst < 1 {
		burst = 1
	}
	l := &RenderLimiter{
		limit:       rate.Limit(cfg.RateLimit.RequestsPerSecond),
		burst:       burst,
		clientLimit: rate.Inf,
		limiters:    cache.NewInMemoryCacheWithExpiry(limiterIdleExpiry, limiterIdleExpiry),
	}
	if cfg.RateLimit.ClientRequestsPerSecond > 0 {
		l.clientLimit = rate.Limit(cfg.RateLimit.ClientRequestsPerSecond)
		l.clientBurst = max(cfg.RateLimit.ClientBurst, 1)
	}
	return l
}

func (l *RenderLimiter) limiter(ctx context.Context, key string, limit rate.Limit, burst int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.limiters.Get(ctx, key); ok {
		// touch to push the idle expiry forward
		l.limiters.Set(ctx, key, v, limiterIdleExpiry)
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(limit, burst)
	l.limiters.Set(ctx, key, lim, limiterIdleExpiry)
	return lim
}

// Allow reports whether the calling client and tenant may render now. An
// empty clientIP skips the client bucket.
func (l *RenderLimiter) Allow(ctx context.Context, clientIP string) bool {
	if l == nil {
		return true
	}
	if clientIP != "" && l.clientLimit != rate.Inf {
		key := cache.GenerateKey(prefixClientRateLimit, clientIP)
		if !l.limiter(ctx, key, l.clientLimit, l.clientBurst).Allow() {
			return false
		}
	}
	key := cache.GenerateKey(prefixRateLimit, types.GetTenantID(ctx))
	return l.limiter(ctx, key, l.limit, l.burst).Allow()
}

// RateLimitMiddleware rejects renders beyond the client or tenant budget with 429
func RateLimitMiddleware(l *RenderLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), c.ClientIP()) {
			c.Error(ierr.NewError("render rate limit exceeded").
				WithHint("Too many render requests, please retry shortly").
				WithReportableDetails(map[string]any{"tenant_id": types.GetTenantID(c.Request.Context())}).
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
