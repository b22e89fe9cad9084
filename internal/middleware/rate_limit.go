// internal/middleware/rate_limit.go
package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/mapstore/store-backend/internal/config"
	"github.com/mapstore/store-backend/internal/utils"
)

const (
	visitorIdleTTL  = 3 * time.Minute
	visitorSweepTTL = time.Minute
)

// RateLimiter keeps one token bucket per client. Buckets idle for longer
// than visitorIdleTTL are evicted by the go-cache janitor.
type RateLimiter struct {
	name     string
	visitors *gocache.Cache
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(name string, r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		name:     name,
		visitors: gocache.New(visitorIdleTTL, visitorSweepTTL),
		rate:     r,
		burst:    b,
	}
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	if v, ok := rl.visitors.Get(key); ok {
		limiter := v.(*rate.Limiter)
		// touch to push the idle expiry forward
		rl.visitors.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.visitors.SetDefault(key, limiter)
	return limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	if rl.rate == rate.Inf {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		limiter := rl.getVisitor(rl.name + ":" + c.ClientIP())

		if !limiter.Allow() {
			retryAfter := time.Duration(float64(time.Second) / float64(rl.rate))
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimits groups the per-route limiters built from configuration.
type RateLimits struct {
	General  *RateLimiter
	Auth     *RateLimiter
	Checkout *RateLimiter
	Upload   *RateLimiter
}

// perMinute spreads n requests evenly over a minute with a burst of n.
// Zero disables the limit.
func perMinute(n int) (rate.Limit, int) {
	if n <= 0 {
		return rate.Inf, 0
	}
	return rate.Every(time.Minute / time.Duration(n)), n
}

func perSecond(n int) (rate.Limit, int) {
	if n <= 0 {
		return rate.Inf, 0
	}
	return rate.Limit(n), n
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	generalRate, generalBurst := perSecond(cfg.GeneralPerSecond)
	authRate, authBurst := perMinute(cfg.AuthPerMinute)
	checkoutRate, checkoutBurst := perMinute(cfg.CheckoutPerMinute)
	uploadRate, uploadBurst := perMinute(cfg.UploadPerMinute)

	return &RateLimits{
		General:  NewRateLimiter("general", generalRate, generalBurst),
		Auth:     NewRateLimiter("auth", authRate, authBurst),
		Checkout: NewRateLimiter("checkout", checkoutRate, checkoutBurst),
		Upload:   NewRateLimiter("upload", uploadRate, uploadBurst),
	}
}
