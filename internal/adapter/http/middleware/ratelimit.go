package middleware

import (
	"fmt"
	"strconv"
	"time"

	"umkm-terminal/internal/core/ports"
	"umkm-terminal/pkg/apperror"
	"umkm-terminal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// DefaultRateLimitRules returns the per-group limits. Recovery is the
// expensive path (RPC calls, gas) and gets the tightest budget.
func DefaultRateLimitRules() map[string]RateLimitRule {
	return map[string]RateLimitRule{
		"session":     {Limit: 10, Window: time.Minute},
		"burners":     {Limit: 60, Window: time.Minute},
		"burner_new":  {Limit: 20, Window: time.Minute},
		"recover":     {Limit: 5, Window: time.Minute},
		"recover_all": {Limit: 2, Window: time.Minute},
		"cron":        {Limit: 6, Window: time.Minute},
	}
}

// MaxRuleWindow returns the longest window among rules.
func MaxRuleWindow(rules map[string]RateLimitRule) time.Duration {
	var longest time.Duration
	for _, r := range rules {
		longest = max(longest, r.Window)
	}
	return longest
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
// Store errors let the request through.
func RateLimiter(store ports.RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", group, extractIdentifier(c))

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := max(result.ResetAt-time.Now().Unix(), 1)
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys signed-in users by Telegram id and everyone else
// by client IP.
func extractIdentifier(c *gin.Context) string {
	if tg, exists := c.Get(CtxTelegramID); exists {
		return fmt.Sprintf("tg:%v", tg)
	}
	return "ip:" + c.ClientIP()
}
