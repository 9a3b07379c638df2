package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limo-transfers/service-quote/internal/ratelimit"
)

// ProtectedChain returns the middleware for routes behind the API key. The
// limiter runs before the key check so requests with a wrong key are counted
// too. A nil limiter disables rate limiting.
func ProtectedChain(apiKey string, limiter ratelimit.Limiter, logger *zap.Logger) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if limiter != nil {
		chain = append(chain, RateLimitMiddleware(limiter, logger))
	}
	return append(chain, APIKeyMiddleware(apiKey))
}
