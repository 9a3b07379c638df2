package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/limo-transfers/service-quote/internal/platform/apperror"
	"github.com/limo-transfers/service-quote/internal/platform/response"
)

// APIKeyHeader is the header clients put the shared secret in.
const APIKeyHeader = "X-Api-Key"

// APIKeyMiddleware rejects requests whose X-Api-Key does not match secret.
// An empty secret disables the check.
func APIKeyMiddleware(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.Next()
			return
		}
		got := []byte(c.GetHeader(APIKeyHeader))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			response.Abort(c, apperror.NewUnauthorizedError())
			return
		}
		c.Next()
	}
}
