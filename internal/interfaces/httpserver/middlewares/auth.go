package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

const apiKeyHeader = "X-API-Key"

// APIKeyMiddleware guards routes with a static key, accepted either as
// X-API-Key or as a bearer token. An empty key disables the check.
func APIKeyMiddleware(apiKey string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(apiKeyHeader)
		if presented == "" {
			presented = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			platformerrors.WriteHTTPError(c, platformerrors.NewError(c, platformerrors.LayerHandler,
				platformerrors.ErrorTypeUnauthorized, "authentication required", nil), logger)
			return
		}
		c.Next()
	}
}
