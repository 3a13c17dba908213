package middlewares

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/utils/platformerrors"
)

const adminKeyHeader = "X-Admin-Key"

// RequireAdminKey guards the admin surface with a static key comparison. An
// empty configured key denies every request rather than opening the surface.
func RequireAdminKey(expectedKey string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(adminKeyHeader)
		if expectedKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expectedKey)) != 1 {
			err := platformerrors.NewError(
				c.Request.Context(),
				platformerrors.LayerHandler,
				platformerrors.ErrorTypeUnauthorized,
				"invalid admin key",
				nil,
				"b3d5f7a9-1c2e-4d3f-8a9b-0c1d2e3f4a5c",
			)
			platformerrors.WriteHTTPError(c, err, log)
			c.Abort()
			return
		}
		c.Next()
	}
}
