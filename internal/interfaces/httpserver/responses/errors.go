package responses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/health-assistant/internal/utils/platformerrors"
)

// HandleError writes err, typing plain errors with fallback.
func HandleError(c *gin.Context, log zerolog.Logger, err error, fallback platformerrors.ErrorType, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		platformerrors.WriteHTTPError(c, platformerrors.AsError(c, platformerrors.LayerHandler, err, message), log)
		return
	}
	platformerrors.WriteHTTPError(c, platformerrors.NewError(c, platformerrors.LayerHandler, fallback, message, err), log)
}

// HandleNewError writes a handler-level error with no cause.
func HandleNewError(c *gin.Context, log zerolog.Logger, errorType platformerrors.ErrorType, message string) {
	platformerrors.WriteHTTPError(c, platformerrors.NewError(c, platformerrors.LayerHandler, errorType, message, nil), log)
}
