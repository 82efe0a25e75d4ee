package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/moodmap-backend-go/internal/models"
	"github.com/jengzang/moodmap-backend-go/pkg/response"
)

// respondError maps a discovery error onto its status and client-facing body.
func respondError(c *gin.Context, err error, staleData interface{}) {
	appErr := models.ToAppError(err)
	response.Failure(c, models.HTTPStatus(err), response.ErrorBody{
		Type:      string(appErr.Type),
		Message:   appErr.Message,
		Retryable: appErr.Retryable,
	}, staleData)
}

// canServeStale reports whether a cached result may stand in after err.
func canServeStale(err error) bool {
	var locErr *models.LocationError
	return !errors.As(err, &locErr) &&
		!errors.Is(err, models.ErrSuperseded) &&
		!errors.Is(err, models.ErrUnknownMood)
}
