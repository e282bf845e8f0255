// Package handlers contains the Gin HTTP glue. Handlers bind and validate
// request payloads, enforce the caller's business scope, and delegate to
// the services; they contain no ledger logic.
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "ledgerbook/internal/errors"
	"ledgerbook/internal/logger"
	"ledgerbook/internal/middleware"
)

// requireBusinessAccess checks that the authenticated caller may act on the
// business in the path. The access list comes from the token; it is never
// re-derived here.
func requireBusinessAccess(c *gin.Context, businessID string) error {
	raw, exists := c.Get(middleware.ContextBusinessIDs)
	if !exists {
		return apperrors.ErrUnauthorized
	}
	ids, ok := raw.([]string)
	if !ok {
		return apperrors.ErrUnauthorized
	}
	for _, id := range ids {
		if id == businessID {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// accessibleBusinessIDs returns the business ids the caller's token grants.
func accessibleBusinessIDs(c *gin.Context) []string {
	raw, exists := c.Get(middleware.ContextBusinessIDs)
	if !exists {
		return nil
	}
	ids, _ := raw.([]string)
	return ids
}

// parseDate parses a yyyy-mm-dd query or body value.
func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+field+", expected YYYY-MM-DD")
	}
	return t, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
