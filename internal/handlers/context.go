package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ripple-social/backend/internal/middleware"
	"github.com/ripple-social/backend/internal/models"
)

// getUserIDFromContext returns the authenticated user's ID, or zero when the
// request carries no valid token.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	if !ok {
		return 0
	}
	return claims.UserID
}

// clampLimit parses a limit query parameter. Missing or invalid values fall
// back to def; values above max are clamped to max rather than rejected.
func clampLimit(raw string, def, max int) int {
	limit, _ := strconv.Atoi(raw)
	if limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
