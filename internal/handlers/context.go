package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chirper-app/backend/internal/middleware"
)

// getUserIDFromContext returns the authenticated viewer's id, or "" when the
// request is unauthenticated.
func getUserIDFromContext(c echo.Context) string {
	if v, ok := c.Get(middleware.ContextUserID).(string); ok {
		return v
	}
	return ""
}

func getSessionIDFromContext(c echo.Context) string {
	if v, ok := c.Get(middleware.ContextSessionID).(string); ok {
		return v
	}
	return ""
}

// pagination parses page/limit query params with the defaults shared by all
// listing endpoints.
func pagination(c echo.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}
