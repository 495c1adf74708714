package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/sismog_console/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware tracks successful console actions with PostHog. Events
// are named after the route template, e.g.
// "/api/v1/console/:page/form/submit" -> "console_form_submit".
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := EventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if page := c.Param("page"); page != "" {
			props["page"] = page
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// EventName turns a route template into an analytics event name. Parameters
// and the API version prefix are dropped.
func EventName(route string) string {
	route = strings.TrimPrefix(route, "/api/v1")
	var parts []string
	for _, seg := range strings.Split(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}
