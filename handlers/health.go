package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobbot/utils"
)

const (
	serviceName    = "jobbot"
	serviceVersion = "1.0.0"
)

// HealthHandler handles GET /health. Unconfigured services are reported as
// "disabled" and never make the service unhealthy.
func HealthHandler(calendarMock bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := utils.GetHealthStatus()
		status := "healthy"
		calendarState := "connected"
		if calendarMock {
			calendarState = "mock"
		}
		deps := gin.H{
			"calendar": calendarState,
			"mongo":    depState(snap.Mongo),
			"redis":    depState(snap.Redis),
		}
		if (snap.Mongo != nil && !*snap.Mongo) || (snap.Redis != nil && !*snap.Redis) {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       status,
			"service":      serviceName,
			"version":      serviceVersion,
			"dependencies": deps,
			"checkedAt":    snap.CheckedAt,
		})
	}
}

func depState(ok *bool) string {
	switch {
	case ok == nil:
		return "disabled"
	case *ok:
		return "connected"
	}
	return "unreachable"
}
