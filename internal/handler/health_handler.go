package handler

import (
	"net/http"
	"time"

	"pos-service/pkg/database"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

// HealthCheck reports process uptime and database connectivity
func HealthCheck(c echo.Context) error {
	dbStatus := "up"
	status := http.StatusOK
	if err := database.Ping(); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, echo.Map{
		"success":  status == http.StatusOK,
		"status":   dbStatus,
		"uptime":   time.Since(startTime).String(),
		"database": dbStatus,
	})
}

// MetricsHandler exposes Prometheus metrics
func MetricsHandler(c echo.Context) error {
	h := prometheus.GetPrometheusHandler()
	h.ServeHTTP(c.Response(), c.Request())
	return nil
}
