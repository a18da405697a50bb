package handler

import (
	"net/http"

	"pos-service/internal/model"
	"pos-service/pkg/config"
	"pos-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// development controls whether unclassified errors are returned with
// detail. Set once at boot via Configure.
var development bool

// Configure sets handler-level behavior from configuration
func Configure(cfg *config.Config) {
	development = !cfg.Server.IsProduction()
}

// respond writes the standard success envelope
func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// respondMessage writes a success envelope with a message and data
func respondMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "message": message, "data": data})
}

// respondError writes the standard failure envelope
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "error": message})
}

// respondServerError logs the underlying error and returns a generic
// message in production, the error detail in development.
func respondServerError(c echo.Context, log *zap.Logger, message string, err error) error {
	log.Error(message, zap.Error(err))
	if development && err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": message})
}

// currentTenant returns the tenant attached by the tenant middleware
func currentTenant(c echo.Context) (*model.Tenant, bool) {
	t, ok := c.Get("tenant").(*model.Tenant)
	return t, ok
}

// currentTenantID returns the resolved tenant ID
func currentTenantID(c echo.Context) (uint, bool) {
	id, ok := c.Get("tenant_id").(uint)
	return id, ok
}

// currentClaims returns the authenticated user's claims
func currentClaims(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	return claims, ok
}
