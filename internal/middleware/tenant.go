package middleware

import (
	"errors"
	"net/http"

	"pos-service/internal/model"
	"pos-service/internal/tenant"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TenantContext resolves the request to a tenant and attaches it to the
// context. A request with no tenant identifier at all passes through
// untouched; an identifier that matches no active tenant is rejected.
func TenantContext(resolver *tenant.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			t, err := resolver.Resolve(c)
			if err != nil {
				if errors.Is(err, tenant.ErrStoreNotFound) {
					log.Warn("Unknown store identifier", zap.String("host", c.Request().Host))
					prometheus.RecordTenantError("not_found")
					return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "store not found"})
				}
				log.Error("Tenant resolution failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to identify store"})
			}

			if t != nil {
				c.Set("tenant", t)
				c.Set("tenant_id", t.ID)
				log.Debug("Tenant resolved",
					zap.Uint("tenant_id", t.ID),
					zap.String("subdomain", t.Subdomain))
			}

			return next(c)
		}
	}
}

// RequireTenantContext rejects requests that did not resolve to a tenant
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		if _, ok := c.Get("tenant").(*model.Tenant); !ok {
			log.Warn("Request reached tenant-scoped route without tenant context")
			prometheus.RecordTenantError("context_missing")
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "store identification required"})
		}

		return next(c)
	}
}

// CrossTenantGuard rejects authenticated requests whose token belongs
// to a different tenant than the one the request resolved to.
func CrossTenantGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, ok := c.Get("user").(*jwtutil.UserClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
		}

		if t, ok := c.Get("tenant").(*model.Tenant); ok && t.ID != claims.TenantID {
			log.Warn("Cross-tenant access attempt",
				zap.Uint("token_tenant_id", claims.TenantID),
				zap.Uint("resolved_tenant_id", t.ID))
			prometheus.RecordTenantError("cross_tenant")
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "access denied"})
		}

		return next(c)
	}
}
