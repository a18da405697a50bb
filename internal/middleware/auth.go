package middleware

import (
	"net/http"
	"strings"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token from the Authorization header.
// Beyond signature and expiry it also rejects tokens issued before the
// user's last password change, and tokens for deactivated users.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Error("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Error("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_auth_format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
		}

		// Reject tokens issued before the user's last password change
		var user model.User
		defer prometheus.TrackDBOperation("query")(time.Now())
		result := database.GetDB().First(&user, claims.UserID)
		if result.Error != nil {
			log.Error("Token user no longer exists", zap.Uint("user_id", claims.UserID))
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
		}

		if !user.Active {
			log.Warn("Deactivated user attempted access", zap.Uint("user_id", user.ID))
			prometheus.RecordAuthError("user_inactive")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "account is deactivated"})
		}

		if claims.IssuedBefore(user.PasswordChangedAt) {
			log.Warn("Token predates password change", zap.Uint("user_id", user.ID))
			prometheus.RecordAuthError("stale_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user", claims)
		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)

		log.Debug("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("tenant_id", claims.TenantID),
			zap.String("role", claims.Role))

		return next(c)
	}
}
