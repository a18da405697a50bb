package authz

import (
	"net/http"

	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Operation names an action on a resource
type Operation string

// Operations checked by the capability table
const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Resource names
const (
	ResourceProducts     = "products"
	ResourceCategories   = "categories"
	ResourceInventory    = "inventory"
	ResourceCustomers    = "customers"
	ResourceClients      = "clients"
	ResourceEmployees    = "employees"
	ResourceSuppliers    = "suppliers"
	ResourceUsers        = "users"
	ResourceTransactions = "transactions"
	ResourceSettings     = "settings"
	ResourceReports      = "reports"
	ResourceTenant       = "tenant"
)

var (
	allRoles   = []string{"admin", "manager", "cashier"}
	staffRoles = []string{"admin", "manager"}
	adminOnly  = []string{"admin"}
)

// capabilities is the single declarative map from (resource, operation)
// to the roles allowed to perform it. There is no role hierarchy: every
// grant is explicit.
var capabilities = map[string]map[Operation][]string{
	ResourceProducts: {
		OpCreate: staffRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceCategories: {
		OpCreate: staffRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceInventory: {
		OpCreate: staffRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceCustomers: {
		OpCreate: allRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceClients: {
		OpCreate: staffRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceEmployees: {
		OpCreate: staffRoles,
		OpRead:   staffRoles,
		OpUpdate: staffRoles,
		OpDelete: adminOnly,
	},
	ResourceSuppliers: {
		OpCreate: staffRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles,
		OpDelete: staffRoles,
	},
	ResourceUsers: {
		OpCreate: adminOnly,
		OpRead:   staffRoles,
		OpUpdate: adminOnly,
		OpDelete: adminOnly,
	},
	ResourceTransactions: {
		OpCreate: allRoles,
		OpRead:   allRoles,
		OpUpdate: staffRoles, // refund / cancel
		OpDelete: adminOnly,
	},
	ResourceSettings: {
		OpRead:   allRoles,
		OpUpdate: adminOnly,
	},
	ResourceReports: {
		OpRead: staffRoles,
	},
	ResourceTenant: {
		OpRead:   allRoles,
		OpUpdate: adminOnly,
	},
}

// Allowed reports whether the role may perform the operation on the resource
func Allowed(resource string, op Operation, role string) bool {
	ops, ok := capabilities[resource]
	if !ok {
		return false
	}
	roles, ok := ops[op]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns a middleware that gates the route on the capability
// table. It expects the auth middleware to have stored user claims in
// the context.
func Require(resource string, op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			claims, ok := c.Get("user").(*jwtutil.UserClaims)
			if !ok {
				log.Error("Failed to get user claims from context")
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
			}

			if !Allowed(resource, op, claims.Role) {
				log.Warn("Role not permitted for operation",
					zap.String("role", claims.Role),
					zap.String("resource", resource),
					zap.String("operation", string(op)))
				prometheus.RecordAuthError("role_denied")
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "insufficient permissions"})
			}

			return next(c)
		}
	}
}
