package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		resource string
		op       Operation
		role     string
		want     bool
	}{
		{ResourceProducts, OpRead, "cashier", true},
		{ResourceProducts, OpCreate, "cashier", false},
		{ResourceProducts, OpCreate, "manager", true},
		{ResourceProducts, OpDelete, "admin", true},
		{ResourceTransactions, OpCreate, "cashier", true},
		{ResourceTransactions, OpUpdate, "cashier", false},
		{ResourceTransactions, OpUpdate, "manager", true},
		{ResourceSettings, OpRead, "cashier", true},
		{ResourceSettings, OpUpdate, "manager", false},
		{ResourceSettings, OpUpdate, "admin", true},
		{ResourceUsers, OpCreate, "manager", false},
		{ResourceUsers, OpCreate, "admin", true},
		{ResourceEmployees, OpRead, "cashier", false},
		{ResourceEmployees, OpDelete, "manager", false},
		{ResourceEmployees, OpDelete, "admin", true},
		{ResourceReports, OpRead, "cashier", false},
		{ResourceReports, OpRead, "manager", true},
		{ResourceTenant, OpUpdate, "manager", false},
		{ResourceTenant, OpUpdate, "admin", true},
		{ResourceCustomers, OpCreate, "cashier", true},
	}
	for _, tt := range tests {
		got := Allowed(tt.resource, tt.op, tt.role)
		assert.Equal(t, tt.want, got, "%s %s as %s", tt.resource, tt.op, tt.role)
	}
}

func TestAllowedUnknownResourceOrRole(t *testing.T) {
	assert.False(t, Allowed("widgets", OpRead, "admin"))
	assert.False(t, Allowed(ResourceProducts, Operation("export"), "admin"))
	assert.False(t, Allowed(ResourceProducts, OpRead, "intern"))
	assert.False(t, Allowed(ResourceProducts, OpRead, ""))
}

func requireContext(role string, withClaims bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if withClaims {
		c.Set("user", &jwtutil.UserClaims{Role: role})
	}
	return c, rec
}

func TestRequireAllowsPermittedRole(t *testing.T) {
	c, rec := requireContext("admin", true)

	called := false
	h := Require(ResourceSettings, OpUpdate)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRejectsForbiddenRole(t *testing.T) {
	c, rec := requireContext("cashier", true)

	called := false
	h := Require(ResourceSettings, OpUpdate)(func(c echo.Context) error {
		called = true
		return nil
	})

	require.NoError(t, h(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRejectsMissingClaims(t *testing.T) {
	c, rec := requireContext("", false)

	h := Require(ResourceProducts, OpRead)(func(c echo.Context) error {
		return nil
	})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
