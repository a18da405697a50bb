package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-service/internal/model"
	"pos-service/internal/tenant"
	"pos-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	tenants map[string]*model.Tenant
}

func (s *fakeStore) ByID(id uint) (*model.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tenant.ErrStoreNotFound
}

func (s *fakeStore) BySubdomain(subdomain string) (*model.Tenant, error) {
	if t, ok := s.tenants[subdomain]; ok {
		return t, nil
	}
	return nil, tenant.ErrStoreNotFound
}

func testResolver() *tenant.Resolver {
	store := &fakeStore{tenants: map[string]*model.Tenant{
		"demo": {ID: 1, Name: "Demo Store", Subdomain: "demo", Status: model.TenantStatusActive},
	}}
	return tenant.NewResolver(store, "", true)
}

func newRequest(host string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = host
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestTenantContextResolves(t *testing.T) {
	c, rec := newRequest("demo.pos.example.com")

	called := false
	h := TenantContext(testResolver())(okHandler(&called))
	require.NoError(t, h(c))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	resolved, ok := c.Get("tenant").(*model.Tenant)
	require.True(t, ok)
	assert.Equal(t, uint(1), resolved.ID)
	assert.Equal(t, uint(1), c.Get("tenant_id"))
}

func TestTenantContextUnknownStore(t *testing.T) {
	c, rec := newRequest("ghost.pos.example.com")

	called := false
	h := TenantContext(testResolver())(okHandler(&called))
	require.NoError(t, h(c))

	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantContextPassThroughWithoutIdentifier(t *testing.T) {
	c, rec := newRequest("localhost:8080")

	called := false
	h := TenantContext(testResolver())(okHandler(&called))
	require.NoError(t, h(c))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("tenant"))
}

func TestRequireTenantContext(t *testing.T) {
	c, rec := newRequest("localhost:8080")

	called := false
	h := RequireTenantContext(okHandler(&called))
	require.NoError(t, h(c))

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newRequest("localhost:8080")
	c.Set("tenant", &model.Tenant{ID: 1})

	h = RequireTenantContext(okHandler(&called))
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCrossTenantGuard(t *testing.T) {
	c, rec := newRequest("demo.pos.example.com")
	c.Set("tenant", &model.Tenant{ID: 1})
	c.Set("user", &jwtutil.UserClaims{TenantID: 2})

	called := false
	h := CrossTenantGuard(okHandler(&called))
	require.NoError(t, h(c))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCrossTenantGuardMatchingTenant(t *testing.T) {
	c, rec := newRequest("demo.pos.example.com")
	c.Set("tenant", &model.Tenant{ID: 1})
	c.Set("user", &jwtutil.UserClaims{TenantID: 1})

	called := false
	h := CrossTenantGuard(okHandler(&called))
	require.NoError(t, h(c))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCrossTenantGuardUnauthenticated(t *testing.T) {
	c, rec := newRequest("demo.pos.example.com")
	c.Set("tenant", &model.Tenant{ID: 1})

	called := false
	h := CrossTenantGuard(okHandler(&called))
	require.NoError(t, h(c))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
