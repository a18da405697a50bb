package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-service/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves tenants from in-memory maps
type fakeStore struct {
	byID        map[uint]*model.Tenant
	bySubdomain map[string]*model.Tenant
}

func (s *fakeStore) ByID(id uint) (*model.Tenant, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, ErrStoreNotFound
}

func (s *fakeStore) BySubdomain(subdomain string) (*model.Tenant, error) {
	if t, ok := s.bySubdomain[subdomain]; ok {
		return t, nil
	}
	return nil, ErrStoreNotFound
}

func newFakeStore() *fakeStore {
	demo := &model.Tenant{ID: 1, Name: "Demo Store", Subdomain: "demo", Status: model.TenantStatusActive}
	acme := &model.Tenant{ID: 2, Name: "Acme", Subdomain: "acme", Status: model.TenantStatusActive}
	return &fakeStore{
		byID:        map[uint]*model.Tenant{1: demo, 2: acme},
		bySubdomain: map[string]*model.Tenant{"demo": demo, "acme": acme},
	}
}

func newContext(host, target string, header map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = host
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestHostSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"acme.pos.example.com", "acme"},
		{"acme.pos.example.com:8080", "acme"},
		{"ACME.pos.example.com", "acme"},
		{"www.pos.example.com", ""},
		{"localhost", ""},
		{"localhost:8080", ""},
		{"localhost.localdomain", ""},
		{"pos", ""},
	}
	for _, tt := range tests {
		c := newContext(tt.host, "/", nil)
		assert.Equal(t, tt.want, HostSubdomain(c), "host %q", tt.host)
	}
}

func TestResolveBySubdomain(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("acme.pos.example.com", "/", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, uint(2), tenant.ID)
}

func TestResolveHeaderFallback(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("localhost:8080", "/", map[string]string{"X-Tenant-ID": "demo"})

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "demo", tenant.Subdomain)
}

func TestResolveQueryParamFallback(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("localhost:8080", "/?tenant=acme", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolveNumericIdentifierUsesID(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("localhost:8080", "/", map[string]string{"X-Tenant-ID": "2"})

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolveSubdomainWinsOverHeader(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("demo.pos.example.com", "/", map[string]string{"X-Tenant-ID": "acme"})

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "demo", tenant.Subdomain)
}

func TestResolveUnknownIdentifier(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("ghost.pos.example.com", "/", nil)

	tenant, err := r.Resolve(c)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.Nil(t, tenant)
}

func TestResolveNoIdentifierPassesThrough(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("localhost:8080", "/", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestResolveDefaultOutsideProduction(t *testing.T) {
	r := NewResolver(newFakeStore(), "demo", false)
	c := newContext("localhost:8080", "/", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "demo", tenant.Subdomain)
}

func TestResolveNoDefaultInProduction(t *testing.T) {
	r := NewResolver(newFakeStore(), "demo", true)
	c := newContext("localhost:8080", "/", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	assert.Nil(t, tenant)
}

func TestResolveIdentifierIsCaseInsensitive(t *testing.T) {
	r := NewResolver(newFakeStore(), "", true)
	c := newContext("localhost:8080", "/", map[string]string{"X-Tenant-ID": "ACME"})

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "acme", tenant.Subdomain)
}

func TestResolverWithChain(t *testing.T) {
	r := NewResolverWithChain(newFakeStore(), Static("demo"))
	c := newContext("acme.pos.example.com", "/", nil)

	tenant, err := r.Resolve(c)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "demo", tenant.Subdomain)
}
