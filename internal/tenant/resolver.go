package tenant

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"pos-service/internal/model"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ErrStoreNotFound is returned when a request carried a tenant
// identifier but no matching active tenant exists.
var ErrStoreNotFound = errors.New("store not found")

// Store looks up tenants for the resolver
type Store interface {
	// ByID finds a tenant by its internal identifier
	ByID(id uint) (*model.Tenant, error)
	// BySubdomain finds an active tenant by subdomain
	BySubdomain(subdomain string) (*model.Tenant, error)
}

// Strategy extracts a candidate tenant identifier from a request,
// returning "" when it has nothing to offer.
type Strategy func(c echo.Context) string

// HostSubdomain returns the leftmost host label unless it is a
// non-tenant label like www or localhost.
func HostSubdomain(c echo.Context) string {
	host := c.Request().Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	label, rest, found := strings.Cut(host, ".")
	if !found || rest == "" {
		// Bare host like "localhost" carries no subdomain
		return ""
	}

	label = strings.ToLower(label)
	if label == "www" || label == "localhost" {
		return ""
	}
	return label
}

// Header returns a strategy reading the identifier from a request header
func Header(name string) Strategy {
	return func(c echo.Context) string {
		return strings.TrimSpace(c.Request().Header.Get(name))
	}
}

// QueryParam returns a strategy reading the identifier from a query parameter
func QueryParam(name string) Strategy {
	return func(c echo.Context) string {
		return strings.TrimSpace(c.QueryParam(name))
	}
}

// Static returns a strategy that always yields the given identifier.
// Used as the development fallback; never installed in production.
func Static(identifier string) Strategy {
	return func(c echo.Context) string {
		return identifier
	}
}

// Resolver maps an inbound request to a tenant by walking an ordered
// strategy chain; the first non-empty identifier wins.
type Resolver struct {
	store Store
	chain []Strategy
}

// NewResolver builds the default resolution chain: host subdomain,
// X-Tenant-ID header, tenant query parameter, and (outside production)
// a fixed default subdomain.
func NewResolver(store Store, defaultSubdomain string, production bool) *Resolver {
	chain := []Strategy{
		HostSubdomain,
		Header("X-Tenant-ID"),
		QueryParam("tenant"),
	}
	if !production && defaultSubdomain != "" {
		chain = append(chain, Static(defaultSubdomain))
	}
	return &Resolver{store: store, chain: chain}
}

// NewResolverWithChain builds a resolver over an explicit chain
func NewResolverWithChain(store Store, chain ...Strategy) *Resolver {
	return &Resolver{store: store, chain: chain}
}

// Identify walks the chain and returns the first non-empty identifier
func (r *Resolver) Identify(c echo.Context) string {
	for _, strategy := range r.chain {
		if id := strategy(c); id != "" {
			return id
		}
	}
	return ""
}

// Resolve maps the request to a tenant. A request with no identifier
// at all resolves to (nil, nil): resolution itself never blocks such a
// request, downstream handlers decide whether a tenant is required.
// An identifier with no matching active tenant is ErrStoreNotFound.
func (r *Resolver) Resolve(c echo.Context) (*model.Tenant, error) {
	identifier := r.Identify(c)
	if identifier == "" {
		return nil, nil
	}

	var (
		t   *model.Tenant
		err error
	)
	if id, convErr := strconv.ParseUint(identifier, 10, 32); convErr == nil {
		t, err = r.store.ByID(uint(id))
	} else {
		t, err = r.store.BySubdomain(strings.ToLower(identifier))
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// gormStore is the database-backed tenant store
type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the given database
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) ByID(id uint) (*model.Tenant, error) {
	var t model.Tenant
	if result := s.db.First(&t, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}

func (s *gormStore) BySubdomain(subdomain string) (*model.Tenant, error) {
	var t model.Tenant
	result := s.db.Where("subdomain = ? AND status = ?", subdomain, model.TenantStatusActive).First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, result.Error
	}
	return &t, nil
}
