package model

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

// Subscription plans
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// Tenant statuses
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusCancelled = "cancelled"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Tenant represents an isolated store account. It is the root of all
// data scoping: every other record carries this tenant's ID.
type Tenant struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"type:varchar(100);not null"`
	Subdomain string `json:"subdomain" gorm:"type:varchar(63);uniqueIndex;not null"`
	Plan      string `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	Status    string `json:"status" gorm:"type:varchar(20);not null;default:'active'"`

	// Usage limits enforced on create operations
	MaxUsers        int `json:"max_users" gorm:"default:5"`
	MaxProducts     int `json:"max_products" gorm:"default:100"`
	MaxTransactions int `json:"max_transactions" gorm:"default:1000"`

	// Store defaults applied to lazily created settings
	Currency string  `json:"currency" gorm:"type:varchar(10);default:'USD'"`
	Timezone string  `json:"timezone" gorm:"type:varchar(50);default:'UTC'"`
	TaxRate  float64 `json:"tax_rate" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsActive reports whether the tenant may serve requests
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// ValidSubdomain reports whether s is a usable subdomain: lowercase
// alphanumeric with interior hyphens.
func ValidSubdomain(s string) bool {
	if len(s) < 2 || len(s) > 63 {
		return false
	}
	return subdomainPattern.MatchString(s)
}
