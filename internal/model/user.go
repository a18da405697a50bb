package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles within a tenant
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// ValidRole reports whether the given role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// User represents an authentication principal belonging to exactly one
// tenant. Email is unique per tenant. The password hash is never
// serialized outbound.
type User struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	TenantID   uint   `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_user_email"`
	Email      string `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_user_email"`
	Password   string `json:"-" gorm:"type:varchar(255);not null"`
	Name       string `json:"name" gorm:"type:varchar(100)"`
	Role       string `json:"role" gorm:"type:varchar(20);not null;default:'cashier'"`
	EmployeeID *uint  `json:"employee_id,omitempty" gorm:"index"`
	Active     bool   `json:"active" gorm:"default:true"`

	// Tokens issued before this timestamp are rejected
	PasswordChangedAt time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
