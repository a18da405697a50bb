package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a retail customer with loyalty tracking.
// Email is unique per tenant.
type Customer struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	TenantID      uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_customer_email"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Email         string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_customer_email"`
	Phone         string         `json:"phone" gorm:"type:varchar(20)"`
	Address       string         `json:"address" gorm:"type:text"`
	LoyaltyPoints int            `json:"loyalty_points" gorm:"default:0"`
	TotalSpent    float64        `json:"total_spent" gorm:"default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
