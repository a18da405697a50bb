package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a business client account with revenue tracking.
// Email is unique per tenant.
type Client struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	TenantID      uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_client_email"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	CompanyName   string         `json:"company_name" gorm:"type:varchar(100)"`
	Email         string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_client_email"`
	Phone         string         `json:"phone" gorm:"type:varchar(20)"`
	Address       string         `json:"address" gorm:"type:text"`
	Revenue       float64        `json:"revenue" gorm:"default:0"`
	ContactPerson string         `json:"contact_person" gorm:"type:varchar(100)"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
