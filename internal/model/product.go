package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable item scoped to a tenant. SKU is unique
// per tenant. Stock and prices must be non-negative.
type Product struct {
	ID           uint           `json:"id" gorm:"primarykey"`
	TenantID     uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_sku"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	SKU          string         `json:"sku" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_sku"`
	Price        float64        `json:"price" gorm:"not null"`
	CostPrice    float64        `json:"cost_price"`
	Stock        int            `json:"stock" gorm:"default:0"`
	ReorderLevel int            `json:"reorder_level" gorm:"default:0"`
	CategoryID   uint           `json:"category_id" gorm:"index"`
	SupplierID   *uint          `json:"supplier_id,omitempty" gorm:"index"`
	Tags         string         `json:"tags" gorm:"type:varchar(255)"`
	ImageURL     string         `json:"image_url" gorm:"type:varchar(512)"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// NeedsRestock reports whether stock has fallen to the reorder level
func (p *Product) NeedsRestock() bool {
	return p.Stock <= p.ReorderLevel
}

// Category represents a product category, unique per tenant by name
type Category struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	TenantID    uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_category_name"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_category_name"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
