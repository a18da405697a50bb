package model

import (
	"time"

	"gorm.io/gorm"
)

// Inventory is a denormalized stock ledger keyed by (product, category),
// unique per pair within a tenant. It is a derived view of
// Product.Stock: the checkout path keeps it in step where a row exists,
// but Product.Stock remains the system of record.
type Inventory struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	TenantID        uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_product_category"`
	ProductID       uint           `json:"product_id" gorm:"not null;uniqueIndex:idx_tenant_product_category"`
	CategoryID      uint           `json:"category_id" gorm:"not null;uniqueIndex:idx_tenant_product_category"`
	Quantity        int            `json:"quantity" gorm:"default:0"`
	SalePrice       float64        `json:"sale_price"`
	CostPrice       float64        `json:"cost_price"`
	ReorderLevel    int            `json:"reorder_level" gorm:"default:0"`
	LastRestockedAt *time.Time     `json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
