package model

import (
	"time"

	"gorm.io/gorm"
)

// Supplier payment terms
const (
	PaymentTermsCOD   = "cod"
	PaymentTermsNet15 = "net15"
	PaymentTermsNet30 = "net30"
	PaymentTermsNet60 = "net60"
)

// ValidPaymentTerms reports whether the given terms value is known
func ValidPaymentTerms(t string) bool {
	switch t {
	case PaymentTermsCOD, PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet60:
		return true
	}
	return false
}

// Supplier represents a vendor contact. Code is unique per tenant.
// ProductCount is a derived relation computed at read time, never
// stored.
type Supplier struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	TenantID      uint           `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_supplier_code"`
	Name          string         `json:"name" gorm:"type:varchar(100);index;not null"`
	Code          string         `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_supplier_code"`
	ContactPerson string         `json:"contact_person" gorm:"type:varchar(100)"`
	Email         string         `json:"email" gorm:"type:varchar(100)"`
	Phone         string         `json:"phone" gorm:"type:varchar(20)"`
	Address       string         `json:"address" gorm:"type:text"`
	PaymentTerms  string         `json:"payment_terms" gorm:"type:varchar(20);default:'net30'"`
	Notes         string         `json:"notes" gorm:"type:text"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Computed at read time: count of products referencing this supplier
	ProductCount int64 `json:"product_count" gorm:"-"`
}
