package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
)

// Transaction statuses
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusRefunded  = "refunded"
	TransactionStatusCancelled = "cancelled"
	TransactionStatusDue       = "due"
)

// ValidPaymentMethod reports whether the given method is known
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile:
		return true
	}
	return false
}

// Transaction is an immutable sale record. Line items embed a snapshot
// of the product at sale time, so later product edits never alter
// history.
type Transaction struct {
	ID            uint              `json:"id" gorm:"primarykey"`
	TenantID      uint              `json:"tenant_id" gorm:"index;not null"`
	Reference     string            `json:"reference" gorm:"type:varchar(64);uniqueIndex;not null"`
	Items         []TransactionItem `json:"items" gorm:"foreignKey:TransactionID"`
	CustomerID    *uint             `json:"customer_id,omitempty" gorm:"index"`
	CashierID     uint              `json:"cashier_id" gorm:"index;not null"`
	Subtotal      float64           `json:"subtotal" gorm:"not null"`
	Tax           float64           `json:"tax" gorm:"not null"`
	Total         float64           `json:"total" gorm:"not null"`
	PaymentMethod string            `json:"payment_method" gorm:"type:varchar(20);not null"`
	AmountPaid    float64           `json:"amount_paid" gorm:"not null"`
	DueAmount     float64           `json:"due_amount" gorm:"default:0"`
	Paid          bool              `json:"paid" gorm:"default:false"`
	Status        string            `json:"status" gorm:"type:varchar(20);not null;default:'completed'"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `json:"-" gorm:"index"`
}

// TransactionItem is a point-in-time snapshot of a purchased product.
// ProductID links back to the live product for reporting only; the
// name, SKU and unit price here are the values at sale time.
type TransactionItem struct {
	ID            uint    `json:"id" gorm:"primarykey"`
	TransactionID uint    `json:"transaction_id" gorm:"index;not null"`
	ProductID     uint    `json:"product_id" gorm:"index;not null"`
	Name          string  `json:"name" gorm:"type:varchar(255);not null"`
	SKU           string  `json:"sku" gorm:"type:varchar(100);not null"`
	UnitPrice     float64 `json:"unit_price" gorm:"not null"`
	Quantity      int     `json:"quantity" gorm:"not null"`
	TotalPrice    float64 `json:"total_price" gorm:"not null"`
}
