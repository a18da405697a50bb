package model

import (
	"time"

	"gorm.io/gorm"
)

// Settings is the singleton-per-tenant configuration document. It is
// lazily created with defaults on first read.
type Settings struct {
	ID       uint `json:"id" gorm:"primarykey"`
	TenantID uint `json:"tenant_id" gorm:"uniqueIndex;not null"`

	// Store info printed on receipts
	StoreName     string `json:"store_name" gorm:"type:varchar(100)"`
	StoreAddress  string `json:"store_address" gorm:"type:text"`
	StorePhone    string `json:"store_phone" gorm:"type:varchar(20)"`
	ReceiptHeader string `json:"receipt_header" gorm:"type:text"`
	ReceiptFooter string `json:"receipt_footer" gorm:"type:text"`

	// Locale and formatting
	Currency   string `json:"currency" gorm:"type:varchar(10);default:'USD'"`
	DateFormat string `json:"date_format" gorm:"type:varchar(20);default:'2006-01-02'"`
	TimeFormat string `json:"time_format" gorm:"type:varchar(20);default:'15:04'"`

	// Thresholds
	TaxRate           float64 `json:"tax_rate" gorm:"default:0"`
	LowStockThreshold int     `json:"low_stock_threshold" gorm:"default:5"`

	// Security and display preferences
	SessionTimeoutMinutes int    `json:"session_timeout_minutes" gorm:"default:30"`
	RequirePasswordChange bool   `json:"require_password_change" gorm:"default:false"`
	Theme                 string `json:"theme" gorm:"type:varchar(20);default:'light'"`
	ItemsPerPage          int    `json:"items_per_page" gorm:"default:20"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// DefaultSettings builds the settings row created on first access,
// seeded from the tenant's registration defaults.
func DefaultSettings(t *Tenant) Settings {
	return Settings{
		TenantID:          t.ID,
		StoreName:         t.Name,
		Currency:          t.Currency,
		TaxRate:           t.TaxRate,
		LowStockThreshold: 5,
		DateFormat:        "2006-01-02",
		TimeFormat:        "15:04",
		Theme:             "light",
		ItemsPerPage:      20,
	}
}
