package handler

import (
	"errors"
	"net/http"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadSettings returns the tenant's settings, lazily creating the row
// with defaults on first access.
func loadSettings(tenant *model.Tenant) (*model.Settings, error) {
	var settings model.Settings
	result := database.GetDB().Where("tenant_id = ?", tenant.ID).First(&settings)
	if result.Error == nil {
		return &settings, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	settings = model.DefaultSettings(tenant)
	if result := database.GetDB().Create(&settings); result.Error != nil {
		return nil, result.Error
	}
	return &settings, nil
}

// GetSettings returns the tenant's settings, creating defaults if absent
func GetSettings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("settings", "get")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	settings, err := loadSettings(tenant)
	if err != nil {
		return respondServerError(c, log, "failed to load settings", err)
	}

	return respond(c, http.StatusOK, settings)
}

// UpdateSettings updates the tenant's settings document
func UpdateSettings(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("settings", "update")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	settings, err := loadSettings(tenant)
	if err != nil {
		return respondServerError(c, log, "failed to load settings", err)
	}

	var req struct {
		StoreName             *string  `json:"store_name"`
		StoreAddress          *string  `json:"store_address"`
		StorePhone            *string  `json:"store_phone"`
		ReceiptHeader         *string  `json:"receipt_header"`
		ReceiptFooter         *string  `json:"receipt_footer"`
		Currency              *string  `json:"currency"`
		DateFormat            *string  `json:"date_format"`
		TimeFormat            *string  `json:"time_format"`
		TaxRate               *float64 `json:"tax_rate"`
		LowStockThreshold     *int     `json:"low_stock_threshold"`
		SessionTimeoutMinutes *int     `json:"session_timeout_minutes"`
		RequirePasswordChange *bool    `json:"require_password_change"`
		Theme                 *string  `json:"theme"`
		ItemsPerPage          *int     `json:"items_per_page"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if req.TaxRate != nil {
		if *req.TaxRate < 0 {
			return respondError(c, http.StatusBadRequest, "tax rate must be non-negative")
		}
		settings.TaxRate = *req.TaxRate
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return respondError(c, http.StatusBadRequest, "low stock threshold must be non-negative")
		}
		settings.LowStockThreshold = *req.LowStockThreshold
	}
	if req.StoreName != nil {
		settings.StoreName = *req.StoreName
	}
	if req.StoreAddress != nil {
		settings.StoreAddress = *req.StoreAddress
	}
	if req.StorePhone != nil {
		settings.StorePhone = *req.StorePhone
	}
	if req.ReceiptHeader != nil {
		settings.ReceiptHeader = *req.ReceiptHeader
	}
	if req.ReceiptFooter != nil {
		settings.ReceiptFooter = *req.ReceiptFooter
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.DateFormat != nil {
		settings.DateFormat = *req.DateFormat
	}
	if req.TimeFormat != nil {
		settings.TimeFormat = *req.TimeFormat
	}
	if req.SessionTimeoutMinutes != nil {
		settings.SessionTimeoutMinutes = *req.SessionTimeoutMinutes
	}
	if req.RequirePasswordChange != nil {
		settings.RequirePasswordChange = *req.RequirePasswordChange
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.ItemsPerPage != nil {
		settings.ItemsPerPage = *req.ItemsPerPage
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(settings); result.Error != nil {
		return respondServerError(c, log, "failed to update settings", result.Error)
	}

	log.Info("Settings updated", zap.Uint("tenant_id", tenant.ID))
	return respondMessage(c, http.StatusOK, "settings updated", settings)
}
