package handler

import (
	"net/http"
	"strings"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// planLimits returns the usage limits for a subscription plan
func planLimits(plan string) (maxUsers, maxProducts, maxTransactions int) {
	switch plan {
	case model.PlanPremium:
		return 100, 10000, 1000000
	case model.PlanBasic:
		return 20, 1000, 50000
	default:
		return 5, 100, 1000
	}
}

// RegisterStore creates a tenant together with its admin user and
// default settings. This is the store sign-up endpoint; it is public
// and not tenant-scoped.
func RegisterStore(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.StoreRegisterCounter.Inc()

	var req struct {
		Name          string  `json:"name"`
		Subdomain     string  `json:"subdomain"`
		Plan          string  `json:"plan"`
		Currency      string  `json:"currency"`
		Timezone      string  `json:"timezone"`
		TaxRate       float64 `json:"tax_rate"`
		AdminName     string  `json:"admin_name"`
		AdminEmail    string  `json:"admin_email"`
		AdminPassword string  `json:"admin_password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse store registration request", zap.Error(err))
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))

	if req.Name == "" || req.Subdomain == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return respondError(c, http.StatusBadRequest, "name, subdomain, admin_email and admin_password are required")
	}

	if !model.ValidSubdomain(req.Subdomain) {
		return respondError(c, http.StatusBadRequest, "subdomain must be lowercase alphanumeric with hyphens")
	}

	if req.TaxRate < 0 {
		return respondError(c, http.StatusBadRequest, "tax rate must be non-negative")
	}

	if req.Plan == "" {
		req.Plan = model.PlanFree
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	// Check subdomain availability up front for a friendly conflict
	var count int64
	database.GetDB().Model(&model.Tenant{}).Where("subdomain = ?", req.Subdomain).Count(&count)
	if count > 0 {
		log.Warn("Subdomain already taken", zap.String("subdomain", req.Subdomain))
		return respondError(c, http.StatusConflict, "subdomain is already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcryptCost)
	if err != nil {
		return respondServerError(c, log, "store registration failed", err)
	}

	maxUsers, maxProducts, maxTransactions := planLimits(req.Plan)

	tenant := model.Tenant{
		Name:            req.Name,
		Subdomain:       req.Subdomain,
		Plan:            req.Plan,
		Status:          model.TenantStatusActive,
		MaxUsers:        maxUsers,
		MaxProducts:     maxProducts,
		MaxTransactions: maxTransactions,
		Currency:        req.Currency,
		Timezone:        req.Timezone,
		TaxRate:         req.TaxRate,
	}

	// Tenant, admin user and settings are created together
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&tenant); result.Error != nil {
			return result.Error
		}

		admin := model.User{
			TenantID:          tenant.ID,
			Name:              req.AdminName,
			Email:             req.AdminEmail,
			Password:          string(hashedPassword),
			Role:              model.RoleAdmin,
			Active:            true,
			PasswordChangedAt: time.Now(),
		}
		if result := tx.Create(&admin); result.Error != nil {
			return result.Error
		}

		settings := model.DefaultSettings(&tenant)
		if result := tx.Create(&settings); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return respondServerError(c, log, "store registration failed", err)
	}

	log.Info("Store registered",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("plan", tenant.Plan))

	// Refresh the active tenant gauge
	var activeCount int64
	database.GetDB().Model(&model.Tenant{}).Where("status = ?", model.TenantStatusActive).Count(&activeCount)
	prometheus.UpdateActiveTenants(int(activeCount))

	return respondMessage(c, http.StatusCreated, "store registered successfully", tenant)
}

// GetTenantInfo returns the resolved tenant's record
func GetTenantInfo(c echo.Context) error {
	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}
	return respond(c, http.StatusOK, tenant)
}

// UpdateTenant updates the store's name, plan defaults and status
func UpdateTenant(c echo.Context) error {
	log := logger.FromContext(c)

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Name     *string  `json:"name"`
		Status   *string  `json:"status"`
		Currency *string  `json:"currency"`
		Timezone *string  `json:"timezone"`
		TaxRate  *float64 `json:"tax_rate"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Status != nil {
		switch *req.Status {
		case model.TenantStatusActive, model.TenantStatusSuspended, model.TenantStatusCancelled:
			tenant.Status = *req.Status
		default:
			return respondError(c, http.StatusBadRequest, "invalid status")
		}
	}
	if req.Currency != nil {
		tenant.Currency = *req.Currency
	}
	if req.Timezone != nil {
		tenant.Timezone = *req.Timezone
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 {
			return respondError(c, http.StatusBadRequest, "tax rate must be non-negative")
		}
		tenant.TaxRate = *req.TaxRate
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(tenant); result.Error != nil {
		return respondServerError(c, log, "failed to update store", result.Error)
	}

	log.Info("Store updated", zap.Uint("tenant_id", tenant.ID))
	return respondMessage(c, http.StatusOK, "store updated", tenant)
}
