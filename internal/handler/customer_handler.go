package handler

import (
	"net/http"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCustomers retrieves the tenant's customers
func ListCustomers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var customers []model.Customer
	if result := query.Order("name").Find(&customers); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve customers", result.Error)
	}

	return respond(c, http.StatusOK, customers)
}

// GetCustomer retrieves a customer by ID within the tenant
func GetCustomer(c echo.Context) error {
	prometheus.RecordEntityOperation("customer", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var customer model.Customer
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&customer)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "customer not found")
	}

	return respond(c, http.StatusOK, customer)
}

// CreateCustomer creates a customer for the tenant
func CreateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Name == "" || req.Email == "" {
		return respondError(c, http.StatusBadRequest, "name and email are required")
	}

	var count int64
	database.GetDB().Model(&model.Customer{}).
		Where("email = ? AND tenant_id = ?", req.Email, tenantID).
		Count(&count)
	if count > 0 {
		log.Warn("Customer email already exists", zap.String("email", req.Email), zap.Uint("tenant_id", tenantID))
		return respondError(c, http.StatusConflict, "customer with this email already exists")
	}

	customer := model.Customer{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&customer); result.Error != nil {
		return respondServerError(c, log, "failed to create customer", result.Error)
	}

	log.Info("Customer created", zap.Uint("customer_id", customer.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "customer created", customer)
}

// UpdateCustomer updates a customer within the tenant
func UpdateCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var customer model.Customer
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&customer)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "customer not found")
	}

	var req struct {
		Name          *string `json:"name"`
		Email         *string `json:"email"`
		Phone         *string `json:"phone"`
		Address       *string `json:"address"`
		LoyaltyPoints *int    `json:"loyalty_points"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if req.Email != nil && *req.Email != customer.Email {
		var count int64
		database.GetDB().Model(&model.Customer{}).
			Where("email = ? AND tenant_id = ? AND id != ?", *req.Email, tenantID, customer.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "customer with this email already exists")
		}
		customer.Email = *req.Email
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.LoyaltyPoints != nil {
		if *req.LoyaltyPoints < 0 {
			return respondError(c, http.StatusBadRequest, "loyalty points must be non-negative")
		}
		customer.LoyaltyPoints = *req.LoyaltyPoints
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&customer); result.Error != nil {
		return respondServerError(c, log, "failed to update customer", result.Error)
	}

	return respondMessage(c, http.StatusOK, "customer updated", customer)
}

// DeleteCustomer soft-deletes a customer within the tenant
func DeleteCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("customer", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var customer model.Customer
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&customer)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "customer not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&customer); result.Error != nil {
		return respondServerError(c, log, "failed to delete customer", result.Error)
	}

	log.Info("Customer deleted", zap.Uint("customer_id", customer.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "customer deleted", nil)
}
