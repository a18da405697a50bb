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

// ListClients retrieves the tenant's business clients
func ListClients(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var clients []model.Client
	if result := database.GetDB().Where("tenant_id = ?", tenantID).Order("name").Find(&clients); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve clients", result.Error)
	}

	return respond(c, http.StatusOK, clients)
}

// GetClient retrieves a client by ID within the tenant
func GetClient(c echo.Context) error {
	prometheus.RecordEntityOperation("client", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var client model.Client
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&client)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "client not found")
	}

	return respond(c, http.StatusOK, client)
}

// CreateClient creates a business client for the tenant
func CreateClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Name          string `json:"name"`
		CompanyName   string `json:"company_name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Address       string `json:"address"`
		ContactPerson string `json:"contact_person"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Name == "" || req.Email == "" {
		return respondError(c, http.StatusBadRequest, "name and email are required")
	}

	var count int64
	database.GetDB().Model(&model.Client{}).
		Where("email = ? AND tenant_id = ?", req.Email, tenantID).
		Count(&count)
	if count > 0 {
		return respondError(c, http.StatusConflict, "client with this email already exists")
	}

	client := model.Client{
		TenantID:      tenantID,
		Name:          req.Name,
		CompanyName:   req.CompanyName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		IsActive:      true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&client); result.Error != nil {
		return respondServerError(c, log, "failed to create client", result.Error)
	}

	log.Info("Client created", zap.Uint("client_id", client.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "client created", client)
}

// UpdateClient updates a client within the tenant
func UpdateClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var client model.Client
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&client)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "client not found")
	}

	var req struct {
		Name          *string  `json:"name"`
		CompanyName   *string  `json:"company_name"`
		Email         *string  `json:"email"`
		Phone         *string  `json:"phone"`
		Address       *string  `json:"address"`
		ContactPerson *string  `json:"contact_person"`
		Revenue       *float64 `json:"revenue"`
		IsActive      *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if req.Email != nil && *req.Email != client.Email {
		var count int64
		database.GetDB().Model(&model.Client{}).
			Where("email = ? AND tenant_id = ? AND id != ?", *req.Email, tenantID, client.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "client with this email already exists")
		}
		client.Email = *req.Email
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.Revenue != nil {
		if *req.Revenue < 0 {
			return respondError(c, http.StatusBadRequest, "revenue must be non-negative")
		}
		client.Revenue = *req.Revenue
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&client); result.Error != nil {
		return respondServerError(c, log, "failed to update client", result.Error)
	}

	return respondMessage(c, http.StatusOK, "client updated", client)
}

// DeleteClient soft-deletes a client within the tenant
func DeleteClient(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("client", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var client model.Client
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&client)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "client not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&client); result.Error != nil {
		return respondServerError(c, log, "failed to delete client", result.Error)
	}

	log.Info("Client deleted", zap.Uint("client_id", client.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "client deleted", nil)
}
