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

// SupplierRequest defines the structure for supplier creation/update requests
type SupplierRequest struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentTerms  string `json:"payment_terms"`
	Notes         string `json:"notes"`
	IsActive      bool   `json:"is_active"`
}

func (r *SupplierRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.Code == "" {
		return "code is required"
	}
	if r.PaymentTerms != "" && !model.ValidPaymentTerms(r.PaymentTerms) {
		return "payment terms must be one of cod, net15, net30, net60"
	}
	return ""
}

// withProductCount fills the derived product count for a supplier
func withProductCount(s *model.Supplier) {
	database.GetDB().Model(&model.Product{}).
		Where("supplier_id = ? AND tenant_id = ?", s.ID, s.TenantID).
		Count(&s.ProductCount)
}

// ListSuppliers retrieves the tenant's suppliers with product counts
func ListSuppliers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var suppliers []model.Supplier
	if result := database.GetDB().Where("tenant_id = ?", tenantID).Order("name").Find(&suppliers); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve suppliers", result.Error)
	}

	for i := range suppliers {
		withProductCount(&suppliers[i])
	}

	return respond(c, http.StatusOK, suppliers)
}

// GetSupplier retrieves a supplier by ID within the tenant
func GetSupplier(c echo.Context) error {
	prometheus.RecordEntityOperation("supplier", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var supplier model.Supplier
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&supplier)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "supplier not found")
	}

	withProductCount(&supplier)
	return respond(c, http.StatusOK, supplier)
}

// CreateSupplier creates a supplier for the tenant
func CreateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}
	if req.PaymentTerms == "" {
		req.PaymentTerms = model.PaymentTermsNet30
	}

	// Check if supplier with same code exists in the same tenant
	var count int64
	database.GetDB().Model(&model.Supplier{}).
		Where("code = ? AND tenant_id = ?", req.Code, tenantID).
		Count(&count)
	if count > 0 {
		log.Warn("Supplier code already exists", zap.String("code", req.Code), zap.Uint("tenant_id", tenantID))
		return respondError(c, http.StatusConflict, "supplier with this code already exists")
	}

	supplier := model.Supplier{
		TenantID:      tenantID,
		Name:          req.Name,
		Code:          req.Code,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentTerms:  req.PaymentTerms,
		Notes:         req.Notes,
		IsActive:      req.IsActive,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&supplier); result.Error != nil {
		return respondServerError(c, log, "failed to create supplier", result.Error)
	}

	log.Info("Supplier created",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("code", supplier.Code),
		zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "supplier created", supplier)
}

// UpdateSupplier updates a supplier within the tenant
func UpdateSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var supplier model.Supplier
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&supplier)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "supplier not found")
	}

	var req SupplierRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	if req.Code != supplier.Code {
		var count int64
		database.GetDB().Model(&model.Supplier{}).
			Where("code = ? AND tenant_id = ? AND id != ?", req.Code, tenantID, supplier.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "supplier with this code already exists")
		}
	}

	supplier.Name = req.Name
	supplier.Code = req.Code
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	if req.PaymentTerms != "" {
		supplier.PaymentTerms = req.PaymentTerms
	}
	supplier.Notes = req.Notes
	supplier.IsActive = req.IsActive

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&supplier); result.Error != nil {
		return respondServerError(c, log, "failed to update supplier", result.Error)
	}

	withProductCount(&supplier)
	return respondMessage(c, http.StatusOK, "supplier updated", supplier)
}

// DeleteSupplier soft-deletes a supplier within the tenant
func DeleteSupplier(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("supplier", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var supplier model.Supplier
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&supplier)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "supplier not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&supplier); result.Error != nil {
		return respondServerError(c, log, "failed to delete supplier", result.Error)
	}

	log.Info("Supplier deleted", zap.Uint("supplier_id", supplier.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "supplier deleted", nil)
}
