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

// InventoryRequest defines the structure for inventory creation/update requests
type InventoryRequest struct {
	ProductID    uint    `json:"product_id"`
	CategoryID   uint    `json:"category_id"`
	Quantity     int     `json:"quantity"`
	SalePrice    float64 `json:"sale_price"`
	CostPrice    float64 `json:"cost_price"`
	ReorderLevel int     `json:"reorder_level"`
}

func (r *InventoryRequest) validate() string {
	if r.ProductID == 0 {
		return "product_id is required"
	}
	if r.CategoryID == 0 {
		return "category_id is required"
	}
	if r.Quantity < 0 {
		return "quantity must be non-negative"
	}
	if r.SalePrice < 0 || r.CostPrice < 0 {
		return "prices must be non-negative"
	}
	return ""
}

// ListInventory retrieves the tenant's inventory records
func ListInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)
	if productID := c.QueryParam("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var records []model.Inventory
	if result := query.Find(&records); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve inventory", result.Error)
	}

	return respond(c, http.StatusOK, records)
}

// CreateInventory creates an inventory record for a (product, category) pair
func CreateInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req InventoryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	// The referenced product must belong to this tenant
	var product model.Product
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", req.ProductID, tenantID).First(&product); result.Error != nil {
		return respondError(c, http.StatusNotFound, "product not found")
	}

	// One record per (product, category) pair
	var count int64
	database.GetDB().Model(&model.Inventory{}).
		Where("product_id = ? AND category_id = ? AND tenant_id = ?", req.ProductID, req.CategoryID, tenantID).
		Count(&count)
	if count > 0 {
		return respondError(c, http.StatusConflict, "inventory record for this product and category already exists")
	}

	now := time.Now()
	record := model.Inventory{
		TenantID:        tenantID,
		ProductID:       req.ProductID,
		CategoryID:      req.CategoryID,
		Quantity:        req.Quantity,
		SalePrice:       req.SalePrice,
		CostPrice:       req.CostPrice,
		ReorderLevel:    req.ReorderLevel,
		LastRestockedAt: &now,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&record); result.Error != nil {
		return respondServerError(c, log, "failed to create inventory record", result.Error)
	}

	log.Info("Inventory record created",
		zap.Uint("inventory_id", record.ID),
		zap.Uint("product_id", record.ProductID),
		zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "inventory record created", record)
}

// UpdateInventory updates quantity, prices and reorder level. A
// quantity increase stamps LastRestockedAt.
func UpdateInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var req struct {
		Quantity     *int     `json:"quantity"`
		SalePrice    *float64 `json:"sale_price"`
		CostPrice    *float64 `json:"cost_price"`
		ReorderLevel *int     `json:"reorder_level"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	var record model.Inventory
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&record); result.Error != nil {
		return respondError(c, http.StatusNotFound, "inventory record not found")
	}

	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return respondError(c, http.StatusBadRequest, "quantity must be non-negative")
		}
		if *req.Quantity > record.Quantity {
			now := time.Now()
			record.LastRestockedAt = &now
		}
		record.Quantity = *req.Quantity
	}
	if req.SalePrice != nil {
		if *req.SalePrice < 0 {
			return respondError(c, http.StatusBadRequest, "sale price must be non-negative")
		}
		record.SalePrice = *req.SalePrice
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return respondError(c, http.StatusBadRequest, "cost price must be non-negative")
		}
		record.CostPrice = *req.CostPrice
	}
	if req.ReorderLevel != nil {
		record.ReorderLevel = *req.ReorderLevel
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&record); result.Error != nil {
		return respondServerError(c, log, "failed to update inventory record", result.Error)
	}

	log.Info("Inventory record updated", zap.Uint("inventory_id", record.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "inventory record updated", record)
}

// DeleteInventory removes an inventory record within the tenant
func DeleteInventory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("inventory", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var record model.Inventory
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&record); result.Error != nil {
		return respondError(c, http.StatusNotFound, "inventory record not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&record); result.Error != nil {
		return respondServerError(c, log, "failed to delete inventory record", result.Error)
	}

	return respondMessage(c, http.StatusOK, "inventory record deleted", nil)
}
