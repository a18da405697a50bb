package handler

import (
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation/update requests
type ProductRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
	Price        float64 `json:"price"`
	CostPrice    float64 `json:"cost_price"`
	Stock        int     `json:"stock"`
	ReorderLevel int     `json:"reorder_level"`
	CategoryID   uint    `json:"category_id"`
	SupplierID   *uint   `json:"supplier_id"`
	Tags         string  `json:"tags"`
	ImageURL     string  `json:"image_url"`
	IsActive     bool    `json:"is_active"`
}

func (r *ProductRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if r.SKU == "" {
		return "sku is required"
	}
	if r.Price < 0 || r.CostPrice < 0 {
		return "prices must be non-negative"
	}
	if r.Stock < 0 {
		return "stock must be non-negative"
	}
	return ""
}

// ListProducts retrieves the tenant's products with optional filtering
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("product", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)

	if isActive := c.QueryParam("is_active"); isActive != "" {
		if active, err := strconv.ParseBool(isActive); err == nil {
			query = query.Where("is_active = ?", active)
		}
	}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if supplierID := c.QueryParam("supplier_id"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if search := c.QueryParam("search"); search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	if result := query.Order("name").Find(&products); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve products", result.Error)
	}

	log.Info("Products retrieved", zap.Int("count", len(products)), zap.Uint("tenant_id", tenantID))
	return respond(c, http.StatusOK, products)
}

// GetProduct retrieves a single product by ID within the tenant
func GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("product", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var product model.Product
	result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found", zap.String("product_id", id), zap.Uint("tenant_id", tenantID))
		return respondError(c, http.StatusNotFound, "product not found")
	}

	return respond(c, http.StatusOK, product)
}

// CreateProduct creates a new product for the tenant
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("product", "create")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	// Enforce the tenant's product limit
	var productCount int64
	database.GetDB().Model(&model.Product{}).Where("tenant_id = ?", tenant.ID).Count(&productCount)
	if tenant.MaxProducts > 0 && productCount >= int64(tenant.MaxProducts) {
		log.Warn("Product limit reached", zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordTenantError("limit_reached")
		return respondError(c, http.StatusForbidden, "product limit reached for this store's plan")
	}

	// Check if a product with this SKU exists in the same tenant
	var count int64
	database.GetDB().Model(&model.Product{}).
		Where("sku = ? AND tenant_id = ?", req.SKU, tenant.ID).
		Count(&count)
	if count > 0 {
		log.Warn("Product with this SKU already exists", zap.String("sku", req.SKU), zap.Uint("tenant_id", tenant.ID))
		return respondError(c, http.StatusConflict, "product with this SKU already exists")
	}

	product := model.Product{
		TenantID:     tenant.ID,
		Name:         req.Name,
		Description:  req.Description,
		SKU:          req.SKU,
		Price:        req.Price,
		CostPrice:    req.CostPrice,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Tags:         req.Tags,
		ImageURL:     req.ImageURL,
		IsActive:     req.IsActive,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&product); result.Error != nil {
		return respondServerError(c, log, "failed to create product", result.Error)
	}

	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("sku", product.SKU),
		zap.Uint("tenant_id", product.TenantID))
	return respondMessage(c, http.StatusCreated, "product created", product)
}

// UpdateProduct updates an existing product within the tenant
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("product", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	var product model.Product
	result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&product)
	if result.Error != nil {
		log.Warn("Product not found for update", zap.String("product_id", id), zap.Uint("tenant_id", tenantID))
		return respondError(c, http.StatusNotFound, "product not found")
	}

	// SKU change must not collide within the tenant
	if req.SKU != product.SKU {
		var count int64
		database.GetDB().Model(&model.Product{}).
			Where("sku = ? AND tenant_id = ? AND id != ?", req.SKU, tenantID, product.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "product with this SKU already exists")
		}
	}

	product.Name = req.Name
	product.Description = req.Description
	product.SKU = req.SKU
	product.Price = req.Price
	product.CostPrice = req.CostPrice
	product.Stock = req.Stock
	product.ReorderLevel = req.ReorderLevel
	product.CategoryID = req.CategoryID
	product.SupplierID = req.SupplierID
	product.Tags = req.Tags
	product.ImageURL = req.ImageURL
	product.IsActive = req.IsActive

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&product); result.Error != nil {
		return respondServerError(c, log, "failed to update product", result.Error)
	}

	log.Info("Product updated", zap.Uint("product_id", product.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "product updated", product)
}

// DeleteProduct soft-deletes a product within the tenant
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("product", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var product model.Product
	result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&product)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "product not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&product); result.Error != nil {
		return respondServerError(c, log, "failed to delete product", result.Error)
	}

	log.Info("Product deleted", zap.Uint("product_id", product.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "product deleted", nil)
}
