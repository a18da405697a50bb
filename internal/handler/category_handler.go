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

// ListCategories retrieves the tenant's categories
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var categories []model.Category
	if result := database.GetDB().Where("tenant_id = ?", tenantID).Order("name").Find(&categories); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve categories", result.Error)
	}

	return respond(c, http.StatusOK, categories)
}

// CreateCategory creates a category for the tenant
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Name == "" {
		return respondError(c, http.StatusBadRequest, "name is required")
	}

	var count int64
	database.GetDB().Model(&model.Category{}).
		Where("name = ? AND tenant_id = ?", req.Name, tenantID).
		Count(&count)
	if count > 0 {
		return respondError(c, http.StatusConflict, "category with this name already exists")
	}

	category := model.Category{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&category); result.Error != nil {
		return respondServerError(c, log, "failed to create category", result.Error)
	}

	log.Info("Category created", zap.Uint("category_id", category.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "category created", category)
}

// UpdateCategory updates a category within the tenant
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Name == "" {
		return respondError(c, http.StatusBadRequest, "name is required")
	}

	var category model.Category
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&category); result.Error != nil {
		return respondError(c, http.StatusNotFound, "category not found")
	}

	if req.Name != category.Name {
		var count int64
		database.GetDB().Model(&model.Category{}).
			Where("name = ? AND tenant_id = ? AND id != ?", req.Name, tenantID, category.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "category with this name already exists")
		}
	}

	category.Name = req.Name
	category.Description = req.Description

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&category); result.Error != nil {
		return respondServerError(c, log, "failed to update category", result.Error)
	}

	return respondMessage(c, http.StatusOK, "category updated", category)
}

// DeleteCategory soft-deletes a category within the tenant
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("category", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	id := c.Param("id")

	var category model.Category
	if result := database.GetDB().Where("id = ? AND tenant_id = ?", id, tenantID).First(&category); result.Error != nil {
		return respondError(c, http.StatusNotFound, "category not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&category); result.Error != nil {
		return respondServerError(c, log, "failed to delete category", result.Error)
	}

	log.Info("Category deleted", zap.Uint("category_id", category.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "category deleted", nil)
}
