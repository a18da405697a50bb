package handler

import (
	"net/http"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
)

// SalesReport summarizes the tenant's sales, optionally date-bounded
// with from/to query parameters.
func SalesReport(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("report", "sales")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Model(&model.Transaction{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]string{model.TransactionStatusCompleted, model.TransactionStatusDue})

	if from := c.QueryParam("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.QueryParam("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var totals struct {
		Count    int64
		Revenue  float64
		TaxTotal float64
		DueTotal float64
	}
	result := query.
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue, COALESCE(SUM(tax), 0) AS tax_total, COALESCE(SUM(due_amount), 0) AS due_total").
		Scan(&totals)
	if result.Error != nil {
		return respondServerError(c, log, "failed to build sales report", result.Error)
	}

	var byMethod []struct {
		PaymentMethod string  `json:"payment_method"`
		Count         int64   `json:"count"`
		Revenue       float64 `json:"revenue"`
	}
	result = database.GetDB().Model(&model.Transaction{}).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]string{model.TransactionStatusCompleted, model.TransactionStatusDue}).
		Select("payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Group("payment_method").
		Scan(&byMethod)
	if result.Error != nil {
		return respondServerError(c, log, "failed to build sales report", result.Error)
	}

	return respond(c, http.StatusOK, echo.Map{
		"transaction_count": totals.Count,
		"revenue":           totals.Revenue,
		"tax_collected":     totals.TaxTotal,
		"outstanding_due":   totals.DueTotal,
		"by_payment_method": byMethod,
	})
}

// LowStockReport lists products at or below their reorder level, plus
// anything under the store-wide low stock threshold.
func LowStockReport(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("report", "low_stock")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	settings, err := loadSettings(tenant)
	if err != nil {
		return respondServerError(c, log, "failed to load settings", err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	result := database.GetDB().
		Where("tenant_id = ? AND is_active = ? AND (stock <= reorder_level OR stock <= ?)",
			tenant.ID, true, settings.LowStockThreshold).
		Order("stock").
		Find(&products)
	if result.Error != nil {
		return respondServerError(c, log, "failed to build low stock report", result.Error)
	}

	return respond(c, http.StatusOK, echo.Map{
		"threshold": settings.LowStockThreshold,
		"products":  products,
	})
}

// TopProductsReport lists the best selling products by snapshotted quantity
func TopProductsReport(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("report", "top_products")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var rows []struct {
		ProductID uint    `json:"product_id"`
		Name      string  `json:"name"`
		SKU       string  `json:"sku"`
		Sold      int64   `json:"sold"`
		Revenue   float64 `json:"revenue"`
	}
	result := database.GetDB().Model(&model.TransactionItem{}).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.tenant_id = ? AND transactions.status IN ?", tenantID,
			[]string{model.TransactionStatusCompleted, model.TransactionStatusDue}).
		Select("transaction_items.product_id, transaction_items.name, transaction_items.sku, SUM(transaction_items.quantity) AS sold, SUM(transaction_items.total_price) AS revenue").
		Group("transaction_items.product_id, transaction_items.name, transaction_items.sku").
		Order("sold DESC").
		Limit(10).
		Scan(&rows)
	if result.Error != nil {
		return respondServerError(c, log, "failed to build top products report", result.Error)
	}

	return respond(c, http.StatusOK, rows)
}
