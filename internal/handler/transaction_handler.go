package handler

import (
	"fmt"
	"net/http"
	"time"

	"pos-service/internal/cart"
	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutRequest defines the structure for completing a sale
type CheckoutRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	CustomerID    *uint   `json:"customer_id"`
	PaymentMethod string  `json:"payment_method"`
	AmountPaid    float64 `json:"amount_paid"`
}

// CreateTransaction completes a sale: it builds a cart from the
// request, snapshots it into an immutable transaction, decrements
// product stock and keeps the inventory ledger in step.
func CreateTransaction(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("transaction", "create")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid checkout request", zap.Error(err))
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if len(req.Items) == 0 {
		return respondError(c, http.StatusBadRequest, "at least one item is required")
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return respondError(c, http.StatusBadRequest, "payment method must be one of cash, card, mobile")
	}
	if req.AmountPaid < 0 {
		return respondError(c, http.StatusBadRequest, "amount paid must be non-negative")
	}

	// Enforce the tenant's transaction limit
	var txnCount int64
	database.GetDB().Model(&model.Transaction{}).Where("tenant_id = ?", tenant.ID).Count(&txnCount)
	if tenant.MaxTransactions > 0 && txnCount >= int64(tenant.MaxTransactions) {
		prometheus.RecordTenantError("limit_reached")
		return respondError(c, http.StatusForbidden, "transaction limit reached for this store's plan")
	}

	settings, err := loadSettings(tenant)
	if err != nil {
		return respondServerError(c, log, "failed to load store settings", err)
	}

	// Build the sale from live products; prices are captured into the
	// cart here and survive any later product edit.
	sale := cart.New(settings.TaxRate)
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return respondError(c, http.StatusBadRequest, "item quantity must be positive")
		}

		var product model.Product
		result := database.GetDB().Where("id = ? AND tenant_id = ?", item.ProductID, tenant.ID).First(&product)
		if result.Error != nil {
			return respondError(c, http.StatusNotFound, fmt.Sprintf("product %d not found", item.ProductID))
		}
		if !product.IsActive {
			return respondError(c, http.StatusBadRequest, fmt.Sprintf("product %q is not for sale", product.Name))
		}
		if product.Stock < item.Quantity {
			log.Warn("Insufficient stock at checkout",
				zap.Uint("product_id", product.ID),
				zap.Int("stock", product.Stock),
				zap.Int("requested", item.Quantity))
			return respondError(c, http.StatusConflict, fmt.Sprintf("insufficient stock for %q", product.Name))
		}

		sale.AddItem(&product)
		sale.SetQuantity(product.ID, item.Quantity)
	}

	if req.CustomerID != nil {
		var customer model.Customer
		result := database.GetDB().Where("id = ? AND tenant_id = ?", *req.CustomerID, tenant.ID).First(&customer)
		if result.Error != nil {
			return respondError(c, http.StatusNotFound, "customer not found")
		}
		sale.AttachCustomer(customer.ID)
	}

	txn, err := sale.Complete(tenant.ID, claims.UserID, req.PaymentMethod, req.AmountPaid)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	// Persist the transaction and adjust both stock representations
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(txn); result.Error != nil {
			return result.Error
		}

		for _, item := range txn.Items {
			// Product.Stock is the system of record; the guard keeps a
			// concurrent sale from overselling.
			result := tx.Model(&model.Product{}).
				Where("id = ? AND tenant_id = ? AND stock >= ?", item.ProductID, tenant.ID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for product %d", item.ProductID)
			}

			// Keep the denormalized inventory ledger in step where a row exists
			tx.Model(&model.Inventory{}).
				Where("product_id = ? AND tenant_id = ?", item.ProductID, tenant.ID).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))
		}

		if txn.CustomerID != nil {
			if result := tx.Model(&model.Customer{}).
				Where("id = ? AND tenant_id = ?", *txn.CustomerID, tenant.ID).
				Updates(map[string]interface{}{
					"total_spent":    gorm.Expr("total_spent + ?", txn.Total),
					"loyalty_points": gorm.Expr("loyalty_points + ?", int(txn.Total)),
				}); result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		return respondServerError(c, log, "failed to record sale", err)
	}

	prometheus.RecordSale(txn.PaymentMethod, txn.Total)

	log.Info("Sale completed",
		zap.String("reference", txn.Reference),
		zap.Float64("total", txn.Total),
		zap.String("status", txn.Status),
		zap.Uint("tenant_id", tenant.ID))

	change := txn.AmountPaid - txn.Total
	return respondMessage(c, http.StatusCreated, "sale completed", echo.Map{
		"transaction": txn,
		"change":      change,
	})
}

// ListTransactions retrieves the tenant's transactions with optional filters
func ListTransactions(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("transaction", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
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
	var transactions []model.Transaction
	if result := query.Preload("Items").Order("created_at DESC").Find(&transactions); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve transactions", result.Error)
	}

	return respond(c, http.StatusOK, transactions)
}

// GetTransaction retrieves a transaction with its line items
func GetTransaction(c echo.Context) error {
	prometheus.RecordEntityOperation("transaction", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var txn model.Transaction
	result := database.GetDB().Preload("Items").
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&txn)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "transaction not found")
	}

	return respond(c, http.StatusOK, txn)
}

// UpdateTransactionStatus refunds or cancels a transaction. A refund
// restores stock for every snapshotted line.
func UpdateTransactionStatus(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("transaction", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Status != model.TransactionStatusRefunded && req.Status != model.TransactionStatusCancelled {
		return respondError(c, http.StatusBadRequest, "status must be refunded or cancelled")
	}

	var txn model.Transaction
	result := database.GetDB().Preload("Items").
		Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&txn)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "transaction not found")
	}

	if txn.Status == model.TransactionStatusRefunded || txn.Status == model.TransactionStatusCancelled {
		return respondError(c, http.StatusConflict, "transaction is already "+txn.Status)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Model(&txn).Update("status", req.Status); result.Error != nil {
			return result.Error
		}

		if req.Status == model.TransactionStatusRefunded {
			for _, item := range txn.Items {
				tx.Model(&model.Product{}).
					Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
				tx.Model(&model.Inventory{}).
					Where("product_id = ? AND tenant_id = ?", item.ProductID, tenantID).
					UpdateColumn("quantity", gorm.Expr("quantity + ?", item.Quantity))
			}
		}

		return nil
	})
	if err != nil {
		return respondServerError(c, log, "failed to update transaction", err)
	}

	log.Info("Transaction status updated",
		zap.String("reference", txn.Reference),
		zap.String("status", req.Status),
		zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "transaction "+req.Status, txn)
}
