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
	"golang.org/x/crypto/bcrypt"
)

// ListUsers retrieves the tenant's users
func ListUsers(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	if result := database.GetDB().Where("tenant_id = ?", tenantID).Order("email").Find(&users); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve users", result.Error)
	}

	return respond(c, http.StatusOK, users)
}

// CreateUser creates a user with an explicit role. Admin only; regular
// sign-up goes through Register.
func CreateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "create")

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		EmployeeID *uint  `json:"employee_id"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}
	if !model.ValidRole(req.Role) {
		return respondError(c, http.StatusBadRequest, "role must be one of admin, manager, cashier")
	}

	// Enforce the tenant's user limit
	var userCount int64
	database.GetDB().Model(&model.User{}).Where("tenant_id = ?", tenant.ID).Count(&userCount)
	if tenant.MaxUsers > 0 && userCount >= int64(tenant.MaxUsers) {
		prometheus.RecordTenantError("limit_reached")
		return respondError(c, http.StatusForbidden, "user limit reached for this store's plan")
	}

	var count int64
	database.GetDB().Model(&model.User{}).
		Where("email = ? AND tenant_id = ?", req.Email, tenant.ID).
		Count(&count)
	if count > 0 {
		return respondError(c, http.StatusConflict, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return respondServerError(c, log, "failed to create user", err)
	}

	user := model.User{
		TenantID:          tenant.ID,
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hashedPassword),
		Role:              req.Role,
		EmployeeID:        req.EmployeeID,
		Active:            true,
		PasswordChangedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		return respondServerError(c, log, "failed to create user", result.Error)
	}

	log.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role),
		zap.Uint("tenant_id", user.TenantID))
	return respondMessage(c, http.StatusCreated, "user created", user)
}

// UpdateUser updates a user's role, employee link and active flag
func UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var user model.User
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&user)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	var req struct {
		Name       *string `json:"name"`
		Role       *string `json:"role"`
		EmployeeID *uint   `json:"employee_id"`
		Active     *bool   `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}

	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return respondError(c, http.StatusBadRequest, "role must be one of admin, manager, cashier")
		}
		user.Role = *req.Role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.EmployeeID != nil {
		user.EmployeeID = req.EmployeeID
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&user); result.Error != nil {
		return respondServerError(c, log, "failed to update user", result.Error)
	}

	log.Info("User updated", zap.Uint("user_id", user.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "user updated", user)
}

// DeleteUser soft-deletes a user within the tenant
func DeleteUser(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("user", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var user model.User
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&user)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if user.ID == claims.UserID {
		return respondError(c, http.StatusBadRequest, "cannot delete your own account")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&user); result.Error != nil {
		return respondServerError(c, log, "failed to delete user", result.Error)
	}

	log.Info("User deleted", zap.Uint("user_id", user.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "user deleted", nil)
}
