package handler

import (
	"net/http"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/database"
	"pos-service/pkg/jwtutil"
	"pos-service/pkg/logger"
	"pos-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Login authenticates a user within the resolved store and issues a token
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	// Find user scoped to the resolved tenant
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("email = ? AND tenant_id = ?", req.Email, tenant.ID).First(&user)
	if result.Error != nil {
		log.Warn("Login for unknown user", zap.String("email", req.Email), zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordAuthError("user_not_found")
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	if !user.Active {
		log.Warn("Login for deactivated user", zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("user_inactive")
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.TenantID, user.Role)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return respondServerError(c, log, "token error", err)
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID),
		zap.String("role", user.Role))

	return respond(c, http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
		"tenant": echo.Map{
			"id":        tenant.ID,
			"name":      tenant.Name,
			"subdomain": tenant.Subdomain,
		},
	})
}

// Register creates a new user under the resolved store
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_registration")
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	tenant, ok := currentTenant(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	// Enforce the tenant's user limit
	var userCount int64
	database.GetDB().Model(&model.User{}).Where("tenant_id = ?", tenant.ID).Count(&userCount)
	if tenant.MaxUsers > 0 && userCount >= int64(tenant.MaxUsers) {
		log.Warn("User limit reached", zap.Uint("tenant_id", tenant.ID), zap.Int64("count", userCount))
		prometheus.RecordTenantError("limit_reached")
		return respondError(c, http.StatusForbidden, "user limit reached for this store's plan")
	}

	// Check if the email is already taken within this tenant
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	database.GetDB().Model(&model.User{}).Where("email = ? AND tenant_id = ?", req.Email, tenant.ID).Count(&count)
	if count > 0 {
		log.Warn("Email already registered for tenant", zap.String("email", req.Email), zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordAuthError("email_already_exists")
		return respondError(c, http.StatusConflict, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		prometheus.RecordAuthError("password_hash_failed")
		return respondServerError(c, log, "registration failed", err)
	}

	user := model.User{
		TenantID:          tenant.ID,
		Name:              req.Name,
		Email:             req.Email,
		Password:          string(hashedPassword),
		Role:              model.RoleCashier,
		Active:            true,
		PasswordChangedAt: time.Now(),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		prometheus.RecordAuthError("user_creation_failed")
		return respondServerError(c, log, "registration failed", result.Error)
	}

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("tenant_id", user.TenantID))
	return respondMessage(c, http.StatusCreated, "user registered successfully", user)
}

// GetProfile returns the authenticated user's record
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		log.Error("Profile user not found", zap.Uint("user_id", claims.UserID))
		return respondError(c, http.StatusNotFound, "user not found")
	}

	return respond(c, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's name and email
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if req.Email != "" && req.Email != user.Email {
		var count int64
		database.GetDB().Model(&model.User{}).
			Where("email = ? AND tenant_id = ? AND id != ?", req.Email, user.TenantID, user.ID).
			Count(&count)
		if count > 0 {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&user); result.Error != nil {
		return respondServerError(c, log, "failed to update profile", result.Error)
	}

	log.Info("Profile updated", zap.Uint("user_id", user.ID))
	return respondMessage(c, http.StatusOK, "profile updated", user)
}

// ChangePassword replaces the user's password and stamps
// PasswordChangedAt so previously issued tokens stop working.
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request")
	}

	if req.NewPassword == "" {
		return respondError(c, http.StatusBadRequest, "new password is required")
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return respondError(c, http.StatusNotFound, "user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		log.Warn("Password change with wrong current password", zap.Uint("user_id", user.ID))
		prometheus.RecordAuthError("invalid_password")
		return respondError(c, http.StatusUnauthorized, "current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return respondServerError(c, log, "failed to change password", err)
	}

	user.Password = string(hashedPassword)
	user.PasswordChangedAt = time.Now()

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&user); result.Error != nil {
		return respondServerError(c, log, "failed to change password", result.Error)
	}

	log.Info("Password changed", zap.Uint("user_id", user.ID))
	return respondMessage(c, http.StatusOK, "password changed successfully", nil)
}
