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

// EmployeeRequest defines the structure for employee creation/update requests
type EmployeeRequest struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Department       string  `json:"department"`
	HourlyRate       float64 `json:"hourly_rate"`
	Shift            string  `json:"shift"`
	PerformanceScore int     `json:"performance_score"`
	IsActive         bool    `json:"is_active"`
}

func (r *EmployeeRequest) validate() string {
	if r.Name == "" {
		return "name is required"
	}
	if !model.ValidDepartment(r.Department) {
		return "department must be one of sales, inventory, management, support"
	}
	if r.Shift != "" && !model.ValidShift(r.Shift) {
		return "shift must be one of morning, evening, night"
	}
	if r.HourlyRate < 0 {
		return "hourly rate must be non-negative"
	}
	if r.PerformanceScore < 0 || r.PerformanceScore > 100 {
		return "performance score must be between 0 and 100"
	}
	return ""
}

// ListEmployees retrieves the tenant's employees
func ListEmployees(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("employee", "list")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	query := database.GetDB().Where("tenant_id = ?", tenantID)
	if department := c.QueryParam("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if shift := c.QueryParam("shift"); shift != "" {
		query = query.Where("shift = ?", shift)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var employees []model.Employee
	if result := query.Order("name").Find(&employees); result.Error != nil {
		return respondServerError(c, log, "failed to retrieve employees", result.Error)
	}

	return respond(c, http.StatusOK, employees)
}

// GetEmployee retrieves an employee by ID within the tenant
func GetEmployee(c echo.Context) error {
	prometheus.RecordEntityOperation("employee", "get")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var employee model.Employee
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&employee)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "employee not found")
	}

	return respond(c, http.StatusOK, employee)
}

// CreateEmployee creates an employee for the tenant
func CreateEmployee(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("employee", "create")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	if req.Shift == "" {
		req.Shift = model.ShiftMorning
	}

	now := time.Now()
	employee := model.Employee{
		TenantID:         tenantID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Department:       req.Department,
		HourlyRate:       req.HourlyRate,
		Shift:            req.Shift,
		PerformanceScore: req.PerformanceScore,
		HiredAt:          &now,
		IsActive:         true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&employee); result.Error != nil {
		return respondServerError(c, log, "failed to create employee", result.Error)
	}

	log.Info("Employee created",
		zap.Uint("employee_id", employee.ID),
		zap.String("department", employee.Department),
		zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusCreated, "employee created", employee)
}

// UpdateEmployee updates an employee within the tenant
func UpdateEmployee(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("employee", "update")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var employee model.Employee
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&employee)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "employee not found")
	}

	var req EmployeeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request data")
	}
	if msg := req.validate(); msg != "" {
		return respondError(c, http.StatusBadRequest, msg)
	}

	employee.Name = req.Name
	employee.Email = req.Email
	employee.Phone = req.Phone
	employee.Department = req.Department
	employee.HourlyRate = req.HourlyRate
	if req.Shift != "" {
		employee.Shift = req.Shift
	}
	employee.PerformanceScore = req.PerformanceScore
	employee.IsActive = req.IsActive

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(&employee); result.Error != nil {
		return respondServerError(c, log, "failed to update employee", result.Error)
	}

	return respondMessage(c, http.StatusOK, "employee updated", employee)
}

// DeleteEmployee soft-deletes an employee within the tenant
func DeleteEmployee(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("employee", "delete")

	tenantID, ok := currentTenantID(c)
	if !ok {
		prometheus.RecordTenantError("context_missing")
		return respondError(c, http.StatusBadRequest, "store identification required")
	}

	var employee model.Employee
	result := database.GetDB().Where("id = ? AND tenant_id = ?", c.Param("id"), tenantID).First(&employee)
	if result.Error != nil {
		return respondError(c, http.StatusNotFound, "employee not found")
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if result := database.GetDB().Delete(&employee); result.Error != nil {
		return respondServerError(c, log, "failed to delete employee", result.Error)
	}

	log.Info("Employee deleted", zap.Uint("employee_id", employee.ID), zap.Uint("tenant_id", tenantID))
	return respondMessage(c, http.StatusOK, "employee deleted", nil)
}
