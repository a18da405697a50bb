package model

import (
	"time"

	"gorm.io/gorm"
)

// Employee departments
const (
	DepartmentSales      = "sales"
	DepartmentInventory  = "inventory"
	DepartmentManagement = "management"
	DepartmentSupport    = "support"
)

// Employee shifts
const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
	ShiftNight   = "night"
)

// ValidDepartment reports whether the given department is known
func ValidDepartment(d string) bool {
	switch d {
	case DepartmentSales, DepartmentInventory, DepartmentManagement, DepartmentSupport:
		return true
	}
	return false
}

// ValidShift reports whether the given shift is known
func ValidShift(s string) bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	}
	return false
}

// Employee represents a staffing record. PerformanceScore is bounded
// to 0-100.
type Employee struct {
	ID               uint           `json:"id" gorm:"primarykey"`
	TenantID         uint           `json:"tenant_id" gorm:"index;not null"`
	Name             string         `json:"name" gorm:"type:varchar(100);not null"`
	Email            string         `json:"email" gorm:"type:varchar(100)"`
	Phone            string         `json:"phone" gorm:"type:varchar(20)"`
	Department       string         `json:"department" gorm:"type:varchar(20);not null"`
	HourlyRate       float64        `json:"hourly_rate"`
	Shift            string         `json:"shift" gorm:"type:varchar(20);default:'morning'"`
	PerformanceScore int            `json:"performance_score" gorm:"default:0"`
	HiredAt          *time.Time     `json:"hired_at,omitempty"`
	IsActive         bool           `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
