package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants. Roles are mutually exclusive and fixed at creation for staff.
const (
	RoleCustomer         = "customer"
	RoleAppointmentAgent = "appointment_agent"
	RoleSalesStaff       = "sales_staff"
	RoleEngineer         = "engineer"
	RoleCashier          = "cashier"
	RoleFabricationStaff = "fabrication_staff"
	RoleAdmin            = "admin"
)

// StaffRoles lists every non-customer role.
var StaffRoles = []string{
	RoleAppointmentAgent,
	RoleSalesStaff,
	RoleEngineer,
	RoleCashier,
	RoleFabricationStaff,
	RoleAdmin,
}

// ValidRole reports whether role is one of the enumerated roles.
func ValidRole(role string) bool {
	if role == RoleCustomer {
		return true
	}
	return ValidStaffRole(role)
}

// ValidStaffRole reports whether role is a staff role.
func ValidStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if role == r {
			return true
		}
	}
	return false
}

// User represents a customer or staff account. Accounts are never hard-deleted,
// only deactivated (IsActive=false) or soft-deleted via GORM.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role      string         `gorm:"type:varchar(30);not null;index" json:"role"`
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsStaff reports whether the user holds any staff role.
func (u *User) IsStaff() bool {
	return ValidStaffRole(u.Role)
}
