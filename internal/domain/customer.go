package domain

import "time"

// ============================================================
// Customer
// ============================================================

// Customer is a showroom customer. Phone is the dedupe key: unique
// across the tenant's customer collection.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// CustomerUpdateRequest is a partial update; nil pointers are untouched.
type CustomerUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ============================================================
// Employee
// ============================================================

// EmployeeRole within the showroom.
type EmployeeRole string

const (
	RoleSales   EmployeeRole = "sales"
	RoleService EmployeeRole = "service"
	RoleManager EmployeeRole = "manager"
	RoleAdmin   EmployeeRole = "admin"
)

// Valid reports whether the role is a known value.
func (r EmployeeRole) Valid() bool {
	switch r {
	case RoleSales, RoleService, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Employee is a showroom employee. UserID links the employee to an
// authenticated user; the notification engine addresses assigned
// employees through this link.
type Employee struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Phone     string       `json:"phone,omitempty"`
	Email     string       `json:"email,omitempty"`
	Role      EmployeeRole `json:"role"`
	UserID    string       `json:"user_id,omitempty"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// EmployeeUpdateRequest is a partial update; nil pointers are untouched.
type EmployeeUpdateRequest struct {
	Name   *string       `json:"name,omitempty"`
	Phone  *string       `json:"phone,omitempty"`
	Email  *string       `json:"email,omitempty"`
	Role   *EmployeeRole `json:"role,omitempty"`
	UserID *string       `json:"user_id,omitempty"`
	Active *bool         `json:"active,omitempty"`
}
