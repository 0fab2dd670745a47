package domain

import "fmt"

// ============================================================
// Tenant
// ============================================================

// Tenant is the partition key separating showroom datasets.
// Every collection in the store is namespaced under it.
type Tenant string

const (
	TenantElectronics Tenant = "electronics"
	TenantFurniture   Tenant = "furniture"
)

// Valid reports whether t is a known tenant.
func (t Tenant) Valid() bool {
	return t == TenantElectronics || t == TenantFurniture
}

// Prefix returns the 3-letter code used in complaint numbers.
func (t Tenant) Prefix() string {
	switch t {
	case TenantElectronics:
		return "ELE"
	case TenantFurniture:
		return "FUR"
	}
	return "UNK"
}

// ParseTenant validates a tenant taken from a URL path or config.
func ParseTenant(s string) (Tenant, error) {
	t := Tenant(s)
	if !t.Valid() {
		return "", &ErrValidation{Field: "tenant", Message: fmt.Sprintf("unknown tenant '%s'", s)}
	}
	return t, nil
}

// ============================================================
// Identity
// ============================================================

// UserRef identifies the authenticated user performing an operation.
// Only the id and display name are consumed, to stamp audit fields
// and to address creator notifications.
type UserRef struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}
