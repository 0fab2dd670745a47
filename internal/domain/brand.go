package domain

import "time"

// ============================================================
// Brand & Escalation Hierarchy (electronics tenant only)
// ============================================================

// HierarchyLevel is one service-contact level in a brand's escalation
// chain. List order defines the escalation sequence: index 0 is the
// first line, the last index is the "last level".
type HierarchyLevel struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Brand is a product brand with its ordered escalation chain.
// Brand names are unique per tenant, case-insensitively.
type Brand struct {
	ID        string           `json:"id"`
	BrandName string           `json:"brand_name"`
	Hierarchy []HierarchyLevel `json:"hierarchy"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// DefaultHierarchy is the tenant-wide singleton fallback contact used
// once a brand's chain is exhausted.
type DefaultHierarchy struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// EscalationTarget is a resolved "escalate to" contact. Level is
// 1-based for display; IsDefault marks the default-hierarchy fallback.
type EscalationTarget struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Level     int    `json:"level"`
	IsDefault bool   `json:"is_default"`
}
