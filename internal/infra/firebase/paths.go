package firebase

import (
	"fmt"

	"github.com/showroomhq/backoffice-go/internal/domain"
)

// Collection names under each tenant root.
const (
	ColComplaints       = "complaints"
	ColBrands           = "brands"
	ColDefaultHierarchy = "default_hierarchy" // singleton node, not a collection
	ColNotifications    = "notifications"
	ColCustomers        = "customers"
	ColEmployees        = "employees"
	ColSales            = "sales"
	ColQuotations       = "quotations"
)

// CollectionPath resolves {tenant}/{collection}.
func CollectionPath(tenant domain.Tenant, collection string) string {
	return fmt.Sprintf("%s/%s", tenant, collection)
}

// RecordPath resolves {tenant}/{collection}/{key}.
func RecordPath(tenant domain.Tenant, collection, key string) string {
	return fmt.Sprintf("%s/%s/%s", tenant, collection, key)
}
