package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// DealSortFields contains allowed sort fields for deals
var DealSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"pipedrive_id":        true,
	"title":               true,
	"org_name":            true,
	"person_name":         true,
	"stage":               true,
	"value":               true,
	"expected_close_date": true,
}

// TrainerSortFields contains allowed sort fields for trainers
var TrainerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
	"province":   true,
	"daily_rate": true,
	"active":     true,
}

// RoomSortFields contains allowed sort fields for rooms
var RoomSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"location":   true,
	"capacity":   true,
	"active":     true,
}

// MobileUnitSortFields contains allowed sort fields for mobile units
var MobileUnitSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"plate":      true,
	"active":     true,
}

// SessionSortFields contains allowed sort fields for training sessions
var SessionSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"starts_at":  true,
	"ends_at":    true,
	"status":     true,
	"modality":   true,
	"location":   true,
	"seats":      true,
}

// CertificateSortFields contains allowed sort fields for certificates
var CertificateSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"attendee_name": true,
	"issued_at":     true,
}

// ProductSortFields contains allowed sort fields for catalog products
var ProductSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"code":             true,
	"name":             true,
	"default_modality": true,
	"hours":            true,
	"default_price":    true,
	"active":           true,
}

// VariantSortFields contains allowed sort fields for course variants
var VariantSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"starts_on":     true,
	"location":      true,
	"price":         true,
	"seat_capacity": true,
	"seats_sold":    true,
	"status":        true,
}

// MaterialOrderSortFields contains allowed sort fields for material orders
var MaterialOrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"needed_by":  true,
	"shipped_at": true,
}

// PayrollSortFields contains allowed sort fields for payroll months
var PayrollSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"year":        true,
	"month":       true,
	"status":      true,
	"approved_at": true,
	"paid_at":     true,
}
