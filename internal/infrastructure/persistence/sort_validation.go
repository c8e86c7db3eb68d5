package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, falling
// back to DESC for anything else.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted and
// defaultField otherwise. Column names are interpolated into ORDER BY, so
// nothing outside the whitelist may pass.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// AuditSortFields are the audit_logs columns listings may sort by
var AuditSortFields = map[string]bool{
	"created_at": true,
	"entity":     true,
	"action":     true,
	"user_id":    true,
}

// orderClause builds a whitelisted ORDER BY clause
func orderClause(field, dir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(field, allowed, defaultField) + " " + ValidateSortOrder(dir)
}
