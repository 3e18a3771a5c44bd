package persistence

import (
	"strings"

	"github.com/asspharma/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC,
// defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of
// allowed columns. Returns the defaultField when the input is empty or
// not whitelisted.
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

// commonSortFields are present on every persisted aggregate
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// sortFields builds a whitelist from the common columns plus extras
func sortFields(extra ...string) map[string]bool {
	fields := make(map[string]bool, len(commonSortFields)+len(extra))
	for f := range commonSortFields {
		fields[f] = true
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// applyPagination applies page/page-size to the query. A PageSize of 0
// means no limit: callers that need every row (reports, alert sweeps)
// pass Page 1 and PageSize 0.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies a whitelisted ORDER BY to the query
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	column := ValidateSortField(filter.OrderBy, allowed, "created_at")
	return query.Order(column + " " + ValidateSortOrder(filter.OrderDir))
}

// applyListing combines ordering and pagination for list queries
func applyListing(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	return applyPagination(applyOrdering(query, filter, allowed), filter)
}
