package validator

import "strings"

// ValidateEmailParameter checks the email query parameter of lookups.
func ValidateEmailParameter(email string) *Result {
	result := &Result{}
	if strings.TrimSpace(email) == "" {
		result.Add("Email parameter is required.")
	}
	return result
}

// ValidateUserID checks a path user ID.
func ValidateUserID(id int64) *Result {
	result := &Result{}
	if id <= 0 {
		result.Add("User ID must be a positive integer.")
	}
	return result
}

// NormalizePagination clamps page and pageSize to sane values rather
// than rejecting them. Out-of-range sizes fall back to 10.
func NormalizePagination(page, pageSize int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
