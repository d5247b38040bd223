// Package validation turns untyped request data into typed commands or a
// list of field-level violations. Parsers never touch storage, never panic,
// and collect every violation in one pass.
package validation

import (
	"math"
	"strconv"

	"bookden/internal/models"
)

// Machine codes carried by field errors. Clients switch on these.
const (
	CodeInvalidReviewID = "INVALID_REVIEW_ID"
	CodeInvalidBookID   = "INVALID_BOOK_ID"
	CodeInvalidParentID = "INVALID_PARENT_ID"
	CodeInvalidUserID   = "INVALID_USER_ID"
	CodeInvalidRating   = "INVALID_RATING"
	CodeInvalidContent  = "INVALID_CONTENT"
	CodeInvalidSearch   = "INVALID_SEARCH"
)

// ParseID parses raw as a positive integer identifier. Non-integer, zero,
// and negative values all produce the same field error.
func ParseID(field, code, raw string) (uint, *models.FieldError) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 || n > math.MaxUint32 {
		return 0, &models.FieldError{
			Field:   field,
			Message: field + " must be a positive integer",
			Code:    code,
		}
	}
	return uint(n), nil
}

// ParseOptionalID behaves like ParseID but treats an empty raw value as
// absent rather than invalid.
func ParseOptionalID(field, code, raw string) (*uint, *models.FieldError) {
	if raw == "" {
		return nil, nil
	}
	id, fieldErr := ParseID(field, code, raw)
	if fieldErr != nil {
		return nil, fieldErr
	}
	return &id, nil
}
