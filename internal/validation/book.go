package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bookden/internal/models"
)

// MaxSearchLen bounds the catalog search term in code points.
const MaxSearchLen = 200

// ListBooksQuery is a validated catalog listing request.
type ListBooksQuery struct {
	Page   int
	Limit  int
	Search string
}

// ParseListBooks builds a catalog query from raw query parameters.
// Pagination is lenient; the search term is trimmed and errors only when
// absurdly long.
func ParseListBooks(page, limit, search string) (ListBooksQuery, []models.FieldError) {
	query := ListBooksQuery{
		Page:   ParsePage(page),
		Limit:  ParseLimit(limit),
		Search: strings.TrimSpace(search),
	}

	if utf8.RuneCountInString(query.Search) > MaxSearchLen {
		return ListBooksQuery{}, []models.FieldError{{
			Field:   "search",
			Message: fmt.Sprintf("search must be at most %d characters", MaxSearchLen),
			Code:    CodeInvalidSearch,
		}}
	}
	return query, nil
}
