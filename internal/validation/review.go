package validation

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"bookden/internal/models"
)

const (
	// MaxReviewContentLen is the review content ceiling in code points.
	MaxReviewContentLen = 1000
	// MinRating and MaxRating bound the 1-5 star scale.
	MinRating = 1
	MaxRating = 5
)

// ListReviewsQuery is a validated review listing request.
type ListReviewsQuery struct {
	Page   int
	Limit  int
	BookID *uint
	UserID *uint
	Rating *int
}

// CreateReviewCommand is a validated review creation request.
type CreateReviewCommand struct {
	BookID  uint
	Content string
	Rating  int
}

// UpdateReviewCommand is a validated review content update.
type UpdateReviewCommand struct {
	ReviewID uint
	Content  string
}

// ParseListReviews builds a listing query from raw query parameters.
// Pagination is lenient (defaults on garbage); the book/user/rating filters
// error when present but malformed.
func ParseListReviews(page, limit, bookID, userID, rating string) (ListReviewsQuery, []models.FieldError) {
	var fieldErrs []models.FieldError

	query := ListReviewsQuery{
		Page:  ParsePage(page),
		Limit: ParseLimit(limit),
	}

	id, fieldErr := ParseOptionalID("book_id", CodeInvalidBookID, bookID)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	} else {
		query.BookID = id
	}

	id, fieldErr = ParseOptionalID("user_id", CodeInvalidUserID, userID)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	} else {
		query.UserID = id
	}

	r, fieldErr := parseOptionalRating(rating)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	} else {
		query.Rating = r
	}

	if len(fieldErrs) > 0 {
		return ListReviewsQuery{}, fieldErrs
	}
	return query, nil
}

// ParseCreateReview validates a review creation request. bookID is the raw
// path parameter; content and rating come from the parsed body (a nil rating
// means the field was absent).
func ParseCreateReview(bookID, content string, rating *int) (CreateReviewCommand, []models.FieldError) {
	var fieldErrs []models.FieldError

	id, fieldErr := ParseID("book_id", CodeInvalidBookID, bookID)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	if fieldErr := checkReviewContent(content); fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	if rating == nil {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "rating",
			Message: "rating is required",
			Code:    CodeInvalidRating,
		})
	} else if *rating < MinRating || *rating > MaxRating {
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "rating",
			Message: fmt.Sprintf("rating must be an integer between %d and %d", MinRating, MaxRating),
			Code:    CodeInvalidRating,
		})
	}

	if len(fieldErrs) > 0 {
		return CreateReviewCommand{}, fieldErrs
	}
	return CreateReviewCommand{BookID: id, Content: content, Rating: *rating}, nil
}

// ParseUpdateReview validates a review content update. Rating never passes
// through this path.
func ParseUpdateReview(reviewID, content string) (UpdateReviewCommand, []models.FieldError) {
	var fieldErrs []models.FieldError

	id, fieldErr := ParseID("review_id", CodeInvalidReviewID, reviewID)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	if fieldErr := checkReviewContent(content); fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	if len(fieldErrs) > 0 {
		return UpdateReviewCommand{}, fieldErrs
	}
	return UpdateReviewCommand{ReviewID: id, Content: content}, nil
}

// checkReviewContent enforces the review content rule: length in code points
// must be in [1, MaxReviewContentLen], measured without trimming. A content
// of " " is valid on purpose.
func checkReviewContent(content string) *models.FieldError {
	if content == "" {
		return &models.FieldError{
			Field:   "content",
			Message: "content is required",
			Code:    CodeInvalidContent,
		}
	}
	if utf8.RuneCountInString(content) > MaxReviewContentLen {
		return &models.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", MaxReviewContentLen),
			Code:    CodeInvalidContent,
		}
	}
	return nil
}

func parseOptionalRating(raw string) (*int, *models.FieldError) {
	if raw == "" {
		return nil, nil
	}
	invalid := &models.FieldError{
		Field:   "rating",
		Message: fmt.Sprintf("rating must be an integer between %d and %d", MinRating, MaxRating),
		Code:    CodeInvalidRating,
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinRating || n > MaxRating {
		return nil, invalid
	}
	return &n, nil
}
