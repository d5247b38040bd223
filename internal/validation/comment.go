package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bookden/internal/models"
)

// MaxCommentContentLen is the comment content ceiling in code points,
// measured after trimming.
const MaxCommentContentLen = 10000

// CreateCommentCommand is a validated comment creation request. Content is
// already trimmed; ParentID is nil for a top-level comment.
type CreateCommentCommand struct {
	ReviewID uint
	Content  string
	ParentID *uint
}

// ParseCreateComment validates a comment creation request. reviewID is the
// raw path parameter; content and parentID come from the parsed body.
// Leading and trailing whitespace is stripped before the length check, so
// whitespace-only content is rejected.
func ParseCreateComment(reviewID, content string, parentID *int64) (CreateCommentCommand, []models.FieldError) {
	var fieldErrs []models.FieldError

	id, fieldErr := ParseID("review_id", CodeInvalidReviewID, reviewID)
	if fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	trimmed := strings.TrimSpace(content)
	switch {
	case trimmed == "":
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "content",
			Message: "content is required",
			Code:    CodeInvalidContent,
		})
	case utf8.RuneCountInString(trimmed) > MaxCommentContentLen:
		fieldErrs = append(fieldErrs, models.FieldError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", MaxCommentContentLen),
			Code:    CodeInvalidContent,
		})
	}

	var parent *uint
	if parentID != nil {
		if *parentID <= 0 {
			fieldErrs = append(fieldErrs, models.FieldError{
				Field:   "parent_id",
				Message: "parent_id must be a positive integer",
				Code:    CodeInvalidParentID,
			})
		} else {
			p := uint(*parentID)
			parent = &p
		}
	}

	if len(fieldErrs) > 0 {
		return CreateCommentCommand{}, fieldErrs
	}
	return CreateCommentCommand{ReviewID: id, Content: trimmed, ParentID: parent}, nil
}
