package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Stable machine codes for every expected error outcome. The HTTP layer maps
// these to status codes; clients switch on them, so they never change.
const (
	CodeValidation               = "VALIDATION_ERROR"
	CodeAuthenticationRequired   = "AUTHENTICATION_REQUIRED"
	CodeForbidden                = "FORBIDDEN"
	CodeReviewNotFound           = "REVIEW_NOT_FOUND"
	CodeBookNotFound             = "BOOK_NOT_FOUND"
	CodeUserNotFound             = "USER_NOT_FOUND"
	CodeParentCommentNotFound    = "PARENT_COMMENT_NOT_FOUND"
	CodeParentCommentWrongReview = "PARENT_COMMENT_WRONG_REVIEW"
	CodeRelatedDataExists        = "RELATED_DATA_EXISTS"
	CodeDuplicateResource        = "DUPLICATE_RESOURCE"
	CodeInternal                 = "INTERNAL_ERROR"
)

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError wraps the collected field violations of one request.
func NewFieldValidationError(fields []FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

func NewAuthenticationRequiredError() *AppError {
	return &AppError{
		Code:    CodeAuthenticationRequired,
		Message: "Authentication required",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewNotFoundError builds a not-found error with the resource-specific code.
func NewNotFoundError(code, resource string, id interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewParentCommentWrongReviewError() *AppError {
	return &AppError{
		Code:    CodeParentCommentWrongReview,
		Message: "Parent comment belongs to a different review",
	}
}

func NewRelatedDataExistsError(message string) *AppError {
	return &AppError{
		Code:    CodeRelatedDataExists,
		Message: message,
	}
}

func NewDuplicateResourceError(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicateResource,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response. The wrapped cause
// of an internal error is logged upstream, never serialized.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
