package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeReferential  ErrorType = "REFERENTIAL_CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeRequired         ErrorCode = "REQUIRED"
	ErrCodeInvalidType      ErrorCode = "INVALID_TYPE"
	ErrCodeTooLong          ErrorCode = "TOO_LONG"
	ErrCodeTooShort         ErrorCode = "TOO_SHORT"
	ErrCodeTooSmall         ErrorCode = "TOO_SMALL"
	ErrCodeInvalidEnum      ErrorCode = "INVALID_ENUM"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeDuplicateValue   ErrorCode = "DUPLICATE_VALUE"
	ErrCodeUnknownReference ErrorCode = "UNKNOWN_REFERENCE"

	ErrCodePositionNotFound   ErrorCode = "POSITION_NOT_FOUND"
	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"

	ErrCodeFieldsNotAllowed ErrorCode = "FIELDS_NOT_ALLOWED"
	ErrCodeNotOwner         ErrorCode = "NOT_OWNER"
	ErrCodeAdminRequired    ErrorCode = "ADMIN_REQUIRED"

	ErrCodeStillReferenced ErrorCode = "STILL_REFERENCED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSessionRevoked     ErrorCode = "SESSION_REVOKED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// InternalErrorMessage is the only text a caller ever sees for an internal failure.
const InternalErrorMessage = "Internal server error"

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ByField groups messages per field, preserving the order fields first failed in.
func (v ValidationErrors) ByField() map[string][]string {
	grouped := make(map[string][]string, len(v.Errors))
	for _, err := range v.Errors {
		grouped[err.Field] = append(grouped[err.Field], err.Message)
	}
	return grouped
}

// DeniedFields lists the input fields the caller's role may not write.
type DeniedFields struct {
	Fields []string `json:"fields"`
}

// ReferenceConflict names the table still pointing at a row that was about to be deleted.
type ReferenceConflict struct {
	ReferencedBy string `json:"referenced_by,omitempty"`
	Count        int64  `json:"count,omitempty"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationErrors(errs []ValidationError) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusUnprocessableEntity,
		Details:    ValidationErrors{Errors: errs},
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationErrors([]ValidationError{
		{Field: field, Message: message, Code: string(code)},
	})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewFieldsDeniedError(fields []string) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       ErrCodeFieldsNotAllowed,
		Message:    fmt.Sprintf("Not allowed to update: %s", strings.Join(fields, ", ")),
		StatusCode: http.StatusForbidden,
		Details:    DeniedFields{Fields: fields},
	}
}

func NewReferentialConflictError(message, referencedBy string, count int64) *AppError {
	return &AppError{
		Type:       ErrorTypeReferential,
		Code:       ErrCodeStillReferenced,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details:    ReferenceConflict{ReferencedBy: referencedBy, Count: count},
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrSessionRevoked     = NewUnauthorizedError("Session is no longer valid", ErrCodeSessionRevoked)
	ErrAdminRequired      = NewForbiddenError("Admin access required", ErrCodeAdminRequired)
	ErrInvalidRequestBody = NewValidationError("Invalid request body", ErrCodeInvalidRequest)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
