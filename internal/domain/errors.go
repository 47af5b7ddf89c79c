package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodeEmbedding     = "EMBEDDING_FAILED"
	ErrCodeStore         = "STORE_FAILED"
	ErrCodeFetch         = "FETCH_FAILED"
	ErrCodeGeneration    = "GENERATION_FAILED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Extraction errors
var (
	ErrUnsupportedFormat = NewDomainError(ErrCodeExtraction, "unsupported document format")
	ErrNoTextExtracted   = NewDomainError(ErrCodeExtraction, "no text extracted from document")
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Authorization errors
var (
	ErrInvalidToken = NewDomainError(ErrCodeUnauthorized, "invalid bearer token")
)

// Upstream errors
var (
	ErrEmbeddingUnavailable  = NewDomainError(ErrCodeEmbedding, "embedding provider unavailable")
	ErrGenerationUnavailable = NewDomainError(ErrCodeGeneration, "answer generation unavailable")
	ErrScrapeFailed          = NewDomainError(ErrCodeFetch, "failed to fetch page")
)

// ErrorCode extracts the DomainError code from err, or ErrCodeInternalError
// for errors outside the taxonomy.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ErrCodeInternalError
}
