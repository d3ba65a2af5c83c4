// backend/shared/go-dtos/error_dtos.go
package dtos

// ValidationErrorDetail is a shared DTO for structured validation error responses.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// NewValidationErrorDetail builds a detail from any field problem shape.
func NewValidationErrorDetail(field, message, code string) ValidationErrorDetail {
	return ValidationErrorDetail{Field: field, Message: message, Code: code}
}
