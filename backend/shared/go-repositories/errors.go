package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poofware/mono-repo/backend/shared/go-utils"
)

// Every repository error matches ErrRepository; each kind also matches
// its own sentinel.
var (
	ErrRepository = errors.New("repository error")
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate")
	ErrValidation = errors.New("validation failed")
)

// RepositoryError is a generic store failure. It is the only retryable kind.
type RepositoryError struct {
	Message string
	Cause   error
}

func (e *RepositoryError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RepositoryError) Unwrap() error        { return e.Cause }
func (e *RepositoryError) Is(target error) bool { return target == ErrRepository }
func (e *RepositoryError) Code() string         { return utils.ErrCodeInternal }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Entity, e.ID) }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrRepository || target == ErrNotFound
}
func (e *NotFoundError) Code() string { return utils.ErrCodeNotFound }

type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}
func (e *DuplicateError) Is(target error) bool {
	return target == ErrRepository || target == ErrDuplicate
}
func (e *DuplicateError) Code() string { return utils.ErrCodeConflict }

// FieldProblem describes one rejected input field. Code is a stable,
// machine-readable reason such as "validation_required".
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
func (e *ValidationError) Is(target error) bool {
	return target == ErrRepository || target == ErrValidation
}
func (e *ValidationError) Code() string { return utils.ErrCodeValidation }
func (e *ValidationError) Details() any { return e.Problems }

// Field returns the first problem reported for field.
func (e *ValidationError) Field(field string) (FieldProblem, bool) {
	for _, p := range e.Problems {
		if p.Field == field {
			return p, true
		}
	}
	return FieldProblem{}, false
}

const (
	CodeInvalidTransition = "invalid_transition"
	CodeInvalidReference  = "invalid_reference"
	CodeInvalidRange      = "invalid_range"
	CodeInvalidMetadata   = "invalid_metadata"
	CodeInUse             = "in_use"
)

func invalid(field, code, msg string) *ValidationError {
	return &ValidationError{Problems: []FieldProblem{{Field: field, Message: msg, Code: code}}}
}

func invalidTransition[S ~string](from, to S) *ValidationError {
	return invalid("status", CodeInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s", from, to))
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func storeFailure(op string, err error) *RepositoryError {
	return &RepositoryError{Message: op, Cause: err}
}

// IsRetryable reports whether err is a generic store failure worth
// retrying. Validation, duplicate and not-found errors never are.
func IsRetryable(err error) bool {
	var repoErr *RepositoryError
	return errors.As(err, &repoErr)
}
