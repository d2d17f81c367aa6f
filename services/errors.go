package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// NotFoundError represents a missing resource
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

var (
	// ErrNotFound is the sentinel error for missing resources
	ErrNotFound = NotFoundError{}

	ErrInvalidValue = errors.New("invalid value")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors collects per-field validation problems before any write
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, problem string) {
	f[field] = append(f[field], problem)
}

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, k := range fields {
		parts = append(parts, k+": "+strings.Join(f[k], ", "))
	}
	return "invalid value: " + strings.Join(parts, "; ")
}

// Is makes FieldErrors match ErrInvalidValue
func (f FieldErrors) Is(target error) bool {
	return target == ErrInvalidValue
}

// OrNil returns nil when no problems were collected
func (f FieldErrors) OrNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func newFieldError(field, problem string) FieldErrors {
	return FieldErrors{field: {problem}}
}
