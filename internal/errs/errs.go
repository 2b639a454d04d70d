package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound 资源不存在，或不属于当前用户（两者对外不可区分）
	ErrNotFound = errors.New("not found")
	// ErrDuplicate 唯一约束冲突（username / email）
	ErrDuplicate = errors.New("duplicate")
)

// ValidationError carries a field name -> message list map so handlers
// can report every invalid field in one response.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// NewValidation returns an empty ValidationError ready for Add.
func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no field errors were recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// OrNil returns nil when empty, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}
