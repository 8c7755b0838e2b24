// Package validator evaluates declarative per-endpoint field rules before
// any repository call. Rules are pure predicates; every violated rule is
// reported, not just the first.
package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/selfmastery/backend/domain"
)

// Rule checks one field of a request payload.
type Rule[T any] struct {
	Field   string
	Message string
	Valid   func(T) bool
}

// Apply evaluates every rule against the payload and returns a
// *domain.ValidationError collecting all violations, or nil.
func Apply[T any](payload T, rules []Rule[T]) error {
	var fields []domain.FieldError
	for _, r := range rules {
		if !r.Valid(payload) {
			fields = append(fields, domain.FieldError{Field: r.Field, Message: r.Message})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NotEmpty reports whether s contains any non-whitespace character.
func NotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Email reports whether s looks like a well-formed email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// MinLen reports whether s is at least n bytes long.
func MinLen(s string, n int) bool {
	return len(s) >= n
}

// Timestamp reports whether s is empty or a valid RFC 3339 timestamp.
// Optional time fields use it so a typo is rejected instead of silently
// clearing the stored value.
func Timestamp(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
