package validator

import (
	"errors"
	"testing"

	"github.com/selfmastery/backend/domain"
)

type payload struct {
	Name     string
	Email    string
	Password string
}

func rules() []Rule[payload] {
	return []Rule[payload]{
		{Field: "name", Message: "Name is required", Valid: func(p payload) bool { return NotEmpty(p.Name) }},
		{Field: "email", Message: "Invalid email address", Valid: func(p payload) bool { return Email(p.Email) }},
		{Field: "password", Message: "Password must be at least 6 characters long", Valid: func(p payload) bool { return MinLen(p.Password, 6) }},
	}
}

func TestApplyValid(t *testing.T) {
	err := Apply(payload{Name: "Ann", Email: "ann@example.com", Password: "secret1"}, rules())
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

// Every violated rule is reported, not just the first one.
func TestApplyCollectsAllViolations(t *testing.T) {
	err := Apply(payload{Name: " ", Email: "not-an-email", Password: "abc"}, rules())

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T, want *domain.ValidationError", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("got %d field errors, want 3", len(verr.Fields))
	}

	want := map[string]string{
		"name":     "Name is required",
		"email":    "Invalid email address",
		"password": "Password must be at least 6 characters long",
	}
	for _, f := range verr.Fields {
		if want[f.Field] != f.Message {
			t.Fatalf("field %q has message %q, want %q", f.Field, f.Message, want[f.Field])
		}
	}
}

func TestApplySingleViolation(t *testing.T) {
	err := Apply(payload{Name: "Ann", Email: "ann@example.com", Password: "abc"}, rules())

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T, want *domain.ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "password" {
		t.Fatalf("got %+v, want single password violation", verr.Fields)
	}
}

func TestNotEmpty(t *testing.T) {
	if NotEmpty("") || NotEmpty("   ") || NotEmpty("\t\n") {
		t.Fatal("whitespace-only strings must not pass")
	}
	if !NotEmpty("x") || !NotEmpty("  x  ") {
		t.Fatal("non-blank strings must pass")
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"ann@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "plain", "@example.com", "ann@", "ann@example", "a b@example.com"}

	for _, s := range valid {
		if !Email(s) {
			t.Fatalf("Email(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if Email(s) {
			t.Fatalf("Email(%q) = true, want false", s)
		}
	}
}

func TestTimestamp(t *testing.T) {
	valid := []string{"", "2026-09-01T09:00:00Z", "2026-09-01T09:00:00+02:00"}
	invalid := []string{"tomorrow", "2026-09-01", "2026-09-01 09:00:00", "1756716000"}

	for _, s := range valid {
		if !Timestamp(s) {
			t.Fatalf("Timestamp(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if Timestamp(s) {
			t.Fatalf("Timestamp(%q) = true, want false", s)
		}
	}
}

func TestMinLen(t *testing.T) {
	if MinLen("abcde", 6) {
		t.Fatal("5 < 6 must fail")
	}
	if !MinLen("abcdef", 6) {
		t.Fatal("exact length must pass")
	}
}
