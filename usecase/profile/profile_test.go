package profile

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/selfmastery/backend/domain"
	"github.com/selfmastery/backend/internal/testutil"
)

func seedUser(t *testing.T, store *testutil.Store, name, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestUpdatePartial(t *testing.T) {
	store := testutil.NewStore()
	uc := New(store.Users(), nil)
	ctx := context.Background()
	user := seedUser(t, store, "Ann", "ann@example.com", "secret1")

	// Empty email keeps the stored address.
	updated, err := uc.Update(ctx, user.ID, "Ann Smith", "")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Ann Smith" || updated.Email != "ann@example.com" {
		t.Fatalf("got %q/%q, want Ann Smith/ann@example.com", updated.Name, updated.Email)
	}

	// Empty name keeps the stored name.
	updated, err = uc.Update(ctx, user.ID, "", "smith@example.com")
	if err != nil {
		t.Fatalf("update email: %v", err)
	}
	if updated.Name != "Ann Smith" || updated.Email != "smith@example.com" {
		t.Fatalf("got %q/%q, want Ann Smith/smith@example.com", updated.Name, updated.Email)
	}
}

func TestUpdateEmailInUse(t *testing.T) {
	store := testutil.NewStore()
	uc := New(store.Users(), nil)
	ctx := context.Background()
	user := seedUser(t, store, "Ann", "ann@example.com", "secret1")
	seedUser(t, store, "Bob", "bob@example.com", "secret2")

	if _, err := uc.Update(ctx, user.ID, "", "bob@example.com"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("got %v, want ErrEmailInUse", err)
	}

	// Re-submitting the current email is not a conflict.
	if _, err := uc.Update(ctx, user.ID, "", "ann@example.com"); err != nil {
		t.Fatalf("same email: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	store := testutil.NewStore()
	uc := New(store.Users(), nil)
	ctx := context.Background()
	user := seedUser(t, store, "Ann", "ann@example.com", "secret1")

	if err := uc.ChangePassword(ctx, user.ID, "secret1", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("short password: got %v, want ErrWeakPassword", err)
	}
	if err := uc.ChangePassword(ctx, user.ID, "wrong", "longenough"); !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("wrong current password: got %v, want ErrIncorrectPassword", err)
	}

	if err := uc.ChangePassword(ctx, user.ID, "secret1", "longenough"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	stored, err := store.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")) == nil {
		t.Fatal("old password still verifies")
	}
}
