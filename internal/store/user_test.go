package store

import (
	"database/sql"
	"testing"

	"github.com/mwhitlock/tandem/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	user, err := us.Create("Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("name = %q, want %q", user.Name, "Alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@example.com")
	}
	if user.HasPIN {
		t.Error("new user should not have a PIN")
	}
	if user.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("Alice", "shared@example.com"); err != nil {
		t.Fatalf("create first user: %v", err)
	}

	_, err := us.Create("Bob", "shared@example.com")
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	_, err := us.GetByID(999)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if got := err.Error(); got != "user 999 not found" {
		t.Errorf("error = %q, want %q", got, "user 999 not found")
	}
}

func TestUserGetByEmailAbsent(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	user, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for absent email, got %+v", user)
	}
}

func TestUserPIN(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	user, _ := us.Create("Alice", "alice@example.com")

	// No PIN set yet, so verification fails without error.
	ok, err := us.VerifyPIN(user.ID, "1234")
	if err != nil {
		t.Fatalf("verify pin: %v", err)
	}
	if ok {
		t.Error("verify should fail when no PIN is set")
	}

	if err := us.SetPIN(user.ID, "1234"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	got, err := us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.HasPIN {
		t.Error("has_pin should be true after SetPIN")
	}

	ok, err = us.VerifyPIN(user.ID, "1234")
	if err != nil {
		t.Fatalf("verify pin: %v", err)
	}
	if !ok {
		t.Error("correct PIN should verify")
	}

	ok, err = us.VerifyPIN(user.ID, "9999")
	if err != nil {
		t.Fatalf("verify wrong pin: %v", err)
	}
	if ok {
		t.Error("wrong PIN should not verify")
	}
}

func TestUserSetPINNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if err := us.SetPIN(42, "1234"); !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
