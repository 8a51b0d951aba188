package client

import (
	"context"
	"testing"

	"github.com/mwhitlock/tandem/internal/store"
)

func memoryFixture(t *testing.T) (*Memory, int64, int64, int64) {
	t.Helper()
	m := NewMemory()
	ctx := context.Background()

	alice, err := m.CreateUser(ctx, "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := m.CreateUser(ctx, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	couple, err := m.CreateCouple(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create couple: %v", err)
	}
	return m, alice.ID, bob.ID, couple.ID
}

func TestMemorySeedCategories(t *testing.T) {
	m := NewMemory()
	categories, err := m.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 10 {
		t.Fatalf("expected 10 seed categories, got %d", len(categories))
	}
	if categories[0].Name != "Produce" || categories[9].Name != "Other" {
		t.Errorf("unexpected seed order: first=%s last=%s", categories[0].Name, categories[9].Name)
	}
}

func TestMemoryDuplicateEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if _, err := m.CreateUser(ctx, "Alice", "alice@example.com"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := m.CreateUser(ctx, "Other", "alice@example.com")
	if err == nil {
		t.Fatal("expected duplicate email error")
	}
	if !store.IsUniqueViolation(err) {
		t.Errorf("expected a unique-violation error, got %v", err)
	}
}

func TestMemoryAddItemCreatesCurrentWeekList(t *testing.T) {
	m, alice, _, coupleID := memoryFixture(t)
	ctx := context.Background()

	categories, _ := m.Categories(ctx)
	item, err := m.AddItem(ctx, nil, categories[0].ID, "Milk", "1L", alice)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.IsCompleted || item.CompletedBy != nil || item.CompletedAt != nil {
		t.Error("new item should not be completed")
	}

	lists, err := m.Lists(ctx, coupleID)
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected 1 list, got %d", len(lists))
	}
	if item.ListID != lists[0].ID {
		t.Errorf("item list %d != created list %d", item.ListID, lists[0].ID)
	}

	// A second add from the other partner reuses the same list.
	second, err := m.AddItem(ctx, nil, categories[1].ID, "Bread", "", alice)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.ListID != item.ListID {
		t.Errorf("second item went to list %d, want %d", second.ListID, item.ListID)
	}
}

func TestMemoryAddItemUnknownUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	categories, _ := m.Categories(ctx)

	_, err := m.AddItem(ctx, nil, categories[0].ID, "Milk", "", 999)
	if err == nil || err.Error() != "user 999 not found" {
		t.Fatalf("expected 'user 999 not found', got %v", err)
	}
}

func TestMemoryAddItemNoCouple(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	solo, _ := m.CreateUser(ctx, "Solo", "solo@example.com")
	categories, _ := m.Categories(ctx)

	_, err := m.AddItem(ctx, nil, categories[0].ID, "Milk", "", solo.ID)
	if !store.IsInvalidState(err) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestMemoryToggleItem(t *testing.T) {
	m, alice, bob, _ := memoryFixture(t)
	ctx := context.Background()
	categories, _ := m.Categories(ctx)

	item, err := m.AddItem(ctx, nil, categories[0].ID, "Eggs", "12", alice)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	toggled, err := m.ToggleItem(ctx, item.ID, bob)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsCompleted {
		t.Error("expected item completed")
	}
	if toggled.CompletedBy == nil || *toggled.CompletedBy != bob {
		t.Errorf("expected completed_by %d, got %v", bob, toggled.CompletedBy)
	}
	if toggled.CompletedAt == nil {
		t.Error("expected completed_at set")
	}

	back, err := m.ToggleItem(ctx, item.ID, bob)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if back.IsCompleted || back.CompletedBy != nil || back.CompletedAt != nil {
		t.Error("expected completion cleared")
	}
}

func TestMemoryRemoveItemIdempotent(t *testing.T) {
	m, alice, _, _ := memoryFixture(t)
	ctx := context.Background()
	categories, _ := m.Categories(ctx)

	item, err := m.AddItem(ctx, nil, categories[0].ID, "Butter", "", alice)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	removed, err := m.RemoveItem(ctx, item.ID)
	if err != nil || !removed {
		t.Fatalf("first remove: removed=%v err=%v", removed, err)
	}
	removed, err = m.RemoveItem(ctx, item.ID)
	if err != nil || removed {
		t.Fatalf("second remove: removed=%v err=%v", removed, err)
	}
}

func TestMemoryCurrentWeekList(t *testing.T) {
	m, alice, _, coupleID := memoryFixture(t)
	ctx := context.Background()
	categories, _ := m.Categories(ctx)

	if _, err := m.AddItem(ctx, nil, categories[0].ID, "Apples", "6", alice); err != nil {
		t.Fatalf("add item: %v", err)
	}

	items, err := m.CurrentWeekList(ctx, coupleID)
	if err != nil {
		t.Fatalf("current week: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Category.Name != "Produce" {
		t.Errorf("expected category join, got %q", items[0].Category.Name)
	}

	// Another couple's list stays invisible.
	other, err := m.CurrentWeekList(ctx, coupleID+100)
	if err != nil {
		t.Fatalf("other couple: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty list for other couple, got %d items", len(other))
	}
}

func TestMemoryPINFlow(t *testing.T) {
	m, alice, _, _ := memoryFixture(t)
	ctx := context.Background()

	ok, err := m.VerifyUserPIN(ctx, alice, "1234")
	if err != nil {
		t.Fatalf("verify before set: %v", err)
	}
	if ok {
		t.Error("expected verify to fail before a pin is set")
	}

	if err := m.SetUserPIN(ctx, alice, "1234"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	if ok, _ = m.VerifyUserPIN(ctx, alice, "1234"); !ok {
		t.Error("expected correct pin to verify")
	}
	if ok, _ = m.VerifyUserPIN(ctx, alice, "9999"); ok {
		t.Error("expected wrong pin to fail")
	}

	if err := m.SetUserPIN(ctx, 999, "1234"); !store.IsNotFound(err) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}
}

func TestMemorySuggestCategory(t *testing.T) {
	m, alice, _, _ := memoryFixture(t)
	ctx := context.Background()

	c, err := m.SuggestCategory(ctx, "frozen peas")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if c.Name != "Frozen" {
		t.Errorf("expected Frozen, got %q", c.Name)
	}

	item, err := m.AddItem(ctx, nil, 0, "frozen peas", "", alice)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.CategoryID != c.ID {
		t.Errorf("auto-assigned category %d, want %d", item.CategoryID, c.ID)
	}
}

func TestMemoryGetUserReportsPIN(t *testing.T) {
	m, alice, _, _ := memoryFixture(t)
	ctx := context.Background()

	user, err := m.GetUser(ctx, alice)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.HasPIN {
		t.Error("expected has_pin false before a pin is set")
	}

	if err := m.SetUserPIN(ctx, alice, "2468"); err != nil {
		t.Fatalf("set pin: %v", err)
	}
	user, _ = m.GetUser(ctx, alice)
	if !user.HasPIN {
		t.Error("expected has_pin true after setting a pin")
	}

	if _, err := m.GetUser(ctx, 999); err == nil || err.Error() != "user 999 not found" {
		t.Fatalf("expected 'user 999 not found', got %v", err)
	}
}
