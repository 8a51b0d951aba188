// Package client gives the UI one Service interface with two backends: a
// remote one speaking to the tandem server and an in-memory one used when
// the server is unreachable. The backend is chosen once at startup; callers
// never branch on connectivity per call.
package client

import (
	"context"
	"net/http"
	"time"

	"github.com/mwhitlock/tandem/internal/model"
)

// Service exposes every remote procedure of the tandem server.
type Service interface {
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	SetUserPIN(ctx context.Context, userID int64, pin string) error
	VerifyUserPIN(ctx context.Context, userID int64, pin string) (bool, error)

	CreateCouple(ctx context.Context, user1ID, user2ID int64) (*model.Couple, error)

	CreateCategory(ctx context.Context, name string) (*model.GroceryCategory, error)
	Categories(ctx context.Context) ([]model.GroceryCategory, error)
	SuggestCategory(ctx context.Context, itemName string) (*model.GroceryCategory, error)

	CreateList(ctx context.Context, coupleID int64, weekStart model.Date) (*model.GroceryList, error)
	Lists(ctx context.Context, coupleID int64) ([]model.GroceryList, error)

	AddItem(ctx context.Context, listID *int64, categoryID int64, name, quantity string, addedBy int64) (*model.GroceryItem, error)
	ToggleItem(ctx context.Context, itemID, userID int64) (*model.GroceryItem, error)
	RemoveItem(ctx context.Context, itemID int64) (bool, error)
	CurrentWeekList(ctx context.Context, coupleID int64) ([]model.GroceryItemWithCategory, error)
}

// Select probes the server's health endpoint and returns a Remote backend if
// it answers, falling back to a freshly seeded Memory backend otherwise. The
// second return value reports whether the live backend was chosen.
func Select(ctx context.Context, baseURL string) (Service, bool) {
	probe, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probe, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return NewMemory(), false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return NewMemory(), false
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return NewMemory(), false
	}
	return NewRemote(baseURL), true
}
