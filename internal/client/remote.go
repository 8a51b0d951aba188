package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwhitlock/tandem/internal/model"
)

// RemoteError carries the server's error message and HTTP status. The
// message text is surfaced as-is; callers match on its content.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Remote is the Service implementation backed by a running tandem server.
type Remote struct {
	baseURL string
	http    *http.Client
}

func NewRemote(baseURL string) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Remote) call(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			errBody.Error = fmt.Sprintf("%s failed with status %d", path, resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response of %s: %w", path, err)
		}
	}
	return nil
}

func (r *Remote) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	var user model.User
	err := r.call(ctx, http.MethodPost, "/rpc/createUser", map[string]string{"name": name, "email": email}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Remote) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	path := fmt.Sprintf("/rpc/getUser?user_id=%d", userID)
	if err := r.call(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Remote) SetUserPIN(ctx context.Context, userID int64, pin string) error {
	return r.call(ctx, http.MethodPost, "/rpc/setUserPin", map[string]any{"user_id": userID, "pin": pin}, nil)
}

func (r *Remote) VerifyUserPIN(ctx context.Context, userID int64, pin string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	err := r.call(ctx, http.MethodPost, "/rpc/verifyUserPin", map[string]any{"user_id": userID, "pin": pin}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (r *Remote) CreateCouple(ctx context.Context, user1ID, user2ID int64) (*model.Couple, error) {
	var couple model.Couple
	err := r.call(ctx, http.MethodPost, "/rpc/createCouple", map[string]int64{"user1_id": user1ID, "user2_id": user2ID}, &couple)
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

func (r *Remote) CreateCategory(ctx context.Context, name string) (*model.GroceryCategory, error) {
	var category model.GroceryCategory
	err := r.call(ctx, http.MethodPost, "/rpc/createCategory", map[string]string{"name": name}, &category)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Remote) Categories(ctx context.Context) ([]model.GroceryCategory, error) {
	var categories []model.GroceryCategory
	if err := r.call(ctx, http.MethodGet, "/rpc/getCategories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Remote) SuggestCategory(ctx context.Context, itemName string) (*model.GroceryCategory, error) {
	var category model.GroceryCategory
	path := "/rpc/suggestCategory?name=" + url.QueryEscape(itemName)
	if err := r.call(ctx, http.MethodGet, path, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Remote) CreateList(ctx context.Context, coupleID int64, weekStart model.Date) (*model.GroceryList, error) {
	var list model.GroceryList
	err := r.call(ctx, http.MethodPost, "/rpc/createGroceryList", map[string]any{
		"couple_id":  coupleID,
		"week_start": weekStart,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *Remote) Lists(ctx context.Context, coupleID int64) ([]model.GroceryList, error) {
	var lists []model.GroceryList
	path := fmt.Sprintf("/rpc/getGroceryLists?couple_id=%d", coupleID)
	if err := r.call(ctx, http.MethodGet, path, nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *Remote) AddItem(ctx context.Context, listID *int64, categoryID int64, name, quantity string, addedBy int64) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := r.call(ctx, http.MethodPost, "/rpc/addGroceryItem", map[string]any{
		"list_id":          listID,
		"category_id":      categoryID,
		"name":             name,
		"quantity":         quantity,
		"added_by_user_id": addedBy,
	}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Remote) ToggleItem(ctx context.Context, itemID, userID int64) (*model.GroceryItem, error) {
	var item model.GroceryItem
	err := r.call(ctx, http.MethodPost, "/rpc/toggleItemCompletion", map[string]int64{"item_id": itemID, "user_id": userID}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Remote) RemoveItem(ctx context.Context, itemID int64) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
	}
	err := r.call(ctx, http.MethodPost, "/rpc/removeGroceryItem", map[string]int64{"item_id": itemID}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (r *Remote) CurrentWeekList(ctx context.Context, coupleID int64) ([]model.GroceryItemWithCategory, error) {
	var items []model.GroceryItemWithCategory
	path := fmt.Sprintf("/rpc/getCurrentWeekList?couple_id=%d", coupleID)
	if err := r.call(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
