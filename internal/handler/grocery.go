package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mwhitlock/tandem/internal/model"
	"github.com/mwhitlock/tandem/internal/store"
	ws "github.com/mwhitlock/tandem/internal/websocket"
)

type GroceryHandler struct {
	grocery *store.GroceryStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, hub *ws.Hub, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{grocery: gs, hub: hub, logger: logger}
}

// CreateCategory handles createCategory.
func (h *GroceryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	category, err := h.grocery.CreateCategory(req.Name)
	if err != nil {
		writeStoreError(w, h.logger, "create category", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("category", "created", category.ID, nil))
	writeJSON(w, http.StatusCreated, category)
}

// ListCategories handles getCategories.
func (h *GroceryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.grocery.ListCategories()
	if err != nil {
		writeStoreError(w, h.logger, "list categories", err)
		return
	}
	if categories == nil {
		categories = []model.GroceryCategory{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateList handles createGroceryList.
func (h *GroceryHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CoupleID  int64      `json:"couple_id"`
		WeekStart model.Date `json:"week_start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.CoupleID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "couple_id is required"})
		return
	}
	if req.WeekStart == (model.Date{}) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week_start is required"})
		return
	}

	list, err := h.grocery.CreateList(req.CoupleID, req.WeekStart)
	if err != nil {
		writeStoreError(w, h.logger, "create list", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("list", "created", list.ID, nil))
	writeJSON(w, http.StatusCreated, list)
}

// ListLists handles getGroceryLists.
func (h *GroceryHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	coupleID, err := parseCoupleIDQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid couple_id"})
		return
	}

	lists, err := h.grocery.ListsForCouple(coupleID)
	if err != nil {
		writeStoreError(w, h.logger, "list grocery lists", err)
		return
	}
	if lists == nil {
		lists = []model.GroceryList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// SuggestCategory handles suggestCategory.
func (h *GroceryHandler) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	category, err := h.grocery.SuggestCategory(name)
	if err != nil {
		writeStoreError(w, h.logger, "suggest category", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// AddItem handles addGroceryItem. An omitted category_id lets the server
// pick a category from the item name.
func (h *GroceryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListID     *int64 `json:"list_id"`
		CategoryID int64  `json:"category_id"`
		Name       string `json:"name"`
		Quantity   string `json:"quantity"`
		AddedBy    int64  `json:"added_by_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.AddedBy == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "added_by_user_id is required"})
		return
	}

	item, err := h.grocery.AddItem(req.ListID, req.CategoryID, req.Name, req.Quantity, req.AddedBy)
	if err != nil {
		writeStoreError(w, h.logger, "add item", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "created", item.ID, map[string]any{"list_id": item.ListID}))
	writeJSON(w, http.StatusCreated, item)
}

// ToggleItem handles toggleItemCompletion.
func (h *GroceryHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID int64 `json:"item_id"`
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	item, err := h.grocery.ToggleCompleted(req.ItemID, req.UserID)
	if err != nil {
		writeStoreError(w, h.logger, "toggle item", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("item", "toggled", item.ID, map[string]any{"is_completed": item.IsCompleted}))
	writeJSON(w, http.StatusOK, item)
}

// RemoveItem handles removeGroceryItem.
func (h *GroceryHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID int64 `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	removed, err := h.grocery.RemoveItem(req.ItemID)
	if err != nil {
		writeStoreError(w, h.logger, "remove item", err)
		return
	}

	if removed {
		h.hub.Broadcast(ws.NewMessage("item", "removed", req.ItemID, nil))
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": removed})
}

// CurrentWeek handles getCurrentWeekList.
func (h *GroceryHandler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	coupleID, err := parseCoupleIDQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid couple_id"})
		return
	}

	items, err := h.grocery.CurrentWeekItems(coupleID)
	if err != nil {
		writeStoreError(w, h.logger, "current week items", err)
		return
	}
	if items == nil {
		items = []model.GroceryItemWithCategory{}
	}
	writeJSON(w, http.StatusOK, items)
}
