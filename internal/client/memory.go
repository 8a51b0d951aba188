package client

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mwhitlock/tandem/internal/grocery"
	"github.com/mwhitlock/tandem/internal/model"
	"github.com/mwhitlock/tandem/internal/store"
	"github.com/mwhitlock/tandem/internal/week"
)

// seedCategories mirrors the server's migration seed so the offline view
// matches what a fresh server would show.
var seedCategories = []string{
	"Produce", "Dairy", "Meat & Seafood", "Bakery", "Pantry",
	"Frozen", "Beverages", "Snacks", "Household", "Other",
}

// Memory is the offline Service implementation. It applies the same
// semantics as the server-backed store, including error types, so the UI
// behaves identically whichever backend was selected.
type Memory struct {
	mu     sync.Mutex
	nextID int64

	users      map[int64]*model.User
	pins       map[int64]string
	emails     map[string]int64
	couples    []*model.Couple
	categories []*model.GroceryCategory
	lists      []*model.GroceryList
	items      map[int64]*model.GroceryItem
}

func NewMemory() *Memory {
	m := &Memory{
		users:  make(map[int64]*model.User),
		pins:   make(map[int64]string),
		emails: make(map[string]int64),
		items:  make(map[int64]*model.GroceryItem),
	}
	for i, name := range seedCategories {
		m.categories = append(m.categories, &model.GroceryCategory{
			ID:        m.id(),
			Name:      name,
			SortOrder: i + 1,
			CreatedAt: time.Now(),
		})
	}
	return m
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[email]; exists {
		return nil, fmt.Errorf("email %s already in use: %w", email, store.ErrUniqueViolation)
	}

	user := &model.User{ID: m.id(), Name: name, Email: email, CreatedAt: time.Now()}
	m.users[user.ID] = user
	m.emails[email] = user.ID

	copied := *user
	return &copied, nil
}

func (m *Memory) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, &store.NotFoundError{Entity: "user", ID: userID}
	}
	copied := *user
	return &copied, nil
}

func (m *Memory) SetUserPIN(ctx context.Context, userID int64, pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return &store.NotFoundError{Entity: "user", ID: userID}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	m.pins[userID] = string(hash)
	user.HasPIN = true
	return nil
}

func (m *Memory) VerifyUserPIN(ctx context.Context, userID int64, pin string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return false, &store.NotFoundError{Entity: "user", ID: userID}
	}
	hash, ok := m.pins[userID]
	if !ok {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil, nil
}

func (m *Memory) CreateCouple(ctx context.Context, user1ID, user2ID int64) (*model.Couple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, userID := range []int64{user1ID, user2ID} {
		if _, ok := m.users[userID]; !ok {
			return nil, &store.NotFoundError{Entity: "user", ID: userID}
		}
	}

	couple := &model.Couple{ID: m.id(), User1ID: user1ID, User2ID: user2ID, CreatedAt: time.Now()}
	m.couples = append(m.couples, couple)

	copied := *couple
	return &copied, nil
}

func (m *Memory) CreateCategory(ctx context.Context, name string) (*model.GroceryCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category := &model.GroceryCategory{
		ID:        m.id(),
		Name:      name,
		SortOrder: len(m.categories) + 1,
		CreatedAt: time.Now(),
	}
	m.categories = append(m.categories, category)

	copied := *category
	return &copied, nil
}

func (m *Memory) Categories(ctx context.Context) ([]model.GroceryCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.GroceryCategory, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *Memory) SuggestCategory(ctx context.Context, itemName string) (*model.GroceryCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	category := m.suggestCategory(itemName)
	if category == nil {
		return nil, &store.InvalidStateError{Msg: "no fallback category configured"}
	}
	copied := *category
	return &copied, nil
}

func (m *Memory) CreateList(ctx context.Context, coupleID int64, weekStart model.Date) (*model.GroceryList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.coupleByID(coupleID) == nil {
		return nil, &store.NotFoundError{Entity: "couple", ID: coupleID}
	}

	list := m.findOrCreateList(coupleID, weekStart)
	copied := *list
	return &copied, nil
}

func (m *Memory) Lists(ctx context.Context, coupleID int64) ([]model.GroceryList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.GroceryList
	for _, l := range m.lists {
		if l.CoupleID == coupleID {
			out = append(out, *l)
		}
	}
	// Ordered by week_start descending, matching the server.
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.String() > out[j].WeekStart.String()
	})
	return out, nil
}

func (m *Memory) AddItem(ctx context.Context, listID *int64, categoryID int64, name, quantity string, addedBy int64) (*model.GroceryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[addedBy]; !ok {
		return nil, &store.NotFoundError{Entity: "user", ID: addedBy}
	}
	if categoryID == 0 {
		category := m.suggestCategory(name)
		if category == nil {
			return nil, &store.InvalidStateError{Msg: "no fallback category configured"}
		}
		categoryID = category.ID
	} else if m.categoryByID(categoryID) == nil {
		return nil, &store.NotFoundError{Entity: "category", ID: categoryID}
	}

	var target *model.GroceryList
	if listID != nil {
		target = m.listByID(*listID)
		if target == nil {
			return nil, &store.NotFoundError{Entity: "grocery list", ID: *listID}
		}
	} else {
		couple := m.coupleForUser(addedBy)
		if couple == nil {
			return nil, &store.InvalidStateError{Msg: fmt.Sprintf("user %d does not belong to a couple", addedBy)}
		}
		target = m.findOrCreateList(couple.ID, model.DateOf(week.StartOf(time.Now())))
	}

	item := &model.GroceryItem{
		ID:         m.id(),
		ListID:     target.ID,
		CategoryID: categoryID,
		Name:       name,
		Quantity:   quantity,
		AddedBy:    addedBy,
		CreatedAt:  time.Now(),
	}
	m.items[item.ID] = item

	copied := *item
	return &copied, nil
}

func (m *Memory) ToggleItem(ctx context.Context, itemID, userID int64) (*model.GroceryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return nil, &store.NotFoundError{Entity: "item", ID: itemID}
	}

	if item.IsCompleted {
		item.IsCompleted = false
		item.CompletedBy = nil
		item.CompletedAt = nil
	} else {
		now := time.Now().UTC()
		item.IsCompleted = true
		item.CompletedBy = &userID
		item.CompletedAt = &now
	}

	copied := *item
	return &copied, nil
}

func (m *Memory) RemoveItem(ctx context.Context, itemID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[itemID]; !ok {
		return false, nil
	}
	delete(m.items, itemID)
	return true, nil
}

func (m *Memory) CurrentWeekList(ctx context.Context, coupleID int64) ([]model.GroceryItemWithCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start, end := week.Window(time.Now())
	startDate, endDate := model.DateOf(start).String(), model.DateOf(end).String()

	inWindow := make(map[int64]bool)
	for _, l := range m.lists {
		ws := l.WeekStart.String()
		if l.CoupleID == coupleID && ws >= startDate && ws <= endDate {
			inWindow[l.ID] = true
		}
	}

	var out []model.GroceryItemWithCategory
	for _, item := range m.items {
		if !inWindow[item.ListID] {
			continue
		}
		category := m.categoryByID(item.CategoryID)
		out = append(out, model.GroceryItemWithCategory{
			GroceryItem: *item,
			Category:    *category,
		})
	}
	return out, nil
}

// --- unexported lookups; callers hold the mutex ---

func (m *Memory) coupleByID(id int64) *model.Couple {
	for _, c := range m.couples {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// coupleForUser returns the earliest-created couple containing the user,
// matching the server's deterministic tie-break.
func (m *Memory) coupleForUser(userID int64) *model.Couple {
	for _, c := range m.couples {
		if c.User1ID == userID || c.User2ID == userID {
			return c
		}
	}
	return nil
}

func (m *Memory) categoryByID(id int64) *model.GroceryCategory {
	for _, c := range m.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *Memory) categoryByName(name string) *model.GroceryCategory {
	for _, c := range m.categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (m *Memory) suggestCategory(itemName string) *model.GroceryCategory {
	if c := m.categoryByName(grocery.Suggest(itemName)); c != nil {
		return c
	}
	return m.categoryByName(grocery.FallbackCategory)
}

func (m *Memory) listByID(id int64) *model.GroceryList {
	for _, l := range m.lists {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (m *Memory) findOrCreateList(coupleID int64, weekStart model.Date) *model.GroceryList {
	for _, l := range m.lists {
		if l.CoupleID == coupleID && l.WeekStart == weekStart {
			return l
		}
	}
	list := &model.GroceryList{ID: m.id(), CoupleID: coupleID, WeekStart: weekStart, CreatedAt: time.Now()}
	m.lists = append(m.lists, list)
	return list
}
