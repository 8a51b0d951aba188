package model

import "time"

type GroceryCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// GroceryList is one couple's list for one calendar week. At most one list
// exists per (couple, week start); the unique index enforces it.
type GroceryList struct {
	ID        int64     `json:"id"`
	CoupleID  int64     `json:"couple_id"`
	WeekStart Date      `json:"week_start"`
	CreatedAt time.Time `json:"created_at"`
}

type GroceryItem struct {
	ID          int64      `json:"id"`
	ListID      int64      `json:"list_id"`
	CategoryID  int64      `json:"category_id"`
	Name        string     `json:"name"`
	Quantity    string     `json:"quantity,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	AddedBy     int64      `json:"added_by_user_id"`
	CompletedBy *int64     `json:"completed_by_user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// GroceryItemWithCategory is an item joined with its full category record,
// as returned by the current-week query.
type GroceryItemWithCategory struct {
	GroceryItem
	Category GroceryCategory `json:"category"`
}
