package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mwhitlock/tandem/internal/grocery"
	"github.com/mwhitlock/tandem/internal/model"
	"github.com/mwhitlock/tandem/internal/week"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

// --- Category methods ---

func scanCategory(scanner interface{ Scan(...any) error }) (*model.GroceryCategory, error) {
	var c model.GroceryCategory
	err := scanner.Scan(&c.ID, &c.Name, &c.SortOrder, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const categoryCols = `id, name, sort_order, created_at`

func (s *GroceryStore) ListCategories() ([]model.GroceryCategory, error) {
	rows, err := s.db.Query(`SELECT ` + categoryCols + ` FROM grocery_categories ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.GroceryCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *GroceryStore) GetCategoryByID(id int64) (*model.GroceryCategory, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM grocery_categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetCategoryByName returns the category with the given name, or nil
// when no such category exists.
func (s *GroceryStore) GetCategoryByName(name string) (*model.GroceryCategory, error) {
	row := s.db.QueryRow(`SELECT `+categoryCols+` FROM grocery_categories WHERE name = ?`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// SuggestCategory classifies an item name into one of the stored
// categories, falling back to the catch-all category.
func (s *GroceryStore) SuggestCategory(itemName string) (*model.GroceryCategory, error) {
	c, err := s.GetCategoryByName(grocery.Suggest(itemName))
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = s.GetCategoryByName(grocery.FallbackCategory)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, &InvalidStateError{Msg: "no fallback category configured"}
		}
	}
	return c, nil
}

func (s *GroceryStore) CreateCategory(name string) (*model.GroceryCategory, error) {
	var maxOrder int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order), 0) FROM grocery_categories`).Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO grocery_categories (name, sort_order) VALUES (?, ?)`,
		name, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCategoryByID(id)
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.GroceryList, error) {
	var l model.GroceryList
	var weekStart string
	err := scanner.Scan(&l.ID, &l.CoupleID, &weekStart, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.WeekStart, err = model.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, couple_id, week_start, created_at`

func (s *GroceryStore) GetListByID(id int64) (*model.GroceryList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM grocery_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, notFound("grocery list", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

// CreateList returns the couple's list for the given week, inserting it if
// absent. The UNIQUE(couple_id, week_start) index makes concurrent calls
// converge on a single row.
func (s *GroceryStore) CreateList(coupleID int64, weekStart model.Date) (*model.GroceryList, error) {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM couples WHERE id = ?)`, coupleID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check couple: %w", err)
	}
	if !exists {
		return nil, notFound("couple", coupleID)
	}

	_, err := s.db.Exec(
		`INSERT INTO grocery_lists (couple_id, week_start) VALUES (?, ?)
		 ON CONFLICT (couple_id, week_start) DO NOTHING`,
		coupleID, weekStart.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT `+listCols+` FROM grocery_lists WHERE couple_id = ? AND week_start = ?`,
		coupleID, weekStart.String(),
	)
	l, err := scanList(row)
	if err != nil {
		return nil, fmt.Errorf("get list after insert: %w", err)
	}
	return l, nil
}

func (s *GroceryStore) ListsForCouple(coupleID int64) ([]model.GroceryList, error) {
	rows, err := s.db.Query(
		`SELECT `+listCols+` FROM grocery_lists WHERE couple_id = ? ORDER BY week_start DESC`,
		coupleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery lists: %w", err)
	}
	defer rows.Close()

	var lists []model.GroceryList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var completed int
	var completedBy sql.NullInt64
	var completedAt sql.NullTime

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.CategoryID, &item.Name, &item.Quantity,
		&completed, &item.AddedBy, &completedBy, &item.CreatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	item.IsCompleted = completed != 0
	if completedBy.Valid {
		item.CompletedBy = &completedBy.Int64
	}
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}
	return &item, nil
}

const itemCols = `id, list_id, category_id, name, quantity, is_completed, added_by, completed_by, created_at, completed_at`

func (s *GroceryStore) GetItemByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, notFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// AddItem inserts an item for the acting user. With an explicit listID the
// list is used as-is; without one, the user's couple is resolved and the
// current week's list is created on demand. A zero categoryID means the
// category is picked from the item name. List resolution and the item
// insert run in one transaction so a conflict on the week index cannot leave
// the item behind.
func (s *GroceryStore) AddItem(listID *int64, categoryID int64, name, quantity string, addedBy int64) (*model.GroceryItem, error) {
	var userExists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, addedBy).Scan(&userExists); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !userExists {
		return nil, notFound("user", addedBy)
	}

	if categoryID == 0 {
		suggested, err := s.SuggestCategory(name)
		if err != nil {
			return nil, err
		}
		categoryID = suggested.ID
	} else if _, err := s.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var targetList int64
	if listID != nil {
		err := tx.QueryRow(`SELECT id FROM grocery_lists WHERE id = ?`, *listID).Scan(&targetList)
		if err == sql.ErrNoRows {
			return nil, notFound("grocery list", *listID)
		}
		if err != nil {
			return nil, fmt.Errorf("check list: %w", err)
		}
	} else {
		targetList, err = s.resolveCurrentWeekList(tx, addedBy)
		if err != nil {
			return nil, err
		}
	}

	result, err := tx.Exec(
		`INSERT INTO grocery_items (list_id, category_id, name, quantity, added_by) VALUES (?, ?, ?, ?, ?)`,
		targetList, categoryID, name, quantity, addedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.GetItemByID(id)
}

// resolveCurrentWeekList finds the acting user's couple and returns the id of
// its list for the current week, inserting the list if it does not exist yet.
func (s *GroceryStore) resolveCurrentWeekList(tx *sql.Tx, userID int64) (int64, error) {
	var coupleID int64
	err := tx.QueryRow(
		`SELECT id FROM couples WHERE user1_id = ? OR user2_id = ? ORDER BY created_at ASC, id ASC LIMIT 1`,
		userID, userID,
	).Scan(&coupleID)
	if err == sql.ErrNoRows {
		return 0, &InvalidStateError{Msg: fmt.Sprintf("user %d does not belong to a couple", userID)}
	}
	if err != nil {
		return 0, fmt.Errorf("get couple for user: %w", err)
	}

	weekStart := model.DateOf(week.StartOf(time.Now())).String()
	if _, err := tx.Exec(
		`INSERT INTO grocery_lists (couple_id, week_start) VALUES (?, ?)
		 ON CONFLICT (couple_id, week_start) DO NOTHING`,
		coupleID, weekStart,
	); err != nil {
		return 0, fmt.Errorf("insert list: %w", err)
	}

	var listID int64
	err = tx.QueryRow(
		`SELECT id FROM grocery_lists WHERE couple_id = ? AND week_start = ?`,
		coupleID, weekStart,
	).Scan(&listID)
	if err != nil {
		return 0, fmt.Errorf("get list after insert: %w", err)
	}
	return listID, nil
}

// ToggleCompleted flips the item's completion flag. Completing records who
// and when; un-completing clears both, so re-opening is not attributed.
func (s *GroceryStore) ToggleCompleted(itemID, userID int64) (*model.GroceryItem, error) {
	item, err := s.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}

	if item.IsCompleted {
		_, err = s.db.Exec(
			`UPDATE grocery_items SET is_completed = 0, completed_by = NULL, completed_at = NULL WHERE id = ?`,
			itemID,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE grocery_items SET is_completed = 1, completed_by = ?, completed_at = ? WHERE id = ?`,
			userID, time.Now().UTC(), itemID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle completed: %w", err)
	}
	return s.GetItemByID(itemID)
}

// RemoveItem hard-deletes the item and reports whether a row was removed.
// Removing an absent item is not an error.
func (s *GroceryStore) RemoveItem(itemID int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, itemID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return count > 0, nil
}

// CurrentWeekItems returns the couple's items for the current week, each
// joined with its full category record. Lists whose week_start falls outside
// the current Monday–Sunday window are excluded.
func (s *GroceryStore) CurrentWeekItems(coupleID int64) ([]model.GroceryItemWithCategory, error) {
	start, end := week.Window(time.Now())

	rows, err := s.db.Query(
		`SELECT i.id, i.list_id, i.category_id, i.name, i.quantity, i.is_completed,
		        i.added_by, i.completed_by, i.created_at, i.completed_at,
		        c.id, c.name, c.sort_order, c.created_at
		 FROM grocery_items i
		 JOIN grocery_lists l ON i.list_id = l.id
		 JOIN grocery_categories c ON i.category_id = c.id
		 WHERE l.couple_id = ? AND l.week_start BETWEEN ? AND ?`,
		coupleID, model.DateOf(start).String(), model.DateOf(end).String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query current week items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItemWithCategory
	for rows.Next() {
		var it model.GroceryItemWithCategory
		var completed int
		var completedBy sql.NullInt64
		var completedAt sql.NullTime

		err := rows.Scan(
			&it.ID, &it.ListID, &it.CategoryID, &it.Name, &it.Quantity,
			&completed, &it.AddedBy, &completedBy, &it.CreatedAt, &completedAt,
			&it.Category.ID, &it.Category.Name, &it.Category.SortOrder, &it.Category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan current week item: %w", err)
		}

		it.IsCompleted = completed != 0
		if completedBy.Valid {
			it.CompletedBy = &completedBy.Int64
		}
		if completedAt.Valid {
			it.CompletedAt = &completedAt.Time
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
