package store

import (
	"database/sql"
	"fmt"

	"github.com/mwhitlock/tandem/internal/model"
)

type CoupleStore struct {
	db *sql.DB
}

func NewCoupleStore(db *sql.DB) *CoupleStore {
	return &CoupleStore{db: db}
}

func scanCouple(scanner interface{ Scan(...any) error }) (*model.Couple, error) {
	var c model.Couple
	err := scanner.Scan(&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const coupleCols = `id, user1_id, user2_id, created_at`

// Create inserts a couple after verifying both user ids resolve.
func (s *CoupleStore) Create(user1ID, user2ID int64) (*model.Couple, error) {
	for _, userID := range []int64{user1ID, user2ID} {
		var exists bool
		err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check user %d: %w", userID, err)
		}
		if !exists {
			return nil, notFound("user", userID)
		}
	}

	result, err := s.db.Exec(
		`INSERT INTO couples (user1_id, user2_id) VALUES (?, ?)`,
		user1ID, user2ID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert couple: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CoupleStore) GetByID(id int64) (*model.Couple, error) {
	row := s.db.QueryRow(`SELECT `+coupleCols+` FROM couples WHERE id = ?`, id)
	c, err := scanCouple(row)
	if err == sql.ErrNoRows {
		return nil, notFound("couple", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get couple: %w", err)
	}
	return c, nil
}

// GetForUser returns the couple the user belongs to, checking both member
// columns. When a user somehow belongs to several couples the earliest
// created wins; the ordering makes the choice deterministic.
func (s *CoupleStore) GetForUser(userID int64) (*model.Couple, error) {
	row := s.db.QueryRow(
		`SELECT `+coupleCols+` FROM couples
		 WHERE user1_id = ? OR user2_id = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT 1`,
		userID, userID,
	)
	c, err := scanCouple(row)
	if err == sql.ErrNoRows {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("user %d does not belong to a couple", userID)}
	}
	if err != nil {
		return nil, fmt.Errorf("get couple for user: %w", err)
	}
	return c, nil
}
