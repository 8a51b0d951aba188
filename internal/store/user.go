package store

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mwhitlock/tandem/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.HasPIN, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, name, email, pin IS NOT NULL, created_at`

func (s *UserStore) Create(name, email string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// SetPIN hashes and stores the user's PIN.
func (s *UserStore) SetPIN(id int64, pin string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE users SET pin = ? WHERE id = ?`, string(hash), id); err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

// VerifyPIN checks a PIN against the stored hash. A user with no PIN set
// verifies as false, not as an error.
func (s *UserStore) VerifyPIN(id int64, pin string) (bool, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM users WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return false, notFound("user", id)
	}
	if err != nil {
		return false, fmt.Errorf("get pin: %w", err)
	}
	if !hash.Valid {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash.String), []byte(pin)) == nil, nil
}
