package store

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports that a referenced entity does not exist. The message
// deliberately includes the entity name and id; callers assert on it.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidStateError reports an operation that is valid in shape but not in
// the current state of the data, e.g. adding an item for a user who belongs
// to no couple.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string {
	return e.Msg
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// ErrUniqueViolation marks a duplicate-key failure raised outside SQLite,
// e.g. by the in-memory client backend.
var ErrUniqueViolation = errors.New("unique constraint violated")

// IsUniqueViolation reports whether err is a unique-constraint failure
// (e.g. a duplicate user email). The SQLite driver exposes no typed error
// for this, so the check also matches the constraint message.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, ErrUniqueViolation) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
