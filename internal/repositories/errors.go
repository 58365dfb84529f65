package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every lookup that finds no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped when a unique constraint rejects a write.
	ErrDuplicate = errors.New("already exists")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
