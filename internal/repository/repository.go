package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by all repositories when a requested row does not
// exist. Services translate it into their own domain errors.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
