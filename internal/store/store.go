// Package store is the persistence adapter. It owns every gorm query in the
// repo and translates storage failures into the apperr taxonomy so the
// layers above never see gorm errors.
package store

import (
	"errors"

	"workflow-board-api/internal/apperr"

	"gorm.io/gorm"
)

// Store wraps a gorm handle. A Store produced by WithTx shares one
// transaction across all of its calls.
type Store struct {
	db *gorm.DB
}

// New constructs a Store over an opened database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and test seeding.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn inside a single transaction. If fn returns an error the
// transaction rolls back; state mutations and their audit writes share one
// commit.
func (s *Store) WithTx(fn func(tx *Store) error) error {
	err := s.db.Transaction(func(txdb *gorm.DB) error {
		return fn(&Store{db: txdb})
	})
	if err == nil {
		return nil
	}
	if _, ok := apperr.AsError(err); ok {
		return err
	}
	return apperr.Unavailable(err, "storage transaction failed")
}

// translate maps a gorm error to the taxonomy. The notFound message is used
// when the record is simply absent.
func translate(err error, notFoundFormat string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFoundFormat, args...)
	}
	return apperr.Unavailable(err, "storage failure")
}
