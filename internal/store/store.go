// Package store provides hand-written SQL access to the reservation schema.
// All methods work against a DBTX so they can run on a bare connection or
// inside a transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrUserOverlap is returned when the insert guard rejects a reservation
	// because the member already holds an overlapping booking.
	ErrUserOverlap = errors.New("store: member has overlapping reservation")
	// ErrCourtTaken is returned when the insert guard rejects a reservation
	// because the requested court is booked for an overlapping window.
	ErrCourtTaken = errors.New("store: court already reserved")
)

type Store struct {
	db DBTX
}

func New(db DBTX) *Store {
	return &Store{db: db}
}
