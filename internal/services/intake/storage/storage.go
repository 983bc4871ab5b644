// Package storage defines persistence contracts for the local patient
// directory that stands in for the remote create-user action.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested user record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a user with the same email already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// User stores one patient user record.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// UserStore persists patient user records.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
}
