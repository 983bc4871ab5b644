// Package users calls the create-user action and reads back the created
// patient. Two gateways share one contract: a remote HTTP service and a local
// SQLite directory used when no remote service is configured.
package users

import (
	"context"
	"time"
)

// NotFoundKey localizes a missing patient record.
const NotFoundKey = "errors.patient_not_found"

// User is a patient account returned by the create-user action.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// CreateUserInput is the payload sent to the create-user action.
type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Gateway creates and reads patient users.
type Gateway interface {
	CreateUser(ctx context.Context, input CreateUserInput) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
}
