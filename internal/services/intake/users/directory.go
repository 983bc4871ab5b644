package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/carepulse/internal/platform/id"
	apperrors "github.com/louisbranch/carepulse/internal/services/intake/platform/errors"
	"github.com/louisbranch/carepulse/internal/services/intake/storage"
)

// Directory creates users in a local store.
type Directory struct {
	store storage.UserStore
	now   func() time.Time
	newID func() (string, error)
}

// NewDirectory returns a gateway backed by store.
func NewDirectory(store storage.UserStore) *Directory {
	return &Directory{store: store, now: time.Now, newID: id.NewID}
}

// CreateUser assigns an id and persists the user.
func (d *Directory) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	if d == nil || d.store == nil {
		return User{}, apperrors.E(apperrors.KindUnavailable, "user directory is not configured")
	}
	userID, err := d.newID()
	if err != nil {
		return User{}, fmt.Errorf("new user id: %w", err)
	}
	record := storage.User{
		ID:        userID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: d.now().UTC(),
	}
	if err := d.store.CreateUser(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return User{}, apperrors.Wrap(apperrors.KindConflict, "user already exists", err)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return fromRecord(record), nil
}

// GetUser reads a user by id.
func (d *Directory) GetUser(ctx context.Context, userID string) (User, error) {
	if d == nil || d.store == nil {
		return User{}, apperrors.E(apperrors.KindUnavailable, "user directory is not configured")
	}
	if !id.Valid(userID) {
		return User{}, apperrors.EK(apperrors.KindNotFound, NotFoundKey, "user not found")
	}
	record, err := d.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, apperrors.Error{Kind: apperrors.KindNotFound, Key: NotFoundKey, Message: "user not found", Cause: err}
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return fromRecord(record), nil
}

func fromRecord(record storage.User) User {
	return User{
		ID:        record.ID,
		Name:      record.Name,
		Email:     record.Email,
		Phone:     record.Phone,
		CreatedAt: record.CreatedAt,
	}
}

var _ Gateway = (*Directory)(nil)
