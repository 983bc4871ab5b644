package patients

import (
	"context"

	apperrors "github.com/louisbranch/carepulse/internal/services/intake/platform/errors"
	"github.com/louisbranch/carepulse/internal/services/intake/users"
)

type unavailableGateway struct{}

func (unavailableGateway) CreateUser(context.Context, users.CreateUserInput) (users.User, error) {
	return users.User{}, apperrors.E(apperrors.KindUnavailable, "create-user gateway is not configured")
}

func (unavailableGateway) GetUser(context.Context, string) (users.User, error) {
	return users.User{}, apperrors.E(apperrors.KindUnavailable, "create-user gateway is not configured")
}
