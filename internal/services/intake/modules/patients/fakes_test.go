package patients

import (
	"context"
	"sync"

	"github.com/louisbranch/carepulse/internal/services/intake/users"
)

type fakeGateway struct {
	mu        sync.Mutex
	created   []users.CreateUserInput
	createErr error
	createID  string
	users     map[string]users.User
	getErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{createID: "patient-1", users: map[string]users.User{}}
}

func (g *fakeGateway) CreateUser(_ context.Context, input users.CreateUserInput) (users.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, input)
	if g.createErr != nil {
		return users.User{}, g.createErr
	}
	user := users.User{ID: g.createID, Name: input.Name, Email: input.Email, Phone: input.Phone}
	g.users[user.ID] = user
	return user, nil
}

func (g *fakeGateway) GetUser(_ context.Context, userID string) (users.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return users.User{}, g.getErr
	}
	user, ok := g.users[userID]
	if !ok {
		return users.User{}, errNotFound
	}
	return user, nil
}

func (g *fakeGateway) calls() []users.CreateUserInput {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]users.CreateUserInput(nil), g.created...)
}
