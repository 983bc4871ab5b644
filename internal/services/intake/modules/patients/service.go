package patients

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/carepulse/internal/services/intake/form"
	apperrors "github.com/louisbranch/carepulse/internal/services/intake/platform/errors"
	"github.com/louisbranch/carepulse/internal/services/intake/users"
	"golang.org/x/text/message"
)

type service struct {
	gateway users.Gateway
	schema  *form.Schema
	timeout time.Duration
}

func newService(gateway users.Gateway, schema *form.Schema, timeout time.Duration) service {
	return service{gateway: gateway, schema: schema, timeout: timeout}
}

// bind normalizes submitted values and attaches any validation messages.
func (s service) bind(p *message.Printer, values form.PatientValues) *form.Binding {
	values = s.schema.Normalize(values)
	binding := form.NewBinding(values)
	binding.SetErrors(s.schema.Validate(p, values))
	return binding
}

// createPatient calls the create-user action once with the bound values.
func (s service) createPatient(ctx context.Context, values form.PatientValues) (users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	user, err := s.gateway.CreateUser(ctx, users.CreateUserInput{
		Name:  values.Name,
		Email: values.Email,
		Phone: values.Phone,
	})
	if err != nil {
		return users.User{}, err
	}
	if strings.TrimSpace(user.ID) == "" {
		return users.User{}, apperrors.E(apperrors.KindUnknown, "created user has no id")
	}
	return user, nil
}

func (s service) loadPatient(ctx context.Context, patientID string) (users.User, error) {
	return s.gateway.GetUser(ctx, patientID)
}
