// Package patients serves the patient intake form and the registration
// landing it redirects to.
package patients

import (
	"fmt"
	"net/http"
	"time"

	"github.com/louisbranch/carepulse/internal/platform/logging"
	"github.com/louisbranch/carepulse/internal/platform/timeouts"
	"github.com/louisbranch/carepulse/internal/services/intake/form"
	"github.com/louisbranch/carepulse/internal/services/intake/intakegrant"
	"github.com/louisbranch/carepulse/internal/services/intake/module"
	"github.com/louisbranch/carepulse/internal/services/intake/platform/requestmeta"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
	"github.com/louisbranch/carepulse/internal/services/intake/users"
	"go.uber.org/zap"
)

// Option configures a patients module.
type Option func(*Module)

// WithGateway sets the create-user gateway.
func WithGateway(g users.Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithSchema sets the patient schema.
func WithSchema(s *form.Schema) Option {
	return func(m *Module) { m.schema = s }
}

// WithGrants sets the intake grant signer.
func WithGrants(g *intakegrant.Grants) Option {
	return func(m *Module) { m.grants = g }
}

// WithLogger sets the module logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Module) { m.logger = l }
}

// WithSchemePolicy sets the request scheme policy for cookies and origin
// checks.
func WithSchemePolicy(p requestmeta.SchemePolicy) Option {
	return func(m *Module) { m.policy = p }
}

// WithCreateUserTimeout bounds one create-user call.
func WithCreateUserTimeout(d time.Duration) Option {
	return func(m *Module) { m.createUserTimeout = d }
}

// Module provides the intake form routes.
type Module struct {
	gateway           users.Gateway
	schema            *form.Schema
	grants            *intakegrant.Grants
	logger            *zap.Logger
	policy            requestmeta.SchemePolicy
	createUserTimeout time.Duration
}

// New returns a patients module configured by the given options.
// Without a gateway the module starts in degraded mode.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "patients" }

// Healthy reports whether the module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires patient route handlers.
func (m Module) Mount() (module.Mount, error) {
	gateway := m.gateway
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	schema := m.schema
	if schema == nil {
		var err error
		schema, err = form.NewSchema(form.DefaultRegion)
		if err != nil {
			return module.Mount{}, fmt.Errorf("patients schema: %w", err)
		}
	}
	grants := m.grants
	if grants == nil {
		var err error
		grants, err = intakegrant.New(intakegrant.Config{})
		if err != nil {
			return module.Mount{}, fmt.Errorf("patients grants: %w", err)
		}
	}
	logger := m.logger
	logger = logging.OrNop(logger)
	timeout := m.createUserTimeout
	if timeout <= 0 {
		timeout = timeouts.CreateUser
	}

	mux := http.NewServeMux()
	svc := newService(gateway, schema, timeout)
	h := newHandlers(svc, grants, logger.Named(m.ID()), m.policy)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
