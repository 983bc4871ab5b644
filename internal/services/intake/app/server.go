// Package app composes the intake process: the browser HTTP surface and the
// gRPC health service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/carepulse/internal/platform/logging"
	"github.com/louisbranch/carepulse/internal/platform/timeouts"
	"github.com/louisbranch/carepulse/internal/services/intake/form"
	"github.com/louisbranch/carepulse/internal/services/intake/intakegrant"
	"github.com/louisbranch/carepulse/internal/services/intake/module"
	"github.com/louisbranch/carepulse/internal/services/intake/modules/patients"
	"github.com/louisbranch/carepulse/internal/services/intake/platform/httpx"
	"github.com/louisbranch/carepulse/internal/services/intake/platform/requestmeta"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
	"github.com/louisbranch/carepulse/internal/services/intake/static"
	"github.com/louisbranch/carepulse/internal/services/intake/storage/sqlite"
	"github.com/louisbranch/carepulse/internal/services/intake/users"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the gRPC health service name reported by intake.
const HealthService = "carepulse.intake"

const (
	storePingTimeout      = time.Second
	healthRefreshInterval = 5 * time.Second
)

// Config holds the composition inputs for one intake process.
type Config struct {
	HTTPAddr            string
	GRPCAddr            string
	UsersURL            string
	DBPath              string
	CreateUserTimeout   time.Duration
	GrantKey            []byte
	GrantTTL            time.Duration
	PhoneRegion         string
	TrustForwardedProto bool
}

// Server hosts the intake HTTP and gRPC listeners.
type Server struct {
	logger       *zap.Logger
	httpListener net.Listener
	grpcListener net.Listener
	httpServer   *http.Server
	grpcServer   *grpc.Server
	health       *health.Server
	probe        readiness
	store        *sqlite.Store
}

// New builds an intake server bound to cfg's addresses.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger = logging.OrNop(logger)
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	grpcAddr := strings.TrimSpace(cfg.GRPCAddr)
	if grpcAddr == "" {
		return nil, errors.New("grpc address is required")
	}

	gateway, store, err := openGateway(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}

	schema, err := form.NewSchema(cfg.PhoneRegion)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("build patient schema: %w", err)
	}
	grants, err := intakegrant.New(intakegrant.Config{Key: cfg.GrantKey, TTL: cfg.GrantTTL})
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("build intake grants: %w", err)
	}
	if len(cfg.GrantKey) == 0 {
		logger.Warn("intake grant key not configured; using a per-process key")
	}

	modules := []module.Module{
		patients.New(
			patients.WithGateway(gateway),
			patients.WithSchema(schema),
			patients.WithGrants(grants),
			patients.WithLogger(logger),
			patients.WithSchemePolicy(requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}),
			patients.WithCreateUserTimeout(cfg.CreateUserTimeout),
		),
	}

	healthServer := health.NewServer()
	probe := readiness{modules: modules, store: store}
	handler, err := buildHandler(modules, probe, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("listen on %s: %w", httpAddr, err)
	}
	grpcListener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpListener.Close()
		cleanup()
		return nil, fmt.Errorf("listen on %s: %w", grpcAddr, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	server := &Server{
		logger:       logger,
		httpListener: httpListener,
		grpcListener: grpcListener,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		probe:      probe,
		store:      store,
	}
	server.refreshHealth(ctx)
	return server, nil
}

// HTTPAddr returns the bound HTTP address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound gRPC address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Serve runs both listeners until ctx is canceled or one of them fails.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("intake server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	s.logger.Info("intake listening",
		zap.String("http_addr", s.HTTPAddr()),
		zap.String("grpc_addr", s.GRPCAddr()),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		s.watchHealth(groupCtx)
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		s.grpcServer.GracefulStop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// refreshHealth publishes the current readiness to the gRPC health service
// and returns the published status.
func (s *Server) refreshHealth(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if s.probe.ready(ctx) {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(HealthService, status)
	return status
}

// watchHealth re-evaluates readiness until ctx ends so the gRPC status
// follows /healthz.
func (s *Server) watchHealth(ctx context.Context) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	last := s.refreshHealth(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := s.refreshHealth(ctx)
			if status != last {
				s.logger.Warn("intake health changed", zap.Stringer("status", status))
				last = status
			}
		}
	}
}

// Close releases listeners and storage without serving.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	s.closeStore()
}

func (s *Server) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close user store", zap.Error(err))
	}
	s.store = nil
}

// openGateway returns the remote gateway when a users URL is configured and
// the SQLite directory otherwise.
func openGateway(ctx context.Context, cfg Config, logger *zap.Logger) (users.Gateway, *sqlite.Store, error) {
	if url := strings.TrimSpace(cfg.UsersURL); url != "" {
		gateway, err := users.NewHTTPGateway(users.HTTPConfig{BaseURL: url})
		if err != nil {
			return nil, nil, fmt.Errorf("build users gateway: %w", err)
		}
		logger.Info("using remote users service", zap.String("users_url", url))
		return gateway, nil, nil
	}

	store, err := openUserStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using local user directory", zap.String("db_path", cfg.DBPath))
	return users.NewDirectory(store), store, nil
}

func openUserStore(ctx context.Context, path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("user directory path is required when no users url is set")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open user store: %w", err)
	}
	return store, nil
}

func buildHandler(modules []module.Module, probe readiness, logger *zap.Logger) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.Handle("GET "+routepath.Health, probe)
	mux.Handle(routepath.StaticPrefix, static.Handler(routepath.StaticPrefix))
	for _, m := range modules {
		mount, err := m.Mount()
		if err != nil {
			return nil, fmt.Errorf("mount module %s: %w", m.ID(), err)
		}
		if mount.Handler == nil {
			return nil, fmt.Errorf("mount module %s: handler is nil", m.ID())
		}
		mux.Handle(mount.Prefix, mount.Handler)
	}

	handler := httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(logger),
		httpx.AccessLog(logger),
	)
	return otelhttp.NewHandler(handler, "intake"), nil
}

type healthResponse struct {
	Status string `json:"status"`
}

// readiness reports whether every module has its gateway and the local store
// answers.
type readiness struct {
	modules []module.Module
	store   *sqlite.Store
}

func (p readiness) ready(ctx context.Context) bool {
	for _, m := range p.modules {
		if reporter, ok := m.(module.HealthReporter); ok && !reporter.Healthy() {
			return false
		}
	}
	if p.store != nil {
		pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
		defer cancel()
		if err := p.store.Ping(pingCtx); err != nil {
			return false
		}
	}
	return true
}

func (p readiness) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p.ready(r.Context()) {
		_ = httpx.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
}
