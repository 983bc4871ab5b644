// Package intake parses intake command configuration and launches the service.
package intake

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/carepulse/internal/platform/cmd"
	"github.com/louisbranch/carepulse/internal/platform/config"
	platformgrpc "github.com/louisbranch/carepulse/internal/platform/grpc"
	"github.com/louisbranch/carepulse/internal/platform/logging"
	"github.com/louisbranch/carepulse/internal/services/intake/app"
	"github.com/louisbranch/carepulse/internal/services/intake/intakegrant"
	"go.uber.org/zap"
)

const healthcheckTimeout = 5 * time.Second

// Config holds intake command configuration.
type Config struct {
	HTTPAddr            string        `env:"CAREPULSE_INTAKE_HTTP_ADDR" envDefault:"localhost:8095"`
	GRPCAddr            string        `env:"CAREPULSE_INTAKE_GRPC_ADDR" envDefault:"localhost:8096"`
	UsersURL            string        `env:"CAREPULSE_INTAKE_USERS_URL"`
	DBPath              string        `env:"CAREPULSE_INTAKE_DB_PATH" envDefault:"data/intake.db"`
	CreateUserTimeout   time.Duration `env:"CAREPULSE_INTAKE_CREATE_USER_TIMEOUT" envDefault:"10s"`
	GrantKey            string        `env:"CAREPULSE_INTAKE_GRANT_KEY"`
	GrantTTL            time.Duration `env:"CAREPULSE_INTAKE_GRANT_TTL" envDefault:"30m"`
	PhoneRegion         string        `env:"CAREPULSE_INTAKE_PHONE_REGION" envDefault:"CO"`
	TrustForwardedProto bool          `env:"CAREPULSE_INTAKE_TRUST_FORWARDED_PROTO"`
	LogLevel            string        `env:"CAREPULSE_LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"CAREPULSE_LOG_FORMAT" envDefault:"json"`

	// Healthcheck probes a running instance's gRPC health service and exits.
	Healthcheck bool
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses environment and flags into Config. A nil lookup reads
// the process environment.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithLookup(&cfg, lookup); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address")
	fs.StringVar(&cfg.UsersURL, "users-url", cfg.UsersURL, "remote users service base URL; empty uses the local directory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "local user directory SQLite path")
	fs.BoolVar(&cfg.Healthcheck, "healthcheck", false, "probe the gRPC health service at -grpc-addr and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the intake service, or probes a running one when
// cfg.Healthcheck is set.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: entrypoint.ServiceIntake,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Healthcheck {
		return probe(ctx, cfg.GRPCAddr, logger)
	}

	appCfg, err := cfg.appConfig()
	if err != nil {
		return err
	}
	options := entrypoint.RunOptions{Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceIntake, options, func(ctx context.Context) error {
		server, err := app.New(ctx, appCfg, logger)
		if err != nil {
			return fmt.Errorf("init intake server: %w", err)
		}
		if err := server.Serve(ctx); err != nil {
			return fmt.Errorf("serve intake: %w", err)
		}
		return nil
	})
}

func (cfg Config) appConfig() (app.Config, error) {
	var key []byte
	if raw := strings.TrimSpace(cfg.GrantKey); raw != "" {
		decoded, err := intakegrant.DecodeKey(raw)
		if err != nil {
			return app.Config{}, fmt.Errorf("CAREPULSE_INTAKE_GRANT_KEY: %w", err)
		}
		key = decoded
	}
	return app.Config{
		HTTPAddr:            cfg.HTTPAddr,
		GRPCAddr:            cfg.GRPCAddr,
		UsersURL:            cfg.UsersURL,
		DBPath:              cfg.DBPath,
		CreateUserTimeout:   cfg.CreateUserTimeout,
		GrantKey:            key,
		GrantTTL:            cfg.GrantTTL,
		PhoneRegion:         cfg.PhoneRegion,
		TrustForwardedProto: cfg.TrustForwardedProto,
	}, nil
}

func probe(ctx context.Context, addr string, logger *zap.Logger) error {
	probeCtx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()
	if err := platformgrpc.ProbeHealth(probeCtx, addr, app.HealthService, logger); err != nil {
		return fmt.Errorf("healthcheck %s: %w", addr, err)
	}
	logger.Info("intake is serving", zap.String("grpc_addr", addr))
	return nil
}
