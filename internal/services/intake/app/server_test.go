package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	platformgrpc "github.com/louisbranch/carepulse/internal/platform/grpc"
	"github.com/louisbranch/carepulse/internal/services/intake/module"
	"go.uber.org/goleak"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServerServesHTTPAndGRPCHealth(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	server, err := New(ctx, Config{
		HTTPAddr: "127.0.0.1:0",
		GRPCAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "data", "intake.db"),
	}, nil)
	if err != nil {
		cancel()
		t.Fatalf("new server: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	client := &http.Client{Timeout: 2 * time.Second}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + server.HTTPAddr() + "/healthz")
	if err != nil {
		cancel()
		t.Fatalf("get healthz: %v", err)
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || health.Status != "ok" {
		t.Fatalf("healthz = %d %+v, want 200 ok", resp.StatusCode, health)
	}

	resp, err = client.Get("http://" + server.HTTPAddr() + "/")
	if err != nil {
		cancel()
		t.Fatalf("get form: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("form status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `name="phone"`) {
		t.Fatalf("form body missing phone field: %s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	probeCtx, probeCancel := context.WithTimeout(ctx, 2*time.Second)
	err = platformgrpc.ProbeHealth(probeCtx, server.GRPCAddr(), HealthService, nil)
	probeCancel()
	if err != nil {
		cancel()
		t.Fatalf("grpc health: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	client.CloseIdleConnections()
}

func TestRefreshHealthFollowsStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	server, err := New(ctx, Config{
		HTTPAddr: "127.0.0.1:0",
		GRPCAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "intake.db"),
	}, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()

	check := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := server.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: HealthService})
		if err != nil {
			t.Fatalf("health check: %v", err)
		}
		return resp.GetStatus()
	}
	if got := check(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("initial status = %v, want SERVING", got)
	}

	if err := server.store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	if got := server.refreshHealth(ctx); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("refreshed status = %v, want NOT_SERVING", got)
	}
	if got := check(); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("published status = %v, want NOT_SERVING", got)
	}
}

func TestNewRequiresAddresses(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{GRPCAddr: "127.0.0.1:0"}, nil); err == nil {
		t.Fatal("expected http address error")
	}
	if _, err := New(context.Background(), Config{HTTPAddr: "127.0.0.1:0"}, nil); err == nil {
		t.Fatal("expected grpc address error")
	}
}

func TestNewRejectsBadUsersURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{
		HTTPAddr: "127.0.0.1:0",
		GRPCAddr: "127.0.0.1:0",
		UsersURL: "ftp://users.local",
	}, nil)
	if err == nil {
		t.Fatal("expected users url error")
	}
}

func TestNewRejectsUnknownPhoneRegion(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{
		HTTPAddr:    "127.0.0.1:0",
		GRPCAddr:    "127.0.0.1:0",
		UsersURL:    "http://users.local",
		PhoneRegion: "ZZ",
	}, nil)
	if err == nil {
		t.Fatal("expected phone region error")
	}
}

func TestServerAddrsOnNil(t *testing.T) {
	t.Parallel()

	var server *Server
	if server.HTTPAddr() != "" || server.GRPCAddr() != "" {
		t.Fatal("expected empty addresses for nil server")
	}
	server.Close()
}

type stubModule struct {
	healthy bool
}

func (stubModule) ID() string { return "stub" }

func (stubModule) Mount() (module.Mount, error) {
	return module.Mount{Prefix: "/", Handler: http.NotFoundHandler()}, nil
}

func (m stubModule) Healthy() bool { return m.healthy }

func TestReadinessReportsDegradedModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		modules    []module.Module
		wantStatus int
		want       healthResponse
	}{
		{
			name:       "healthy",
			modules:    []module.Module{stubModule{healthy: true}},
			wantStatus: http.StatusOK,
			want:       healthResponse{Status: "ok"},
		},
		{
			name:       "degraded",
			modules:    []module.Module{stubModule{healthy: true}, stubModule{}},
			wantStatus: http.StatusServiceUnavailable,
			want:       healthResponse{Status: "degraded"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			readiness{modules: tc.modules}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var got healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("health mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
