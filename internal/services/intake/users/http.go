package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/louisbranch/carepulse/internal/services/intake/platform/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const errorBodyLimit = 4096

// HTTPConfig configures the remote create-user service.
type HTTPConfig struct {
	BaseURL    string
	HTTPClient *http.Client
}

// HTTPGateway calls a remote users service over JSON/HTTP.
type HTTPGateway struct {
	baseURL *url.URL
	client  *http.Client
}

// NewHTTPGateway builds a gateway for cfg.BaseURL. A nil HTTPClient gets a
// traced default client.
func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("users base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse users base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("users base url must be http or https: %q", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("users base url host is required: %q", raw)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &HTTPGateway{baseURL: base, client: client}, nil
}

// CreateUser posts input to {base}/users and returns the created user.
func (g *HTTPGateway) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return User{}, fmt.Errorf("marshal create user request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint("users"), bytes.NewReader(body))
	if err != nil {
		return User{}, fmt.Errorf("build create user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	user, err := g.do(req, "create user")
	if err != nil {
		return User{}, err
	}
	if strings.TrimSpace(user.ID) == "" {
		return User{}, apperrors.E(apperrors.KindUnknown, "create user response missing id")
	}
	return user, nil
}

// GetUser fetches {base}/users/{id}.
func (g *HTTPGateway) GetUser(ctx context.Context, userID string) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, apperrors.E(apperrors.KindInvalidInput, "user id is required")
	}
	if !validPathSegment(userID) {
		return User{}, apperrors.E(apperrors.KindInvalidInput, "user id is malformed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("users", userID), nil)
	if err != nil {
		return User{}, fmt.Errorf("build get user request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return g.do(req, "get user")
}

// validPathSegment rejects ids that would leave {base}/users/ once joined.
func validPathSegment(value string) bool {
	if value == "." || value == ".." || strings.Contains(value, "..") {
		return false
	}
	return !strings.ContainsAny(value, "/\\?#")
}

func (g *HTTPGateway) endpoint(segments ...string) string {
	return g.baseURL.JoinPath(segments...).String()
}

func (g *HTTPGateway) do(req *http.Request, op string) (User, error) {
	res, err := g.client.Do(req)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.KindUnavailable, op+" request failed", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail, readErr := io.ReadAll(io.LimitReader(res.Body, errorBodyLimit))
		if readErr != nil {
			return User{}, fmt.Errorf("read %s error body: %w", op, readErr)
		}
		kind := apperrors.KindForStatus(res.StatusCode)
		appErr := apperrors.Error{
			Kind:    kind,
			Message: fmt.Sprintf("%s status %d", op, res.StatusCode),
			Cause:   errors.New(strings.TrimSpace(string(detail))),
		}
		if kind == apperrors.KindNotFound {
			appErr.Key = NotFoundKey
		}
		return User{}, appErr
	}

	var user User
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode %s response: %w", op, err)
	}
	return user, nil
}

var _ Gateway = (*HTTPGateway)(nil)
