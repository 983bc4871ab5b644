// Package intakegrant issues and verifies the short-lived token that lets a
// browser view the registration page of the patient it just created.
package intakegrant

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/carepulse/internal/platform/id"
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
)

const (
	// CookieName carries the grant between submission and registration.
	CookieName = "cp_intake_grant"
	// DefaultTTL bounds how long a grant stays valid.
	DefaultTTL = 30 * time.Minute

	issuer  = "carepulse-intake"
	keySize = 32
)

var (
	// ErrMissing indicates the request carried no grant.
	ErrMissing = errors.New("intake grant is missing")
	// ErrInvalid indicates a malformed or forged grant.
	ErrInvalid = errors.New("intake grant is invalid")
	// ErrExpired indicates the grant is past its expiry.
	ErrExpired = errors.New("intake grant is expired")
	// ErrMismatch indicates the grant names a different patient.
	ErrMismatch = errors.New("intake grant does not match patient")
)

// Config configures grant signing.
type Config struct {
	// Key is the HS256 secret. A random key is generated when empty.
	Key []byte
	TTL time.Duration
	Now func() time.Time
}

// Grants signs and verifies intake grants.
type Grants struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// New builds a signer from cfg.
func New(cfg Config) (*Grants, error) {
	key := cfg.Key
	if len(key) == 0 {
		key = make([]byte, keySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate intake grant key: %w", err)
		}
	}
	if len(key) < keySize {
		return nil, fmt.Errorf("intake grant key must be at least %d bytes", keySize)
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		return nil, fmt.Errorf("intake grant ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Grants{key: key, ttl: ttl, now: now}, nil
}

// DecodeKey decodes a base64 key, padded or not.
func DecodeKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode intake grant key: %w", err)
	}
	return decoded, nil
}

// Issue returns a signed grant for patientID and its expiry.
func (g *Grants) Issue(patientID string) (string, time.Time, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return "", time.Time{}, fmt.Errorf("patient id is required")
	}
	jti, err := id.NewID()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("intake grant id: %w", err)
	}
	now := g.now().UTC()
	expiresAt := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   patientID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign intake grant: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks token and that it was issued for patientID.
func (g *Grants) Verify(token, patientID string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissing
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return g.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return mapJWTError(err)
	}
	if claims.Subject == "" || claims.Subject != strings.TrimSpace(patientID) {
		return ErrMismatch
	}
	return nil
}

// SetCookie issues a grant for patientID and stores it on w.
func (g *Grants) SetCookie(w http.ResponseWriter, patientID string, secure bool) error {
	token, expiresAt, err := g.Issue(patientID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     routepath.PatientPrefix,
		Expires:  expiresAt,
		MaxAge:   int(g.ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// VerifyRequest verifies the grant cookie on r against patientID.
func (g *Grants) VerifyRequest(r *http.Request, patientID string) error {
	if r == nil {
		return ErrMissing
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ErrMissing
	}
	return g.Verify(cookie.Value, patientID)
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
}
