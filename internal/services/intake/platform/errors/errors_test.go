package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "invalid input", err: E(KindInvalidInput, "bad"), want: http.StatusBadRequest},
		{name: "conflict", err: E(KindConflict, "dup"), want: http.StatusConflict},
		{name: "unavailable", err: E(KindUnavailable, "down"), want: http.StatusServiceUnavailable},
		{name: "not found", err: E(KindNotFound, "missing"), want: http.StatusNotFound},
		{name: "unknown", err: E(KindUnknown, "?"), want: http.StatusInternalServerError},
		{name: "untyped", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "wrapped", err: fmt.Errorf("create: %w", E(KindConflict, "dup")), want: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	if got := (Error{Kind: KindNotFound}).Error(); got != string(KindNotFound) {
		t.Fatalf("Error() = %q, want %q", got, KindNotFound)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: refused")
	err := Wrap(KindUnavailable, "create user", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to match")
	}
	if got := err.Error(); got != "create user: dial tcp: refused" {
		t.Fatalf("Error() = %q", got)
	}
	if KindOf(err) != KindUnavailable {
		t.Fatalf("KindOf() = %q", KindOf(err))
	}
}

func TestLocalizationKey(t *testing.T) {
	t.Parallel()

	if got := LocalizationKey(EK(KindInvalidInput, " intake.validation.name_min ", "short")); got != "intake.validation.name_min" {
		t.Fatalf("LocalizationKey() = %q", got)
	}
	if got := LocalizationKey(errors.New("plain")); got != "" {
		t.Fatalf("LocalizationKey(plain) = %q, want empty", got)
	}
}

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	tests := map[int]Kind{
		http.StatusBadRequest:          KindInvalidInput,
		http.StatusUnprocessableEntity: KindInvalidInput,
		http.StatusConflict:            KindConflict,
		http.StatusNotFound:            KindNotFound,
		http.StatusTooManyRequests:     KindUnavailable,
		http.StatusBadGateway:          KindUnavailable,
		http.StatusTeapot:              KindUnknown,
	}
	for code, want := range tests {
		if got := KindForStatus(code); got != want {
			t.Fatalf("KindForStatus(%d) = %q, want %q", code, got, want)
		}
	}
}
