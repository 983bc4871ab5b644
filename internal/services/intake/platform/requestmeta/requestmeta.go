// Package requestmeta resolves request scheme and origin for cookie and
// form-post decisions.
package requestmeta

import (
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls whether proxy headers participate in scheme
// resolution. X-Forwarded-Proto is ignored unless TrustForwardedProto is set.
type SchemePolicy struct {
	TrustForwardedProto bool
}

// IsHTTPS reports whether r should be treated as an HTTPS request.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return scheme(r, policy) == "https"
}

// SameOrigin reports whether the Origin header, or Referer when Origin is
// absent, names the host r was sent to. A request carrying neither header
// is allowed; only a mismatching claim is rejected.
func SameOrigin(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	claimed := strings.TrimSpace(r.Header.Get("Origin"))
	if claimed == "" {
		claimed = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if claimed == "" {
		return true
	}
	parsed, err := url.Parse(claimed)
	if err != nil {
		return false
	}

	reqScheme := scheme(r, policy)
	reqHost, reqPort := hostPort(r.Host)
	if reqHost == "" {
		return false
	}
	gotScheme := strings.ToLower(parsed.Scheme)
	if gotScheme != reqScheme {
		return false
	}
	gotHost := strings.ToLower(parsed.Hostname())
	if gotHost != reqHost {
		return false
	}
	return portOrDefault(parsed.Port(), gotScheme) == portOrDefault(reqPort, reqScheme)
}

func scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return ""
	}
	if policy.TrustForwardedProto {
		switch forwarded := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); forwarded {
		case "http", "https":
			return forwarded
		}
	}
	if r.URL != nil {
		switch s := strings.ToLower(r.URL.Scheme); s {
		case "http", "https":
			return s
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func hostPort(raw string) (string, string) {
	parsed, err := url.Parse("//" + strings.TrimSpace(raw))
	if err != nil {
		return "", ""
	}
	return strings.ToLower(parsed.Hostname()), parsed.Port()
}

func portOrDefault(port, scheme string) string {
	if port != "" {
		return port
	}
	if scheme == "https" {
		return "443"
	}
	return "80"
}
