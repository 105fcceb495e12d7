// Package middleware provides HTTP middleware for cross-cutting request
// concerns: CORS, client IP extraction, and per-IP rate limiting.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"
)

// IPExtractor extracts client IP addresses from HTTP requests. It is the
// seam between the rate limiter and the two extraction strategies: plain
// RemoteAddr (default, spoof-proof) or forwarded headers behind a trusted
// reverse proxy (opt-in).
type IPExtractor interface {
	// ExtractIP extracts the client IP address from an HTTP request.
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor extracts the client IP from the RemoteAddr field.
// This is the default: the TCP connection address cannot be spoofed by
// the client.
type RemoteAddrExtractor struct{}

// ExtractIP extracts the IP address from r.RemoteAddr, stripping the port.
func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig holds configuration for validating trusted reverse
// proxies. When enabled, forwarded headers are honored only for requests
// arriving from an address inside the allowed ranges.
type TrustedProxyConfig struct {
	// Enabled indicates whether proxy trust is enabled. When false, all
	// header-based extraction is disabled.
	Enabled bool

	// AllowedCIDRs is a list of trusted proxy IP ranges. Single IPs are
	// stored as /32 or /128 prefixes.
	AllowedCIDRs []netip.Prefix
}

// IsTrusted checks whether the given RemoteAddr belongs to a trusted
// proxy.
func (c *TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// LoadTrustedProxyConfig loads trusted proxy configuration from
// environment variables.
//
// Environment variables:
//   - RATELIMIT_TRUST_PROXY: "true" to honor forwarded headers (default: false)
//   - RATELIMIT_TRUSTED_PROXIES: comma-separated trusted proxy IPs or CIDRs
//
// Fail-closed: enabling proxy trust with an empty or invalid proxy list is
// a startup error rather than a silently open rate limiter.
func LoadTrustedProxyConfig() (*TrustedProxyConfig, error) {
	enabled := os.Getenv("RATELIMIT_TRUST_PROXY") == "true"

	config := &TrustedProxyConfig{
		Enabled:      enabled,
		AllowedCIDRs: []netip.Prefix{},
	}

	if !enabled {
		return config, nil
	}

	proxiesStr := strings.TrimSpace(os.Getenv("RATELIMIT_TRUSTED_PROXIES"))
	if proxiesStr == "" {
		return nil, fmt.Errorf("RATELIMIT_TRUST_PROXY is enabled but RATELIMIT_TRUSTED_PROXIES is empty")
	}

	for _, proxyStr := range strings.Split(proxiesStr, ",") {
		proxyStr = strings.TrimSpace(proxyStr)
		if proxyStr == "" {
			continue
		}

		prefix, err := netip.ParsePrefix(proxyStr)
		if err != nil {
			ip, ipErr := netip.ParseAddr(proxyStr)
			if ipErr != nil {
				return nil, fmt.Errorf("invalid IP or CIDR format %q: must be a valid IP address or CIDR notation", proxyStr)
			}
			if ip.Is4() {
				prefix = netip.PrefixFrom(ip, 32)
			} else {
				prefix = netip.PrefixFrom(ip, 128)
			}
		}

		config.AllowedCIDRs = append(config.AllowedCIDRs, prefix)
	}

	if len(config.AllowedCIDRs) == 0 {
		return nil, fmt.Errorf("RATELIMIT_TRUST_PROXY is enabled but no valid proxies found in RATELIMIT_TRUSTED_PROXIES")
	}

	return config, nil
}

// TrustedProxyExtractor extracts the client IP from X-Forwarded-For or
// X-Real-IP headers when the request comes from a trusted proxy. For
// untrusted sources it falls back to RemoteAddr, which prevents rate-limit
// bypass via spoofed forwarding headers.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

// NewTrustedProxyExtractor creates a TrustedProxyExtractor with the given
// configuration.
func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

// ExtractIP prefers the first X-Forwarded-For entry, then X-Real-IP, then
// RemoteAddr. Headers are honored only when proxy trust is enabled and the
// direct peer is inside the trusted ranges.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.Enabled {
		return extractIPFromAddr(r.RemoteAddr)
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted peer attempting to set X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
			)
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip, nil
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String(), nil
		}
	}

	return extractIPFromAddr(r.RemoteAddr)
}

// extractIPFromAddr extracts the IP address from a "host:port" or bare
// "IP" string, handling both IPv4 and IPv6.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// parseFirstIP parses the first IP address from a comma-separated list,
// as found in X-Forwarded-For headers ("client, proxy1, proxy2").
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			if ip := net.ParseIP(strings.TrimSpace(s[:i])); ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}
