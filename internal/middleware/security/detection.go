// Package security rejects obvious probing traffic and sets browser
// hardening headers.
package security

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
)

const maxURLLength = 2048

var (
	// Nothing in the app lives under these; hitting them is a scan.
	probePatterns = []string{
		"../", "..\\", ".env", ".git", ".ssh", "wp-admin", "wp-login",
		"phpmyadmin", "admin.php", "config.php", "etc/passwd", "cmd.exe",
	}
	injectionPatterns = []string{"<script", "javascript:", "eval(", "union select"}
	scannerAgents     = []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan"}
	rejectedMethods   = map[string]bool{"TRACE": true, "TRACK": true, "DEBUG": true, "CONNECT": true}

	privateNetworks = []netip.Prefix{
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.168.0.0/16"),
		netip.MustParsePrefix("::1/128"),
	}
)

type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector resolves client addresses and flags probing requests. Requests
// arriving from a private network are assumed to come through a reverse
// proxy, so their forwarding headers are trusted.
type Detector struct {
	suspicious     atomic.Int64
	trustedProxies []netip.Prefix
}

func NewDetector() *Detector {
	return &Detector{trustedProxies: privateNetworks}
}

// Suspicion names why r looks hostile, or returns "" for a normal request.
func (d *Detector) Suspicion(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	switch {
	case rejectedMethods[r.Method]:
		return "method"
	case len(r.URL.String()) > maxURLLength:
		return "url_length"
	case containsAny(path, probePatterns) || containsAny(query, probePatterns):
		return "probe"
	case containsAny(path, injectionPatterns) || containsAny(query, injectionPatterns):
		return "injection"
	case containsAny(strings.ToLower(r.UserAgent()), scannerAgents):
		return "scanner"
	}
	return ""
}

// DetectSuspiciousRequest reports whether r looks hostile and counts it.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	if d.Suspicion(r) == "" {
		return false
	}
	d.suspicious.Add(1)
	return true
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// ExtractClientIP returns the client address. X-Forwarded-For and X-Real-IP
// are honoured only when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !d.trusted(peer) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return host
}

func (d *Detector) trusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range d.trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Middleware rejects suspicious requests with 400 before they reach a handler.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := d.Suspicion(r); reason != "" {
			d.suspicious.Add(1)
			slog.WarnContext(r.Context(), "Suspicious request rejected",
				"reason", reason,
				"client_ip", d.ExtractClientIP(r),
				"method", r.Method,
				"path", r.URL.Path)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{SuspiciousRequests: d.suspicious.Load()}
}
