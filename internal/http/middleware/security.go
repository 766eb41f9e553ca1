// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// SecurityHeaders hardens every gateway response. The gateway serves JSON
// only, so no Content-Security-Policy is set here.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultHSTSMaxAge applies when HSTS is enabled without a positive max age.
const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions configures SecurityHeaders.
//
// HSTS is only ever sent on HTTPS requests, and only when EnableHSTS is set;
// enable it only when TLS covers the hop between proxy and gateway too.
//
// NoStorePaths lists path prefixes whose responses carry credentials or
// user data (issued API keys, the admin dump) and must not be cached even
// when NoStore is false.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool     // no-store on every response
	NoStorePaths []string // no-store on matching path prefixes
	EnablePolicy bool     // Permissions-Policy and X-Permitted-Cross-Domain-Policies
}

type headerPair struct{ key, value string }

var (
	baselineHeaders = []headerPair{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
	}
	policyHeaders = []headerPair{
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
		{"X-Permitted-Cross-Domain-Policies", "none"},
	}
	noStoreHeaders = []headerPair{
		{"Cache-Control", "no-store"},
		{"Pragma", "no-cache"},
		{"Expires", "0"},
	}
)

// SecurityHeaders returns a Gin middleware that writes the baseline hardening
// headers, the optional browser policies, cache suppression for sensitive
// paths, and HSTS on HTTPS. When an X-Request-ID response header is already
// present it is added to Access-Control-Expose-Headers so browser clients
// can quote it in bug reports.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	static := append([]headerPair(nil), baselineHeaders...)
	if opt.EnablePolicy {
		static = append(static, policyHeaders...)
	}

	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.Itoa(int(maxAge.Seconds())) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		setAll(h, static)

		if opt.NoStore || hasAnyPrefix(c.Request.URL.Path, opt.NoStorePaths) {
			setAll(h, noStoreHeaders)
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		if h.Get("X-Request-ID") != "" {
			exposeHeader(h, "X-Request-ID")
		}

		c.Next()
	}
}

func setAll(h http.Header, pairs []headerPair) {
	for _, p := range pairs {
		h.Set(p.key, p.value)
	}
}

// exposeHeader appends name to Access-Control-Expose-Headers unless the
// current value already lists it.
func exposeHeader(h http.Header, name string) {
	const hdr = "Access-Control-Expose-Headers"
	cur := h.Get(hdr)
	switch {
	case cur == "":
		h.Set(hdr, name)
	case !strings.Contains(cur, name):
		h.Set(hdr, cur+", "+name)
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or through
// a proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
