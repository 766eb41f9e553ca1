// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger of the gateway. It
// scrubs obvious PII and credentials from request metadata before emitting
// logs and never logs request or response bodies (claims, uploads and API
// keys travel there).
//
// Usage:
//
//	r := gin.New()
//	r.Use(middleware.RequestID())
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"},
//	}))
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders names extra HTTP headers whose values are replaced with
// "[REDACTED]". Matching is case-insensitive and merged with the built-in
// set (Authorization, Cookie, Set-Cookie, X-API-Key, X-Session-ID).
//
// MaskQueryParams names extra query parameters whose values are masked; the
// built-in set is api_key, key and token.
type RedactOptions struct {
	MaskHeaders     []string
	MaskQueryParams []string
}

var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only so that UUID hex segments never match.
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redact scrubs ids, emails and phone numbers, in that order (the phone
// pattern is the loosest).
func redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

func lowerSet(base []string, extra []string) map[string]struct{} {
	m := make(map[string]struct{}, len(base)+len(extra))
	for _, group := range [][]string{base, extra} {
		for _, h := range group {
			if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
				m[h] = struct{}{}
			}
		}
	}
	return m
}

// redactQuery masks sensitive parameters by name, then scrubs the rest. The
// query is kept in its raw form so that pattern redaction sees what the
// client sent.
func redactQuery(raw string, mask map[string]struct{}) string {
	if raw == "" {
		return ""
	}
	pairs := strings.Split(truncate(raw, maxQueryLogLength), "&")
	for i, p := range pairs {
		k, _, found := strings.Cut(p, "=")
		if !found {
			continue
		}
		if name, err := url.QueryUnescape(k); err == nil {
			k = name
		}
		if _, ok := mask[strings.ToLower(k)]; ok {
			pairs[i] = k + "=[REDACTED]"
		}
	}
	return redact(strings.Join(pairs, "&"))
}

// RedactingLogger returns a Gin middleware that logs HTTP requests and
// responses with sensitive values scrubbed.
//
// Behavior:
//   - Installs a request-scoped logger carrying request_id, method and path
//     (see LoggerFrom; also reachable via zerolog.Ctx on the request context).
//   - Logs method, route, query, status, size, latency, the chat session key
//     when one was resolved, and request headers with scrubbing applied.
//   - Logs at INFO by default, WARN for 4xx and ERROR for 5xx or when handlers
//     recorded errors on the Gin context.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := lowerSet([]string{"Authorization", "Cookie", "Set-Cookie", "X-API-Key", SessionHeader}, opts.MaskHeaders)
	maskParams := lowerSet([]string{"api_key", "key", "token"}, opts.MaskQueryParams)

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redactQuery(c.Request.URL.RawQuery, maskParams)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(strings.Join(vv, ", "))
		}

		reqID := RequestIDFrom(c)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}
		attachLogger(c, log.With().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger())

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500 || len(c.Errors) > 0:
			ev = log.Error()
			if len(c.Errors) > 0 {
				ev = ev.Str("errors", c.Errors.String())
			}
		case status >= 400:
			ev = log.Warn()
		}

		// The session key is a bearer credential for a chat history; log a
		// fingerprint only.
		if sid := SessionID(c); sid != "" {
			ev = ev.Str("session", fingerprint(sid))
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("bytes_in", c.Request.ContentLength).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

// fingerprint keeps the first and last two characters of s.
func fingerprint(s string) string {
	if len(s) <= 6 {
		return "***"
	}
	return s[:2] + "***" + s[len(s)-2:]
}
