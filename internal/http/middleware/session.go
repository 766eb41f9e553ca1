package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// sessionIDKey is the Gin context key under which the chat session key is stored.
	sessionIDKey = "sessionID"
	// SessionCookie names the cookie carrying the web chat session key.
	SessionCookie = "sessionid"
	// SessionHeader lets non-browser clients pin a session explicitly.
	SessionHeader = "X-Session-ID"

	// maxSessionIDLength bounds client-supplied session keys.
	maxSessionIDLength = 255
)

// SessionOptions configures Session().
type SessionOptions struct {
	// Secure marks the issued cookie as HTTPS-only.
	Secure bool
	// MaxAge of the issued cookie in seconds; 0 makes it a browser-session cookie.
	MaxAge int
}

// Session resolves the web chat session key for every request.
//
// Resolution order: X-Session-ID header, then the sessionid cookie. When
// neither carries a usable value a new UUIDv4 is minted and set as an
// HttpOnly, SameSite=Lax cookie. The key is stored in the Gin context under
// "sessionID" (see SessionID).
func Session(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := validSessionID(c.GetHeader(SessionHeader))
		if sid == "" {
			if v, err := c.Cookie(SessionCookie); err == nil {
				sid = validSessionID(v)
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   opts.MaxAge,
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// SessionID returns the session key stored by Session(), or "".
func SessionID(c *gin.Context) string {
	v, _ := c.Get(sessionIDKey)
	return asString(v)
}

func validSessionID(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSessionIDLength {
		return ""
	}
	return s
}
