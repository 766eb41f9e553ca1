package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_InfoAndRedactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Telegram-Bot-Api-Secret-Token"}}))
	r.GET("/admin/logs/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b@example.com&phone=555-123-4567&api_key=secret-key&id=123e4567-e89b-12d3-a456-426614174000"
	req := httptest.NewRequest(http.MethodGet, "/admin/logs/123?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Cookie", "sessionid=topsecret")
	req.Header.Set("X-API-Key", "shhh")
	req.Header.Set(SessionHeader, "sess-abcdef")
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "tg")
	req.Header.Set("X-Custom", "email a@b.com id=123e4567-e89b-12d3-a456-426614174000 phone 555-123-4567")
	req.Header.Set(requestIDHeader, "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	for _, want := range []string{
		`"level":"info"`,
		`"path":"/admin/logs/:id"`,
		`"request_id":"rid-1"`,
		`[REDACTED:email]`,
		`[REDACTED:phone]`,
		`[REDACTED:id]`,
		`"Authorization":"[REDACTED]"`,
		`"Cookie":"[REDACTED]"`,
		`"X-Api-Key":"[REDACTED]"`,
		`"X-Session-Id":"[REDACTED]"`,
		`"X-Telegram-Bot-Api-Secret-Token":"[REDACTED]"`,
		`"X-Custom":"email [REDACTED:email] id=[REDACTED:id] phone [REDACTED:phone]"`,
	} {
		if !strings.Contains(logs, want) {
			t.Fatalf("missing %s in logs: %s", want, logs)
		}
	}
	for _, leaked := range []string{"secret-key", "shhh", "topsecret", "sess-abcdef"} {
		if strings.Contains(logs, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, logs)
		}
	}
}

func TestRedactingLogger_SessionFingerprint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.Use(Session(SessionOptions{}))
	r.POST("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abcdefghij"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"session":"ab***ij"`) {
		t.Fatalf("expected session fingerprint, got: %s", buf.String())
	}
}

func TestRedactingLogger_WarnAndErrorLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/warn", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/error", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/gin-err", func(c *gin.Context) {
		_ = c.Error(http.ErrAbortHandler)
		c.Status(http.StatusBadRequest)
	})

	for _, p := range []string{"/warn", "/error", "/gin-err"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set(requestIDHeader, "rid"+p)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"level":"warn"`) || !strings.Contains(lines[0], `"request_id":"rid/warn"`) {
		t.Fatalf("warn line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"error"`) {
		t.Fatalf("error line: %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"error"`) || !strings.Contains(lines[2], `"errors"`) {
		t.Fatalf("gin error line: %s", lines[2])
	}
}

func Test_redactQuery_Unparseable(t *testing.T) {
	got := redactQuery("a=%zz&mail=x@y.io", nil)
	if strings.Contains(got, "x@y.io") {
		t.Fatalf("expected fallback redaction, got %q", got)
	}
	if redactQuery("", nil) != "" {
		t.Fatalf("empty query should stay empty")
	}
}
