package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// DefaultResponderBase is the public Gemini REST endpoint.
	DefaultResponderBase = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultResponderModel is used when no model name is configured.
	DefaultResponderModel = "gemini-2.5-flash"
	// DefaultResponderTimeout bounds one generateContent call.
	DefaultResponderTimeout = 30 * time.Second

	// maxErrorBody is how much of a failed response body ends up in the
	// error message, in characters.
	maxErrorBody = 500
)

// maxResponseBytes caps how much of any upstream response body is read.
var maxResponseBytes int64 = 8 << 20

// ResponderConfig is the immutable configuration of a Responder.
type ResponderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Responder generates free-form text for a prompt via the Gemini
// generateContent API.
type Responder struct {
	cfg    ResponderConfig
	client *http.Client
}

// NewResponder builds a Responder. Empty fields fall back to the defaults; an
// empty APIKey is accepted here and reported on first use.
func NewResponder(cfg ResponderConfig) *Responder {
	if cfg.Model == "" {
		cfg.Model = DefaultResponderModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResponderBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultResponderTimeout
	}
	return &Responder{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends text as a single-turn prompt and returns the first
// candidate's first text part.
//
// The call is a single attempt bounded by the configured timeout. Cancelling
// ctx after the call has been issued has no effect.
func (r *Responder) Generate(ctx context.Context, text string) (out string, err error) {
	ctx, span := startSpan(ctx, "responder", "Generate")
	span.SetAttributes(attribute.String("gen_ai.request.model", r.cfg.Model))
	start := time.Now()
	defer func() {
		Observe("responder", start, err)
		endSpan(span, err)
	}()

	if r.cfg.APIKey == "" {
		return "", newError(ErrConfiguration, "GEMINI_API_KEY is not configured", nil)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: text}}}},
	})
	if err != nil {
		return "", newError(ErrProtocol, "failed to encode Gemini request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		r.cfg.BaseURL, url.PathEscape(r.cfg.Model), url.QueryEscape(r.cfg.APIKey))
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newError(ErrConfiguration, "invalid Gemini endpoint: "+r.cfg.BaseURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", newError(ErrTransport, "Gemini API request timed out", err)
		}
		return "", newError(ErrTransport, "Gemini API request failed: "+redactKey(err.Error(), r.cfg.APIKey), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newError(ErrTransport, "Gemini API request failed: "+err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", newError(ErrUpstream,
			fmt.Sprintf("Gemini API error %d: %s", resp.StatusCode, truncateRunes(string(raw), maxErrorBody)), nil)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", newError(ErrProtocol, "Unexpected Gemini response format: "+string(raw), err)
	}
	if len(decoded.Candidates) == 0 ||
		decoded.Candidates[0].Content == nil ||
		len(decoded.Candidates[0].Content.Parts) == 0 ||
		decoded.Candidates[0].Content.Parts[0].Text == nil {
		return "", newError(ErrProtocol, "Unexpected Gemini response format: "+string(raw), nil)
	}
	return *decoded.Candidates[0].Content.Parts[0].Text, nil
}

// isTimeout reports whether err is a client-side deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// redactKey keeps the credential out of messages derived from *url.Error,
// which quote the full request URL.
func redactKey(msg, key string) string {
	if key == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(msg, key, "REDACTED")
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
