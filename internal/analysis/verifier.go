package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultVerifierBase is the hosted Ukweli Lens API.
	DefaultVerifierBase = "https://penguin27-ukweli-lens-api.hf.space"
	// DefaultVerifierTimeout bounds one verify call.
	DefaultVerifierTimeout = 60 * time.Second

	verifyPath = "/api/verify/"
)

// VerifierConfig is the immutable configuration of a Verifier.
type VerifierConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Verifier fact-checks a claim against the Ukweli Lens API.
type Verifier struct {
	cfg    VerifierConfig
	client *http.Client
}

// NewVerifier builds a Verifier, filling empty fields with defaults.
func NewVerifier(cfg VerifierConfig) *Verifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultVerifierBase
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultVerifierTimeout
	}
	return &Verifier{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Verify submits claim and returns the remote result verbatim.
//
// Status mapping: 400 is ErrBadRequest, 503 is ErrUnavailable, any other 5xx
// is ErrUpstream. Every other status is treated as a result body and must
// decode as JSON. Like Responder.Generate, the call ignores cancellation of
// ctx once issued.
func (v *Verifier) Verify(ctx context.Context, claim string) (res Verification, err error) {
	ctx, span := startSpan(ctx, "verifier", "Verify")
	start := time.Now()
	defer func() {
		Observe("verifier", start, err)
		endSpan(span, err)
	}()

	if claim == "" {
		return Verification{}, newError(ErrValidation, "claim must not be empty", nil)
	}

	body, err := json.Marshal(map[string]string{"claim": claim})
	if err != nil {
		return Verification{}, newError(ErrProtocol, "failed to encode Ukweli request", err)
	}
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, v.cfg.BaseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return Verification{}, newError(ErrConfiguration, "invalid Ukweli endpoint: "+v.cfg.BaseURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return Verification{}, newError(ErrTransport, "Ukweli API request timed out", err)
		}
		return Verification{}, newError(ErrTransport, "Ukweli API request failed: "+err.Error(), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return Verification{}, newError(ErrBadRequest, "Invalid request to Ukweli API (400)", nil)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return Verification{}, newError(ErrUnavailable, "Ukweli API is temporarily unavailable (503)", nil)
	case resp.StatusCode >= 500:
		return Verification{}, newError(ErrUpstream, "Ukweli API internal error", nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return Verification{}, newError(ErrTransport, "Ukweli API request timed out", err)
		}
		return Verification{}, newError(ErrTransport, "Ukweli API request failed: "+err.Error(), err)
	}
	res, err = ParseVerification(raw)
	if err != nil {
		return Verification{}, newError(ErrProtocol, "Failed to decode Ukweli API response as JSON", err)
	}
	return res, nil
}
