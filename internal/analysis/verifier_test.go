package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestVerifier_EmptyClaim_NoNetworkCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := NewVerifier(VerifierConfig{BaseURL: srv.URL}).Verify(context.Background(), "")
	if !errors.Is(err, ErrValidation) || err.Error() != "claim must not be empty" {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("no request expected for empty claim")
	}
}

func TestVerifier_Success_Verbatim(t *testing.T) {
	const body = `{"final_verdict":"TRUE","explainable_confidence_score":0.91,"top_evidence_snippet":{"verdict":"Supports","evidence":"NASA imagery","source":"nasa.gov"},"extra":[1,2]}`
	var gotPath string
	var gotClaim map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotClaim)
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	res, err := NewVerifier(VerifierConfig{BaseURL: srv.URL}).Verify(context.Background(), "is the earth round")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotPath != "/api/verify/" || gotClaim["claim"] != "is the earth round" {
		t.Fatalf("path=%q body=%v", gotPath, gotClaim)
	}
	if string(res.Raw()) != body {
		t.Fatalf("raw result altered: %s", res.Raw())
	}
	if res.FinalVerdict() != "TRUE" {
		t.Fatalf("verdict = %q", res.FinalVerdict())
	}
	if s, ok := res.ConfidenceScore(); !ok || s != 0.91 {
		t.Fatalf("score = %v %v", s, ok)
	}
	if ev := res.TopEvidence(); ev != (Evidence{Stance: "Supports", Text: "NASA imagery", Source: "nasa.gov"}) {
		t.Fatalf("evidence = %+v", ev)
	}
}

func TestVerifier_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   error
		msg    string
	}{
		{http.StatusBadRequest, ErrBadRequest, "Invalid request to Ukweli API (400)"},
		{http.StatusServiceUnavailable, ErrUnavailable, "Ukweli API is temporarily unavailable (503)"},
		{http.StatusInternalServerError, ErrUpstream, "Ukweli API internal error"},
		{http.StatusBadGateway, ErrUpstream, "Ukweli API internal error"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, `{"detail":"x"}`)
		}))
		_, err := NewVerifier(VerifierConfig{BaseURL: srv.URL}).Verify(context.Background(), "c")
		srv.Close()

		if !errors.Is(err, tc.kind) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.kind, err)
		}
		if err.Error() != tc.msg {
			t.Fatalf("status %d: message %q", tc.status, err.Error())
		}
	}
}

func TestVerifier_NonJSON_IsProtocol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>oops</html>")
	}))
	defer srv.Close()

	_, err := NewVerifier(VerifierConfig{BaseURL: srv.URL}).Verify(context.Background(), "c")
	if !errors.Is(err, ErrProtocol) || err.Error() != "Failed to decode Ukweli API response as JSON" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewVerifier(VerifierConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}).Verify(context.Background(), "c")
	if !errors.Is(err, ErrTransport) || err.Error() != "Ukweli API request timed out" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerifier_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewVerifier(VerifierConfig{BaseURL: base}).Verify(context.Background(), "c")
	if !errors.Is(err, ErrTransport) || !strings.HasPrefix(err.Error(), "Ukweli API request failed: ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerification_AbsentTolerant(t *testing.T) {
	cases := map[string]string{
		"empty object": `{}`,
		"array":        `[1,2,3]`,
		"wrong types":  `{"final_verdict":{"v":1},"explainable_confidence_score":"0.9","top_evidence_snippet":"x"}`,
		"null verdict": `{"final_verdict":null}`,
		"null snippet": `{"top_evidence_snippet":null}`,
	}
	for name, body := range cases {
		v, err := ParseVerification([]byte(body))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if v.FinalVerdict() != "" {
			t.Fatalf("%s: verdict %q", name, v.FinalVerdict())
		}
		if _, ok := v.ConfidenceScore(); ok {
			t.Fatalf("%s: score should be absent", name)
		}
		if !v.TopEvidence().IsZero() {
			t.Fatalf("%s: evidence should be empty", name)
		}
	}

	if _, err := ParseVerification([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty body")
	}
}

func TestVerification_MarshalJSON(t *testing.T) {
	v, err := ParseVerification([]byte(`{"a":1}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(map[string]any{"result": v})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"result":{"a":1}}` {
		t.Fatalf("got %s", b)
	}

	b, _ = json.Marshal(Verification{})
	if string(b) != "null" {
		t.Fatalf("zero value should marshal as null, got %s", b)
	}
}

func TestOutcomeLabels(t *testing.T) {
	if Outcome(nil) != "ok" {
		t.Fatal("nil should be ok")
	}
	if Outcome(newError(ErrUnavailable, "x", nil)) != "unavailable" {
		t.Fatal("unavailable label")
	}
	if Outcome(errors.New("boom")) != "error" {
		t.Fatal("unclassified label")
	}
	if !IsAnalysisError(newError(ErrTransport, "x", nil)) || IsAnalysisError(errors.New("x")) {
		t.Fatal("IsAnalysisError")
	}
}

func withResponseCap(t *testing.T, n int64) {
	t.Helper()
	prev := maxResponseBytes
	maxResponseBytes = n
	t.Cleanup(func() { maxResponseBytes = prev })
}

func TestVerifier_OversizedBody_ReadIsBounded(t *testing.T) {
	withResponseCap(t, 64)
	body := `{"final_verdict":"TRUE","pad":"` + strings.Repeat("x", 4096) + `"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	_, err := NewVerifier(VerifierConfig{BaseURL: srv.URL}).Verify(context.Background(), "claim")
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("truncated body should fail to decode, got %v", err)
	}
}

func TestVerification_ScalarVerdictsRendered(t *testing.T) {
	for body, want := range map[string]string{
		`{"final_verdict":"FALSE"}`: "FALSE",
		`{"final_verdict":7}`:       "7",
		`{"final_verdict":0.5}`:     "0.5",
		`{"final_verdict":true}`:    "true",
		`{"final_verdict":[1]}`:     "",
	} {
		v, err := ParseVerification([]byte(body))
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if got := v.FinalVerdict(); got != want {
			t.Fatalf("%s: verdict %q; want %q", body, got, want)
		}
	}
}
