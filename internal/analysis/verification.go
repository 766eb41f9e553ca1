package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Verification is a Verifier result. The remote service owns the schema, so
// the raw JSON is kept verbatim and the accessors below tolerate missing or
// mistyped fields.
type Verification struct {
	raw    json.RawMessage
	fields map[string]any // nil unless raw is a JSON object
}

// Evidence is the top evidence snippet of a Verification. Empty fields were
// absent (or not strings) in the result.
type Evidence struct {
	Stance string
	Text   string
	Source string
}

// IsZero reports whether no evidence field is present.
func (e Evidence) IsZero() bool { return e.Stance == "" && e.Text == "" && e.Source == "" }

var errEmptyBody = errors.New("empty body")

// ParseVerification validates raw as JSON and wraps it.
func ParseVerification(raw []byte) (Verification, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Verification{}, errEmptyBody
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Verification{}, err
	}
	out := Verification{raw: append(json.RawMessage(nil), raw...)}
	if m, ok := v.(map[string]any); ok {
		out.fields = m
	}
	return out, nil
}

// Raw returns the result exactly as received.
func (v Verification) Raw() json.RawMessage { return v.raw }

// MarshalJSON writes the result exactly as received.
func (v Verification) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// FinalVerdict returns final_verdict as text. Numbers and booleans are
// printed as-is; "" means absent, null, or an object or array.
func (v Verification) FinalVerdict() string {
	switch x := v.fields["final_verdict"].(type) {
	case string:
		return x
	case float64, bool:
		return fmt.Sprint(x)
	}
	return ""
}

// ConfidenceScore returns explainable_confidence_score when it is a JSON
// number.
func (v Verification) ConfidenceScore() (float64, bool) {
	f, ok := v.fields["explainable_confidence_score"].(float64)
	return f, ok
}

// TopEvidence returns the fields of top_evidence_snippet.
func (v Verification) TopEvidence() Evidence {
	snip, _ := v.fields["top_evidence_snippet"].(map[string]any)
	str := func(k string) string {
		s, _ := snip[k].(string)
		return s
	}
	return Evidence{Stance: str("verdict"), Text: str("evidence"), Source: str("source")}
}
