package services

import (
	"strconv"
	"strings"

	"github.com/tbourn/claim-gateway/internal/analysis"
)

// TelegramApology is sent to the Telegram user when analysis fails.
const TelegramApology = "Sorry, I had an issue verifying that claim. Please try again later."

// unknownVerdict stands in for a missing final_verdict.
const unknownVerdict = "UNKNOWN"

// RenderVerification formats a Verifier result as the Telegram reply:
//
//	Verdict: TRUE
//	Confidence: 0.91
//
//	Top evidence:
//	- Stance: Supports
//	- Evidence: NASA imagery
//	- Source: nasa.gov
//
// The confidence line appears only for a numeric score. The evidence block
// appears only when at least one of its fields is present, and lists just
// the present ones.
func RenderVerification(v analysis.Verification) string {
	verdict := v.FinalVerdict()
	if verdict == "" {
		verdict = unknownVerdict
	}
	lines := []string{"Verdict: " + verdict}

	if score, ok := v.ConfidenceScore(); ok {
		lines = append(lines, "Confidence: "+strconv.FormatFloat(score, 'f', 2, 64))
	}

	if ev := v.TopEvidence(); !ev.IsZero() {
		lines = append(lines, "", "Top evidence:")
		if ev.Stance != "" {
			lines = append(lines, "- Stance: "+ev.Stance)
		}
		if ev.Text != "" {
			lines = append(lines, "- Evidence: "+ev.Text)
		}
		if ev.Source != "" {
			lines = append(lines, "- Source: "+ev.Source)
		}
	}
	return strings.Join(lines, "\n")
}
