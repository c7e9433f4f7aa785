package usecase

import (
	"strings"

	"aria/internal/domain"
)

// ComposeInput carries everything the mode policy needs to decide how to
// blend retrieved context.
type ComposeInput struct {
	Mode          domain.Mode
	HasDocHits    bool
	BestDocScore  float64
	DocContext    string
	MemoryContext string
	Threshold     float64
}

// ComposeResult is the policy decision. When NoAnswer is set the pipeline
// must reply with the fixed no-passages message and skip generation.
type ComposeResult struct {
	Context  string
	NoAnswer bool
}

// Compose applies the mode policy. It is a pure function: same inputs,
// same decision.
//
//   - free: memory context only; the caller must not have searched
//     documents at all.
//   - book: documents when the best score meets the threshold, otherwise
//     a no-answer short circuit.
//   - hy: memory plus documents when the best score meets the threshold,
//     memory alone otherwise.
//
// A score exactly at the threshold counts as meeting it. No document hits
// at all never meets the threshold, whatever its value.
func Compose(in ComposeInput) ComposeResult {
	relevant := in.HasDocHits && in.BestDocScore >= in.Threshold

	switch in.Mode {
	case domain.ModeFree:
		return ComposeResult{Context: in.MemoryContext}
	case domain.ModeBook:
		if !relevant {
			return ComposeResult{NoAnswer: true}
		}
		return ComposeResult{Context: in.DocContext}
	default: // hybrid
		if !relevant {
			return ComposeResult{Context: in.MemoryContext}
		}
		return ComposeResult{Context: joinParts(in.MemoryContext, in.DocContext)}
	}
}

// joinParts concatenates non-empty parts with a blank line, memory first.
func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
