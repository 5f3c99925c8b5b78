package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/completion"
)

// maxRecommendations bounds the analyzer output regardless of what the
// model returns.
const maxRecommendations = 5

// fallbackErrLen is how much of the completion error is embedded in the
// fallback reasoning for observability.
const fallbackErrLen = 50

const analyzerInstructions = `You are a perfume expert analyzing web research results to recommend fragrances.

Based on the search results provided, identify and recommend 3-5 specific perfumes that match the user's preferences.

IMPORTANT: You MUST always provide at least 1 recommendation. If the search results don't contain specific perfumes, recommend well-known classics that match the requested fragrance notes.

For each recommendation, provide:
- Name: The exact perfume name (e.g., "Bleu de Chanel")
- Brand: The brand/house name (e.g., "Chanel")
- Notes: Key fragrance notes, comma-separated (e.g., "bergamot, cedar, sandalwood")
- reasoning: Brief explanation of why this matches the user's preferences

Be specific with perfume names. Never return an empty recommendations list.`

var analysisSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"recommendations": {
			"type": "array",
			"maxItems": 5,
			"items": {
				"type": "object",
				"properties": {
					"Name": {"type": "string"},
					"Brand": {"type": "string"},
					"Notes": {"type": "string"},
					"reasoning": {"type": "string"}
				},
				"required": ["Name", "Brand", "Notes", "reasoning"],
				"additionalProperties": false
			}
		}
	},
	"required": ["recommendations"],
	"additionalProperties": false
}`)

// analysisOutput is the structured completion result for the analysis call.
type analysisOutput struct {
	Recommendations []research.Recommendation `json:"recommendations"`
}

// noteFallback maps a fragrance-note keyword to a fixed classic.
type noteFallback struct {
	keyword string
	name    string
	brand   string
	notes   string
}

// fallbackTable is consulted in order; the first keyword contained in any of
// the user's notes wins.
var fallbackTable = []noteFallback{
	{"vanilla", "Black Opium", "Yves Saint Laurent", "vanilla, coffee, white flowers"},
	{"rose", "Portrait of a Lady", "Frederic Malle", "rose, oud, incense"},
	{"oud", "Oud Wood", "Tom Ford", "oud, sandalwood, vetiver"},
	{"citrus", "Acqua di Gio", "Giorgio Armani", "bergamot, neroli, green tangerine"},
	{"woody", "Santal 33", "Le Labo", "sandalwood, cedar, cardamom"},
	{"musk", "Glossier You", "Glossier", "musk, ambrette, iris"},
	{"floral", "Miss Dior", "Dior", "rose, peony, lily of the valley"},
}

// universalFallback is used when no keyword matches.
var universalFallback = research.Recommendation{
	Name:  "Bleu de Chanel",
	Brand: "Chanel",
	Notes: "bergamot, mint, cedar, sandalwood",
}

// Analyzer synthesizes all findings into 1-5 recommendations. It never
// fails: a completion error or an empty model result selects a rule-based
// fallback instead.
type Analyzer struct {
	llm completion.Completer
}

// NewAnalyzer creates an Analyzer backed by the given completion interface.
func NewAnalyzer(llm completion.Completer) *Analyzer {
	return &Analyzer{llm: llm}
}

// Analyze makes one completion call over the concatenated finding summaries.
func (a *Analyzer) Analyze(ctx context.Context, notes []string, preferences string, findings []research.Finding) []research.Recommendation {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "Search: %s\n", f.Query)
		fmt.Fprintf(&b, "Summary: %s\n\n", f.Summary)
	}

	prefs := preferences
	if prefs == "" {
		prefs = "None specified"
	}
	prompt := fmt.Sprintf(`User wants perfumes with these fragrance notes: %s
Additional preferences: %s

Research findings:
%s
Based on this research, recommend 3-5 specific perfumes that match.`, strings.Join(notes, ", "), prefs, b.String())

	raw, err := a.llm.Complete(ctx, completion.Request{
		Instructions: analyzerInstructions,
		Prompt:       prompt,
		SchemaName:   "analysis",
		Schema:       analysisSchema,
	})
	if err != nil {
		slog.Warn("analysis completion failed, using fallback", "error", err)
		return fallbackRecommendations(notes, err)
	}

	var out analysisOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		slog.Warn("analysis result unparseable, using fallback", "error", err)
		return fallbackRecommendations(notes, err)
	}

	if len(out.Recommendations) == 0 {
		return fallbackRecommendations(notes, nil)
	}
	if len(out.Recommendations) > maxRecommendations {
		return out.Recommendations[:maxRecommendations]
	}
	return out.Recommendations
}

// fallbackRecommendations deterministically picks exactly one classic from
// the keyword table. The cause, when present, is embedded truncated in the
// reasoning so a failed synthesis stays observable in the final result.
func fallbackRecommendations(notes []string, cause error) []research.Recommendation {
	notesStr := strings.Join(notes, ", ")
	reason := fmt.Sprintf("Based on your interest in %s notes", notesStr)
	if cause != nil {
		errText := cause.Error()
		if len(errText) > fallbackErrLen {
			errText = errText[:fallbackErrLen]
		}
		reason = fmt.Sprintf("Could not complete full research (%s...). Suggesting classics with %s", errText, notesStr)
	}

	for _, note := range notes {
		lower := strings.ToLower(note)
		for _, fb := range fallbackTable {
			if strings.Contains(lower, fb.keyword) {
				return []research.Recommendation{{
					Name:      fb.name,
					Brand:     fb.brand,
					Notes:     fb.notes,
					Reasoning: reason,
				}}
			}
		}
	}

	rec := universalFallback
	rec.Reasoning = reason
	return []research.Recommendation{rec}
}
