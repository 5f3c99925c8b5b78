package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/completion"
)

// maxDirectives bounds the search plan; the schema enforces the same bound
// provider-side.
const maxDirectives = 4

const plannerInstructions = `You are a perfume research planner. Given fragrance notes and optional preferences,
create a focused search plan to find the best perfume recommendations.

Generate exactly 3-4 specific search queries that will help find:
1. Perfumes featuring the specified notes prominently
2. Expert reviews and fragrance community recommendations
3. Similar fragrances from well-known brands

Each search should have a clear focus area. Be specific and include the fragrance notes in queries.`

var planSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"search_tasks": {
			"type": "array",
			"maxItems": 4,
			"items": {
				"type": "object",
				"properties": {
					"query": {"type": "string"},
					"focus": {"type": "string"}
				},
				"required": ["query", "focus"],
				"additionalProperties": false
			}
		},
		"reasoning": {"type": "string"}
	},
	"required": ["search_tasks", "reasoning"],
	"additionalProperties": false
}`)

// planOutput is the structured completion result for the planning call.
type planOutput struct {
	SearchTasks []research.Directive `json:"search_tasks"`
	Reasoning   string               `json:"reasoning"`
}

// Planner turns the user's fragrance notes into a bounded search plan.
type Planner struct {
	llm completion.Completer
}

// NewPlanner creates a Planner backed by the given completion interface.
func NewPlanner(llm completion.Completer) *Planner {
	return &Planner{llm: llm}
}

// Plan makes one completion call and returns 1-4 directives. An empty but
// schema-valid result is replaced by three deterministic directives derived
// from the notes; a completion error propagates to the orchestrator.
func (p *Planner) Plan(ctx context.Context, notes []string, preferences string) (*research.Plan, error) {
	notesStr := strings.Join(notes, ", ")
	query := fmt.Sprintf("Find perfumes with these fragrance notes: %s", notesStr)
	if preferences != "" {
		query += fmt.Sprintf(". Additional preferences: %s", preferences)
	}

	raw, err := p.llm.Complete(ctx, completion.Request{
		Instructions: plannerInstructions,
		Prompt:       query,
		SchemaName:   "search_plan",
		Schema:       planSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("plan completion: %w", err)
	}

	var out planOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	directives := out.SearchTasks
	if len(directives) == 0 {
		directives = fallbackDirectives(notes, notesStr)
	}
	if len(directives) > maxDirectives {
		directives = directives[:maxDirectives]
	}

	return &research.Plan{
		OriginalQuery: query,
		Directives:    directives,
		Reasoning:     out.Reasoning,
	}, nil
}

// fallbackDirectives synthesizes exactly three templated queries when the
// model returns a valid plan with no search tasks.
func fallbackDirectives(notes []string, notesStr string) []research.Directive {
	return []research.Directive{
		{Query: fmt.Sprintf("best perfumes with %s notes", notesStr), Focus: "fragrance notes match"},
		{Query: fmt.Sprintf("%s fragrance recommendations", notesStr), Focus: "recent recommendations"},
		{Query: fmt.Sprintf("top rated %s perfumes reviews", notes[0]), Focus: "expert reviews"},
	}
}
