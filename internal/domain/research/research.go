// Package research defines the deep-research task domain: the task record,
// its status machine, and the artifacts the pipeline stages exchange.
package research

import "time"

// Status represents the current state of a research task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPlanning  Status = "planning"
	StatusSearching Status = "searching"
	StatusAnalyzing Status = "analyzing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further mutation of a task in this status
// is accepted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Task is one end-to-end research request. The task store owns all Task
// records; callers only ever see copies.
type Task struct {
	ID              string           `json:"task_id"`
	Notes           []string         `json:"notes"`
	Preferences     string           `json:"preferences,omitempty"`
	Status          Status           `json:"status"`
	Progress        int              `json:"progress"`
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Error           string           `json:"error,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Directive is a single search query plus a focus label, produced by planning.
type Directive struct {
	Query string `json:"query"`
	Focus string `json:"focus"`
}

// Plan is the planner's output: a bounded, non-empty list of directives.
type Plan struct {
	OriginalQuery string      `json:"original_query"`
	Directives    []Directive `json:"directives"`
	Reasoning     string      `json:"reasoning"`
}

// SearchResult is one raw record returned by the web search provider.
type SearchResult struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Finding is the result of executing one directive: the raw provider
// results plus an LLM-generated summary.
type Finding struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Summary string         `json:"summary"`
}

// Recommendation is a single perfume suggestion. Field casing of Name,
// Brand and Notes matches the save format the frontend already consumes.
type Recommendation struct {
	Name       string  `json:"Name"`
	Brand      string  `json:"Brand"`
	Notes      string  `json:"Notes"`
	SourceURL  string  `json:"source_url,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Reasoning  string  `json:"reasoning,omitempty"`
}
