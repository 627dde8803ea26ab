// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PaperAnalysis holds the language-model analysis of one paper.
type PaperAnalysis struct {
	// Paper is the analyzed record.
	Paper PaperRecord `json:"paper" yaml:"paper"`

	// Analysis is the free-text analysis returned by the model.
	Analysis string `json:"analysis,omitempty" yaml:"analysis,omitempty"`

	// Limitations is the limitations/scope excerpt taken from Analysis.
	Limitations string `json:"limitations,omitempty" yaml:"limitations,omitempty"`

	// Skipped explains why the paper was not analyzed (no full text, a
	// failed download, a failed model call). Empty when analyzed.
	Skipped string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Idea is one research idea or gap split out of a model response.
type Idea struct {
	Summary string `json:"summary" yaml:"summary"`
}

// Report is everything one analysis run produced. It is created per request
// and discarded after printing unless the caller exports it.
type Report struct {
	// RunID identifies the run in logs and exported reports.
	RunID string `json:"run_id" yaml:"run_id"`

	// Topic is the user-supplied research topic.
	Topic string `json:"topic" yaml:"topic"`

	// Sort is the CORE sort order used for the search.
	Sort string `json:"sort" yaml:"sort"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Papers are the search results in CORE order.
	Papers []PaperRecord `json:"papers" yaml:"papers"`

	// Analyses holds one entry per analyzed paper when full-text analysis ran.
	Analyses []PaperAnalysis `json:"analyses,omitempty" yaml:"analyses,omitempty"`

	// Suggestion is the model's summary, idea bridging, and gap analysis.
	Suggestion string `json:"suggestion" yaml:"suggestion"`

	// Ideas are the numbered or bulleted items split out of Suggestion.
	Ideas []Idea `json:"ideas,omitempty" yaml:"ideas,omitempty"`

	// Notes carries user-facing messages such as "no papers found".
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Limitations returns the non-empty limitations excerpts in paper order.
func (r *Report) Limitations() []string {
	var out []string
	for _, a := range r.Analyses {
		if a.Limitations != "" {
			out = append(out, a.Limitations)
		}
	}
	return out
}
