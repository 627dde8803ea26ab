// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the CORE academic-paper API for a research topic and
// renders the returned paper records. Results are passed through in the order
// CORE returns them; nothing is deduplicated or re-ranked.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/gapfinder/pkg/types"
)

// Searcher finds papers for a query. CoreClient is the production
// implementation; tests substitute their own.
type Searcher interface {
	Search(ctx context.Context, query Query) ([]types.PaperRecord, error)
}

// Sort orders accepted by the CORE search endpoint.
const (
	SortRelevance  = "relevance"
	SortViews      = "views"
	SortPopularity = "popularity"
)

// ValidSorts lists the accepted sort orders in display order.
var ValidSorts = []string{SortRelevance, SortViews, SortPopularity}

// Query holds the search parameters. Topic is sent to CORE exactly as given.
type Query struct {
	Topic  string
	Limit  int
	Offset int
	Sort   string
}

// IsEmpty reports whether the query has no searchable topic.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Topic) == ""
}

// Validate checks the topic and sort order.
func (q Query) Validate() error {
	if q.IsEmpty() {
		return fmt.Errorf("search topic cannot be empty")
	}
	if q.Sort != "" && !IsValidSort(q.Sort) {
		return fmt.Errorf("invalid sort %q: use one of %s", q.Sort, strings.Join(ValidSorts, ", "))
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("limit and offset must not be negative")
	}
	return nil
}

// IsValidSort reports whether s is an accepted sort order.
func IsValidSort(s string) bool {
	for _, v := range ValidSorts {
		if s == v {
			return true
		}
	}
	return false
}

// FormatTable writes papers as a human-readable table to w.
func FormatTable(papers []types.PaperRecord, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
		"#", "Title", "Authors", "Year", "Link")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range papers {
		title := truncate(p.DisplayTitle(), 60)
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf("%d", p.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
			i+1, title, formatAuthors(p.Authors), year, p.Link())
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.PaperRecord, w io.Writer) error {
	if papers == nil {
		papers = []types.PaperRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
