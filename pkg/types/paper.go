// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the gapfinder pipeline:
// paper records returned by the CORE search API, per-paper analyses and
// research ideas produced by the language model, and the report that ties
// one run together.
package types

// PaperRecord is a paper as returned by the CORE search API. Fields are copied
// verbatim from the response; nothing is normalized or cross-referenced.
type PaperRecord struct {
	// Identifier is the CORE work ID.
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by CORE.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the landing page of the paper, when CORE provides one.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI is the bare DOI, when known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// DownloadURL points at a PDF of the paper, when CORE has one.
	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`

	// FullTextURLs are repository URLs CORE harvested the full text from.
	FullTextURLs []string `json:"full_text_urls,omitempty" yaml:"full_text_urls,omitempty"`

	// FullText is the extracted paper text. CORE includes it for some works;
	// it is never written to reports.
	FullText string `json:"-" yaml:"-"`

	// Keywords are the topic labels CORE attaches to the work.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}

// Link returns the best URL to show a reader: the landing page, then the
// PDF download, then the first harvested full-text URL.
func (p PaperRecord) Link() string {
	if p.URL != "" {
		return p.URL
	}
	if p.DownloadURL != "" {
		return p.DownloadURL
	}
	if len(p.FullTextURLs) > 0 {
		return p.FullTextURLs[0]
	}
	return ""
}

// DisplayTitle returns the title, or "Untitled" when CORE returned none.
func (p PaperRecord) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}
