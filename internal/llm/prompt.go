// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/gapfinder/pkg/types"
)

// DefaultAnalysisInstructions precede a paper's full text in the per-paper
// analysis prompt.
const DefaultAnalysisInstructions = `Please provide a detailed analysis of this research paper covering:
1. Main research question/hypothesis
2. Methodology used
3. Key findings
4. Limitations
5. Potential applications
6. Relationship to other work in the field`

// IdeasHeading introduces the numbered ideas in a suggestion response.
const IdeasHeading = "## Research Ideas"

// Word limits for generated ideas. A limit must be above MinWordLimit and at
// most MaxWordLimit.
const (
	MinWordLimit       = 100
	MaxWordLimit       = 250
	DefaultWordLimit   = 250
	DefaultElaboration = 1000
)

// maxPaperChars caps the paper text sent for analysis.
const maxPaperChars = 200000

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"orNone": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "(not available)"
		}
		return strings.TrimSpace(s)
	},
}

var suggestionTmpl = template.Must(template.New("suggestion").Funcs(promptFuncs).Parse(`You are an expert research assistant. A researcher is interested in the topic: "{{.Topic}}".

Below are {{len .Papers}} papers returned by an academic search for this topic.
{{range $i, $p := .Papers}}
Paper {{inc $i}}: {{$p.DisplayTitle}}
Authors: {{if $p.Authors}}{{join $p.Authors ", "}}{{else}}(unknown){{end}}
Abstract: {{orNone $p.Abstract}}
{{end}}
{{- if .Limitations}}
Limitations and scope identified in these papers:
{{range .Limitations}}
{{.}}
{{end}}
{{- end}}
Respond in Markdown with these sections:

## Summary
Summarize the main contributions of the papers above in relation to the topic.

## Idea Bridging
Explain how ideas, methods, or findings from different papers could be combined.

## Research Gaps
Identify open problems and gaps that the papers leave unaddressed.

{{.IdeasHeading}}
Suggest {{.NumIdeas}} innovative research ideas or directions that address these gaps. For each idea, elaborate in a separate paragraph of more than {{.MinWords}} words and within {{.WordLimit}} words. Number each idea and do not combine them.
`))

var ideasTmpl = template.Must(template.New("ideas").Parse(`You are an expert research assistant. Based on the following limitations and scope found in recent research papers about '{{.Topic}}', suggest {{.NumIdeas}} innovative research ideas or directions that address these gaps. For each idea, elaborate thoroughly in a separate paragraph, ensuring each idea is explained in more than {{.MinWords}} words and within {{.WordLimit}} words. Number each idea and do not combine them. Be specific, detailed, and concise. List them as numbered points.

Limitations and Scope:
{{.Limitations}}
`))

var elaborateTmpl = template.Must(template.New("elaborate").Parse(`You are an expert research assistant. Please elaborate in detail (up to {{.WordLimit}} words) on the following research idea related to '{{.Topic}}'. Discuss its significance, possible methodology, expected challenges, and potential impact. Be thorough and insightful.

Idea:
{{.Idea}}
`))

var gapsTmpl = template.Must(template.New("gaps").Funcs(promptFuncs).Parse(`Given the following recent research papers, identify {{.Count}} new research gaps or ideas that have not been addressed. For each, provide a concise and specific research idea or gap:
{{range $i, $p := .Papers}}
Paper {{inc $i}}: {{$p.DisplayTitle}}
Abstract: {{orNone $p.Abstract}}
{{end}}
List the new research gaps or ideas as bullet points.
`))

var paperTmpl = template.Must(template.New("paper").Funcs(promptFuncs).Parse(`Given the following research paper:
Title: {{.DisplayTitle}}
Abstract: {{orNone .Abstract}}

Provide a concise analysis of the paper, and then list any limitations or scope for future work.
Format:
Analysis: ...
Limitations/Scope: ...
`))

// SuggestionInput holds the data for the topic suggestion prompt.
type SuggestionInput struct {
	Topic       string
	Papers      []types.PaperRecord
	Limitations []string
	NumIdeas    int
	WordLimit   int
}

// SuggestionPrompt builds the prompt asking for a summary, idea bridging,
// gap analysis, and numbered ideas. Every paper's title and abstract is
// included.
func SuggestionPrompt(in SuggestionInput) (string, error) {
	data := struct {
		SuggestionInput
		IdeasHeading string
		MinWords     int
	}{in, IdeasHeading, MinWordLimit}
	data.NumIdeas = orDefault(in.NumIdeas, 10)
	data.WordLimit = orDefault(in.WordLimit, DefaultWordLimit)
	return render(suggestionTmpl, data)
}

// AnalysisPrompt prefixes a paper's text with the analysis instructions.
// Empty instructions select DefaultAnalysisInstructions.
func AnalysisPrompt(instructions, text string) string {
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultAnalysisInstructions
	}
	if len(text) > maxPaperChars {
		text = text[:maxPaperChars]
	}
	return instructions + "\n\n" + text
}

// IdeasPrompt asks for numIdeas ideas addressing the given limitations.
func IdeasPrompt(topic, limitations string, numIdeas, wordLimit int) (string, error) {
	return render(ideasTmpl, map[string]any{
		"Topic":       topic,
		"Limitations": limitations,
		"NumIdeas":    orDefault(numIdeas, 10),
		"MinWords":    MinWordLimit,
		"WordLimit":   orDefault(wordLimit, DefaultWordLimit),
	})
}

// ElaboratePrompt asks for a detailed elaboration of one idea.
func ElaboratePrompt(topic, idea string, wordLimit int) (string, error) {
	return render(elaborateTmpl, map[string]any{
		"Topic":     topic,
		"Idea":      idea,
		"WordLimit": orDefault(wordLimit, DefaultElaboration),
	})
}

// GapsPrompt asks for count research gaps drawn from papers, as bullets.
func GapsPrompt(papers []types.PaperRecord, count int) (string, error) {
	return render(gapsTmpl, map[string]any{
		"Papers": papers,
		"Count":  orDefault(count, 5),
	})
}

// PaperPrompt asks for a short analysis of one paper from its abstract.
// ParseAnalysis reads the response.
func PaperPrompt(paper types.PaperRecord) (string, error) {
	return render(paperTmpl, paper)
}

// ValidateWordLimit reports whether n is an accepted idea word limit.
func ValidateWordLimit(n int) error {
	if n <= MinWordLimit || n > MaxWordLimit {
		return fmt.Errorf("word limit must be greater than %d and at most %d, got %d", MinWordLimit, MaxWordLimit, n)
	}
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
