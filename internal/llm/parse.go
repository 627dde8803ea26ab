// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"regexp"
	"strings"
)

var (
	numberedItemRe = regexp.MustCompile(`^\s*(?:#{1,6}\s*)?(?:\*\*)?\d{1,3}[.)](?:\*\*)?\s*`)
	bulletItemRe   = regexp.MustCompile(`^\s*[-*•]\s+`)
)

// Keywords that start and end a limitations excerpt.
var (
	limitationStart = []string{"limitation", "scope"}
	limitationStop  = []string{"application", "potential", "relationship", "finding", "conclusion"}
)

// ExtractLimitations returns the limitations and scope part of a paper
// analysis. Capture starts at the first line mentioning a limitation or the
// scope and ends after the first captured line that mentions applications,
// potential, relationships, findings, or conclusions.
func ExtractLimitations(analysis string) string {
	var lines []string
	capturing := false
	for _, line := range strings.Split(analysis, "\n") {
		lower := strings.ToLower(line)
		if !capturing && containsAny(lower, limitationStart) {
			capturing = true
		}
		if !capturing {
			continue
		}
		lines = append(lines, line)
		if containsAny(lower, limitationStop) {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseAnalysis splits a PaperPrompt response into the analysis and the
// limitations/scope text. Labels may be bold; unlabeled responses are
// returned whole as the analysis.
func ParseAnalysis(text string) (analysis, limitations string) {
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		lower := strings.ToLower(clean)
		_, value, hasLabel := strings.Cut(clean, ":")
		switch {
		case strings.HasPrefix(lower, "analysis:"):
			analysis = strings.TrimSpace(value)
		case hasLabel && containsAny(lower, limitationStart):
			limitations = strings.TrimSpace(value)
		}
	}
	if analysis == "" && limitations == "" {
		analysis = strings.TrimSpace(text)
	}
	return analysis, limitations
}

// IdeasSection returns the text after the research ideas heading, or the
// whole text when there is no such heading.
func IdeasSection(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		h := strings.ToLower(strings.Trim(line, "#*: \t"))
		if strings.HasPrefix(h, "research ideas") || strings.HasPrefix(h, "suggested research ideas") {
			return strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return text
}

// SplitIdeas splits a model response into individual ideas. Numbered items
// are preferred, then bullets; text that has neither is one idea. Text
// before the first item is dropped and continuation lines stay with their
// item.
func SplitIdeas(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if items := splitItems(lines, numberedItemRe); len(items) > 0 {
		return items
	}
	if items := splitItems(lines, bulletItemRe); len(items) > 0 {
		return items
	}
	if t := strings.TrimSpace(text); t != "" {
		return []string{t}
	}
	return nil
}

func splitItems(lines []string, marker *regexp.Regexp) []string {
	var items, cur []string
	started := false
	flush := func() {
		if s := strings.TrimSpace(strings.Join(cur, "\n")); s != "" {
			items = append(items, s)
		}
		cur = nil
	}
	for _, line := range lines {
		if loc := marker.FindStringIndex(line); loc != nil {
			if started {
				flush()
			}
			started = true
			cur = append(cur, line[loc[1]:])
			continue
		}
		if started {
			cur = append(cur, line)
		}
	}
	if started {
		flush()
	}
	return items
}

// ParseGapList extracts one gap per non-empty line of a bulleted or
// numbered list. Lines that begin with "paper" echo the prompt and are
// skipped. Results are deduplicated in order and capped at max when max is
// positive.
func ParseGapList(text string, max int) []string {
	seen := make(map[string]bool)
	var gaps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		var gap string
		switch {
		case strings.HasPrefix(line, "- "):
			gap = strings.TrimSpace(line[2:])
		case line != "" && !strings.HasPrefix(strings.ToLower(line), "paper"):
			gap = strings.TrimSpace(strings.Trim(line, "-•*1234567890. "))
		}
		if gap == "" || seen[gap] {
			continue
		}
		seen[gap] = true
		gaps = append(gaps, gap)
		if max > 0 && len(gaps) == max {
			break
		}
	}
	return gaps
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
