// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleAnalysis = `**1. Main research question:** How do GNNs generalize?
**2. Methodology:** Message passing on citation graphs.
**3. Key findings:** Accuracy improves by 4%.
**4. Limitations:** Evaluated on small graphs only.
The scope excludes dynamic graphs.
**5. Potential applications:** Drug discovery.
**6. Relationship to other work:** Extends GCN.`

func TestExtractLimitations(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     string
	}{
		{
			name:     "stops at applications",
			analysis: sampleAnalysis,
			want: "**4. Limitations:** Evaluated on small graphs only.\n" +
				"The scope excludes dynamic graphs.\n" +
				"**5. Potential applications:** Drug discovery.",
		},
		{
			name:     "runs to end without stop word",
			analysis: "Intro\nLimitations: small sample\nMore detail",
			want:     "Limitations: small sample\nMore detail",
		},
		{
			name:     "start line with stop word",
			analysis: "Scope and conclusion are limited.\nNext line",
			want:     "Scope and conclusion are limited.",
		},
		{
			name:     "nothing to extract",
			analysis: "The paper is excellent in every way.",
			want:     "",
		},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLimitations(tt.analysis))
		})
	}
}

func TestSplitIdeas(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "numbered with intro and continuation",
			text: "Here are some ideas:\n\n1. First idea\ncontinues here.\n\n2) Second idea\n**3.** Third idea",
			want: []string{"First idea\ncontinues here.", "Second idea", "Third idea"},
		},
		{
			name: "markdown heading numbers",
			text: "### 1. Alpha\nbody a\n### 2. Beta\nbody b",
			want: []string{"Alpha\nbody a", "Beta\nbody b"},
		},
		{
			name: "bullets",
			text: "Ideas:\n- Alpha\n* Beta\n• Gamma",
			want: []string{"Alpha", "Beta", "Gamma"},
		},
		{
			name: "numbered wins over nested bullets",
			text: "1. Alpha\n   - detail\n2. Beta",
			want: []string{"Alpha\n   - detail", "Beta"},
		},
		{
			name: "plain text",
			text: "  A single paragraph idea.  ",
			want: []string{"A single paragraph idea."},
		},
		{"empty", "  \n ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIdeas(tt.text))
		})
	}
}

func TestIdeasSection(t *testing.T) {
	text := "## Summary\n1. not an idea\n\n## Research Ideas\n1. Real idea\n2. Another"
	assert.Equal(t, "1. Real idea\n2. Another", IdeasSection(text))
	assert.Equal(t, []string{"Real idea", "Another"}, SplitIdeas(IdeasSection(text)))

	assert.Equal(t, "no heading here", IdeasSection("no heading here"))
	assert.Equal(t, "1. x", IdeasSection("**Suggested Research Ideas:**\n1. x"))
}

func TestParseGapList(t *testing.T) {
	text := `Paper 1 discusses transformers.
- Explainable models for radiology
* Robust federated learning
2. Energy-aware training
- Explainable models for radiology

• Quantum-safe ML pipelines`

	got := ParseGapList(text, 0)
	assert.Equal(t, []string{
		"Explainable models for radiology",
		"Robust federated learning",
		"Energy-aware training",
		"Quantum-safe ML pipelines",
	}, got)

	assert.Len(t, ParseGapList(text, 2), 2)
	assert.Empty(t, ParseGapList("", 5))
}

func TestParseAnalysis(t *testing.T) {
	a, l := ParseAnalysis("**Analysis:** A strong GNN baseline.\n**Limitations/Scope:** Small graphs only.")
	assert.Equal(t, "A strong GNN baseline.", a)
	assert.Equal(t, "Small graphs only.", l)

	a, l = ParseAnalysis("Just some free text.")
	assert.Equal(t, "Just some free text.", a)
	assert.Empty(t, l)
}
