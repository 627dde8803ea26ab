// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gapfinder/pkg/types"
)

func TestSuggestionPrompt(t *testing.T) {
	prompt, err := SuggestionPrompt(SuggestionInput{
		Topic: "graph neural networks",
		Papers: []types.PaperRecord{
			{Title: "Graph Attention Networks", Authors: []string{"Velickovic", "Cucurull"}, Abstract: "Attention on graphs."},
			{Title: "Semi-Supervised Classification with GCNs"},
		},
		Limitations: []string{"Only small graphs were evaluated."},
		NumIdeas:    3,
		WordLimit:   150,
	})
	require.NoError(t, err)

	for _, want := range []string{
		`topic: "graph neural networks"`,
		"Paper 1: Graph Attention Networks",
		"Authors: Velickovic, Cucurull",
		"Abstract: Attention on graphs.",
		"Paper 2: Semi-Supervised Classification with GCNs",
		"Authors: (unknown)",
		"Abstract: (not available)",
		"Only small graphs were evaluated.",
		"## Idea Bridging",
		"## Research Gaps",
		IdeasHeading,
		"Suggest 3 innovative",
		"more than 100 words and within 150 words",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestSuggestionPromptDefaults(t *testing.T) {
	prompt, err := SuggestionPrompt(SuggestionInput{Topic: "x", Papers: []types.PaperRecord{{Title: "T"}}})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Suggest 10 innovative")
	assert.Contains(t, prompt, "within 250 words")
	assert.NotContains(t, prompt, "Limitations and scope identified")
}

func TestAnalysisPrompt(t *testing.T) {
	p := AnalysisPrompt("", "paper body")
	assert.True(t, strings.HasPrefix(p, DefaultAnalysisInstructions))
	assert.True(t, strings.HasSuffix(p, "\n\npaper body"))

	assert.Equal(t, "Custom.\n\nbody", AnalysisPrompt("Custom.", "body"))

	long := strings.Repeat("a", maxPaperChars+10)
	assert.Len(t, AnalysisPrompt("x", long), len("x\n\n")+maxPaperChars)
}

func TestIdeasPrompt(t *testing.T) {
	p, err := IdeasPrompt("quantum ML", "Small datasets.", 4, 200)
	require.NoError(t, err)
	assert.Contains(t, p, "about 'quantum ML'")
	assert.Contains(t, p, "suggest 4 innovative")
	assert.Contains(t, p, "within 200 words")
	assert.Contains(t, p, "Limitations and Scope:\nSmall datasets.")
}

func TestElaboratePrompt(t *testing.T) {
	p, err := ElaboratePrompt("quantum ML", "Hybrid kernels", 0)
	require.NoError(t, err)
	assert.Contains(t, p, "up to 1000 words")
	assert.Contains(t, p, "related to 'quantum ML'")
	assert.Contains(t, p, "Idea:\nHybrid kernels")
}

func TestGapsPrompt(t *testing.T) {
	p, err := GapsPrompt([]types.PaperRecord{{Title: "A", Abstract: "aa"}, {Title: "B"}}, 3)
	require.NoError(t, err)
	assert.Contains(t, p, "identify 3 new research gaps")
	assert.Contains(t, p, "Paper 1: A\nAbstract: aa")
	assert.Contains(t, p, "Paper 2: B\nAbstract: (not available)")
	assert.Contains(t, p, "bullet points")
}

func TestValidateWordLimit(t *testing.T) {
	for _, n := range []int{101, 200, 250} {
		assert.NoError(t, ValidateWordLimit(n), n)
	}
	for _, n := range []int{0, 100, 251, -5} {
		assert.Error(t, ValidateWordLimit(n), n)
	}
}

func TestPaperPrompt(t *testing.T) {
	p, err := PaperPrompt(types.PaperRecord{Title: "GAT", Abstract: "Attention."})
	require.NoError(t, err)
	assert.Contains(t, p, "Title: GAT\nAbstract: Attention.")
	assert.Contains(t, p, "Limitations/Scope: ...")
}
