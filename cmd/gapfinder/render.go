// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	bannerTitle   = "Research Paper Analysis System"
	defaultWidth  = 100
	topicPrompt   = "Enter your research topic of interest: "
	blankTopicMsg = "Please enter a valid research topic."
)

var (
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer writes either styled terminal output or plain text.
type printer struct {
	w     io.Writer
	plain bool
}

func newPrinter(w io.Writer, plain bool) *printer {
	return &printer{w: w, plain: plain || !isTerminal(w)}
}

func (p *printer) banner() {
	if p.plain {
		fmt.Fprintln(p.w, bannerTitle)
		fmt.Fprintln(p.w, strings.Repeat("=", len(bannerTitle)))
		return
	}
	fmt.Fprintln(p.w, bannerStyle.Render(bannerTitle))
}

func (p *printer) note(msg string) {
	if p.plain {
		fmt.Fprintln(p.w, msg)
		return
	}
	fmt.Fprintln(p.w, noteStyle.Render(msg))
}

// markdown renders text with glamour, falling back to the raw text when
// output is plain or rendering fails.
func (p *printer) markdown(text string) {
	if p.plain {
		fmt.Fprintln(p.w, strings.TrimRight(text, "\n"))
		return
	}
	fmt.Fprintln(p.w, renderMarkdown(text, defaultWidth))
}

func renderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
