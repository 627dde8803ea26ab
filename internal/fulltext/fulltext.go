// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fulltext obtains the full text of a paper for per-paper analysis.
// CORE often returns the text inline; otherwise the paper's PDF is
// downloaded and its text layer extracted.
package fulltext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"rsc.io/pdf"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/pkg/types"
)

const (
	pdfService      = "pdf"
	defaultMaxBytes = 50 << 20
)

// ErrNoFullText is returned when a paper has neither inline text nor a
// download URL.
var ErrNoFullText = errors.New("no full text available")

// Source returns the text of a paper.
type Source interface {
	Text(ctx context.Context, paper types.PaperRecord) (string, error)
}

// Fetcher is the production Source.
type Fetcher struct {
	Client *http.Client
	Config types.FullTextConfig
	Log    zerolog.Logger
}

// NewFetcher returns a Fetcher with an HTTP timeout taken from cfg.
func NewFetcher(cfg types.FullTextConfig, log zerolog.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}, Config: cfg, Log: log}
}

// Text returns paper.FullText when CORE supplied it. Otherwise it downloads
// paper.DownloadURL and extracts the PDF text.
func (f *Fetcher) Text(ctx context.Context, paper types.PaperRecord) (string, error) {
	if strings.TrimSpace(paper.FullText) != "" {
		return paper.FullText, nil
	}
	if paper.DownloadURL == "" {
		return "", ErrNoFullText
	}

	data, err := f.download(ctx, paper.DownloadURL)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(data)
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", paper.DownloadURL, err)
	}
	f.Log.Debug().Str("paper", paper.Identifier).Int("bytes", len(data)).Int("chars", len(text)).Msg("extracted PDF text")
	return text, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")
	if f.Config.UserAgent != "" {
		req.Header.Set("User-Agent", f.Config.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.ObserveExternal(pdfService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: pdfService, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		metrics.ObserveExternal(pdfService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: pdfService, StatusCode: resp.StatusCode, Body: apperr.Excerpt(body)}
	}

	maxBytes := f.Config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		metrics.ObserveExternal(pdfService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: pdfService, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading PDF: %w", err)}
	}
	if int64(len(data)) > maxBytes {
		metrics.ObserveExternal(pdfService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: pdfService, StatusCode: resp.StatusCode, Err: fmt.Errorf("PDF exceeds %d bytes", maxBytes)}
	}
	metrics.ObserveExternal(pdfService, metrics.OutcomeOK, start)
	return data, nil
}

// ExtractText returns the text layer of a PDF, one line per text row and
// pages separated by a blank line. Malformed documents return an error.
func ExtractText(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", errors.New("not a PDF document")
	}

	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := pageText(p); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// tjWordGap is the TJ adjustment, in thousandths of a text unit, beyond
// which a negative kern is read as a word break.
const tjWordGap = 200

// rawEncoding passes string bytes through unchanged until a font is selected.
type rawEncoding struct{}

func (rawEncoding) Decode(raw string) string { return raw }

// pageText walks the page content stream and decodes the strings shown by
// Tj, TJ, ' and ". Spaces inside those strings are kept as written. A move
// to a new baseline starts a new line, and a move along the same baseline
// or a wide TJ kern becomes a space.
func pageText(p pdf.Page) string {
	var b strings.Builder
	var enc pdf.TextEncoding = rawEncoding{}
	fonts := make(map[string]pdf.TextEncoding)
	lineY := 0.0

	sep := func(c byte) {
		if b.Len() == 0 {
			return
		}
		last := b.String()[b.Len()-1]
		if last == '\n' || (c == ' ' && last == ' ') {
			return
		}
		b.WriteByte(c)
	}
	show := func(v pdf.Value) {
		b.WriteString(enc.Decode(v.RawString()))
	}
	move := func(y float64) {
		if math.Abs(y-lineY) > 0.5 {
			sep('\n')
		} else {
			sep(' ')
		}
		lineY = y
	}

	interpret := func(strm pdf.Value) {
		pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
			n := stk.Len()
			args := make([]pdf.Value, n)
			for i := n - 1; i >= 0; i-- {
				args[i] = stk.Pop()
			}

			switch op {
			case "BT":
				lineY = 0
				sep('\n')
			case "Tf":
				if n != 2 {
					return
				}
				name := args[0].Name()
				e, ok := fonts[name]
				if !ok {
					e = p.Font(name).Encoder()
					fonts[name] = e
				}
				enc = e
			case "Td", "TD":
				if n == 2 {
					move(lineY + args[1].Float64())
				}
			case "Tm":
				if n == 6 {
					move(args[5].Float64())
				}
			case "T*":
				sep('\n')
			case "'":
				sep('\n')
				if n == 1 {
					show(args[0])
				}
			case "\"":
				sep('\n')
				if n == 3 {
					show(args[2])
				}
			case "Tj":
				if n == 1 {
					show(args[0])
				}
			case "TJ":
				if n != 1 {
					return
				}
				arr := args[0]
				for i := 0; i < arr.Len(); i++ {
					x := arr.Index(i)
					if x.Kind() == pdf.String {
						show(x)
					} else if -x.Float64() > tjWordGap {
						sep(' ')
					}
				}
			}
		})
	}

	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			interpret(contents.Index(i))
		}
	} else {
		interpret(contents)
	}

	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
