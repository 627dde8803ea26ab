// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/httputil"
	"github.com/pdiddy/gapfinder/internal/metrics"
	"github.com/pdiddy/gapfinder/pkg/types"
)

// coreSearchBase is the CORE v3 works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreSearchBase = "https://api.core.ac.uk/v3/search/works"

const (
	coreService      = "core"
	defaultCoreLimit = 10
	maxCoreLimit     = 100
	maxCoreBodyBytes = 32 << 20
	defaultCoreLang  = "en"
)

// CoreClient queries the CORE search API.
type CoreClient struct {
	Client *http.Client
	APIKey string
	Config types.CoreConfig
	Log    zerolog.Logger
}

// NewCoreClient returns a client with an HTTP timeout taken from cfg.
func NewCoreClient(apiKey string, cfg types.CoreConfig, log zerolog.Logger) *CoreClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CoreClient{
		Client: &http.Client{Timeout: timeout},
		APIKey: apiKey,
		Config: cfg,
		Log:    log,
	}
}

// Name returns the service identifier.
func (c *CoreClient) Name() string { return coreService }

// Search sends the topic to CORE and returns the matching paper records.
// A missing or rejected API key yields an *apperr.AuthError; network
// failures, other non-success statuses, and undecodable bodies yield an
// *apperr.RequestError.
func (c *CoreClient) Search(ctx context.Context, query Query) ([]types.PaperRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, &apperr.AuthError{Service: coreService}
	}

	reqURL := c.endpoint() + "?" + c.params(query).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	c.Log.Debug().Str("topic", query.Topic).Str("url", reqURL).Msg("querying CORE")
	start := time.Now()

	resp, err := httputil.DoWithRetry(ctx, client, req, c.Config.RateLimitRetries, c.Log)
	if err != nil {
		metrics.ObserveExternal(coreService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: coreService, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCoreBodyBytes))
	if err != nil {
		metrics.ObserveExternal(coreService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: coreService, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.ObserveExternal(coreService, metrics.OutcomeAuth, start)
		return nil, &apperr.AuthError{Service: coreService, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.ObserveExternal(coreService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: coreService, StatusCode: resp.StatusCode, Body: apperr.Excerpt(body)}
	}

	var cr coreResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&cr); err != nil {
		metrics.ObserveExternal(coreService, metrics.OutcomeRequest, start)
		return nil, &apperr.RequestError{Service: coreService, StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing CORE response: %w", err)}
	}
	metrics.ObserveExternal(coreService, metrics.OutcomeOK, start)

	papers := make([]types.PaperRecord, 0, len(cr.Results))
	for _, w := range cr.Results {
		papers = append(papers, w.record())
	}
	c.Log.Info().Str("topic", query.Topic).Int("papers", len(papers)).Int("total_hits", cr.TotalHits).Msg("CORE search complete")
	return papers, nil
}

func (c *CoreClient) endpoint() string {
	if c.Config.BaseURL != "" {
		return c.Config.BaseURL
	}
	return coreSearchBase
}

// params builds the query string. Limit falls back to the configured
// MaxResults, then to 10, and is capped at CORE's page size of 100.
func (c *CoreClient) params(q Query) url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = c.Config.MaxResults
	}
	if limit <= 0 {
		limit = defaultCoreLimit
	}
	if limit > maxCoreLimit {
		limit = maxCoreLimit
	}

	sort := q.Sort
	if sort == "" {
		sort = c.Config.Sort
	}
	if sort == "" {
		sort = SortRelevance
	}

	lang := c.Config.Language
	if lang == "" {
		lang = defaultCoreLang
	}

	params := url.Values{
		"q":     {q.Topic},
		"limit": {strconv.Itoa(limit)},
		"sort":  {sort},
	}
	if lang != "-" {
		params.Set("language", lang)
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	return params
}

// CORE API JSON structures.
type coreResponse struct {
	TotalHits int        `json:"totalHits"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	Results   []coreWork `json:"results"`
}

type coreWork struct {
	ID                 coreID       `json:"id"`
	Title              string       `json:"title"`
	Authors            []coreAuthor `json:"authors"`
	Abstract           string       `json:"abstract"`
	Description        string       `json:"description"`
	DOI                string       `json:"doi"`
	DownloadURL        string       `json:"downloadUrl"`
	FullText           string       `json:"fullText"`
	SourceFulltextURLs []string     `json:"sourceFulltextUrls"`
	Links              []coreLink   `json:"links"`
	YearPublished      int          `json:"yearPublished"`
	Topics             []string     `json:"topics"`
	FieldOfStudy       string       `json:"fieldOfStudy"`
}

type coreAuthor struct {
	Name string `json:"name"`
}

type coreLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// coreID accepts both numeric and string work IDs.
type coreID string

func (id *coreID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = coreID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	*id = coreID(data)
	return nil
}

// record converts a CORE work into a PaperRecord. The landing page is the
// "display" link; the abstract falls back to the v2-style description field.
func (w coreWork) record() types.PaperRecord {
	p := types.PaperRecord{
		Identifier:   string(w.ID),
		Title:        w.Title,
		Abstract:     w.Abstract,
		DOI:          w.DOI,
		DownloadURL:  w.DownloadURL,
		FullText:     w.FullText,
		FullTextURLs: w.SourceFulltextURLs,
		Year:         w.YearPublished,
	}
	if p.Abstract == "" {
		p.Abstract = w.Description
	}
	for _, a := range w.Authors {
		if a.Name != "" {
			p.Authors = append(p.Authors, a.Name)
		}
	}
	for _, l := range w.Links {
		switch l.Type {
		case "display":
			if p.URL == "" {
				p.URL = l.URL
			}
		case "download":
			if p.DownloadURL == "" {
				p.DownloadURL = l.URL
			}
		}
	}
	p.Keywords = append(p.Keywords, w.Topics...)
	if w.FieldOfStudy != "" {
		p.Keywords = append(p.Keywords, w.FieldOfStudy)
	}
	return p
}
