// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gapfinder/internal/apperr"
	"github.com/pdiddy/gapfinder/internal/httputil"
	"github.com/pdiddy/gapfinder/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleCoreJSON = `{
  "totalHits": 2,
  "limit": 10,
  "offset": 0,
  "results": [
    {
      "id": 4567,
      "title": "Graph Attention Networks",
      "authors": [{"name": "Petar Velickovic"}, {"name": "Guillem Cucurull"}],
      "abstract": "We present graph attention networks.",
      "doi": "10.48550/arXiv.1710.10903",
      "downloadUrl": "https://core.ac.uk/download/4567.pdf",
      "fullText": "Full text of GAT.",
      "links": [
        {"type": "download", "url": "https://core.ac.uk/download/4567.pdf"},
        {"type": "display", "url": "https://core.ac.uk/works/4567"}
      ],
      "yearPublished": 2018,
      "topics": ["graphs", "attention"],
      "fieldOfStudy": "computer science"
    },
    {
      "id": "oai:arXiv.org:1609.02907",
      "title": "Semi-Supervised Classification with Graph Convolutional Networks",
      "authors": [{"name": "Thomas Kipf"}],
      "description": "A scalable approach for semi-supervised learning on graphs.",
      "sourceFulltextUrls": ["https://arxiv.org/abs/1609.02907"]
    }
  ]
}`

func coreTestServer(t *testing.T, statusCode int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var last http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := coreSearchBase
	coreSearchBase = ts.URL
	t.Cleanup(func() { coreSearchBase = old })
	return ts, &last
}

func testCoreClient(ts *httptest.Server) *CoreClient {
	return &CoreClient{
		Client: ts.Client(),
		APIKey: "core-test-key",
		Config: types.CoreConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "gapfinder-test/0.1"},
			MaxResults: 10,
		},
		Log: zerolog.Nop(),
	}
}

func TestCoreClientSearch(t *testing.T) {
	ts, last := coreTestServer(t, http.StatusOK, sampleCoreJSON)

	papers, err := testCoreClient(ts).Search(context.Background(), Query{Topic: "graph neural networks"})
	require.NoError(t, err)
	require.Len(t, papers, 2)

	// Request shape.
	assert.Equal(t, "Bearer core-test-key", last.Header.Get("Authorization"))
	assert.Equal(t, "gapfinder-test/0.1", last.Header.Get("User-Agent"))
	q := last.URL.Query()
	assert.Equal(t, "graph neural networks", q.Get("q"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, SortRelevance, q.Get("sort"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Empty(t, q.Get("offset"))

	p0 := papers[0]
	assert.Equal(t, "4567", p0.Identifier)
	assert.Equal(t, "Graph Attention Networks", p0.Title)
	assert.Equal(t, []string{"Petar Velickovic", "Guillem Cucurull"}, p0.Authors)
	assert.Equal(t, "We present graph attention networks.", p0.Abstract)
	assert.Equal(t, "https://core.ac.uk/works/4567", p0.URL)
	assert.Equal(t, "https://core.ac.uk/download/4567.pdf", p0.DownloadURL)
	assert.Equal(t, "Full text of GAT.", p0.FullText)
	assert.Equal(t, 2018, p0.Year)
	assert.Equal(t, []string{"graphs", "attention", "computer science"}, p0.Keywords)

	// String ID, description fallback, and full-text URL link fallback.
	p1 := papers[1]
	assert.Equal(t, "oai:arXiv.org:1609.02907", p1.Identifier)
	assert.Equal(t, "A scalable approach for semi-supervised learning on graphs.", p1.Abstract)
	assert.Equal(t, "https://arxiv.org/abs/1609.02907", p1.Link())
}

func TestCoreClientPassesTopicVerbatim(t *testing.T) {
	ts, last := coreTestServer(t, http.StatusOK, `{"results": []}`)

	topic := `  "federated learning" AND privacy  `
	papers, err := testCoreClient(ts).Search(context.Background(), Query{Topic: topic, Limit: 3, Offset: 6, Sort: SortViews})
	require.NoError(t, err)
	assert.Empty(t, papers)

	q := last.URL.Query()
	assert.Equal(t, topic, q.Get("q"))
	assert.Equal(t, "3", q.Get("limit"))
	assert.Equal(t, "6", q.Get("offset"))
	assert.Equal(t, SortViews, q.Get("sort"))
}

func TestCoreClientLimitCapped(t *testing.T) {
	ts, last := coreTestServer(t, http.StatusOK, `{"results": []}`)

	_, err := testCoreClient(ts).Search(context.Background(), Query{Topic: "x", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, "100", last.URL.Query().Get("limit"))
}

func TestCoreClientMissingKey(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	c := &CoreClient{Client: ts.Client(), Config: types.CoreConfig{BaseURL: ts.URL}, Log: zerolog.Nop()}
	_, err := c.Search(context.Background(), Query{Topic: "x"})

	var authErr *apperr.AuthError
	require.True(t, errors.As(err, &authErr), "want AuthError, got %v", err)
	assert.Equal(t, "core", authErr.Service)
	assert.Equal(t, 0, authErr.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "no request should be sent without a key")
}

func TestCoreClientEmptyTopic(t *testing.T) {
	ts, _ := coreTestServer(t, http.StatusOK, `{"results": []}`)
	_, err := testCoreClient(ts).Search(context.Background(), Query{Topic: " "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestCoreClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAuth   bool
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Invalid API key"}`, true, 401, ""},
		{"forbidden", http.StatusForbidden, ``, true, 403, ""},
		{"server error", http.StatusInternalServerError, `upstream exploded`, false, 500, "upstream exploded"},
		{"rate limited", http.StatusTooManyRequests, `slow down`, false, 429, "slow down"},
		{"bad json", http.StatusOK, `{"results": [`, false, 200, "parsing CORE response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := coreTestServer(t, tt.status, tt.body)
			_, err := testCoreClient(ts).Search(context.Background(), Query{Topic: "x"})
			require.Error(t, err)

			if tt.wantAuth {
				var authErr *apperr.AuthError
				require.True(t, errors.As(err, &authErr), "want AuthError, got %T: %v", err, err)
				assert.Equal(t, tt.wantStatus, authErr.StatusCode)
				return
			}
			var reqErr *apperr.RequestError
			require.True(t, errors.As(err, &reqErr), "want RequestError, got %T: %v", err, err)
			assert.Equal(t, tt.wantStatus, reqErr.StatusCode)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCoreClientTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := &CoreClient{Client: http.DefaultClient, APIKey: "k", Config: types.CoreConfig{BaseURL: url}, Log: zerolog.Nop()}
	_, err := c.Search(context.Background(), Query{Topic: "x"})

	var reqErr *apperr.RequestError
	require.True(t, errors.As(err, &reqErr), "want RequestError, got %T: %v", err, err)
	assert.Equal(t, 0, reqErr.StatusCode)
}

func TestCoreClientRetriesRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, sampleCoreJSON)
	}))
	defer ts.Close()

	c := testCoreClient(ts)
	c.Config.BaseURL = ts.URL
	c.Config.RateLimitRetries = 2

	papers, err := c.Search(context.Background(), Query{Topic: "x"})
	require.NoError(t, err)
	assert.Len(t, papers, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCoreClientLanguageDisabled(t *testing.T) {
	ts, last := coreTestServer(t, http.StatusOK, `{"results": []}`)
	c := testCoreClient(ts)
	c.Config.Language = "-"

	_, err := c.Search(context.Background(), Query{Topic: "x"})
	require.NoError(t, err)
	assert.False(t, last.URL.Query().Has("language"))
}
