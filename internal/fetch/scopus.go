// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paw-tracker/internal/httputil"
	"github.com/pdiddy/paw-tracker/pkg/types"
)

// scopusSearchBase is the Scopus Search API endpoint. Declared as a var so
// tests can substitute an httptest server.
var scopusSearchBase = "https://api.elsevier.com/content/search/scopus"

// ScopusBackend queries the Scopus Search API.
type ScopusBackend struct {
	Client *http.Client

	// APIKey is the Elsevier developer key (X-ELS-APIKey).
	APIKey string
	// InstToken is the optional institutional token for off-network access.
	InstToken string

	UserAgent string
	PageSize  int
	// ResultCap is the hard per-query result ceiling the service level
	// imposes. A query whose total exceeds it yields ErrCapExceeded along
	// with the entries paged through up to the cap.
	ResultCap int
}

// Name returns the backend identifier.
func (b *ScopusBackend) Name() string { return "scopus" }

const (
	defaultPageSize  = 25
	defaultResultCap = 5000
)

// Search runs one query, paging through results with start/count. It asks
// for the COMPLETE view so abstracts and full author lists come back.
func (b *ScopusBackend) Search(ctx context.Context, query string) ([]types.Record, error) {
	pageSize := b.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxTotal := b.ResultCap
	if maxTotal <= 0 {
		maxTotal = defaultResultCap
	}

	var out []types.Record
	total := -1
	limit := 0

	for start := 0; total < 0 || start < limit; start += pageSize {
		page, pageTotal, err := b.fetchPage(ctx, query, start, pageSize)
		if err != nil {
			return nil, err
		}

		if total < 0 {
			total = pageTotal
			limit = total
			if limit > maxTotal {
				limit = maxTotal
			}
		}

		out = append(out, page...)
		if len(page) == 0 {
			break
		}
	}

	if total > maxTotal {
		return out, fmt.Errorf("%d results for query %q above cap %d: %w", total, query, maxTotal, ErrCapExceeded)
	}
	return out, nil
}

func (b *ScopusBackend) fetchPage(ctx context.Context, query string, start, count int) ([]types.Record, int, error) {
	params := url.Values{
		"query": {query},
		"start": {strconv.Itoa(start)},
		"count": {strconv.Itoa(count)},
		"view":  {"COMPLETE"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scopusSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ELS-APIKey", b.APIKey)
	if b.InstToken != "" {
		req.Header.Set("X-ELS-Insttoken", b.InstToken)
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, 0, &TransportError{Op: "Scopus API request", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, &QueryError{Query: query, Status: resp.StatusCode, Message: compact(body)}
	default:
		// 401/403 (bad key, quota) and 5xx are availability problems, not
		// something a different query shape can fix.
		body, _ := io.ReadAll(resp.Body)
		return nil, 0, &TransportError{
			Op:  "Scopus API request",
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, compact(body)),
		}
	}

	var sr scopusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, 0, &TransportError{Op: "parsing Scopus response", Err: err}
	}

	total, _ := strconv.Atoi(sr.SearchResults.TotalResults)

	var records []types.Record
	for _, e := range sr.SearchResults.Entries {
		// Empty result sets come back as a single entry carrying an error
		// string instead of an empty list.
		if e.Error != "" {
			continue
		}
		records = append(records, entryToRecord(e))
	}
	return records, total, nil
}

func entryToRecord(e scopusEntry) types.Record {
	cited, _ := strconv.Atoi(e.CitedByCount)
	return types.Record{
		EID:       strings.TrimSpace(e.EID),
		DOI:       strings.TrimSpace(e.DOI),
		Title:     e.Title,
		Authors:   entryAuthors(e),
		Venue:     e.PublicationName,
		DocType:   e.SubtypeDescription,
		CitedBy:   cited,
		CoverDate: e.CoverDate,
		Abstract:  e.Description,
		Keywords:  e.AuthKeywords,
	}
}

// entryAuthors joins the COMPLETE-view author list; the STANDARD view only
// carries the first creator.
func entryAuthors(e scopusEntry) string {
	if len(e.Authors) == 0 {
		return e.Creator
	}
	names := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, "; ")
}

// compact collapses an error body to a single trimmed line for messages.
func compact(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// Scopus Search API JSON structures.
type scopusResponse struct {
	SearchResults scopusSearchResults `json:"search-results"`
}

type scopusSearchResults struct {
	TotalResults string        `json:"opensearch:totalResults"`
	Entries      []scopusEntry `json:"entry"`
}

type scopusEntry struct {
	Error              string         `json:"error"`
	EID                string         `json:"eid"`
	DOI                string         `json:"prism:doi"`
	Title              string         `json:"dc:title"`
	Creator            string         `json:"dc:creator"`
	Authors            []scopusAuthor `json:"author"`
	PublicationName    string         `json:"prism:publicationName"`
	CoverDate          string         `json:"prism:coverDate"`
	CitedByCount       string         `json:"citedby-count"`
	SubtypeDescription string         `json:"subtypeDescription"`
	Description        string         `json:"dc:description"`
	AuthKeywords       string         `json:"authkeywords"`
}

type scopusAuthor struct {
	Name string `json:"authname"`
}
