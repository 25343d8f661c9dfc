// Package postgrest is a minimal client for tabular REST APIs following
// PostgREST conventions: one resource path per table, equality filters and
// ordering in the query string, JSON bodies, and representation echo via
// the Prefer header. It works against a self-hosted PostgREST gateway and
// against managed backends exposing the same surface.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is a store- or transport-level failure normalized into data.
// Execute never raises these as Go errors; callers branch on Result.Error.
type Error struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Result is the uniform outcome of every terminal operation. Exactly one
// of Data and Error is meaningful; Data holds the raw JSON rows.
type Result struct {
	Data  json.RawMessage
	Error *Error
}

// Config holds client configuration. APIKey is optional; when empty,
// requests go out unauthenticated (open or local deployments).
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

// Client issues requests against one PostgREST-style base URL.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New builds a client. The base URL may be a bare host; a missing scheme
// defaults to https and a trailing slash is stripped.
func New(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: normalizeBaseURL(cfg.URL),
		apiKey:  cfg.APIKey,
		httpc:   httpc,
	}
}

func normalizeBaseURL(raw string) string {
	u := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if u == "" {
		return u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

// From starts a request specification for the named table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Query is a request specification built incrementally and executed by a
// single terminal Execute call.
type Query struct {
	client *Client
	table  string

	method     string
	selectCols string
	orderBy    string
	filterCol  string
	filterVal  string
	body       any
	wantEcho   bool
}

// Select prepares a GET with the given column projection ("*" or a
// comma-separated list).
func (q *Query) Select(columns string) *Query {
	if columns == "" {
		columns = "*"
	}
	q.method = http.MethodGet
	q.selectCols = columns
	return q
}

// Order adds ordering on a column; ascending=false yields column.desc.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orderBy = column + "." + dir
	return q
}

// Insert prepares a POST of new rows. The created representation is echoed
// back so callers can read store-assigned fields without a second round
// trip.
func (q *Query) Insert(rows any) *Query {
	q.method = http.MethodPost
	q.body = rows
	q.wantEcho = true
	return q
}

// Update prepares a PATCH with the given body; scope it with Eq.
func (q *Query) Update(patch any) *Query {
	q.method = http.MethodPatch
	q.body = patch
	q.wantEcho = true
	return q
}

// Delete prepares a DELETE; scope it with Eq.
func (q *Query) Delete() *Query {
	q.method = http.MethodDelete
	return q
}

// Eq restricts the operation to rows where column equals value. Only a
// single equality predicate is supported; this scope is intentional.
func (q *Query) Eq(column, value string) *Query {
	q.filterCol = column
	q.filterVal = value
	return q
}

// Execute issues the single HTTP request accumulated by the chain.
// Store-reported failures and transport failures alike come back inside
// Result; Execute never returns a Go error to the caller.
func (q *Query) Execute(ctx context.Context) Result {
	endpoint, err := q.buildURL()
	if err != nil {
		return Result{Error: &Error{Message: err.Error()}}
	}

	var bodyReader io.Reader
	if q.body != nil {
		payload, err := json.Marshal(q.body)
		if err != nil {
			return Result{Error: &Error{Message: fmt.Sprintf("encode request body: %v", err)}}
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, q.method, endpoint, bodyReader)
	if err != nil {
		return Result{Error: &Error{Message: err.Error()}}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if q.client.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+q.client.apiKey)
	}
	if q.wantEcho {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := q.client.httpc.Do(req)
	if err != nil {
		return Result{Error: &Error{Message: err.Error()}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Error: &Error{Message: fmt.Sprintf("read response body: %v", err)}}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Error: parseStoreError(resp, raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{}
	}
	if !json.Valid(raw) {
		return Result{Error: &Error{Message: "malformed response body"}}
	}
	return Result{Data: raw}
}

func (q *Query) buildURL() (string, error) {
	if q.method == "" {
		return "", fmt.Errorf("postgrest: no operation selected for table %q", q.table)
	}
	params := url.Values{}
	if q.selectCols != "" {
		params.Set("select", q.selectCols)
	}
	if q.orderBy != "" {
		params.Set("order", q.orderBy)
	}
	if q.filterCol != "" {
		params.Set(q.filterCol, "eq."+q.filterVal)
	}
	endpoint := q.client.baseURL + "/" + q.table
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint, nil
}

// parseStoreError degrades gracefully: the remote error body shape is not
// guaranteed, so try JSON first, then raw text, then a status line.
func parseStoreError(resp *http.Response, raw []byte) *Error {
	message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	var parsed struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return &Error{
			Message: parsed.Message,
			Details: parsed.Details,
			Code:    fmt.Sprintf("%d", resp.StatusCode),
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		message = text
	}
	return &Error{
		Message: message,
		Code:    fmt.Sprintf("%d", resp.StatusCode),
	}
}
