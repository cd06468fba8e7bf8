package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ebirch/plover"
	"github.com/ebirch/plover/record"
)

const (
	defaultUserAgent = "plover/0.1"
	requestTimeout   = 5 * time.Second
)

// recordPayload is the wire shape of one record from an HTTP records
// endpoint.
type recordPayload struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type recordsResponse struct {
	Records         []recordPayload `json:"records"`
	SignatureFields []string        `json:"signature_fields"`
}

// httpClient talks to a plover records endpoint: GET <base>/records with the
// current query encoded as URL parameters, returning a JSON record list.
type httpClient struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewHTTP builds an HTTP-backed source for the given base URL. Signature
// fields default to everything the first probe cannot know, so the endpoint
// should be configured with display-relevant fields named "name", "status"
// and "updated"; those are what the host renders.
func NewHTTP(base string) (Source, error) {
	parsed, err := parseBaseURL(base)
	if err != nil {
		return Source{}, err
	}
	c := &httpClient{
		baseURL: parsed,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	return Source{
		Name:            "http " + parsed.Host,
		Fetch:           c.fetch,
		SignatureFields: []string{"name", "status", "updated"},
		Columns:         []string{"name", "status", "updated"},
		SortKeys:        []string{"name", "status", "updated"},
	}, nil
}

// fetch retrieves the record list. The query rides along so a capable
// backend can pre-filter; the engine filters and sorts again regardless, so
// a backend that ignores the parameters still behaves correctly.
func (c *httpClient) fetch(ctx context.Context, q plover.Query) ([]record.Record, error) {
	values := url.Values{}
	if text := strings.TrimSpace(q.SearchText); text != "" {
		values.Set("search", text)
	}
	if q.SortKey != "" {
		values.Set("sort", q.SortKey)
		values.Set("dir", q.Direction.String())
	}
	rel := &url.URL{Path: "/records", RawQuery: values.Encode()}

	var payload recordsResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}

	records := make([]record.Record, 0, len(payload.Records))
	for _, p := range payload.Records {
		records = append(records, record.Record{ID: p.ID, Fields: p.Fields})
	}
	return records, nil
}

func (c *httpClient) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("endpoint %s returned status %d", rel.String(), resp.StatusCode)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return nil, fmt.Errorf("http source requires a base url")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
