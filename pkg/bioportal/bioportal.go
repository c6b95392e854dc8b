// Package bioportal provides a small typed client for the BioPortal
// biomedical-ontology REST API. It covers term search, property search,
// usage analytics and text annotation, and normalizes the loosely
// structured upstream JSON into flat result records.
package bioportal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/bioportal", "bioportal")

const (
	// DefaultBaseURL is the public BioPortal REST endpoint.
	DefaultBaseURL = "https://data.bioontology.org"
	// BrowseURLPrefix is the BioPortal UI page for an ontology;
	// the acronym is appended to form the browse URL.
	BrowseURLPrefix = "https://bioportal.bioontology.org/ontologies/"
	// EnvAPIKey is the environment variable providing the default API key.
	EnvAPIKey = "BIOPORTAL_API_KEY"

	// DefaultMaxResults caps the number of records returned to the caller
	// when the request does not specify a limit.
	DefaultMaxResults = 10
	// DefaultRequestTimeout bounds a single upstream call.
	DefaultRequestTimeout = 15 * time.Second

	// pageSize is the fixed upstream page size; results are truncated
	// client side, max_results never goes on the wire.
	pageSize = 50

	maxExcerptSize = 512
	maxBodySize    = 8 << 20
)

// Client is a BioPortal API client. It keeps no mutable state across
// calls; concurrent use is safe.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient resolves the credential from cfg or the environment and
// returns a ready client. It fails with ErrNoAPIKey when neither is set.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	key, err := ResolveAPIKey(cfg.APIKey)
	if err != nil {
		return nil, err
	}

	timeout := DefaultRequestTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(values.StringsCoalesce(cfg.BaseURL, DefaultBaseURL), "/"),
		apiKey:     key,
		httpClient: &http.Client{Timeout: timeout},
	}
	return c, nil
}

// WithBaseURL overrides the upstream endpoint, mostly for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithHTTPClient overrides the HTTP client used for upstream calls.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// SearchTerms searches ontology classes matching the query and returns
// at most req.MaxResults flat term records, preserving upstream order.
func (c *Client) SearchTerms(ctx context.Context, req *SearchRequest) ([]TermResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var resp searchResponse
	if err := c.get(ctx, "/search", encodeSearch(req), &resp); err != nil {
		return nil, err
	}
	results, dropped := normalizeClasses(resp.Collection, req.cap())
	if dropped > 0 {
		logger.ContextKV(ctx, xlog.DEBUG, "op", "SearchTerms", "dropped", dropped)
	}
	return results, nil
}

// SearchProperties searches ontology properties. The extra filters allow
// requiring definitions and restricting the property kinds.
func (c *Client) SearchProperties(ctx context.Context, req *PropertySearchRequest) ([]PropertyResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	vals, err := encodeProperty(req)
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	if err := c.get(ctx, "/property_search", vals, &resp); err != nil {
		return nil, err
	}
	results, dropped := normalizeClasses(resp.Collection, req.cap())
	if dropped > 0 {
		logger.ContextKV(ctx, xlog.DEBUG, "op", "SearchProperties", "dropped", dropped)
	}
	return results, nil
}

// Analytics returns visit analytics. Without an ontology acronym it
// returns the aggregate acronym to visit-count mapping, optionally
// narrowed by month and year; with an acronym it returns the detailed
// per-ontology breakdown.
func (c *Client) Analytics(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResult, error) {
	if req == nil {
		req = &AnalyticsRequest{}
	}
	path, vals, err := encodeAnalytics(req)
	if err != nil {
		return nil, err
	}

	if req.Ontology == "" {
		var slices map[string]map[string]map[string]int64
		if err := c.get(ctx, path, vals, &slices); err != nil {
			return nil, err
		}
		return normalizeAggregateAnalytics(slices), nil
	}

	var raw json.RawMessage
	if err := c.get(ctx, path, vals, &raw); err != nil {
		return nil, err
	}
	return normalizeOntologyAnalytics(raw, acronymOf(req.Ontology))
}

// Annotate runs the BioPortal annotator over the text and returns the
// recognized ontology class mentions with their positions.
func (c *Client) Annotate(ctx context.Context, req *AnnotateRequest) ([]Annotation, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var records []annotationRecord
	if err := c.get(ctx, "/annotator", encodeAnnotate(req), &records); err != nil {
		return nil, err
	}
	annotations, dropped := normalizeAnnotations(records)
	if dropped > 0 {
		logger.ContextKV(ctx, xlog.DEBUG, "op", "Annotate", "dropped", dropped)
	}
	return annotations, nil
}

// get issues a single GET with the API key attached. Transport failures,
// non-2xx statuses and unparseable bodies surface as *UpstreamError.
// No retries.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &UpstreamError{cause: err}
	}
	req.Header.Set("Authorization", "apikey token="+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, cause: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &UpstreamError{StatusCode: resp.StatusCode, Excerpt: excerpt(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Excerpt: excerpt(body), cause: err}
	}
	return nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxExcerptSize {
		// back off to a rune boundary so the excerpt stays valid UTF-8
		cut := maxExcerptSize
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
