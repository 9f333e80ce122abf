package rescuegroups

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
)

// Client talks to the RescueGroups.org v5 API. Every read goes through the
// shared rate limiter and response cache; Client never issues a write.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	limiter *ratelimit.Limiter
	cache   *cache.Cache[string, *Document]
}

// New creates a Client. connectTimeout bounds connection establishment;
// requestTimeout bounds the whole round trip, matching C5's documented
// connect ≤ 10s / total ≤ 30s budgets.
func New(baseURL, apiKey string, connectTimeout, requestTimeout time.Duration, limiter *ratelimit.Limiter, respCache *cache.Cache[string, *Document]) *Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{DialContext: dialer.DialContext}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    limiter,
		cache:      respCache,
	}
}

// get issues a GET request against path with the given query parameters,
// served from cache when possible.
func (c *Client) get(ctx context.Context, path string, query map[string]string) (*Document, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// post issues a POST request against path with a JSON-encoded body,
// served from cache when possible — search endpoints are read-only queries
// despite the POST verb, so caching them is safe.
func (c *Client) post(ctx context.Context, path string, query map[string]string, body any) (*Document, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindInternal, err, "encode request body")
	}
	return c.do(ctx, http.MethodPost, path, query, encoded)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body []byte) (*Document, error) {
	key := cache.Key(path, query, string(body))

	return c.cache.GetOrLoad(ctx, key, func(ctx context.Context) (*Document, error) {
		return c.fetch(ctx, method, path, query, body)
	})
}

func (c *Client) fetch(ctx context.Context, method, path string, query map[string]string, body []byte) (*Document, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	reqURL, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindInternal, err, "build request url")
	}
	if len(query) > 0 {
		q := reqURL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		reqURL.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindInternal, err, "build request")
	}
	req.Header.Set("Authorization", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/vnd.api+json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindUpstream, err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindUpstream, err, "read response from %s", path)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to decode
	case http.StatusNotFound:
		return nil, mcperror.NotFound("resource not found at %s", path)
	case http.StatusTooManyRequests:
		return nil, mcperror.Upstream("upstream rate limit exceeded for %s", path).WithData(map[string]any{"retryable": true})
	default:
		return nil, mcperror.Upstream("unexpected status %d from %s", resp.StatusCode, path).
			WithData(map[string]any{"status": resp.StatusCode})
	}

	doc, err := decodeDocument(respBody)
	if err != nil {
		return nil, mcperror.Wrap(mcperror.KindUpstream, err, "decode response from %s", path)
	}
	if len(doc.Data) == 0 {
		return nil, mcperror.NotFound("no data returned from %s", path)
	}
	return doc, nil
}

// getMany is like get but tolerates an empty result set instead of treating
// it as NotFound — list endpoints legitimately return zero rows.
func (c *Client) getMany(ctx context.Context, path string, query map[string]string) (*Document, error) {
	doc, err := c.get(ctx, path, query)
	if err == nil {
		return doc, nil
	}
	if me, ok := mcperror.As(err); ok && me.Kind == mcperror.KindNotFound {
		return &Document{}, nil
	}
	return nil, err
}

func (c *Client) postMany(ctx context.Context, path string, query map[string]string, body any) (*Document, error) {
	doc, err := c.post(ctx, path, query, body)
	if err == nil {
		return doc, nil
	}
	if me, ok := mcperror.As(err); ok && me.Kind == mcperror.KindNotFound {
		return &Document{}, nil
	}
	return nil, err
}
