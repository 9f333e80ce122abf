package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/registry"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

func newTestHTTPServer(t *testing.T, authToken string) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(upstream.Close)

	client := rescuegroups.New(upstream.URL, "key", time.Second, time.Second,
		ratelimit.New(1000, time.Second), cache.New[string, *rescuegroups.Document](100, time.Minute))
	s := NewServer(client, registry.New(), false)
	ts := httptest.NewServer(s.NewHTTPHandler(authToken))
	t.Cleanup(ts.Close)
	return ts
}

func TestScenarioHTTPAuthGateRejectsMissingBearerToken(t *testing.T) {
	ts := newTestHTTPServer(t, "secret")

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %d", resp.StatusCode)
	}
}

func TestScenarioHTTPAuthGateAcceptsValidBearerToken(t *testing.T) {
	ts := newTestHTTPServer(t, "secret")

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Header.Set("Authorization", "Bearer secret")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a valid Authorization header, got %d", resp.StatusCode)
	}
}

func TestHTTPPostWithoutAuthTokenConfiguredSucceeds(t *testing.T) {
	ts := newTestHTTPServer(t, "")

	resp, err := http.Post(ts.URL+"/", "application/json", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 when no auth token is configured, got %d", resp.StatusCode)
	}
}

func TestHTTPSSEEmitsEndpointEventWithSessionParam(t *testing.T) {
	ts := newTestHTTPServer(t, "")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/sse", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	chunk := string(buf[:n])
	if !strings.Contains(chunk, "event: endpoint") || !strings.Contains(chunk, "/message?session=") {
		t.Fatalf("expected an initial endpoint event with a session query param, got %q", chunk)
	}
}
