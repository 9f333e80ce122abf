package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/registry"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

func newTestServer(t *testing.T, lazy bool, handler http.HandlerFunc) (*Server, *int32) {
	t.Helper()
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(upstream.Close)

	client := rescuegroups.New(upstream.URL, "key", time.Second, time.Second,
		ratelimit.New(1000, time.Second), cache.New[string, *rescuegroups.Document](100, time.Minute))
	return NewServer(client, registry.New(), lazy), &calls
}

func writeJSONUpstream(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	_ = json.NewEncoder(w).Encode(v)
}

func runLines(t *testing.T, s *Server, lines ...string) []Response {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := s.RunStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("RunStdio error: %v", err)
	}

	var responses []Response
	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		var r Response
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("failed to decode response line %q: %v", line, err)
		}
		responses = append(responses, r)
	}
	return responses
}

func initLine(id int) string {
	return `{"jsonrpc":"2.0","id":` + strconv.Itoa(id) + `,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`
}

func TestScenarioInitializeThenListLazyReturnsExactlyThreeCoreTools(t *testing.T) {
	s, _ := newTestServer(t, true, func(w http.ResponseWriter, r *http.Request) {
		writeJSONUpstream(w, map[string]any{"data": []any{}})
	})

	responses := runLines(t, s,
		initLine(1),
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	var result ToolsListResult
	if err := json.Unmarshal(responses[1].Result, &result); err != nil {
		t.Fatalf("failed to decode tools/list result: %v", err)
	}
	if len(result.Tools) != 3 {
		t.Fatalf("expected exactly 3 tools under lazy mode, got %d: %+v", len(result.Tools), result.Tools)
	}
	names := map[string]bool{}
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"search_adoptable_pets", "get_animal_details", "inspect_tool"} {
		if !names[want] {
			t.Fatalf("expected %q in lazy tools/list, got %v", want, names)
		}
	}
}

func TestScenarioCachedSearchCalledTwiceHitsUpstreamOnce(t *testing.T) {
	s, calls := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {
		writeJSONUpstream(w, map[string]any{"data": []any{
			map[string]any{"type": "animals", "id": "1", "attributes": map[string]any{"name": "Rex"}},
		}})
	})

	callLine := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_adoptable_pets","arguments":{}}}`
	responses := runLines(t, s, initLine(1), callLine, callLine)

	if *calls != 1 {
		t.Fatalf("expected exactly 1 upstream call for two identical cached searches, got %d", *calls)
	}
	if !bytes.Equal(responses[1].Result, responses[2].Result) {
		t.Fatalf("expected byte-equal cached responses, got %s vs %s", responses[1].Result, responses[2].Result)
	}
}

func TestScenarioRateLimitBreachFailsThirdCall(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		writeJSONUpstream(w, map[string]any{"data": []any{map[string]any{"type": "animals", "id": "1"}}})
	}))
	defer upstream.Close()

	client := rescuegroups.New(upstream.URL, "key", time.Second, time.Second,
		ratelimit.New(2, 60*time.Second), cache.New[string, *rescuegroups.Document](100, time.Minute))
	s := NewServer(client, registry.New(), false)

	// Three distinct searches (different postal codes) so each is a cold
	// cache key and must individually consume a limiter token. RunStdio
	// handles them one after another.
	lines := []string{
		initLine(1),
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search_adoptable_pets","arguments":{"postal_code":"10001"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"search_adoptable_pets","arguments":{"postal_code":"20002"}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"search_adoptable_pets","arguments":{"postal_code":"30003"}}}`,
	}
	responses := runLines(t, s, lines...)

	var rateLimitedCount int
	for _, r := range responses[1:] {
		if r.Error != nil && r.Error.Code == CodeRateLimited && strings.HasPrefix(r.Error.Message, "rate limit") {
			rateLimitedCount++
		}
	}
	if rateLimitedCount != 1 {
		t.Fatalf("expected exactly 1 of 3 searches against capacity 2 to fail rate-limited, got %d among %+v", rateLimitedCount, responses[1:])
	}
}

func TestScenarioInspectToolCompareAnimalsSchemaMentionsConstraint(t *testing.T) {
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {})

	responses := runLines(t, s, initLine(1),
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"inspect_tool","arguments":{"tool_name":"compare_animals"}}}`)

	var result CallToolResult
	if err := json.Unmarshal(responses[1].Result, &result); err != nil {
		t.Fatalf("failed to decode tools/call result: %v", err)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "animal_ids") {
		t.Fatalf("expected schema text to mention animal_ids: %s", text)
	}
}

func TestScenarioListBreedsResolvesSpeciesThenFetchesBreeds(t *testing.T) {
	var paths []string
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/public/animals/species":
			writeJSONUpstream(w, map[string]any{"data": []any{
				map[string]any{"type": "species", "id": "1", "attributes": map[string]any{"singular": "Cat", "plural": "Cats"}},
			}})
		default:
			writeJSONUpstream(w, map[string]any{"data": []any{}})
		}
	})

	responses := runLines(t, s, initLine(1),
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"list_breeds","arguments":{"species":"cats"}}}`)

	if responses[1].Error != nil {
		t.Fatalf("unexpected error: %+v", responses[1].Error)
	}
	if len(paths) != 2 || paths[0] != "/public/animals/species" || paths[1] != "/public/animals/species/1/breeds" {
		t.Fatalf("expected exactly one species GET then one breeds GET, got %v", paths)
	}
}

func TestToolsCallBeforeInitializeFailsNotInitialized(t *testing.T) {
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {})
	responses := runLines(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search_adoptable_pets","arguments":{}}}`)

	if responses[0].Error == nil || responses[0].Error.Code != CodeNotInitialized {
		t.Fatalf("expected NotInitialized error, got %+v", responses[0])
	}
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {})
	responses := runLines(t, s, `{"jsonrpc":"2.0","id":1,"method":"bogus"}`)
	if responses[0].Error == nil || responses[0].Error.Code != CodeMethodNotFound {
		t.Fatalf("expected MethodNotFound, got %+v", responses[0])
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {})
	responses := runLines(t, s, initLine(1), `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if len(responses) != 1 {
		t.Fatalf("expected exactly 1 response (initialize only), got %d", len(responses))
	}
}

func TestIDEchoedVerbatimIncludingStringID(t *testing.T) {
	s, _ := newTestServer(t, false, func(w http.ResponseWriter, r *http.Request) {})
	in := strings.NewReader(`{"jsonrpc":"2.0","id":"abc","method":"ping"}` + "\n")
	var out bytes.Buffer
	if err := s.RunStdio(context.Background(), in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"id":"abc"`) {
		t.Fatalf("expected id to be echoed verbatim: %s", out.String())
	}
}
