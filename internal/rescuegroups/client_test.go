package rescuegroups

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	limiter := ratelimit.New(100, time.Second)
	respCache := cache.New[string, *Document](10, time.Minute)
	c := New(srv.URL, "test-key", 5*time.Second, 5*time.Second, limiter, respCache)
	return c, &calls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetAnimalHitsExpectedPath(t *testing.T) {
	var gotPath, gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, map[string]any{
			"data": map[string]any{"type": "animals", "id": "123", "attributes": map[string]any{"name": "Rex"}},
		})
	})

	doc, err := c.GetAnimal(context.Background(), "123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/public/animals/123" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "test-key" {
		t.Fatalf("expected raw api key in Authorization header, got %q", gotAuth)
	}
	if len(doc.Data) != 1 || doc.Data[0].Attr("name") != "Rex" {
		t.Fatalf("unexpected decoded document: %+v", doc)
	}
}

func TestGetAnimalNotFoundOnEmptyDataArray(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []any{}})
	})

	_, err := c.GetAnimal(context.Background(), "999")
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetAnimal404(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetAnimal(context.Background(), "999")
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSearchPetsBuildsExpectedRequest(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"type": "animals", "id": "1"},
		}})
	})

	needsFoster := true
	_, err := c.SearchPets(context.Background(), "dogs", SearchParams{
		PostalCode:  "90210",
		Miles:       25,
		NeedsFoster: &needsFoster,
		Sort:        "Random",
		Limit:       20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/public/animals/search/available/dogs/haspic" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "limit=20&sort=random" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	data := gotBody["data"].(map[string]any)
	filters := data["filters"].([]any)
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %+v", filters)
	}
	f := filters[0].(map[string]any)
	if f["fieldName"] != "animals.isNeedingFoster" || f["criteria"] != "Yes" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	loc := filters[1].(map[string]any)
	if loc["fieldName"] != "locationRadius" || loc["operation"] != "within" {
		t.Fatalf("unexpected location filter: %+v", loc)
	}
	criteria := loc["criteria"].(map[string]any)
	if criteria["postalcode"] != "90210" || criteria["miles"].(float64) != 25 {
		t.Fatalf("unexpected locationRadius criteria: %+v", criteria)
	}
}

func TestSearchPetsLimitClampedAbove100(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, map[string]any{"data": []any{}})
	})

	_, err := c.SearchPets(context.Background(), "dogs", SearchParams{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "limit=100&sort=-animals.createdDate" {
		t.Fatalf("expected limit clamped to 100, got query %q", gotQuery)
	}
}

func TestSearchPetsZeroLimitIsValidationError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach upstream for an invalid limit")
	})

	_, err := c.SearchPets(context.Background(), "dogs", SearchParams{Limit: 0})
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError for limit=0, got %v", err)
	}
}

func TestSearchPetsNegativeLimitIsValidationError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach upstream for an invalid limit")
	})

	_, err := c.SearchPets(context.Background(), "dogs", SearchParams{Limit: -1})
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestResolveSpeciesID(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"type": "species", "id": "1", "attributes": map[string]any{"singular": "Cat", "plural": "Cats"}},
			map[string]any{"type": "species", "id": "2", "attributes": map[string]any{"singular": "Dog", "plural": "Dogs"}},
		}})
	})

	id, err := c.ResolveSpeciesID(context.Background(), "cats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "1" {
		t.Fatalf("expected species id 1, got %q", id)
	}
	if gotPath != "/public/animals/species" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestResolveSpeciesIDEmptyUpstreamListIsValidationErrorNotNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.ResolveSpeciesID(context.Background(), "cats")
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError for an unmatched slug against an empty species list, got %v", err)
	}
}

func TestResolveSpeciesIDUnknownIsValidationError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"type": "species", "id": "1", "attributes": map[string]any{"singular": "Dog", "plural": "Dogs"}},
		}})
	})

	_, err := c.ResolveSpeciesID(context.Background(), "hamsters")
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListBreedsResolvesSpeciesThenFetchesBreeds(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/public/animals/species":
			writeJSON(w, map[string]any{"data": []any{
				map[string]any{"type": "species", "id": "1", "attributes": map[string]any{"singular": "Cat", "plural": "Cats"}},
			}})
		default:
			writeJSON(w, map[string]any{"data": []any{
				map[string]any{"type": "breeds", "id": "10", "attributes": map[string]any{"name": "Siamese"}},
			}})
		}
	})

	_, err := c.ListBreeds(context.Background(), "cats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/public/animals/species" || paths[1] != "/public/animals/species/1/breeds" {
		t.Fatalf("expected species lookup then breeds fetch, got %v", paths)
	}
}

func TestSearchCachedAcrossCalls(t *testing.T) {
	c, callsPtr := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": []any{map[string]any{"type": "animals", "id": "1"}}})
	})

	_, err1 := c.SearchPets(context.Background(), "dogs", SearchParams{Limit: 20})
	_, err2 := c.SearchPets(context.Background(), "dogs", SearchParams{Limit: 20})
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if *callsPtr != 1 {
		t.Fatalf("expected exactly 1 upstream call for an identical cached search, got %d", *callsPtr)
	}
}
