package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/cache"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/ratelimit"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

func TestVisibleLazyReturnsOnlyCoreTools(t *testing.T) {
	r := New()
	visible := r.Visible(true)
	if len(visible) != 3 {
		t.Fatalf("expected exactly 3 core tools, got %d", len(visible))
	}
	names := map[string]bool{}
	for _, t := range visible {
		names[t.Name] = true
	}
	for _, want := range []string{"search_adoptable_pets", "get_animal_details", "inspect_tool"} {
		if !names[want] {
			t.Fatalf("expected %q among core tools, got %v", want, names)
		}
	}
}

func TestVisibleNonLazyReturnsEverything(t *testing.T) {
	r := New()
	if len(r.Visible(false)) != len(r.All()) {
		t.Fatalf("expected non-lazy Visible to return every tool")
	}
}

func TestHiddenToolsAreStillCallable(t *testing.T) {
	r := New()
	d, ok := r.Lookup("list_species")
	if !ok {
		t.Fatal("expected list_species to be registered even though hidden")
	}
	if d.Core {
		t.Fatal("expected list_species to be hidden, not core")
	}
	if d.Handler == nil {
		t.Fatal("expected a hidden tool to still have a handler")
	}
}

func TestInspectToolNoArgsListsEveryTool(t *testing.T) {
	r := New()
	d, _ := r.Lookup("inspect_tool")
	out, err := d.Handler(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"search_adoptable_pets", "compare_animals", "list_metadata_types"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected tool summary to mention %q: %s", name, out)
		}
	}
}

func TestInspectToolWithNameReturnsSchemaMentioningCompareAnimalsConstraints(t *testing.T) {
	r := New()
	d, _ := r.Lookup("inspect_tool")
	args, _ := json.Marshal(InspectToolArgs{ToolName: "compare_animals"})
	out, err := d.Handler(context.Background(), nil, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "animal_ids") {
		t.Fatalf("expected schema text to mention animal_ids: %s", out)
	}
}

func TestInspectToolUnknownNameIsValidationError(t *testing.T) {
	r := New()
	d, _ := r.Lookup("inspect_tool")
	args, _ := json.Marshal(InspectToolArgs{ToolName: "does_not_exist"})
	_, err := d.Handler(context.Background(), nil, args)
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCompareAnimalsTooManyIDsIsValidationError(t *testing.T) {
	r := New()
	d, _ := r.Lookup("compare_animals")
	args, _ := json.Marshal(CompareAnimalsArgs{AnimalIDs: []int{1, 2, 3, 4, 5, 6}})
	_, err := d.Handler(context.Background(), nil, args)
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError for 6 ids, got %v", err)
	}
}

func TestGetAnimalDetailsMissingIDIsValidationError(t *testing.T) {
	r := New()
	d, _ := r.Lookup("get_animal_details")
	args, _ := json.Marshal(GetAnimalDetailsArgs{})
	_, err := d.Handler(context.Background(), nil, args)
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError for missing animal_id, got %v", err)
	}
}

func TestGetAnimalDetailsUnknownFieldIsValidationError(t *testing.T) {
	r := New()
	d, _ := r.Lookup("get_animal_details")
	args := json.RawMessage(`{"animal_id": "1", "color": "brindle"}`)
	_, err := d.Handler(context.Background(), nil, args)
	me, ok := mcperror.As(err)
	if !ok || me.Kind != mcperror.KindValidation {
		t.Fatalf("expected ValidationError for unknown field, got %v", err)
	}
}

func TestSearchAdoptablePetsEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{
			map[string]any{"type": "animals", "id": "1", "attributes": map[string]any{"name": "Rex"}},
		}})
	}))
	defer srv.Close()

	client := rescuegroups.New(srv.URL, "key", time.Second, time.Second,
		ratelimit.New(100, time.Second), cache.New[string, *rescuegroups.Document](10, time.Minute))

	r := New()
	d, _ := r.Lookup("search_adoptable_pets")
	out, err := d.Handler(context.Background(), client, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Rex") {
		t.Fatalf("expected formatted output to mention Rex: %s", out)
	}
}
