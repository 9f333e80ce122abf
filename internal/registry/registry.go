// Package registry is C6: the fixed set of MCP tools this gateway exposes,
// each with a name, description, JSON Schema, visibility (core vs hidden),
// and a handler that validates its arguments, calls the upstream client,
// and formats the result.
package registry

import (
	"context"
	"encoding/json"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

// Handler executes one tool call against args and returns the Markdown (or
// raw JSON, if the tool's args requested it) response text.
type Handler func(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error)

// Descriptor is one entry in the tool registry.
type Descriptor struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Core        bool // visible under tools/list when the engine runs lazily
	Handler     Handler
}

// Registry is the immutable, fixed set of tools this gateway exposes. It
// never changes after construction, matching C6's "immutable post-startup"
// invariant.
type Registry struct {
	tools  []Descriptor
	byName map[string]Descriptor
}

// New builds the fixed tool registry.
func New() *Registry {
	tools := []Descriptor{
		{
			Name:        "search_adoptable_pets",
			Description: "Search for adoptable pets near a postal code, filtered by species, sex, age, size, and other attributes.",
			Schema:      schemaFor[SearchAdoptablePetsArgs](),
			Core:        true,
			Handler:     handleSearchAdoptablePets,
		},
		{
			Name:        "get_animal_details",
			Description: "Fetch the full profile for a single animal by its ID.",
			Schema:      schemaFor[GetAnimalDetailsArgs](),
			Core:        true,
			Handler:     handleGetAnimalDetails,
		},
		{
			Name:        "inspect_tool",
			Description: "List every available tool, or fetch the full schema for one named tool.",
			Schema:      schemaFor[InspectToolArgs](),
			Core:        true,
			Handler:     nil, // bound in New below, once the registry itself exists
		},
		{
			Name:        "list_animals",
			Description: "Alias of search_adoptable_pets exposed under its own name for lazy discovery.",
			Schema:      schemaFor[SearchAdoptablePetsArgs](),
			Handler:     handleSearchAdoptablePets,
		},
		{
			Name:        "get_random_pet",
			Description: "Fetch one randomly chosen adoptable animal.",
			Schema:      schemaFor[GetRandomPetArgs](),
			Handler:     handleGetRandomPet,
		},
		{
			Name:        "get_contact_info",
			Description: "Fetch the adoption contact details (organization, email, phone) for an animal.",
			Schema:      schemaFor[GetContactInfoArgs](),
			Handler:     handleGetContactInfo,
		},
		{
			Name:        "compare_animals",
			Description: "Compare 1 to 5 animals side by side in a Markdown table.",
			Schema:      schemaFor[CompareAnimalsArgs](),
			Handler:     handleCompareAnimals,
		},
		{
			Name:        "search_organizations",
			Description: "Search for rescue organizations by name or by proximity to a postal code.",
			Schema:      schemaFor[SearchOrganizationsArgs](),
			Handler:     handleSearchOrganizations,
		},
		{
			Name:        "get_organization_details",
			Description: "Fetch the profile for a single rescue organization by its ID.",
			Schema:      schemaFor[GetOrganizationDetailsArgs](),
			Handler:     handleGetOrganizationDetails,
		},
		{
			Name:        "list_org_animals",
			Description: "List the adoptable animals belonging to one organization.",
			Schema:      schemaFor[ListOrgAnimalsArgs](),
			Handler:     handleListOrgAnimals,
		},
		{
			Name:        "list_adopted_animals",
			Description: "List animals that have already been adopted near a postal code.",
			Schema:      schemaFor[ListAdoptedAnimalsArgs](),
			Handler:     handleListAdoptedAnimals,
		},
		{
			Name:        "list_species",
			Description: "List every species the upstream API recognizes.",
			Schema:      schemaFor[ListSpeciesArgs](),
			Handler:     handleListSpecies,
		},
		{
			Name:        "list_breeds",
			Description: "List every breed recognized for one species.",
			Schema:      schemaFor[ListBreedsArgs](),
			Handler:     handleListBreeds,
		},
		{
			Name:        "get_breed",
			Description: "Fetch a single breed by its ID.",
			Schema:      schemaFor[GetBreedArgs](),
			Handler:     handleGetBreed,
		},
		{
			Name:        "list_metadata",
			Description: "List one metadata table (colors, patterns, qualities, sizes, ages, or sexes), optionally scoped to a species.",
			Schema:      schemaFor[ListMetadataArgs](),
			Handler:     handleListMetadata,
		},
		{
			Name:        "list_metadata_types",
			Description: "List the metadata kinds this gateway knows about; list_metadata fetches colors, patterns, qualities, sizes, ages, and sexes.",
			Schema:      schemaFor[ListMetadataTypesArgs](),
			Handler:     handleListMetadataTypes,
		},
	}

	r := &Registry{tools: tools, byName: make(map[string]Descriptor, len(tools))}
	for i, t := range tools {
		if t.Name == "inspect_tool" {
			tools[i].Handler = r.handleInspectTool
		}
	}
	for _, t := range tools {
		r.byName[t.Name] = t
	}
	return r
}

// All returns every registered tool, core and hidden alike. Hidden tools
// are always callable regardless of lazy mode — only tools/list hides them.
func (r *Registry) All() []Descriptor {
	return r.tools
}

// Visible returns the tools that should appear in a tools/list response:
// every tool when lazy is false, or only the core subset when lazy is
// true.
func (r *Registry) Visible(lazy bool) []Descriptor {
	if !lazy {
		return r.tools
	}
	var core []Descriptor
	for _, t := range r.tools {
		if t.Core {
			core = append(core, t)
		}
	}
	return core
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func (r *Registry) handleInspectTool(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a InspectToolArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}

	if a.ToolName == "" {
		return formatToolSummaries(r.tools), nil
	}

	d, ok := r.Lookup(a.ToolName)
	if !ok {
		return "", mcperror.Validation("unknown tool %q", a.ToolName).WithField("tool_name")
	}
	return formatToolSchema(d), nil
}
