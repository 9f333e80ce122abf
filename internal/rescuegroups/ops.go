package rescuegroups

import (
	"context"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// SearchPets is search_adoptable_pets / list_animals: a POST search against
// the available-animals endpoint for one species, filtered per params.
func (c *Client) SearchPets(ctx context.Context, species string, params SearchParams) (*Document, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	speciesID, err := c.speciesSlugOrPass(ctx, species)
	if err != nil {
		return nil, err
	}
	body := params.build()
	return c.postMany(ctx, "/public/animals/search/available/"+speciesID+"/haspic", params.query(), body)
}

// speciesSlugOrPass resolves a species slug to the path segment the
// search-available endpoint expects. The v5 API accepts the plural slug
// directly in the path (e.g. "dogs"), so this only normalizes case rather
// than resolving to a numeric id — numeric ids are only needed for the
// breed/metadata endpoints that are scoped by species id.
func (c *Client) speciesSlugOrPass(ctx context.Context, species string) (string, error) {
	if species == "" {
		return "dogs", nil
	}
	return normalizeSlug(species), nil
}

// GetAnimal is get_animal_details: fetches a single animal by id.
func (c *Client) GetAnimal(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, mcperror.Validation("animal id must not be empty").WithField("animal_id")
	}
	return c.get(ctx, "/public/animals/"+id, nil)
}

// GetContact is get_contact_info: fetches an animal together with its
// associated organization via ?include=orgs, reading contact details out
// of the included resources.
func (c *Client) GetContact(ctx context.Context, animalID string) (*Document, error) {
	if animalID == "" {
		return nil, mcperror.Validation("animal id must not be empty").WithField("animal_id")
	}
	return c.get(ctx, "/public/animals/"+animalID, map[string]string{"include": "orgs"})
}

// ListAdopted is list_adopted_animals: a POST search against the
// adopted-animals endpoint for one species, filtered by location.
func (c *Client) ListAdopted(ctx context.Context, species, postalCode string, miles, limit int) (*Document, error) {
	speciesID, err := c.speciesSlugOrPass(ctx, species)
	if err != nil {
		return nil, err
	}
	params := SearchParams{PostalCode: postalCode, Miles: miles, Limit: limit}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return c.postMany(ctx, "/public/animals/search/adopted/"+speciesID+"/haspic", params.query(), params.build())
}

// SearchOrgs is search_organizations: a name-substring search when query is
// given, otherwise a location-radius search.
func (c *Client) SearchOrgs(ctx context.Context, query, postalCode string, miles int) (*Document, error) {
	return c.postMany(ctx, "/public/orgs/search", nil, orgSearchFilters(query, postalCode, miles))
}

// GetOrg is get_organization_details: fetches a single organization by id.
func (c *Client) GetOrg(ctx context.Context, id string) (*Document, error) {
	if id == "" {
		return nil, mcperror.Validation("org id must not be empty").WithField("org_id")
	}
	return c.get(ctx, "/public/orgs/"+id, nil)
}

// ListOrgAnimals is list_org_animals: a POST animal search filtered by
// orgs.id, per the spec.md-resolved discrepancy documented in
// SPEC_FULL.md (the original implementation instead issued a plain GET).
func (c *Client) ListOrgAnimals(ctx context.Context, orgID string, limit int) (*Document, error) {
	if orgID == "" {
		return nil, mcperror.Validation("org id must not be empty").WithField("org_id")
	}
	params := SearchParams{OrgID: orgID, Limit: limit}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return c.postMany(ctx, "/public/animals/search/available/all", params.query(), params.build())
}

// ListBreeds is list_breeds: resolves species to a numeric id then fetches
// that species' breed list.
func (c *Client) ListBreeds(ctx context.Context, species string) (*Document, error) {
	id, err := c.ResolveSpeciesID(ctx, species)
	if err != nil {
		return nil, err
	}
	return c.getMany(ctx, "/public/animals/species/"+id+"/breeds", nil)
}

// GetBreed is get_breed: fetches a single breed by id.
func (c *Client) GetBreed(ctx context.Context, breedID string) (*Document, error) {
	if breedID == "" {
		return nil, mcperror.Validation("breed id must not be empty").WithField("breed_id")
	}
	return c.get(ctx, "/public/animals/breeds/"+breedID, nil)
}

// metadataKinds is the kind -> upstream-segment table for ListMetadata.
var metadataKinds = map[string]string{
	"colors":    "colors",
	"patterns":  "patterns",
	"qualities": "qualities",
	"sizes":     "sizes",
	"ages":      "ages",
	"sexes":     "sexes",
}

// ListMetadata is list_metadata: fetches one metadata table, optionally
// scoped to a species' numeric id.
func (c *Client) ListMetadata(ctx context.Context, kind, species string) (*Document, error) {
	segment, ok := metadataKinds[kind]
	if !ok {
		return nil, mcperror.Validation("unknown metadata kind %q", kind).WithField("kind")
	}

	if species == "" {
		return c.getMany(ctx, "/public/animals/"+segment, nil)
	}
	id, err := c.ResolveSpeciesID(ctx, species)
	if err != nil {
		return nil, err
	}
	return c.getMany(ctx, "/public/animals/species/"+id+"/"+segment, nil)
}

// metadataTypes is list_metadata_types' static catalog, resolved to the
// fuller 9-item spec.md list documented in SPEC_FULL.md.
var metadataTypes = []string{
	"colors", "patterns", "qualities", "species", "breeds",
	"sizes", "ages", "sexes", "sort-options",
}

// ListMetadataTypes returns the static list of metadata kinds. ListMetadata
// fetches only the six kinds in metadataKinds; species, breeds and
// sort-options are not accepted by it.
func ListMetadataTypes() []string {
	out := make([]string, len(metadataTypes))
	copy(out, metadataTypes)
	return out
}
