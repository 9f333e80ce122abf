package rescuegroups

import (
	"context"
	"strings"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// ListSpecies returns every species resource the upstream API knows about.
// Like its sibling list operations (ListBreeds, ListMetadata), a genuinely
// empty result set is a successful empty Document, not a NotFound error.
func (c *Client) ListSpecies(ctx context.Context) (*Document, error) {
	return c.getMany(ctx, "/public/animals/species", nil)
}

// ResolveSpeciesID maps a species slug or name (e.g. "dogs", "Dog", "cat")
// to the upstream numeric species id, matching case-insensitively against
// each species' singular and plural attributes. An unmatched slug is a
// ValidationError, not a NotFound — the caller supplied a bad argument, the
// species list itself was fetched successfully.
func (c *Client) ResolveSpeciesID(ctx context.Context, slug string) (string, error) {
	target := normalizeSlug(slug)
	if target == "" {
		return "", mcperror.Validation("species must not be empty").WithField("species")
	}

	doc, err := c.ListSpecies(ctx)
	if err != nil {
		return "", err
	}

	for _, r := range doc.Data {
		if normalizeSlug(r.Attr("singular")) == target || normalizeSlug(r.Attr("plural")) == target {
			return r.ID, nil
		}
		if normalizeSlug(strings.TrimSuffix(target, "s")) == normalizeSlug(r.Attr("singular")) {
			return r.ID, nil
		}
	}
	return "", mcperror.Validation("unknown species %q", slug).WithField("species")
}
