package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/format"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
	"golang.org/x/sync/errgroup"
)

const maxPhotos = 5

// defaultSearchLimit is the page size search_adoptable_pets and list_animals
// send when their limit argument is omitted.
const defaultSearchLimit = 20

// decodeArgs unmarshals raw into v, translating a malformed-JSON,
// wrong-typed-field, or unknown-field error into a ValidationError — per the
// spec-mandated divergence from the original implementation's lenient
// unwrap_or defaulting, every handler fails closed on a bad argument rather
// than silently substituting a default or ignoring a field it doesn't
// recognize.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return mcperror.Wrap(mcperror.KindValidation, err, "invalid arguments")
	}
	return nil
}

func searchParamsFromArgs(a SearchAdoptablePetsArgs) rescuegroups.SearchParams {
	limit := a.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}
	return rescuegroups.SearchParams{
		PostalCode:       a.PostalCode,
		Miles:            a.Miles,
		Sex:              a.Sex,
		Age:              a.Age,
		Size:             a.Size,
		Color:            a.Color,
		Pattern:          a.Pattern,
		HouseTrained:     a.HouseTrained,
		SpecialNeeds:     a.SpecialNeeds,
		NeedsFoster:      a.NeedsFoster,
		GoodWithDogs:     a.GoodWithDogs,
		GoodWithCats:     a.GoodWithCats,
		GoodWithChildren: a.GoodWithChildren,
		Sort:             a.Sort,
		Limit:            limit,
		IncludeOrgs:      a.IncludeOrgs,
	}
}

func render(doc *rescuegroups.Document, raw bool, formatted func() string) (string, error) {
	if raw {
		return format.RawJSON(doc)
	}
	return formatted(), nil
}

func handleSearchAdoptablePets(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a SearchAdoptablePetsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	species := a.Species
	if species == "" {
		species = "dogs"
	}
	doc, err := client.SearchPets(ctx, species, searchParamsFromArgs(a))
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.AnimalList(doc, "Adoptable "+species) })
}

func handleGetAnimalDetails(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a GetAnimalDetailsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.AnimalID == "" {
		return "", mcperror.Validation("animal_id is required").WithField("animal_id")
	}
	doc, err := client.GetAnimal(ctx, a.AnimalID)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.Animal(doc, maxPhotos) })
}

func handleGetRandomPet(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a GetRandomPetArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	species := a.Species
	if species == "" {
		species = "dogs"
	}
	doc, err := client.SearchPets(ctx, species, rescuegroups.SearchParams{
		PostalCode: a.PostalCode, Miles: a.Miles, Sort: "Random", Limit: 1,
	})
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.Animal(doc, maxPhotos) })
}

func handleGetContactInfo(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a GetContactInfoArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.AnimalID == "" {
		return "", mcperror.Validation("animal_id is required").WithField("animal_id")
	}
	doc, err := client.GetContact(ctx, a.AnimalID)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.Contact(doc) })
}

// handleCompareAnimals fetches each requested animal concurrently via
// errgroup, bounded by the already-enforced 1..5 id count, then renders a
// Markdown comparison table in the caller's requested order. Every fetch
// still goes through the shared limiter and cache, so concurrency only
// changes wall-clock time.
func handleCompareAnimals(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a CompareAnimalsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if len(a.AnimalIDs) < 1 || len(a.AnimalIDs) > 5 {
		return "", mcperror.Validation("animal_ids must contain between 1 and 5 ids, got %d", len(a.AnimalIDs)).WithField("animal_ids")
	}

	ids := make([]string, len(a.AnimalIDs))
	docs := make([]*rescuegroups.Document, len(a.AnimalIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range a.AnimalIDs {
		i, id := i, id
		ids[i] = strconv.Itoa(id)
		g.Go(func() error {
			doc, err := client.GetAnimal(gctx, ids[i])
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return format.Compare(docs, ids), nil
}

func handleSearchOrganizations(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a SearchOrganizationsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	doc, err := client.SearchOrgs(ctx, a.Query, a.PostalCode, a.Miles)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.OrgList(doc, "Organizations") })
}

func handleGetOrganizationDetails(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a GetOrganizationDetailsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.OrgID == "" {
		return "", mcperror.Validation("org_id is required").WithField("org_id")
	}
	doc, err := client.GetOrg(ctx, a.OrgID)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.Org(doc) })
}

func handleListOrgAnimals(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a ListOrgAnimalsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.OrgID == "" {
		return "", mcperror.Validation("org_id is required").WithField("org_id")
	}
	doc, err := client.ListOrgAnimals(ctx, a.OrgID, a.Limit)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.AnimalList(doc, "Animals at org "+a.OrgID) })
}

func handleListAdoptedAnimals(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a ListAdoptedAnimalsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	species := a.Species
	if species == "" {
		species = "dogs"
	}
	doc, err := client.ListAdopted(ctx, species, a.PostalCode, a.Miles, a.Limit)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.AnimalList(doc, "Adopted "+species) })
}

func handleListSpecies(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a ListSpeciesArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	doc, err := client.ListSpecies(ctx)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.SpeciesList(doc) })
}

func handleListBreeds(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a ListBreedsArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Species == "" {
		return "", mcperror.Validation("species is required").WithField("species")
	}
	doc, err := client.ListBreeds(ctx, a.Species)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.BreedList(doc, a.Species) })
}

func handleGetBreed(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a GetBreedArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.BreedID == "" {
		return "", mcperror.Validation("breed_id is required").WithField("breed_id")
	}
	doc, err := client.GetBreed(ctx, a.BreedID)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.Breed(doc) })
}

func handleListMetadata(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	var a ListMetadataArgs
	if err := decodeArgs(args, &a); err != nil {
		return "", err
	}
	if a.Kind == "" {
		return "", mcperror.Validation("kind is required").WithField("kind")
	}
	doc, err := client.ListMetadata(ctx, a.Kind, a.Species)
	if err != nil {
		return "", err
	}
	return render(doc, a.RawOutput, func() string { return format.MetadataList(doc, a.Kind) })
}

func handleListMetadataTypes(ctx context.Context, client *rescuegroups.Client, args json.RawMessage) (string, error) {
	return format.MetadataTypes(rescuegroups.ListMetadataTypes()), nil
}
