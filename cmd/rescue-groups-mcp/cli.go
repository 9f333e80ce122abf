package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/format"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

func cmdSearch(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	species := flags["species"]
	if species == "" {
		species = eng.settings.Species
	}
	postal := flags["postal-code"]
	if postal == "" {
		postal = eng.settings.PostalCode
	}
	miles := intFlag(flags, "miles", eng.settings.Miles)

	params := rescuegroups.SearchParams{
		PostalCode:  postal,
		Miles:       miles,
		Sex:         flags["sex"],
		Age:         flags["age"],
		Size:        flags["size"],
		Color:       flags["color"],
		Pattern:     flags["pattern"],
		NeedsFoster: boolPtrFlag(flags, "needs-foster"),
		Sort:        flags["sort"],
		Limit:       intFlag(flags, "limit", 20),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	doc, err := eng.client.SearchPets(context.Background(), species, params)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.AnimalList(doc, fmt.Sprintf("Adoptable %s near %s", species, postal))
	})
}

func cmdGetAnimal(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	id := flags["animal-id"]
	if id == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		id = args[0]
	}

	doc, err := eng.client.GetAnimal(context.Background(), id)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.Animal(doc, 5)
	})
}

func cmdGetContact(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	id := flags["animal-id"]
	if id == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		id = args[0]
	}

	doc, err := eng.client.GetContact(context.Background(), id)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.Contact(doc)
	})
}

func cmdCompare(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	var ids []string
	if raw := flags["animal-ids"]; raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 || len(ids) > 5 {
		return fmt.Errorf("compare requires --animal-ids with between 1 and 5 comma-separated animal ids")
	}

	ctx := context.Background()
	docs := make([]*rescuegroups.Document, len(ids))
	for i, id := range ids {
		doc, err := eng.client.GetAnimal(ctx, id)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	if boolFlag(flags, "json") {
		raw, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	}
	fmt.Println(renderMarkdown(format.Compare(docs, ids)))
	return nil
}

func cmdSearchOrgs(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	postal := flags["postal-code"]
	if postal == "" {
		postal = eng.settings.PostalCode
	}
	miles := intFlag(flags, "miles", eng.settings.Miles)

	doc, err := eng.client.SearchOrgs(context.Background(), flags["query"], postal, miles)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.OrgList(doc, "Organizations")
	})
}

func cmdGetOrg(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	id := flags["org-id"]
	if id == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		id = args[0]
	}

	doc, err := eng.client.GetOrg(context.Background(), id)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.Org(doc)
	})
}

func cmdListOrgAnimals(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	id := flags["org-id"]
	if id == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		id = args[0]
	}

	doc, err := eng.client.ListOrgAnimals(context.Background(), id, intFlag(flags, "limit", 20))
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.AnimalList(doc, "Animals at "+id)
	})
}

func cmdListAdopted(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	species := flags["species"]
	if species == "" {
		species = eng.settings.Species
	}
	postal := flags["postal-code"]
	if postal == "" {
		postal = eng.settings.PostalCode
	}
	miles := intFlag(flags, "miles", eng.settings.Miles)

	doc, err := eng.client.ListAdopted(context.Background(), species, postal, miles, intFlag(flags, "limit", 20))
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.AnimalList(doc, "Recently adopted "+species)
	})
}

func cmdListSpecies(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	doc, err := eng.client.ListSpecies(context.Background())
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.SpeciesList(doc)
	})
}

func cmdListBreeds(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	species := flags["species"]
	if species == "" {
		species = eng.settings.Species
	}

	doc, err := eng.client.ListBreeds(context.Background(), species)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.BreedList(doc, species)
	})
}

func cmdGetBreed(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	id := flags["breed-id"]
	if id == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		id = args[0]
	}

	doc, err := eng.client.GetBreed(context.Background(), id)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.Breed(doc)
	})
}

func cmdListMetadata(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}
	kind := flags["metadata-type"]
	if kind == "" && len(args) > 0 && !strings.HasPrefix(args[0], "--") {
		kind = args[0]
	}

	doc, err := eng.client.ListMetadata(context.Background(), kind, flags["species"])
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.MetadataList(doc, kind)
	})
}

func cmdListMetadataTypes(args []string) error {
	flags := parseFlags(args)
	types := rescuegroups.ListMetadataTypes()
	if boolFlag(flags, "json") {
		fmt.Println(`["` + strings.Join(types, `","`) + `"]`)
		return nil
	}
	fmt.Println(renderMarkdown(format.MetadataTypes(types)))
	return nil
}

func cmdRandomPet(args []string) error {
	flags := parseFlags(args)
	eng, err := buildEngine(flags)
	if err != nil {
		return err
	}

	species := flags["species"]
	if species == "" {
		species = eng.settings.Species
	}
	postal := flags["postal-code"]
	if postal == "" {
		postal = eng.settings.PostalCode
	}
	miles := intFlag(flags, "miles", eng.settings.Miles)

	params := rescuegroups.SearchParams{PostalCode: postal, Miles: miles, Sort: "Random", Limit: 1}
	if err := params.Validate(); err != nil {
		return err
	}

	doc, err := eng.client.SearchPets(context.Background(), species, params)
	if err != nil {
		return err
	}
	return printResult(doc, boolFlag(flags, "json"), func() string {
		return format.Animal(doc, 5)
	})
}
