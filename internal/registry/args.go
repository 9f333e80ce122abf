package registry

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Each tool's argument shape is a plain Go struct; its JSON Schema is
// derived from that struct via jsonschema.For, so the struct stays the one
// place a tool's accepted arguments are defined.

type SearchAdoptablePetsArgs struct {
	Species          string `json:"species,omitempty" jsonschema:"description=Species slug such as dogs or cats. Defaults to dogs."`
	PostalCode       string `json:"postal_code,omitempty" jsonschema:"description=Postal code to search near."`
	Miles            int    `json:"miles,omitempty" jsonschema:"description=Search radius in miles,minimum=1"`
	Sex              string `json:"sex,omitempty" jsonschema:"description=Male or Female"`
	Age              string `json:"age,omitempty" jsonschema:"description=Age group such as Baby, Young, Adult, Senior"`
	Size             string `json:"size,omitempty" jsonschema:"description=Size group such as Small, Medium, Large"`
	Color            string `json:"color,omitempty" jsonschema:"description=Substring match against the animal's color details"`
	Pattern          string `json:"pattern,omitempty" jsonschema:"description=Substring match against the animal's coat pattern details"`
	HouseTrained     *bool  `json:"house_trained,omitempty"`
	SpecialNeeds     *bool  `json:"special_needs,omitempty"`
	NeedsFoster      *bool  `json:"needs_foster,omitempty"`
	GoodWithDogs     *bool  `json:"good_with_dogs,omitempty"`
	GoodWithCats     *bool  `json:"good_with_cats,omitempty"`
	GoodWithChildren *bool  `json:"good_with_children,omitempty"`
	Sort             string `json:"sort,omitempty" jsonschema:"description=Newest, Distance, or Random,enum=Newest,enum=Distance,enum=Random"`
	Limit            int    `json:"limit,omitempty" jsonschema:"description=Maximum results to return; clamped to 100"`
	IncludeOrgs      bool   `json:"include_orgs,omitempty" jsonschema:"description=Include each animal's organization in the response"`
	RawOutput        bool   `json:"raw_output,omitempty" jsonschema:"description=Return raw JSON instead of Markdown"`
}

type GetAnimalDetailsArgs struct {
	AnimalID  string `json:"animal_id" jsonschema:"description=The animal's upstream ID,required"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type GetRandomPetArgs struct {
	Species    string `json:"species,omitempty" jsonschema:"description=Species slug such as dogs or cats. Defaults to dogs."`
	PostalCode string `json:"postal_code,omitempty"`
	Miles      int    `json:"miles,omitempty"`
	RawOutput  bool   `json:"raw_output,omitempty"`
}

type GetContactInfoArgs struct {
	AnimalID  string `json:"animal_id" jsonschema:"description=The animal's upstream ID,required"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type CompareAnimalsArgs struct {
	AnimalIDs []int `json:"animal_ids" jsonschema:"description=1 to 5 animal IDs to compare side by side,minItems=1,maxItems=5,required"`
}

type SearchOrganizationsArgs struct {
	Query      string `json:"query,omitempty" jsonschema:"description=Substring match against organization name"`
	PostalCode string `json:"postal_code,omitempty"`
	Miles      int    `json:"miles,omitempty"`
	RawOutput  bool   `json:"raw_output,omitempty"`
}

type GetOrganizationDetailsArgs struct {
	OrgID     string `json:"org_id" jsonschema:"description=The organization's upstream ID,required"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type ListOrgAnimalsArgs struct {
	OrgID     string `json:"org_id" jsonschema:"description=The organization's upstream ID,required"`
	Limit     int    `json:"limit,omitempty"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type ListAdoptedAnimalsArgs struct {
	Species    string `json:"species,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Miles      int    `json:"miles,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	RawOutput  bool   `json:"raw_output,omitempty"`
}

type ListSpeciesArgs struct {
	RawOutput bool `json:"raw_output,omitempty"`
}

type ListBreedsArgs struct {
	Species   string `json:"species" jsonschema:"description=Species slug such as dogs or cats,required"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type GetBreedArgs struct {
	BreedID   string `json:"breed_id" jsonschema:"description=The breed's upstream ID,required"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type ListMetadataArgs struct {
	Kind      string `json:"kind" jsonschema:"description=One of colors, patterns, qualities, sizes, ages, sexes,required"`
	Species   string `json:"species,omitempty" jsonschema:"description=Optionally scope the metadata table to one species"`
	RawOutput bool   `json:"raw_output,omitempty"`
}

type ListMetadataTypesArgs struct{}

type InspectToolArgs struct {
	ToolName string `json:"tool_name,omitempty" jsonschema:"description=When set, returns the full schema for this tool instead of the summary list"`
}

func schemaFor[T any]() json.RawMessage {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		panic(err) // a malformed struct tag is a programming error, caught at startup
	}
	raw, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return raw
}
