package rescuegroups

import (
	"strconv"
	"strings"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// filter is one JSON:API filter criterion as the v5 search endpoints expect
// it: {"fieldName": ..., "operation": ..., "criteria": ...}.
type filter struct {
	FieldName string `json:"fieldName"`
	Operation string `json:"operation"`
	Criteria  any    `json:"criteria"`
}

// locationCriteria is the criteria payload for a "locationRadius" filter:
// a postal code plus the search radius around it, in miles.
type locationCriteria struct {
	Miles      int    `json:"miles"`
	PostalCode string `json:"postalcode"`
}

type searchBody struct {
	Data struct {
		Filters []filter `json:"filters"`
	} `json:"data"`
}

// locationFilter builds the "locationRadius" filters-array entry spec.md
// §4.5 documents for postal_code+miles. Every call site that supplies a
// postal code wants a radius search, so this always emits "within"; "equal"
// is the operation spec.md reserves for an exact, radius-less postal-code
// match, which no current caller needs.
func locationFilter(postalCode string, miles int) *filter {
	if postalCode == "" {
		return nil
	}
	if miles <= 0 {
		miles = 50
	}
	return &filter{
		FieldName: "locationRadius",
		Operation: "within",
		Criteria:  locationCriteria{Miles: miles, PostalCode: postalCode},
	}
}

// yesNo renders a boolean as the "Yes"/"No" string the v5 API expects for
// quality-flag criteria, rather than a JSON boolean.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// SearchParams collects every filter search_adoptable_pets and its
// sibling operations accept. Zero-value fields mean "not filtered on".
type SearchParams struct {
	PostalCode string
	Miles      int

	Sex      string
	Age      string
	Size     string
	Color    string
	Pattern  string

	HouseTrained     *bool
	SpecialNeeds     *bool
	NeedsFoster      *bool
	GoodWithDogs     *bool
	GoodWithCats     *bool
	GoodWithChildren *bool

	OrgID string // set by list_org_animals

	Sort  string // "Newest" (default), "Distance", "Random"
	Limit int

	IncludeOrgs bool
}

// maxLimit is the clamp ceiling resolved for the spec.md "limit above 100"
// open question: clamp rather than reject.
const maxLimit = 100

// Validate checks caller-supplied values that must fail with a
// ValidationError rather than silently default, and clamps limit into its
// valid range.
func (p *SearchParams) Validate() error {
	if p.Limit <= 0 {
		return mcperror.Validation("limit must be a positive integer, got %d", p.Limit).WithField("limit")
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	switch p.Sort {
	case "", "Newest", "Distance", "Random":
	default:
		return mcperror.Validation("sort must be one of Newest, Distance, Random, got %q", p.Sort).WithField("sort")
	}
	return nil
}

func (p *SearchParams) buildFilters() []filter {
	var filters []filter

	if p.Sex != "" {
		filters = append(filters, filter{FieldName: "animals.sex", Operation: "equal", Criteria: p.Sex})
	}
	if p.Age != "" {
		filters = append(filters, filter{FieldName: "animals.ageGroup", Operation: "equal", Criteria: p.Age})
	}
	if p.Size != "" {
		filters = append(filters, filter{FieldName: "animals.sizeGroup", Operation: "equal", Criteria: p.Size})
	}
	if p.Color != "" {
		filters = append(filters, filter{FieldName: "animals.colorDetails", Operation: "contains", Criteria: p.Color})
	}
	if p.Pattern != "" {
		filters = append(filters, filter{FieldName: "animals.patternDetails", Operation: "contains", Criteria: p.Pattern})
	}
	if p.HouseTrained != nil {
		filters = append(filters, filter{FieldName: "animals.isHousetrained", Operation: "equal", Criteria: yesNo(*p.HouseTrained)})
	}
	if p.SpecialNeeds != nil {
		filters = append(filters, filter{FieldName: "animals.isSpecialNeeds", Operation: "equal", Criteria: yesNo(*p.SpecialNeeds)})
	}
	if p.NeedsFoster != nil {
		filters = append(filters, filter{FieldName: "animals.isNeedingFoster", Operation: "equal", Criteria: yesNo(*p.NeedsFoster)})
	}
	if p.GoodWithDogs != nil {
		filters = append(filters, filter{FieldName: "animals.isDogsOk", Operation: "equal", Criteria: yesNo(*p.GoodWithDogs)})
	}
	if p.GoodWithCats != nil {
		filters = append(filters, filter{FieldName: "animals.isCatsOk", Operation: "equal", Criteria: yesNo(*p.GoodWithCats)})
	}
	if p.GoodWithChildren != nil {
		filters = append(filters, filter{FieldName: "animals.isKidsOk", Operation: "equal", Criteria: yesNo(*p.GoodWithChildren)})
	}
	if p.OrgID != "" {
		filters = append(filters, filter{FieldName: "orgs.id", Operation: "equal", Criteria: p.OrgID})
	}
	return filters
}

func (p *SearchParams) build() searchBody {
	var b searchBody
	b.Data.Filters = p.buildFilters()
	if lf := locationFilter(p.PostalCode, p.Miles); lf != nil {
		b.Data.Filters = append(b.Data.Filters, *lf)
	}
	if b.Data.Filters == nil {
		b.Data.Filters = []filter{}
	}
	return b
}

func (p *SearchParams) query() map[string]string {
	q := map[string]string{}
	sort := p.Sort
	if sort == "" {
		sort = "Newest"
	}
	switch sort {
	case "Newest":
		q["sort"] = "-animals.createdDate"
	case "Distance":
		q["sort"] = "animals.distance"
	case "Random":
		q["sort"] = "random"
	}
	q["limit"] = strconv.Itoa(p.Limit)
	if p.IncludeOrgs {
		q["include"] = "orgs"
	}
	return q
}

// orgSearchFilters builds the filters for search_organizations: a name
// substring match when query is given, otherwise a locationRadius filter
// identical in shape to the animal search's.
func orgSearchFilters(query, postalCode string, miles int) searchBody {
	var b searchBody
	if query != "" {
		b.Data.Filters = []filter{{FieldName: "orgs.name", Operation: "contains", Criteria: query}}
		return b
	}
	b.Data.Filters = []filter{}
	if lf := locationFilter(postalCode, miles); lf != nil {
		b.Data.Filters = append(b.Data.Filters, *lf)
	}
	return b
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
