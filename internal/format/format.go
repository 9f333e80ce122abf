// Package format implements C7: pure functions turning a decoded upstream
// resource tree into Markdown (the default) or leaving it as raw JSON when
// a tool call asks for raw output. Every formatter tolerates missing
// fields, rendering an em dash rather than failing.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

const missing = "—"

func field(r rescuegroups.Resource, name string) string {
	if v := r.Attr(name); v != "" {
		return v
	}
	return missing
}

// RawJSON renders doc as indented JSON, for tool calls made with
// raw_output=true.
func RawJSON(doc *rescuegroups.Document) (string, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// photoURLs extracts up to limit photo URLs from an animal resource's
// "pictures" attribute, which the v5 API represents as a list of objects
// each carrying a set of resized-image URLs under "urls.large" or
// equivalent.
func photoURLs(r rescuegroups.Resource, limit int) []string {
	raw, ok := r.Attributes["pictures"]
	if !ok {
		return nil
	}
	pics, ok := raw.([]any)
	if !ok {
		return nil
	}
	var urls []string
	for _, p := range pics {
		if len(urls) >= limit {
			break
		}
		pic, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if inner, ok := pic["urls"].(map[string]any); ok {
			if large, ok := inner["large"].(string); ok && large != "" {
				urls = append(urls, large)
				continue
			}
		}
		if original, ok := pic["original"].(string); ok && original != "" {
			urls = append(urls, original)
		}
	}
	return urls
}

// compatibilityTags derives short tags ("good with dogs", "needs foster",
// ...) from the boolean quality attributes an animal resource carries.
func compatibilityTags(r rescuegroups.Resource) []string {
	checks := []struct {
		attr string
		tag  string
	}{
		{"isDogsOk", "good with dogs"},
		{"isCatsOk", "good with cats"},
		{"isKidsOk", "good with kids"},
		{"isHousetrained", "house-trained"},
		{"isAltered", "spayed/neutered"},
		{"isNeedingFoster", "needs foster"},
	}
	var tags []string
	for _, c := range checks {
		if strings.EqualFold(r.Attr(c.attr), "yes") {
			tags = append(tags, c.tag)
		}
	}
	return tags
}

// Animal renders a single animal profile as Markdown.
func Animal(doc *rescuegroups.Document, maxPhotos int) string {
	if len(doc.Data) == 0 {
		return "No animal found."
	}
	r := doc.Data[0]

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (ID: %s)\n\n", field(r, "name"), r.ID)
	fmt.Fprintf(&b, "- **Species**: %s\n", field(r, "species"))
	fmt.Fprintf(&b, "- **Breed**: %s\n", field(r, "breedPrimary"))
	fmt.Fprintf(&b, "- **Sex**: %s\n", field(r, "sex"))
	fmt.Fprintf(&b, "- **Age**: %s\n", field(r, "ageGroup"))
	fmt.Fprintf(&b, "- **Size**: %s\n", field(r, "sizeGroup"))

	if tags := compatibilityTags(r); len(tags) > 0 {
		fmt.Fprintf(&b, "- **Compatibility**: %s\n", strings.Join(tags, ", "))
	}

	b.WriteString("\n")
	if desc := r.Attr("descriptionText"); desc != "" {
		b.WriteString(StripHTML(desc))
		b.WriteString("\n\n")
	}

	for i, url := range photoURLs(r, maxPhotos) {
		fmt.Fprintf(&b, "![%s photo %d](%s)\n", field(r, "name"), i+1, url)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// AnimalList renders a search result set as a Markdown bullet list.
func AnimalList(doc *rescuegroups.Document, title string) string {
	if len(doc.Data) == 0 {
		return fmt.Sprintf("## %s\n\nNo animals found.\n", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	for _, r := range doc.Data {
		fmt.Fprintf(&b, "- **%s** (ID: %s) — %s, %s %s, %s\n",
			field(r, "name"), r.ID, field(r, "species"), field(r, "ageGroup"), field(r, "sex"), field(r, "sizeGroup"))
	}
	return b.String()
}

// Compare renders a side-by-side Markdown table for up to five animal ids,
// in the order the caller supplied them.
func Compare(docs []*rescuegroups.Document, ids []string) string {
	var b strings.Builder
	b.WriteString("| Field |")
	for _, id := range ids {
		fmt.Fprintf(&b, " %s |", id)
	}
	b.WriteString("\n|---|")
	for range ids {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	rows := []struct {
		label string
		attr  string
	}{
		{"Name", "name"},
		{"Species", "species"},
		{"Breed", "breedPrimary"},
		{"Sex", "sex"},
		{"Age", "ageGroup"},
		{"Size", "sizeGroup"},
	}

	for _, row := range rows {
		fmt.Fprintf(&b, "| %s |", row.label)
		for _, doc := range docs {
			val := missing
			if doc != nil && len(doc.Data) > 0 {
				val = field(doc.Data[0], row.attr)
			}
			fmt.Fprintf(&b, " %s |", val)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Contact renders the adoption-contact details for an animal, reading the
// organization out of the document's included resources.
func Contact(doc *rescuegroups.Document) string {
	if len(doc.Data) == 0 {
		return "No contact information found."
	}
	animal := doc.Data[0]

	var org rescuegroups.Resource
	for _, inc := range doc.Included {
		if inc.Type == "orgs" {
			org = inc
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Contact for %s\n\n", field(animal, "name"))
	fmt.Fprintf(&b, "- **Organization**: %s\n", field(org, "name"))
	fmt.Fprintf(&b, "- **Email**: %s\n", field(org, "email"))
	fmt.Fprintf(&b, "- **Phone**: %s\n", field(org, "phone"))
	fmt.Fprintf(&b, "- **City/State**: %s, %s\n", field(org, "city"), field(org, "state"))
	return b.String()
}

// Org renders a single organization's profile.
func Org(doc *rescuegroups.Document) string {
	if len(doc.Data) == 0 {
		return "No organization found."
	}
	r := doc.Data[0]
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (ID: %s)\n\n", field(r, "name"), r.ID)
	fmt.Fprintf(&b, "- **City/State**: %s, %s\n", field(r, "city"), field(r, "state"))
	fmt.Fprintf(&b, "- **Email**: %s\n", field(r, "email"))
	fmt.Fprintf(&b, "- **Phone**: %s\n", field(r, "phone"))
	fmt.Fprintf(&b, "- **Website**: %s\n", field(r, "url"))
	return b.String()
}

// OrgList renders a search result set of organizations.
func OrgList(doc *rescuegroups.Document, title string) string {
	if len(doc.Data) == 0 {
		return fmt.Sprintf("## %s\n\nNo organizations found.\n", title)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	for _, r := range doc.Data {
		fmt.Fprintf(&b, "- **%s** (ID: %s) — %s, %s\n", field(r, "name"), r.ID, field(r, "city"), field(r, "state"))
	}
	return b.String()
}

// Breed renders a single breed.
func Breed(doc *rescuegroups.Document) string {
	if len(doc.Data) == 0 {
		return "No breed found."
	}
	r := doc.Data[0]
	return fmt.Sprintf("## %s (ID: %s)\n", field(r, "name"), r.ID)
}

// BreedList renders a species' breed catalog.
func BreedList(doc *rescuegroups.Document, species string) string {
	if len(doc.Data) == 0 {
		return fmt.Sprintf("## Breeds for %s\n\nNo breeds found.\n", species)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Breeds for %s\n\n", species)
	for _, r := range doc.Data {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", field(r, "name"), r.ID)
	}
	return b.String()
}

// MetadataList renders a metadata table (colors, patterns, sizes, ...).
func MetadataList(doc *rescuegroups.Document, kind string) string {
	if len(doc.Data) == 0 {
		return fmt.Sprintf("## %s\n\nNo entries found.\n", kind)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", kind)
	for _, r := range doc.Data {
		fmt.Fprintf(&b, "- %s (ID: %s)\n", field(r, "name"), r.ID)
	}
	return b.String()
}

// MetadataTypes renders the static catalog of metadata kinds.
func MetadataTypes(types []string) string {
	var b strings.Builder
	b.WriteString("## Metadata types\n\n")
	for _, t := range types {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return b.String()
}

// SpeciesList renders the list of species the upstream API recognizes.
func SpeciesList(doc *rescuegroups.Document) string {
	if len(doc.Data) == 0 {
		return "No species found."
	}
	var b strings.Builder
	b.WriteString("## Species\n\n")
	for _, r := range doc.Data {
		fmt.Fprintf(&b, "- %s (ID: %s, slug: %s)\n", field(r, "singular"), r.ID, field(r, "plural"))
	}
	return b.String()
}
