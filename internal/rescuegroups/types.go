// Package rescuegroups is the upstream client described by C5: it talks to
// the RescueGroups.org v5 REST API, builds JSON:API search bodies, and
// decodes responses into a generic resource tree the formatters and tool
// handlers can walk without a bespoke struct per endpoint.
package rescuegroups

import "encoding/json"

// Resource is one JSON:API resource object — an animal, an organization, a
// breed, a color, or any other entity the v5 API returns.
type Resource struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]any             `json:"attributes,omitempty"`
	Relationships map[string]json.RawMessage `json:"relationships,omitempty"`
}

// Attr returns attribute name as a string, or "" if absent or not a string.
func (r Resource) Attr(name string) string {
	v, ok := r.Attributes[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Document is the decoded tree a cache entry holds: the JSON:API top-level
// object, with Data normalized to always be a slice (a single-resource GET
// still decodes to a one-element slice) so callers never branch on shape.
type Document struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included,omitempty"`
}

// rawDocument is the wire shape, where Data may be a single object or an
// array depending on the endpoint.
type rawDocument struct {
	Data     json.RawMessage `json:"data"`
	Included []Resource      `json:"included"`
}

func decodeDocument(body []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	doc := &Document{Included: raw.Included}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return doc, nil
	}

	switch raw.Data[0] {
	case '[':
		if err := json.Unmarshal(raw.Data, &doc.Data); err != nil {
			return nil, err
		}
	case '{':
		var single Resource
		if err := json.Unmarshal(raw.Data, &single); err != nil {
			return nil, err
		}
		doc.Data = []Resource{single}
	}
	return doc, nil
}
