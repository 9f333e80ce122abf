package registry

import (
	"fmt"
	"strings"
)

// formatToolSummaries renders inspect_tool's no-argument response: name and
// description for every tool, core and hidden alike.
func formatToolSummaries(tools []Descriptor) string {
	var b strings.Builder
	b.WriteString("## Available tools\n\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- **%s**: %s\n", t.Name, t.Description)
	}
	return b.String()
}

// formatToolSchema renders inspect_tool's tool_name response: the full
// description and JSON Schema for one tool.
func formatToolSchema(d Descriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n### Arguments schema\n\n```json\n%s\n```\n", d.Name, d.Description, string(d.Schema))
	return b.String()
}
