package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/format"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

// printResult prints doc either as raw JSON (--json) or as a glamour-styled
// Markdown profile built by one of the format package's renderers. If
// glamour fails to initialize (e.g. a non-terminal stdout), the plain
// Markdown is printed unstyled rather than failing the command.
func printResult(doc *rescuegroups.Document, asJSON bool, markdown func() string) error {
	if asJSON {
		raw, err := format.RawJSON(doc)
		if err != nil {
			return err
		}
		fmt.Println(raw)
		return nil
	}
	fmt.Println(renderMarkdown(markdown()))
	return nil
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
