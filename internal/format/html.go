package format

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// StripHTML removes every HTML tag from s and decodes entities, so an
// animal description that arrives as upstream-authored markup renders as
// plain text in a Markdown document. It never executes or interprets the
// markup — only a tokenizer walk and a text-node concatenation.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return html.UnescapeString(s)
	}

	var b strings.Builder
	tokenizer := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch tokenizer.Next() {
		case xhtml.ErrorToken:
			return strings.TrimSpace(collapseBlankLines(b.String()))
		case xhtml.TextToken:
			b.Write(tokenizer.Text())
		case xhtml.StartTagToken, xhtml.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br":
				b.WriteByte('\n')
			case "p", "div", "li":
				b.WriteByte('\n')
			}
		}
	}
}

func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
