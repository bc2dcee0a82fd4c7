// Package htmltext extracts plain text from HTML-formatted clinical notes
// so they can be tagged like any other text input.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Extract returns the visible text of an HTML document: text nodes with
// script and style subtrees skipped, block-ish boundaries turned into
// spaces, and whitespace collapsed. If parsing fails the input is returned
// unchanged.
func Extract(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
