// Package markup turns the HTML fragments used in question and answer text
// into plain text for renderers that cannot display markup.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips tags, decodes entities and collapses whitespace.
// On a parse failure the input is returned unchanged.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
