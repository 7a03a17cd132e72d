package listing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ps-vitor/landscraper/internal/domain"
)

// StrippedText joins the trimmed text nodes under sel with no separator,
// so markup-only whitespace between elements disappears.
func StrippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(n.Data))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// Field returns the stripped text of the first element under container
// matching selector, or domain.NotAvailable when there is none.
func Field(container *goquery.Selection, selector string) string {
	s := container.Find(selector).First()
	if s.Length() == 0 {
		return domain.NotAvailable
	}
	return StrippedText(s)
}
