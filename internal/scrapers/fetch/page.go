package fetch

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Document parses the page body, transcoding to UTF-8 from whatever
// charset the Content-Type or a meta tag declares.
func (p *Page) Document() (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(p.Body), p.ContentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset for %s: %w", p.URL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.URL, err)
	}
	return doc, nil
}
