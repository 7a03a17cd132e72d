// internal/scrapers/property24/scraper.go
package property24

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/scrapers/listing"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

// Scraper collects vacant-land listings for every Western Cape city
// Property24 lists on its all-cities page.
type Scraper struct {
	cfg       config.Property24Config
	fetcher   listing.Fetcher
	extractor *listing.Extractor
	log       *logger.Logger
}

func NewScraper(cfg config.Property24Config, f listing.Fetcher, extractor *listing.Extractor, log *logger.Logger) *Scraper {
	return &Scraper{cfg: cfg, fetcher: f, extractor: extractor, log: log}
}

// DiscoverCityIDs fetches the index page and returns its city pairs in
// document order. A failed fetch yields nil.
func (s *Scraper) DiscoverCityIDs(ctx context.Context) []domain.CityID {
	page, err := s.fetcher.Fetch(ctx, s.cfg.IndexURL)
	if err != nil {
		s.log.Error("Failed to scrape Property24 city IDs.")
		return nil
	}

	doc, err := page.Document()
	if err != nil {
		s.log.Errorf("Failed to parse Property24 city IDs: %v", err)
		return nil
	}
	return ParseCityIDs(doc)
}

// ParseCityIDs reads every AllCityIds input: the value is the ID and the
// link inside the enclosing label is the city name. Inputs missing either
// are skipped; duplicates are kept.
func ParseCityIDs(doc *goquery.Document) []domain.CityID {
	var ids []domain.CityID

	doc.Find(CityInputSelector).Each(func(_ int, input *goquery.Selection) {
		value, ok := input.Attr("value")
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return
		}

		link := input.Closest(CityLabelSelector).Find(CityNameSelector).First()
		if link.Length() == 0 {
			return
		}
		name := listing.StrippedText(link)
		if name == "" {
			return
		}

		ids = append(ids, domain.CityID{City: name, ID: value})
	})

	return ids
}

// GenerateURLs builds one city results URL per pair, in order. City names
// are lowercased and spaces become hyphens.
func GenerateURLs(template string, ids []domain.CityID) []string {
	urls := make([]string, 0, len(ids))
	for _, id := range ids {
		slug := strings.ReplaceAll(strings.ToLower(id.City), " ", "-")
		urls = append(urls, fmt.Sprintf(template, slug, id.ID))
	}
	return urls
}

// URLs is GenerateURLs with the configured template.
func (s *Scraper) URLs(ids []domain.CityID) []string {
	return GenerateURLs(s.cfg.CityURLTemplate, ids)
}

// ScrapeListings extracts listings from every city URL into the
// Property24 output.
func (s *Scraper) ScrapeListings(ctx context.Context, urls []string) (listing.Result, error) {
	return s.extractor.Run(ctx, urls, ParseListings)
}

// ParseListings is a listing.ParseFunc for Property24 result pages.
func ParseListings(doc *goquery.Document, link string, addedAt time.Time) []domain.Record {
	var records []domain.Record

	doc.Find(ListingSelector).Each(func(_ int, card *goquery.Selection) {
		records = append(records, domain.Property24Listing{
			Price:     listing.Field(card, PriceSelector),
			Location:  listing.Field(card, LocationSelector),
			Address:   listing.Field(card, AddressSelector),
			ErfSize:   listing.Field(card, SizeSelector),
			Link:      link,
			DateAdded: addedAt,
		})
	})

	return records
}
