package privateproperty

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/scrapers/listing"
)

const (
	ListingSelector  = ".listing-result"
	PriceSelector    = ".listing-result__price.txt-heading-2"
	TitleSelector    = ".listing-result__title.txt-base-regular"
	AddressSelector  = ".listing-result__address.txt-base-regular"
	SuburbSelector   = ".listing-result__desktop-suburb"
	FeaturesSelector = ".listing-result__features"
)

// Scraper walks the first N result pages of a PrivateProperty search.
type Scraper struct {
	cfg       config.PrivatePropertyConfig
	extractor *listing.Extractor
}

func NewScraper(cfg config.PrivatePropertyConfig, extractor *listing.Extractor) *Scraper {
	return &Scraper{cfg: cfg, extractor: extractor}
}

// PageURLs returns base?page=1 .. base?page=pages.
func PageURLs(base string, pages int) []string {
	urls := make([]string, 0, max(pages, 0))
	for page := 1; page <= pages; page++ {
		urls = append(urls, fmt.Sprintf("%s?page=%d", base, page))
	}
	return urls
}

func (s *Scraper) ScrapeListings(ctx context.Context) (listing.Result, error) {
	return s.extractor.Run(ctx, PageURLs(s.cfg.BaseURL, s.cfg.Pages), ParseListings)
}

// ParseListings is a listing.ParseFunc for PrivateProperty result pages.
func ParseListings(doc *goquery.Document, link string, addedAt time.Time) []domain.Record {
	var records []domain.Record

	doc.Find(ListingSelector).Each(func(_ int, card *goquery.Selection) {
		records = append(records, domain.PrivatePropertyListing{
			Price:     listing.Field(card, PriceSelector),
			Title:     listing.Field(card, TitleSelector),
			Address:   listing.Field(card, AddressSelector),
			Suburb:    listing.Field(card, SuburbSelector),
			Features:  listing.Field(card, FeaturesSelector),
			Link:      link,
			DateAdded: addedAt,
		})
	})

	return records
}
