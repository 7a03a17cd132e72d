package scraping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/scrapers/fetch"
	"github.com/ps-vitor/landscraper/internal/scrapers/listing"
	"github.com/ps-vitor/landscraper/internal/scrapers/privateproperty"
	"github.com/ps-vitor/landscraper/internal/scrapers/property24"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

// ErrRunInProgress is returned by Run while another run holds the outputs.
var ErrRunInProgress = errors.New("scraping run already in progress")

type CityScraper interface {
	DiscoverCityIDs(ctx context.Context) []domain.CityID
	URLs(ids []domain.CityID) []string
	ScrapeListings(ctx context.Context, urls []string) (listing.Result, error)
}

type PageScraper interface {
	ScrapeListings(ctx context.Context) (listing.Result, error)
}

// Summary describes one completed or aborted run.
type Summary struct {
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	CityIDs         int            `json:"city_ids"`
	Aborted         bool           `json:"aborted"`
	Property24      listing.Result `json:"property24"`
	PrivateProperty listing.Result `json:"privateproperty"`
}

type ScraperService struct {
	property24      CityScraper
	privateProperty PageScraper
	log             *logger.Logger
	mu              sync.Mutex
}

func NewScraperService(p24 CityScraper, pp PageScraper, log *logger.Logger) *ScraperService {
	return &ScraperService{property24: p24, privateProperty: pp, log: log}
}

// NewFromConfig wires the fetcher, pacer and both scrapers around the given
// output repositories.
func NewFromConfig(cfg *config.Config, log *logger.Logger, p24Out, ppOut listing.Sink) *ScraperService {
	f := fetch.NewFetcher(cfg.Scraping.Fetch, log)
	pacer := fetch.NewPacer(cfg.Scraping.RateLimit, nil, nil)

	p24 := property24.NewScraper(cfg.Scraping.Property24, f, listing.NewExtractor(f, p24Out, pacer, log), log)
	pp := privateproperty.NewScraper(cfg.Scraping.PrivateProperty, listing.NewExtractor(f, ppOut, pacer, log))

	return NewScraperService(p24, pp, log)
}

// Run performs discovery, then Property24 extraction, then PrivateProperty
// extraction. When discovery finds no cities nothing else runs. Fetch
// failures only shrink the output; the returned error is reserved for
// storage failures and cancellation.
func (s *ScraperService) Run(ctx context.Context) (Summary, error) {
	if !s.mu.TryLock() {
		return Summary{}, ErrRunInProgress
	}
	defer s.mu.Unlock()

	sum := Summary{StartedAt: time.Now()}

	s.log.Info("Starting combined Property24 and PrivateProperty scraping process.")

	ids := s.property24.DiscoverCityIDs(ctx)
	sum.CityIDs = len(ids)
	if len(ids) == 0 {
		s.log.Error("No city IDs retrieved; scraping aborted.")
		sum.Aborted = true
		sum.FinishedAt = time.Now()
		return sum, nil
	}

	res, err := s.property24.ScrapeListings(ctx, s.property24.URLs(ids))
	sum.Property24 = res
	if err != nil {
		s.log.Errorf("Property24 scraping stopped: %v", err)
		sum.FinishedAt = time.Now()
		return sum, fmt.Errorf("property24 listings: %w", err)
	}

	res, err = s.privateProperty.ScrapeListings(ctx)
	sum.PrivateProperty = res
	if err != nil {
		s.log.Errorf("PrivateProperty scraping stopped: %v", err)
		sum.FinishedAt = time.Now()
		return sum, fmt.Errorf("privateproperty listings: %w", err)
	}

	s.log.Info("Scraping completed successfully.")
	sum.FinishedAt = time.Now()
	return sum, nil
}
