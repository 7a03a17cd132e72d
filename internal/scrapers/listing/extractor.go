package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/scrapers/fetch"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Sink receives the rows extracted from each page.
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, records []domain.Record) error
}

type Pauser interface {
	Wait(ctx context.Context) error
}

// ParseFunc turns one results page into rows. link is the page URL and
// addedAt the processing time stamped on every row.
type ParseFunc func(doc *goquery.Document, link string, addedAt time.Time) []domain.Record

// Result summarizes one extraction pass.
type Result struct {
	Pages  int      `json:"pages"`
	Rows   int      `json:"rows"`
	Failed []string `json:"failed,omitempty"`
}

// Extractor walks a list of result pages one at a time, pausing between
// requests, and appends every listing found to its sink.
type Extractor struct {
	fetcher Fetcher
	sink    Sink
	pacer   Pauser
	now     func() time.Time
	log     *logger.Logger
}

type Option func(*Extractor)

// WithClock overrides the time source used for the Date Added column.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func NewExtractor(f Fetcher, sink Sink, pacer Pauser, log *logger.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: f,
		sink:    sink,
		pacer:   pacer,
		now:     time.Now,
		log:     log,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run processes urls in order. A page that cannot be fetched or parsed is
// logged and skipped; only storage failures and cancellation end the pass
// early.
func (e *Extractor) Run(ctx context.Context, urls []string, parse ParseFunc) (Result, error) {
	var res Result

	if err := e.sink.EnsureSchema(ctx); err != nil {
		return res, fmt.Errorf("preparing output: %w", err)
	}

	for i, url := range urls {
		n, ok, err := e.page(ctx, url, parse)
		if err != nil {
			return res, err
		}
		res.Pages++
		res.Rows += n
		if !ok {
			res.Failed = append(res.Failed, url)
		}

		if i < len(urls)-1 {
			if err := e.pacer.Wait(ctx); err != nil {
				return res, err
			}
		}
	}

	return res, nil
}

func (e *Extractor) page(ctx context.Context, url string, parse ParseFunc) (int, bool, error) {
	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}
		e.log.Errorf("Failed to fetch listings from %s", url)
		return 0, false, nil
	}

	doc, err := page.Document()
	if err != nil {
		e.log.Errorf("Failed to parse listings from %s: %v", url, err)
		return 0, false, nil
	}

	records := parse(doc, url, e.now())
	if len(records) == 0 {
		return 0, true, nil
	}
	if err := e.sink.Save(ctx, records); err != nil {
		return 0, false, fmt.Errorf("saving listings from %s: %w", url, err)
	}
	return len(records), true, nil
}
