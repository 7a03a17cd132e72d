// internal/scrapers/fetch/client.go
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

// ErrExhausted is matched by every error Fetch returns once all attempts
// have failed.
var ErrExhausted = errors.New("fetch: attempts exhausted")

// StatusError is an HTTP response outside the 2xx range.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ExhaustedError reports the last failure seen for a URL after the retry
// bound was reached.
type ExhaustedError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed for %s: %v", e.Attempts, e.URL, e.Last)
}

func (e *ExhaustedError) Unwrap() []error { return []error{ErrExhausted, e.Last} }

// Rand is the randomness the fetcher and pacer draw from. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
	Int63n(n int64) int64
}

type globalRand struct{}

func (globalRand) Intn(n int) int       { return rand.Intn(n) }
func (globalRand) Int63n(n int64) int64 { return rand.Int63n(n) }

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Page is a successfully fetched response body.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher issues GET requests with a rotating User-Agent, retrying failed
// attempts after a delay that grows linearly with the attempt number.
type Fetcher struct {
	client     *http.Client
	userAgents []string
	retries    int
	wait       time.Duration
	rand       Rand
	sleep      SleepFunc
	log        *logger.Logger
}

type Option func(*Fetcher)

func WithClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }
func WithRand(r Rand) Option           { return func(f *Fetcher) { f.rand = r } }
func WithSleep(s SleepFunc) Option     { return func(f *Fetcher) { f.sleep = s } }

func NewFetcher(cfg config.FetchConfig, log *logger.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		userAgents: append([]string(nil), cfg.UserAgents...),
		retries:    cfg.Retries,
		wait:       cfg.Wait,
		rand:       globalRand{},
		sleep:      sleepContext,
		log:        log,
	}
	if f.retries < 1 {
		f.retries = 1
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns the page at url, or an *ExhaustedError after the configured
// number of attempts. Transport failures and error statuses are handled the
// same way. A cancelled ctx stops retrying early.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	var (
		lastErr  error
		attempts int
	)

	for attempt := 1; attempt <= f.retries; attempt++ {
		attempts = attempt
		page, err := f.get(ctx, url)
		if err == nil {
			return page, nil
		}
		lastErr = err
		f.log.Warnf("Attempt %d/%d failed for URL %s: %v", attempt, f.retries, url, err)

		if attempt == f.retries {
			break
		}
		if err := f.sleep(ctx, f.wait*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	return nil, &ExhaustedError{URL: url, Attempts: attempts, Last: lastErr}
}

func (f *Fetcher) get(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(f.userAgents) > 0 {
		req.Header.Set("User-Agent", f.userAgents[f.rand.Intn(len(f.userAgents))])
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return &Page{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
