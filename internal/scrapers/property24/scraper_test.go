package property24

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ps-vitor/landscraper/internal/config"
	"github.com/ps-vitor/landscraper/internal/domain"
	"github.com/ps-vitor/landscraper/internal/repositories"
	"github.com/ps-vitor/landscraper/internal/scrapers/fetch"
	"github.com/ps-vitor/landscraper/internal/scrapers/listing"
	"github.com/ps-vitor/landscraper/pkg/logger"
)

const indexFixture = `<html><body><form>
<label><input type="checkbox" name="AllCityIds" value="432"><a href="/x">Cape Town</a></label>
<label><input type="checkbox" name="AllCityIds" value="459"><a href="/y"> Stellenbosch </a></label>
<label><input type="checkbox" name="AllCityIds"><a href="/z">No Value</a></label>
<label><input type="checkbox" name="AllCityIds" value="77"><span>No link</span></label>
<input type="checkbox" name="AllCityIds" value="88">
<label><input type="checkbox" name="OtherIds" value="5"><a>Other</a></label>
<label><input type="checkbox" name="AllCityIds" value="432"><a href="/x">Cape Town</a></label>
</form></body></html>`

const listingsFixture = `<html><body>
<div class="p24_content">
	<span class="p24_price">R 850 000</span>
	<span class="p24_location">Paarl</span>
	<span class="p24_address">12 Vine St</span>
	<span class="p24_size">500 m²</span>
</div>
<div class="p24_content">
	<span class="p24_price">R 1 100 000</span>
	<span class="p24_location">Paarl</span>
	<span class="p24_size">1 200 m²</span>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseCityIDs(t *testing.T) {
	got := ParseCityIDs(mustDoc(t, indexFixture))

	want := []domain.CityID{
		{City: "Cape Town", ID: "432"},
		{City: "Stellenbosch", ID: "459"},
		{City: "Cape Town", ID: "432"},
	}
	if len(got) != len(want) {
		t.Fatalf("ParseCityIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ids[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseCityIDsNoMarkers(t *testing.T) {
	ids := ParseCityIDs(mustDoc(t, `<html><body><p>nothing here</p></body></html>`))
	if len(ids) != 0 {
		t.Errorf("ParseCityIDs() = %v, want empty", ids)
	}
	if urls := GenerateURLs(config.Default().Scraping.Property24.CityURLTemplate, ids); len(urls) != 0 {
		t.Errorf("GenerateURLs() = %v, want empty", urls)
	}
}

func TestGenerateURLs(t *testing.T) {
	template := config.Default().Scraping.Property24.CityURLTemplate

	tests := []struct {
		name string
		id   domain.CityID
		want string
	}{
		{"two words", domain.CityID{City: "Cape Town", ID: "9"}, "https://www.property24.com/vacant-land-for-sale/cape-town/western-cape/9"},
		{"single word", domain.CityID{City: "Paarl", ID: "344"}, "https://www.property24.com/vacant-land-for-sale/paarl/western-cape/344"},
		{"every space", domain.CityID{City: "Prince Albert Road", ID: "7"}, "https://www.property24.com/vacant-land-for-sale/prince-albert-road/western-cape/7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateURLs(template, []domain.CityID{tt.id})
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("GenerateURLs() = %v, want [%s]", got, tt.want)
			}
			if !strings.HasSuffix(got[0], "/"+tt.id.ID) {
				t.Errorf("URL %q does not end in the city ID", got[0])
			}
		})
	}

	ordered := GenerateURLs(template, []domain.CityID{{City: "B", ID: "2"}, {City: "A", ID: "1"}})
	if !strings.HasSuffix(ordered[0], "/b/western-cape/2") || !strings.HasSuffix(ordered[1], "/a/western-cape/1") {
		t.Errorf("order not preserved: %v", ordered)
	}
}

func TestParseListingsMissingFieldIsSentinel(t *testing.T) {
	added := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)
	recs := ParseListings(mustDoc(t, listingsFixture), "https://p24/paarl/344", added)

	if len(recs) != 2 {
		t.Fatalf("ParseListings() returned %d records, want 2", len(recs))
	}

	full := recs[0].(domain.Property24Listing)
	if full.Price != "R 850 000" || full.Address != "12 Vine St" || full.ErfSize != "500 m²" {
		t.Errorf("first listing = %+v", full)
	}

	partial := recs[1].(domain.Property24Listing)
	if partial.Address != domain.NotAvailable {
		t.Errorf("Address = %q, want %q", partial.Address, domain.NotAvailable)
	}
	if partial.Price != "R 1 100 000" || partial.Location != "Paarl" || partial.ErfSize != "1 200 m²" {
		t.Errorf("missing address leaked into other fields: %+v", partial)
	}
	if partial.Link != "https://p24/paarl/344" || partial.Values()[5] != "2024-02-29" {
		t.Errorf("link/date = %q/%q", partial.Link, partial.Values()[5])
	}
}

type noPause struct{}

func (noPause) Wait(ctx context.Context) error { return nil }

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestScraper(t *testing.T, srv *httptest.Server, out string, buf *bytes.Buffer) *Scraper {
	t.Helper()
	log := logger.New(buf)
	cfg := config.Default().Scraping
	cfg.Property24.IndexURL = srv.URL + "/all-cities"
	cfg.Property24.CityURLTemplate = srv.URL + "/vacant-land-for-sale/%s/western-cape/%s"

	f := fetch.NewFetcher(cfg.Fetch, log, fetch.WithClient(srv.Client()), fetch.WithSleep(noSleep))
	repo := repositories.NewCSVRepository(out, domain.Property24Header())
	ex := listing.NewExtractor(f, repo, noPause{}, log)
	return NewScraper(cfg.Property24, f, ex, log)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Count(string(data), "\n")
}

func TestScrapeRunTwiceAppends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/all-cities", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexFixture))
	})
	mux.HandleFunc("/vacant-land-for-sale/cape-town/western-cape/432", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingsFixture))
	})
	mux.HandleFunc("/vacant-land-for-sale/stellenbosch/western-cape/459", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "property24_listings.csv")
	var buf bytes.Buffer
	s := newTestScraper(t, srv, out, &buf)
	ctx := context.Background()

	ids := s.DiscoverCityIDs(ctx)
	urls := s.URLs(ids)
	if len(urls) != 3 {
		t.Fatalf("got %d URLs, want 3", len(urls))
	}

	res, err := s.ScrapeListings(ctx, urls)
	if err != nil {
		t.Fatalf("ScrapeListings() error = %v", err)
	}
	// cape-town appears twice in the index, so its page is scraped twice.
	if res.Rows != 4 || len(res.Failed) != 1 {
		t.Fatalf("first run = %+v", res)
	}
	before := countLines(t, out)
	if before != 1+4 {
		t.Fatalf("file has %d lines after first run, want 5", before)
	}

	res, err = s.ScrapeListings(ctx, urls)
	if err != nil {
		t.Fatal(err)
	}
	after := countLines(t, out)
	if after != before+res.Rows {
		t.Errorf("lines %d -> %d, want +%d", before, after, res.Rows)
	}

	data, _ := os.ReadFile(out)
	if n := strings.Count(string(data), "Price,Location,Address,Erf Size,Link,Date Added"); n != 1 {
		t.Errorf("header appears %d times, want 1", n)
	}
	if n := strings.Count(buf.String(), "Failed to fetch listings from "+srv.URL+"/vacant-land-for-sale/stellenbosch/western-cape/459"); n != 2 {
		t.Errorf("failure logged %d times over two runs, want 2", n)
	}
}

func TestDiscoverCityIDsFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	s := newTestScraper(t, srv, filepath.Join(t.TempDir(), "out.csv"), &buf)

	if ids := s.DiscoverCityIDs(context.Background()); len(ids) != 0 {
		t.Errorf("DiscoverCityIDs() = %v, want empty", ids)
	}
	if !strings.Contains(buf.String(), "ERROR - Failed to scrape Property24 city IDs.") {
		t.Errorf("missing error line:\n%s", buf.String())
	}
}
