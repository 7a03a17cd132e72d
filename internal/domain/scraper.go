// internal/domain/scraper.go
package domain

// CityID pairs a Property24 city name with the site's numeric city code.
// It only lives for the duration of one run.
type CityID struct {
	City string
	ID   string
}
