// internal/domain/property.go
package domain

import "time"

// NotAvailable is written in place of any field the page does not carry.
const NotAvailable = "N/A"

// DateLayout formats the Date Added column.
const DateLayout = "2006-01-02"

const (
	SourceProperty24      = "property24"
	SourcePrivateProperty = "privateproperty"
)

// Record is one output row. Header is fixed per record type and Values
// follows its column order.
type Record interface {
	Source() string
	Header() []string
	Values() []string
}

// Row is a stored record read back as column -> value.
type Row map[string]string

// Property24Listing is a vacant-land listing from a Property24 city page.
type Property24Listing struct {
	Price     string
	Location  string
	Address   string
	ErfSize   string
	Link      string
	DateAdded time.Time
}

var property24Header = []string{"Price", "Location", "Address", "Erf Size", "Link", "Date Added"}

// Property24Header returns the CSV header for Property24 listings.
func Property24Header() []string {
	return append([]string(nil), property24Header...)
}

func (Property24Listing) Source() string   { return SourceProperty24 }
func (Property24Listing) Header() []string { return Property24Header() }

func (l Property24Listing) Values() []string {
	return []string{l.Price, l.Location, l.Address, l.ErfSize, l.Link, l.DateAdded.Format(DateLayout)}
}

// PrivatePropertyListing is a for-sale listing from a PrivateProperty
// results page.
type PrivatePropertyListing struct {
	Price     string
	Title     string
	Address   string
	Suburb    string
	Features  string
	Link      string
	DateAdded time.Time
}

var privatePropertyHeader = []string{"Price", "Title", "Address", "Suburb", "Features", "Link", "Date Added"}

// PrivatePropertyHeader returns the CSV header for PrivateProperty listings.
func PrivatePropertyHeader() []string {
	return append([]string(nil), privatePropertyHeader...)
}

func (PrivatePropertyListing) Source() string   { return SourcePrivateProperty }
func (PrivatePropertyListing) Header() []string { return PrivatePropertyHeader() }

func (l PrivatePropertyListing) Values() []string {
	return []string{l.Price, l.Title, l.Address, l.Suburb, l.Features, l.Link, l.DateAdded.Format(DateLayout)}
}

// ToRow pairs a record's values with its header.
func ToRow(r Record) Row {
	header, values := r.Header(), r.Values()
	row := make(Row, len(header))
	for i, h := range header {
		if i < len(values) {
			row[h] = values[i]
		}
	}
	return row
}
