package domain

import (
	"testing"
	"time"
)

func TestValuesFollowHeader(t *testing.T) {
	added := time.Date(2024, 7, 1, 23, 59, 0, 0, time.Local)

	tests := []struct {
		name string
		rec  Record
		want Row
	}{
		{
			name: "property24",
			rec: Property24Listing{
				Price: "R 850 000", Location: "Paarl", Address: NotAvailable,
				ErfSize: "500 m²", Link: "https://p24/paarl/1", DateAdded: added,
			},
			want: Row{
				"Price": "R 850 000", "Location": "Paarl", "Address": "N/A",
				"Erf Size": "500 m²", "Link": "https://p24/paarl/1", "Date Added": "2024-07-01",
			},
		},
		{
			name: "privateproperty",
			rec: PrivatePropertyListing{
				Price: "R 1 200 000", Title: "Vacant Land", Address: "1 Main Rd",
				Suburb: "Gordons Bay", Features: NotAvailable, Link: "https://pp?page=1", DateAdded: added,
			},
			want: Row{
				"Price": "R 1 200 000", "Title": "Vacant Land", "Address": "1 Main Rd",
				"Suburb": "Gordons Bay", "Features": "N/A", "Link": "https://pp?page=1", "Date Added": "2024-07-01",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.rec.Header()) != len(tt.rec.Values()) {
				t.Fatalf("header has %d columns, values %d", len(tt.rec.Header()), len(tt.rec.Values()))
			}
			got := ToRow(tt.rec)
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("row[%q] = %q, want %q", k, got[k], v)
				}
			}
			if tt.rec.Source() != tt.name {
				t.Errorf("Source() = %q, want %q", tt.rec.Source(), tt.name)
			}
		})
	}
}

func TestHeaderIsCopied(t *testing.T) {
	h := Property24Header()
	h[0] = "changed"
	if Property24Header()[0] != "Price" {
		t.Error("Property24Header() exposes its backing array")
	}
}
