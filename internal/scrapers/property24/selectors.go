package property24

// CSS selectors for Property24 pages
const (
	// All-cities index page
	CityInputSelector = `input[name="AllCityIds"]`
	CityLabelSelector = "label"
	CityNameSelector  = "a"

	// Listing results
	ListingSelector  = ".p24_content"
	PriceSelector    = ".p24_price"
	LocationSelector = ".p24_location"
	AddressSelector  = ".p24_address"
	SizeSelector     = ".p24_size"
)
