package models

// Locator carries every addressing form a category scorer may need.
// Each scorer reads only the fields its data source is keyed by.
type Locator struct {
	City        string       // City is the free-text city name entered by the user.
	Country     string       // Country is the display name resolved from CountryCode.
	CountryCode string       // CountryCode is the ISO 3166-1 alpha-3 code.
	Coordinates *Coordinates // Coordinates is set once the city has been geocoded.
}
