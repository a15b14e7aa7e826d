package domain

type LocationType string

const (
	LocationAirport LocationType = "AIRPORT"
	LocationCity    LocationType = "CITY"
)

type Location struct {
	ID          string       `json:"id"`
	Type        LocationType `json:"type"`
	Code        string       `json:"code"`
	DisplayName string       `json:"displayName"`
	CityName    string       `json:"cityName,omitempty"`
	AirportName string       `json:"airportName,omitempty"`
	CountryCode string       `json:"countryCode,omitempty"`
}
