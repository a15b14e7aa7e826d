package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// ParseCabinClass accepts any case; unknown or empty values resolve to ECONOMY.
func ParseCabinClass(s string) CabinClass {
	switch c := CabinClass(strings.ToUpper(strings.TrimSpace(s))); c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return c
	}
	return CabinEconomy
}

func (c CabinClass) Label() string {
	switch c {
	case CabinPremiumEconomy:
		return "Premium Economy"
	case CabinBusiness:
		return "Business"
	case CabinFirst:
		return "First Class"
	}
	return "Economy"
}

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Endpoint struct {
	AirportCode string `json:"airportCode"`
	LocalTime   string `json:"localTime"`
	LocalDate   string `json:"localDate"`
	Timestamp   string `json:"timestamp"`
}

type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type Segment struct {
	DepartureAirport string  `json:"departureAirport"`
	DepartureTime    string  `json:"departureTime"`
	ArrivalAirport   string  `json:"arrivalAirport"`
	ArrivalTime      string  `json:"arrivalTime"`
	CarrierCode      string  `json:"carrierCode"`
	FlightNumber     string  `json:"flightNumber"`
	AircraftCode     *string `json:"aircraftCode,omitempty"`
}

// Flight is a normalized offer. Only the first itinerary of an offer is represented.
type Flight struct {
	ID                string     `json:"id"`
	Airline           Airline    `json:"airline"`
	Departure         Endpoint   `json:"departure"`
	Arrival           Endpoint   `json:"arrival"`
	DurationMinutes   int        `json:"durationMinutes"`
	DurationFormatted string     `json:"durationFormatted"`
	StopCount         int        `json:"stopCount"`
	StopLocations     []string   `json:"stopLocations"`
	Price             Price      `json:"price"`
	CabinClass        CabinClass `json:"cabinClass"`
	CabinLabel        string     `json:"cabinLabel"`
	Aircraft          string     `json:"aircraft"`
	Segments          []Segment  `json:"segments"`
}

// StopCategory folds stop counts into the 0, 1 and "2 or more" buckets used by filters.
func (f Flight) StopCategory() int {
	if f.StopCount >= 2 {
		return 2
	}
	return f.StopCount
}
