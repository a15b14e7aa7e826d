package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FilterCriteria narrows a result set. Empty Stops or Airlines mean no restriction.
type FilterCriteria struct {
	PriceMin    decimal.Decimal `json:"priceMin"`
	PriceMax    decimal.Decimal `json:"priceMax"`
	Stops       []int           `json:"stops"`
	Airlines    []string        `json:"airlines"`
	MaxDuration int             `json:"maxDuration"`
}

// FullRange returns criteria spanning every flight in the set, the state a new result set starts in.
func FullRange(flights []Flight) FilterCriteria {
	c := FilterCriteria{Stops: []int{}, Airlines: []string{}}
	if len(flights) == 0 {
		return c
	}
	lo, hi := flights[0].Price.Amount, flights[0].Price.Amount
	maxDur := flights[0].DurationMinutes
	for _, f := range flights[1:] {
		if f.Price.Amount.LessThan(lo) {
			lo = f.Price.Amount
		}
		if f.Price.Amount.GreaterThan(hi) {
			hi = f.Price.Amount
		}
		if f.DurationMinutes > maxDur {
			maxDur = f.DurationMinutes
		}
	}
	c.PriceMin = lo.Floor()
	c.PriceMax = hi.Ceil()
	c.MaxDuration = maxDur
	return c
}

type TripType string

const (
	OneWay    TripType = "one-way"
	RoundTrip TripType = "round-trip"
)

const DateLayout = "2006-01-02"

type SearchCriteria struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate string     `json:"departureDate"`
	ReturnDate    string     `json:"returnDate,omitempty"`
	TripType      TripType   `json:"tripType"`
	Passengers    int        `json:"passengers"`
	CabinClass    CabinClass `json:"cabinClass"`
}

var iataCode = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate normalizes codes and cabin class in place and reports the first problem found.
func (c *SearchCriteria) Validate() error {
	c.Origin = strings.ToUpper(strings.TrimSpace(c.Origin))
	c.Destination = strings.ToUpper(strings.TrimSpace(c.Destination))
	c.CabinClass = ParseCabinClass(string(c.CabinClass))
	if c.TripType == "" {
		c.TripType = OneWay
	}

	if !iataCode.MatchString(c.Origin) {
		return fmt.Errorf("%w: origin must be a 3-letter airport code", ErrInvalidCriteria)
	}
	if !iataCode.MatchString(c.Destination) {
		return fmt.Errorf("%w: destination must be a 3-letter airport code", ErrInvalidCriteria)
	}
	if c.Origin == c.Destination {
		return fmt.Errorf("%w: origin and destination must differ", ErrInvalidCriteria)
	}
	dep, err := time.Parse(DateLayout, c.DepartureDate)
	if err != nil {
		return fmt.Errorf("%w: departureDate must be YYYY-MM-DD", ErrInvalidCriteria)
	}
	if c.Passengers < 1 || c.Passengers > 9 {
		return fmt.Errorf("%w: passengers must be between 1 and 9", ErrInvalidCriteria)
	}

	switch c.TripType {
	case OneWay:
		c.ReturnDate = ""
	case RoundTrip:
		if c.ReturnDate == "" {
			return fmt.Errorf("%w: returnDate is required for round-trip", ErrInvalidCriteria)
		}
		ret, err := time.Parse(DateLayout, c.ReturnDate)
		if err != nil {
			return fmt.Errorf("%w: returnDate must be YYYY-MM-DD", ErrInvalidCriteria)
		}
		if ret.Before(dep) {
			return fmt.Errorf("%w: returnDate is before departureDate", ErrInvalidCriteria)
		}
	default:
		return fmt.Errorf("%w: unknown tripType %q", ErrInvalidCriteria, c.TripType)
	}
	return nil
}
