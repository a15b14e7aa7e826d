package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

// Skip reasons reported by NormalizeReport.
const (
	SkipMalformed     = "malformed_offer"
	SkipNoItinerary   = "no_itinerary"
	SkipNoSegments    = "no_segments"
	SkipBadPrice      = "bad_price"
	SkipNegativePrice = "negative_price"
)

// Skipped identifies an offer that could not become a Flight.
type Skipped struct {
	Index   int
	OfferID string
	Reason  string
}

// Normalize maps raw offers to flights, in order. Malformed offers are dropped and logged;
// the rest of the batch is still returned.
func Normalize(offers []domain.RawOffer) []domain.Flight {
	flights, skipped := NormalizeReport(offers)
	for _, s := range skipped {
		observability.ObserveSkippedOffer(s.Reason)
		log.Warn().
			Int("index", s.Index).
			Str("offer_id", s.OfferID).
			Str("reason", s.Reason).
			Msg("offer skipped during normalization")
	}
	return flights
}

// NormalizeReport is Normalize without side effects: it also returns what was dropped and why.
// Only the first itinerary of each offer is read.
func NormalizeReport(offers []domain.RawOffer) ([]domain.Flight, []Skipped) {
	out := make([]domain.Flight, 0, len(offers))
	var skipped []Skipped
	seen := make(map[string]struct{}, len(offers))

	for i, o := range offers {
		f, reason := normalizeOffer(o)
		if reason != "" {
			skipped = append(skipped, Skipped{Index: i, OfferID: o.ID, Reason: reason})
			continue
		}
		f.ID = uniqueID(o.ID, i, seen)
		out = append(out, f)
	}
	return out, skipped
}

// uniqueID keeps API ids, synthesizes flight-{index} for missing ones and suffixes repeats.
func uniqueID(id string, index int, seen map[string]struct{}) string {
	if id == "" {
		id = "flight-" + strconv.Itoa(index)
	}
	for {
		if _, dup := seen[id]; !dup {
			break
		}
		id = id + "-" + strconv.Itoa(index)
	}
	seen[id] = struct{}{}
	return id
}

func normalizeOffer(o domain.RawOffer) (domain.Flight, string) {
	if o.DecodeErr != nil {
		return domain.Flight{}, SkipMalformed
	}
	if len(o.Itineraries) == 0 {
		return domain.Flight{}, SkipNoItinerary
	}
	it := o.Itineraries[0]
	if len(it.Segments) == 0 {
		return domain.Flight{}, SkipNoSegments
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(string(o.Price.Total)))
	if err != nil {
		return domain.Flight{}, SkipBadPrice
	}
	if amount.IsNegative() {
		return domain.Flight{}, SkipNegativePrice
	}
	cur := o.Price.Currency
	if cur == "" {
		cur = "USD"
	}

	first, last := it.Segments[0], it.Segments[len(it.Segments)-1]
	cabin := cabinOf(o)

	minutes, ok := ParseDuration(it.Duration)
	if !ok {
		log.Warn().Str("offer_id", o.ID).Str("duration", it.Duration).Msg("unparseable duration, using 0")
	}

	stops := make([]string, 0, len(it.Segments)-1)
	for _, s := range it.Segments[:len(it.Segments)-1] {
		stops = append(stops, s.Arrival.IataCode)
	}

	segs := make([]domain.Segment, 0, len(it.Segments))
	for _, s := range it.Segments {
		seg := domain.Segment{
			DepartureAirport: s.Departure.IataCode,
			DepartureTime:    s.Departure.At,
			ArrivalAirport:   s.Arrival.IataCode,
			ArrivalTime:      s.Arrival.At,
			CarrierCode:      s.CarrierCode,
			FlightNumber:     s.Number,
		}
		if s.Aircraft != nil && s.Aircraft.Code != "" {
			code := s.Aircraft.Code
			seg.AircraftCode = &code
		}
		segs = append(segs, seg)
	}

	aircraft := "Unknown"
	if first.Aircraft != nil && first.Aircraft.Code != "" {
		aircraft = first.Aircraft.Code
	}

	return domain.Flight{
		Airline: domain.Airline{
			Code: first.CarrierCode,
			Name: domain.AirlineName(first.CarrierCode),
		},
		Departure:         endpoint(first.Departure),
		Arrival:           endpoint(last.Arrival),
		DurationMinutes:   minutes,
		DurationFormatted: FormatDuration(minutes),
		StopCount:         len(it.Segments) - 1,
		StopLocations:     stops,
		Price:             domain.Price{Amount: amount, Currency: cur},
		CabinClass:        cabin,
		CabinLabel:        cabin.Label(),
		Aircraft:          aircraft,
		Segments:          segs,
	}, ""
}

func cabinOf(o domain.RawOffer) domain.CabinClass {
	if len(o.TravelerPricings) == 0 || len(o.TravelerPricings[0].FareDetailsBySegment) == 0 {
		return domain.CabinEconomy
	}
	return domain.ParseCabinClass(o.TravelerPricings[0].FareDetailsBySegment[0].Cabin)
}

func endpoint(p domain.RawPoint) domain.Endpoint {
	e := domain.Endpoint{AirportCode: p.IataCode, Timestamp: p.At}
	if t, ok := ParseTimestamp(p.At); ok {
		e.LocalTime = t.Format("03:04 PM")
		e.LocalDate = t.Format("Jan 2")
	}
	return e
}

/********** duration & time helpers **********/

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// Bounds keep h*60+mins well inside int on every platform.
const (
	maxDurationHours   = 1 << 20
	maxDurationMinutes = 1 << 26
)

// ParseDuration reads PT#H#M tokens; either group may be missing. A token with neither group,
// or with a group too large to represent, yields (0, false).
func ParseDuration(tok string) (int, bool) {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	var h, mins int
	var err error
	if m[1] != "" {
		if h, err = strconv.Atoi(m[1]); err != nil || h > maxDurationHours {
			return 0, false
		}
	}
	if m[2] != "" {
		if mins, err = strconv.Atoi(m[2]); err != nil || mins > maxDurationMinutes {
			return 0, false
		}
	}
	return h*60 + mins, true
}

func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

var timestampLayouts = []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02T15:04"}

// ParseTimestamp reads the API's local (zone-less) datetimes, and RFC 3339 as a fallback.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
