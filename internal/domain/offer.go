package domain

import (
	"bytes"
	"encoding/json"
)

// Raw shapes of the flight-offer and reference-data payloads, decoded as-is.

type RawOffer struct {
	ID               string               `json:"id"`
	Itineraries      []RawItinerary       `json:"itineraries"`
	Price            RawPrice             `json:"price"`
	TravelerPricings []RawTravelerPricing `json:"travelerPricings"`

	// DecodeErr is set by DecodeOffer when the offer's JSON did not fit these shapes.
	DecodeErr error `json:"-"`
}

// DecodeOffer never fails: an offer that does not decode comes back empty apart from its id
// (when readable) and DecodeErr, so one bad offer cannot sink its batch.
func DecodeOffer(b []byte) RawOffer {
	var o RawOffer
	if err := json.Unmarshal(b, &o); err != nil {
		var head struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(b, &head)
		return RawOffer{ID: head.ID, DecodeErr: err}
	}
	return o
}

type RawItinerary struct {
	Duration string       `json:"duration"`
	Segments []RawSegment `json:"segments"`
}

type RawSegment struct {
	Departure   RawPoint     `json:"departure"`
	Arrival     RawPoint     `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Aircraft    *RawAircraft `json:"aircraft,omitempty"`
}

type RawPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type RawAircraft struct {
	Code string `json:"code"`
}

type RawPrice struct {
	Total    Amount `json:"total"`
	Currency string `json:"currency"`
}

type RawTravelerPricing struct {
	FareDetailsBySegment []RawFareDetail `json:"fareDetailsBySegment"`
}

type RawFareDetail struct {
	Cabin string `json:"cabin"`
}

// Amount keeps a price token exactly as sent. The API quotes it but some sandboxes send bare
// numbers; any other token is kept verbatim and fails later as an unparseable price.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(b)
	}
	return nil
}

type RawLocation struct {
	ID       string      `json:"id"`
	SubType  string      `json:"subType"`
	Name     string      `json:"name"`
	IataCode string      `json:"iataCode"`
	Address  *RawAddress `json:"address,omitempty"`
}

type RawAddress struct {
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
}
