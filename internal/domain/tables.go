package domain

// Static reference tables. Built once at init and never mutated.

var airlines = map[string]string{
	"AA": "American Airlines",
	"DL": "Delta Air Lines",
	"UA": "United Airlines",
	"WN": "Southwest Airlines",
	"B6": "JetBlue Airways",
	"AS": "Alaska Airlines",
	"BA": "British Airways",
	"AF": "Air France",
	"LH": "Lufthansa",
	"EK": "Emirates",
	"QR": "Qatar Airways",
	"SQ": "Singapore Airlines",
	"TK": "Turkish Airlines",
}

// AirlineName resolves a carrier code, falling back to the code itself.
func AirlineName(code string) string {
	if n, ok := airlines[code]; ok {
		return n
	}
	return code
}

type Airport struct {
	Code string
	City string
	Name string
}

var airports = map[string]Airport{
	"JFK": {Code: "JFK", City: "New York", Name: "John F. Kennedy International"},
	"LAX": {Code: "LAX", City: "Los Angeles", Name: "Los Angeles International"},
	"ORD": {Code: "ORD", City: "Chicago", Name: "O'Hare International"},
	"ATL": {Code: "ATL", City: "Atlanta", Name: "Hartsfield-Jackson"},
	"DFW": {Code: "DFW", City: "Dallas", Name: "Dallas/Fort Worth International"},
	"DEN": {Code: "DEN", City: "Denver", Name: "Denver International"},
	"SFO": {Code: "SFO", City: "San Francisco", Name: "San Francisco International"},
	"MIA": {Code: "MIA", City: "Miami", Name: "Miami International"},
	"LAS": {Code: "LAS", City: "Las Vegas", Name: "Harry Reid International"},
	"SEA": {Code: "SEA", City: "Seattle", Name: "Seattle-Tacoma International"},
	"BOS": {Code: "BOS", City: "Boston", Name: "Logan International"},
	"LHR": {Code: "LHR", City: "London", Name: "Heathrow"},
	"CDG": {Code: "CDG", City: "Paris", Name: "Charles de Gaulle"},
	"DXB": {Code: "DXB", City: "Dubai", Name: "Dubai International"},
	"SIN": {Code: "SIN", City: "Singapore", Name: "Singapore Changi"},
	"HND": {Code: "HND", City: "Tokyo", Name: "Tokyo Haneda"},
}

func LookupAirport(code string) (Airport, bool) {
	a, ok := airports[code]
	return a, ok
}

// AirportCodes lists the well-known airports in no particular order.
func AirportCodes() []string {
	out := make([]string, 0, len(airports))
	for c := range airports {
		out = append(out, c)
	}
	return out
}
