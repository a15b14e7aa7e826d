package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"flight_search/internal/domain"
)

// Defaults used when there is nothing to derive options from.
var (
	emptyMaxPrice    = decimal.NewFromInt(10000)
	emptyMaxDuration = 24 * 60
)

type AirlineOption struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FilterOptions describes the choices a result set offers to the filter controls.
type FilterOptions struct {
	MinPrice    decimal.Decimal `json:"minPrice"`
	MaxPrice    decimal.Decimal `json:"maxPrice"`
	MaxDuration int             `json:"maxDuration"`
	Airlines    []AirlineOption `json:"airlines"`
	// StopCounts holds the number of nonstop, one-stop and 2+ stop flights.
	StopCounts [3]int `json:"stopCounts"`
}

func Options(flights []domain.Flight) FilterOptions {
	if len(flights) == 0 {
		return FilterOptions{MaxPrice: emptyMaxPrice, MaxDuration: emptyMaxDuration, Airlines: []AirlineOption{}}
	}
	full := domain.FullRange(flights)
	o := FilterOptions{MinPrice: full.PriceMin, MaxPrice: full.PriceMax, MaxDuration: full.MaxDuration}

	idx := map[string]int{}
	for _, f := range flights {
		o.StopCounts[f.StopCategory()]++
		i, ok := idx[f.Airline.Code]
		if !ok {
			i = len(o.Airlines)
			idx[f.Airline.Code] = i
			o.Airlines = append(o.Airlines, AirlineOption{Code: f.Airline.Code, Name: f.Airline.Name})
		}
		o.Airlines[i].Count++
	}
	// most frequent first; first-seen order among equals
	sort.SliceStable(o.Airlines, func(i, j int) bool { return o.Airlines[i].Count > o.Airlines[j].Count })
	return o
}

// ActiveFilterCount counts filter groups narrowed away from the options' full range.
func ActiveFilterCount(c domain.FilterCriteria, o FilterOptions) int {
	n := 0
	if len(c.Stops) > 0 {
		n++
	}
	if len(c.Airlines) > 0 {
		n++
	}
	if !c.PriceMin.Equal(o.MinPrice) || !c.PriceMax.Equal(o.MaxPrice) {
		n++
	}
	if c.MaxDuration != o.MaxDuration {
		n++
	}
	return n
}

// Criteria returns filter criteria spanning these options, with no stop or airline restriction.
func (o FilterOptions) Criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		PriceMin:    o.MinPrice,
		PriceMax:    o.MaxPrice,
		Stops:       []int{},
		Airlines:    []string{},
		MaxDuration: o.MaxDuration,
	}
}
