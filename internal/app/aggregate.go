package app

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"flight_search/internal/domain"
)

const DefaultBucketSize = 50

// Bucket is one price band of the histogram. Only non-empty bands are produced.
type Bucket struct {
	RangeLabel   string `json:"range"`
	LowerBound   int64  `json:"lowerBound"`
	Count        int    `json:"count"`
	AveragePrice int64  `json:"averagePrice"`
	BestValue    bool   `json:"bestValue"`
}

// Aggregate groups flights into [lo, lo+size) bands starting at the floored minimum price.
// The first band with the lowest average is marked BestValue.
func Aggregate(flights []domain.Flight, size int) []Bucket {
	if len(flights) == 0 {
		return []Bucket{}
	}
	if size <= 0 {
		size = DefaultBucketSize
	}

	lo := flights[0].Price.Amount
	for _, f := range flights[1:] {
		if f.Price.Amount.LessThan(lo) {
			lo = f.Price.Amount
		}
	}
	lo = lo.Floor()
	width := decimal.NewFromInt(int64(size))

	type acc struct {
		sum   decimal.Decimal
		count int
	}
	groups := make(map[int64]*acc)
	for _, f := range flights {
		k := f.Price.Amount.Sub(lo).Div(width).Floor().IntPart()
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
		}
		g.sum = g.sum.Add(f.Price.Amount)
		g.count++
	}

	keys := make([]int64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	base := lo.IntPart()
	out := make([]Bucket, 0, len(keys))
	best := 0
	for _, k := range keys {
		g := groups[k]
		lower := base + k*int64(size)
		avg := g.sum.Div(decimal.NewFromInt(int64(g.count))).Round(0).IntPart()
		// rounding a mean just under the upper edge must not push it out of its band
		if upper := lower + int64(size) - 1; avg > upper {
			avg = upper
		}
		out = append(out, Bucket{
			RangeLabel:   fmt.Sprintf("$%d-$%d", lower, lower+int64(size)),
			LowerBound:   lower,
			Count:        g.count,
			AveragePrice: avg,
		})
		if avg < out[best].AveragePrice {
			best = len(out) - 1
		}
	}
	out[best].BestValue = true
	return out
}
