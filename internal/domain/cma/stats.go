package cma

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ValueStats summarizes one metric across the comp set. Count is the
// number of comps that actually carried the metric; the other fields
// are zero when Count is zero.
type ValueStats struct {
	Count   int             `json:"count"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
	Median  decimal.Decimal `json:"median"`
}

// Statistics is the full statistical summary of a comp set
type Statistics struct {
	SoldPrice       ValueStats         `json:"sold_price"`
	ListPrice       ValueStats         `json:"list_price"`
	AdjustedPrice   ValueStats         `json:"adjusted_price"`
	PricePerSqft    ValueStats         `json:"price_per_sqft"`
	DaysOnMarket    ValueStats         `json:"days_on_market"`
	SaleToListRatio decimal.Decimal    `json:"sale_to_list_ratio"` // average sold/list across comps with both
	CountsByStatus  map[CompStatus]int `json:"counts_by_status"`
}

// summarize computes min/max/average/median over the values present.
// The median of an even-size set is the mean of the two middle values.
func summarize(values []decimal.Decimal) ValueStats {
	if len(values) == 0 {
		return ValueStats{}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	sum := decimal.Zero
	for _, v := range sorted {
		sum = sum.Add(v)
	}

	n := len(sorted)
	var median decimal.Decimal
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
	}

	return ValueStats{
		Count:   n,
		Min:     sorted[0],
		Max:     sorted[n-1],
		Average: sum.Div(decimal.NewFromInt(int64(n))).Round(2),
		Median:  median.Round(2),
	}
}

// ComputeStatistics summarizes a comp set. Missing values are skipped
// per metric rather than failing the computation; an empty comp set
// yields zero-valued stats.
func ComputeStatistics(comps []Comparable) Statistics {
	stats := Statistics{
		CountsByStatus: make(map[CompStatus]int),
	}

	var soldPrices, listPrices, adjusted, ppsf, dom []decimal.Decimal
	ratioSum := decimal.Zero
	ratioCount := 0

	for i := range comps {
		c := &comps[i]
		stats.CountsByStatus[c.Status]++

		if c.SoldPrice != nil && c.SoldPrice.IsPositive() {
			soldPrices = append(soldPrices, *c.SoldPrice)
		}
		if c.ListPrice != nil && c.ListPrice.IsPositive() {
			listPrices = append(listPrices, *c.ListPrice)
		}
		if ap := c.AdjustedPrice(); ap != nil && ap.IsPositive() {
			adjusted = append(adjusted, *ap)
		}
		if p := c.PricePerSqft(); p != nil {
			ppsf = append(ppsf, *p)
		}
		if c.DaysOnMarket != nil {
			dom = append(dom, decimal.NewFromInt(int64(*c.DaysOnMarket)))
		}
		if c.SoldPrice != nil && c.SoldPrice.IsPositive() &&
			c.ListPrice != nil && c.ListPrice.IsPositive() {
			ratioSum = ratioSum.Add(c.SoldPrice.Div(*c.ListPrice))
			ratioCount++
		}
	}

	stats.SoldPrice = summarize(soldPrices)
	stats.ListPrice = summarize(listPrices)
	stats.AdjustedPrice = summarize(adjusted)
	stats.PricePerSqft = summarize(ppsf)
	stats.DaysOnMarket = summarize(dom)
	if ratioCount > 0 {
		stats.SaleToListRatio = ratioSum.Div(decimal.NewFromInt(int64(ratioCount))).Round(4)
	}

	return stats
}

// SuggestedRange derives a price range from the adjusted prices of sold
// comps. With fewer than two priced sold comps it falls back to the
// whole comp set. Returns ok=false when no comp has a usable price.
func SuggestedRange(comps []Comparable) (low, high decimal.Decimal, ok bool) {
	var soldPrices, allPrices []decimal.Decimal
	for i := range comps {
		c := &comps[i]
		ap := c.AdjustedPrice()
		if ap == nil || !ap.IsPositive() {
			continue
		}
		allPrices = append(allPrices, *ap)
		if c.Status == CompStatusSold {
			soldPrices = append(soldPrices, *ap)
		}
	}

	prices := soldPrices
	if len(prices) < 2 {
		prices = allPrices
	}
	if len(prices) == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	low, high = prices[0], prices[0]
	for _, p := range prices[1:] {
		if p.LessThan(low) {
			low = p
		}
		if p.GreaterThan(high) {
			high = p
		}
	}
	return low, high, true
}
