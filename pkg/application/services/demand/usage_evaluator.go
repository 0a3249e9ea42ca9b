package demand

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

// EvaluateUsage expands one usage rule against a style into a
// required quantity and its breakdown by dimension. baseQty is the garment
// count the rule is measured against (style quantity for fabric, order
// quantity for trims). Missing rates count as zero and never produce a
// negative quantity. A dimensioned rule that matches nothing on the style
// falls back to a single "Mixed / All" row at the mean rate.
func EvaluateUsage(style *entities.Style, baseQty entities.Quantity, usage entities.Usage) (decimal.Decimal, entities.Breakdown) {
	var breakdown entities.Breakdown

	switch u := usage.(type) {
	case entities.GenericUsage:
		qty := pieces(baseQty).Mul(entities.NonNegative(u.Rate))
		return qty, entities.Breakdown{{Label: entities.GenericBucket, Quantity: qty}}

	case entities.SizeGroupUsage:
		for _, g := range style.SizeGroups {
			rate, ok := u.Rates[g.Name]
			if !ok {
				continue
			}
			breakdown = breakdown.Add(g.Name, pieces(g.Total()).Mul(entities.NonNegative(rate)))
		}

	case entities.IndividualSizeUsage:
		sizeQtys := style.SizeQuantities()
		for _, size := range sizeOrder(style, sizeQtys) {
			rate, ok := u.Rates[size]
			if !ok {
				continue
			}
			breakdown = breakdown.Add(size, pieces(sizeQtys[size]).Mul(entities.NonNegative(rate)))
		}

	case entities.ColorUsage:
		colorQtys := style.ColorQuantities()
		for _, c := range style.Colors {
			rate, ok := u.Rates[c.Name]
			if !ok {
				continue
			}
			breakdown = breakdown.Add(c.Name, pieces(colorQtys[c.Name]).Mul(entities.NonNegative(rate)))
		}

	case entities.CustomGroupUsage:
		sizeQtys := style.SizeQuantities()
		for _, key := range u.Rates.Keys() {
			var sum entities.Quantity
			matched := false
			for _, size := range entities.SplitSizeList(key) {
				if qty, ok := sizeQtys[size]; ok {
					sum += qty
					matched = true
				}
			}
			if matched {
				breakdown = breakdown.Add(key, pieces(sum).Mul(entities.NonNegative(u.Rates[key])))
			}
		}
	}

	if len(breakdown) == 0 {
		qty := pieces(baseQty).Mul(meanRate(usage))
		breakdown = entities.Breakdown{{Label: entities.FallbackBucket, Quantity: qty}}
	}
	return breakdown.Total(), breakdown
}

func pieces(q entities.Quantity) decimal.Decimal {
	if q < 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(q))
}

func meanRate(usage entities.Usage) decimal.Decimal {
	if usage == nil {
		return decimal.Zero
	}
	values := usage.Values()
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(entities.NonNegative(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// sizeOrder lists sizes in the style's size-group order, followed by any
// sizes only present in the breakdown matrix
func sizeOrder(style *entities.Style, sizeQtys map[string]entities.Quantity) []string {
	ordered := style.OrderedSizes()
	seen := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		seen[s] = true
	}
	var extra []string
	for s := range sizeQtys {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}
