package planning

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// FabricFactors are the adjustable percentages of a fabric plan
type FabricFactors struct {
	LossPercent             decimal.Decimal `json:"lossPercent"`
	MarkerEfficiencyPercent decimal.Decimal `json:"markerEfficiencyPercent"`
	SafetyStockPercent      decimal.Decimal `json:"safetyStockPercent"`
}

// FabricFinal applies loss, marker efficiency and safety stock in that order
// and rounds up:
//
//	ceil(base * (1+loss/100) / (efficiency/100) * (1+safety/100))
//
// A marker efficiency of zero or less skips the division.
func FabricFinal(base decimal.Decimal, f FabricFactors) decimal.Decimal {
	qty := entities.NonNegative(base).Mul(entities.Percent(f.LossPercent))
	qty = qty.Mul(entities.Percent(f.SafetyStockPercent))
	if f.MarkerEfficiencyPercent.IsPositive() {
		qty = qty.Mul(hundred).Div(f.MarkerEfficiencyPercent)
	}
	return entities.NonNegative(qty).Ceil()
}

// BufferedFinal applies a single safety buffer and rounds up. Trims and
// embellishment plans use it.
func BufferedFinal(base, bufferPercent decimal.Decimal) decimal.Decimal {
	qty := entities.NonNegative(base).Mul(entities.Percent(bufferPercent))
	return entities.NonNegative(qty).Ceil()
}

// PlanFabric applies the fabric chain to every item and to each of its
// breakdown buckets. Buckets are rounded independently, so their sum may
// exceed the item's final quantity by less than one unit per bucket.
func PlanFabric(items []entities.ConsolidatedDemandItem, f FabricFactors) []dto.PlannedDemand {
	return plan(items, func(base decimal.Decimal) decimal.Decimal {
		return FabricFinal(base, f)
	})
}

// PlanTrims applies the trims safety buffer to every item and bucket
func PlanTrims(items []entities.ConsolidatedDemandItem, bufferPercent decimal.Decimal) []dto.PlannedDemand {
	return plan(items, func(base decimal.Decimal) decimal.Decimal {
		return BufferedFinal(base, bufferPercent)
	})
}

func plan(items []entities.ConsolidatedDemandItem, final func(decimal.Decimal) decimal.Decimal) []dto.PlannedDemand {
	planned := make([]dto.PlannedDemand, 0, len(items))
	for _, item := range items {
		p := dto.PlannedDemand{
			Item:     item,
			FinalQty: final(item.BaseRequiredQty),
		}
		// a single generic bucket needs no variant map
		if len(item.Breakdown) > 1 || (len(item.Breakdown) == 1 && item.Breakdown[0].Label != entities.GenericBucket) {
			for _, bucket := range item.Breakdown {
				p.Variants = append(p.Variants, entities.VariantQty{
					Label:    bucket.Label,
					Quantity: final(bucket.Quantity),
				})
			}
		}
		planned = append(planned, p)
	}
	return planned
}

// PlanEmbellishments derives one line per style embellishment, buffered by
// bufferPercent and broken down by color
func PlanEmbellishments(styles []entities.Style, bufferPercent decimal.Decimal) []dto.EmbellishmentLine {
	var lines []dto.EmbellishmentLine
	for si := range styles {
		style := &styles[si]
		base := style.OrderQuantity()
		colorQtys := style.ColorQuantities()

		for _, e := range style.Embellishments {
			line := dto.EmbellishmentLine{
				StyleID:     style.ID,
				StyleNumber: style.StyleNumber,
				Process:     e.Process,
				Placement:   e.Placement,
				Vendor:      e.Vendor,
				BaseQty:     base,
				FinalQty:    BufferedFinal(decimal.NewFromInt(int64(base)), bufferPercent),
			}
			for _, c := range style.Colors {
				qty := decimal.NewFromInt(int64(colorQtys[c.Name]))
				if qty.IsZero() {
					continue
				}
				line.Breakdown = line.Breakdown.Add(c.Name, qty)
				line.Variants = append(line.Variants, entities.VariantQty{
					Label:    c.Name,
					Quantity: BufferedFinal(qty, bufferPercent),
				})
			}
			lines = append(lines, line)
		}
	}
	return lines
}
