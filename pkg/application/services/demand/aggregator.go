package demand

import (
	"sort"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"go.uber.org/zap"
)

// ProcessGroupFilter selects the BOM lines a plan consumes
type ProcessGroupFilter func(entities.ProcessGroup) bool

// FabricOnly selects fabric lines
func FabricOnly(g entities.ProcessGroup) bool { return g == entities.Fabric }

// TrimsOnly selects stitching, packing and misc trims
func TrimsOnly(g entities.ProcessGroup) bool { return g.IsTrim() }

// Groups selects an explicit set of process groups
func Groups(groups ...entities.ProcessGroup) ProcessGroupFilter {
	return func(g entities.ProcessGroup) bool {
		for _, want := range groups {
			if g == want {
				return true
			}
		}
		return false
	}
}

// Aggregator consolidates per-style BOM demand into material+vendor demand
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates a demand aggregator
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Aggregate walks every style's BOM lines accepted by filter and merges
// lines referencing the same material and vendor. Wastage is applied to the
// total and to every breakdown bucket at merge time. The result is sorted by
// key and does not depend on style order.
func (a *Aggregator) Aggregate(styles []entities.Style, filter ProcessGroupFilter) []entities.ConsolidatedDemandItem {
	consolidated := make(map[string]*entities.ConsolidatedDemandItem)

	for si := range styles {
		style := &styles[si]
		for _, line := range style.BOM {
			if filter != nil && !filter(line.ProcessGroup) {
				continue
			}

			baseQty := style.OrderQuantity()
			if line.ProcessGroup == entities.Fabric {
				baseQty = style.Quantity
			}

			_, breakdown := EvaluateUsage(style, baseQty, line.Usage)
			factor := entities.Percent(entities.NonNegative(line.WastagePercent))
			breakdown = breakdown.Scale(factor)

			key := entities.DemandKey(line.MaterialName(), line.Vendor)
			item, exists := consolidated[key]
			if !exists {
				item = &entities.ConsolidatedDemandItem{
					Key:           key,
					MaterialName:  line.MaterialName(),
					ComponentName: line.ComponentName,
					Detail:        line.Detail,
					ProcessGroup:  line.ProcessGroup,
					Vendor:        line.VendorOrUnknown(),
					Unit:          line.Unit,
					Packing:       line.Packing,
					UnitPrice:     line.UnitPrice,
				}
				consolidated[key] = item
			}

			for _, bucket := range breakdown {
				item.Breakdown = item.Breakdown.Add(bucket.Label, bucket.Quantity)
			}
			item.BaseRequiredQty = item.BaseRequiredQty.Add(breakdown.Total())
			item.StyleIDs = appendUnique(item.StyleIDs, style.ID)
			if item.UnitPrice.IsZero() {
				item.UnitPrice = line.UnitPrice
			}
			if !item.Packing.UnitsPerPack.IsPositive() && line.Packing.UnitsPerPack.IsPositive() {
				item.Packing = line.Packing
			}
		}
	}

	keys := make([]string, 0, len(consolidated))
	for k := range consolidated {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]entities.ConsolidatedDemandItem, 0, len(keys))
	for _, k := range keys {
		item := consolidated[k]
		sort.Strings(item.StyleIDs)
		result = append(result, *item)
	}

	a.logger.Debug("aggregated demand",
		zap.Int("styles", len(styles)),
		zap.Int("materials", len(result)))
	return result
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
