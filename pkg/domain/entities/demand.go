package entities

import (
	"github.com/shopspring/decimal"
)

// FallbackBucket labels the single row used when a dimensioned usage rule
// matched nothing on the style
const FallbackBucket = "Mixed / All"

// GenericBucket labels the single row of a generic usage rule
const GenericBucket = "Generic"

// BreakdownBucket is one dimension row of a demand breakdown
type BreakdownBucket struct {
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Breakdown is an ordered list of buckets with unique labels
type Breakdown []BreakdownBucket

// Add merges qty into the bucket with the given label, appending it if absent
func (b Breakdown) Add(label string, qty decimal.Decimal) Breakdown {
	for i := range b {
		if b[i].Label == label {
			b[i].Quantity = b[i].Quantity.Add(qty)
			return b
		}
	}
	return append(b, BreakdownBucket{Label: label, Quantity: qty})
}

// Total sums every bucket
func (b Breakdown) Total() decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range b {
		total = total.Add(bucket.Quantity)
	}
	return total
}

// Get returns a bucket's quantity, or zero
func (b Breakdown) Get(label string) decimal.Decimal {
	for _, bucket := range b {
		if bucket.Label == label {
			return bucket.Quantity
		}
	}
	return decimal.Zero
}

// Scale multiplies every bucket by factor
func (b Breakdown) Scale(factor decimal.Decimal) Breakdown {
	out := make(Breakdown, len(b))
	for i, bucket := range b {
		out[i] = BreakdownBucket{Label: bucket.Label, Quantity: bucket.Quantity.Mul(factor)}
	}
	return out
}

// ConsolidatedDemandItem is the demand for one material from one vendor
// summed across every style of a job. BaseRequiredQty always equals the
// total of Breakdown.
type ConsolidatedDemandItem struct {
	Key             string          `json:"key"`
	MaterialName    string          `json:"materialName"`
	ComponentName   string          `json:"componentName"`
	Detail          string          `json:"detail"`
	ProcessGroup    ProcessGroup    `json:"processGroup"`
	Vendor          string          `json:"vendor"`
	Unit            string          `json:"unit"`
	BaseRequiredQty decimal.Decimal `json:"baseRequiredQty"`
	Breakdown       Breakdown       `json:"breakdown"`
	StyleIDs        []string        `json:"styleIds"`
	Packing         PackingFactor   `json:"packing"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
}

// DemandKey is the consolidation key of a material and vendor pair
func DemandKey(materialName, vendor string) string {
	if vendor == "" {
		vendor = "Unknown"
	}
	return materialName + "-" + vendor
}
