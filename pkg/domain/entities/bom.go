package entities

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProcessGroup classifies a BOM line by the plan that buys it
type ProcessGroup string

const (
	Fabric         ProcessGroup = "Fabric"
	StitchingTrims ProcessGroup = "Stitching Trims"
	PackingTrims   ProcessGroup = "Packing Trims"
	MiscTrims      ProcessGroup = "Misc Trims"
)

// IsValid checks if the group is one of the known process groups
func (g ProcessGroup) IsValid() bool {
	switch g {
	case Fabric, StitchingTrims, PackingTrims, MiscTrims:
		return true
	}
	return false
}

// IsTrim reports whether the group is planned by the trims plan
func (g ProcessGroup) IsTrim() bool {
	return g == StitchingTrims || g == PackingTrims || g == MiscTrims
}

// PackingFactor relates the base unit of a material to the unit it is bought in
type PackingFactor struct {
	UnitsPerPack decimal.Decimal `json:"unitsPerPack"`
	PackingUnit  string          `json:"packingUnit"`
}

// Factor returns the conversion factor, treating a missing or non-positive
// factor as 1
func (p PackingFactor) Factor() decimal.Decimal {
	if p.UnitsPerPack.IsPositive() {
		return p.UnitsPerPack
	}
	return decimal.NewFromInt(1)
}

// ToPack converts a base quantity and base rate into pack units
func (p PackingFactor) ToPack(qty, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	f := p.Factor()
	return qty.Div(f), rate.Mul(f)
}

// FromPack converts a pack quantity and pack rate back into base units
func (p PackingFactor) FromPack(qty, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	f := p.Factor()
	return qty.Mul(f), rate.Div(f)
}

// BOMItem is one material line on a style's bill of materials
type BOMItem struct {
	ID             string          `json:"id"`
	ComponentName  string          `json:"componentName"`
	Detail         string          `json:"detail"`
	ProcessGroup   ProcessGroup    `json:"processGroup"`
	Vendor         string          `json:"vendor"`
	Unit           string          `json:"unit"`
	Usage          Usage           `json:"usage"`
	WastagePercent decimal.Decimal `json:"wastagePercent"`
	Packing        PackingFactor   `json:"packing"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
}

type bomItemFields BOMItem

// bomItemJSON carries the usage as a rule name plus its entered rates
type bomItemJSON struct {
	bomItemFields
	UsageRule UsageRule         `json:"usageRule"`
	Usage     map[string]string `json:"usage"`
}

// MarshalJSON writes the usage as usageRule and a usage map
func (b BOMItem) MarshalJSON() ([]byte, error) {
	out := bomItemJSON{bomItemFields: bomItemFields(b)}
	if b.Usage != nil {
		out.UsageRule = b.Usage.Rule()
		out.Usage = UsageData(b.Usage)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the shape written by MarshalJSON
func (b *BOMItem) UnmarshalJSON(data []byte) error {
	var in bomItemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	item := BOMItem(in.bomItemFields)
	item.Usage = nil
	if in.UsageRule != "" || in.Usage != nil {
		usage, err := NewUsage(in.UsageRule, in.Usage)
		if err != nil {
			return err
		}
		item.Usage = usage
	}
	*b = item
	return nil
}

// NewBOMItem creates a validated BOMItem
func NewBOMItem(id, component string, group ProcessGroup, vendor, unit string, usage Usage) (*BOMItem, error) {
	if component == "" {
		return nil, fmt.Errorf("component name cannot be empty")
	}
	if !group.IsValid() {
		return nil, fmt.Errorf("unknown process group: %q", group)
	}
	if unit == "" {
		return nil, fmt.Errorf("unit of measure cannot be empty")
	}
	if usage == nil {
		return nil, fmt.Errorf("usage cannot be nil")
	}
	return &BOMItem{
		ID:            id,
		ComponentName: component,
		ProcessGroup:  group,
		Vendor:        vendor,
		Unit:          unit,
		Usage:         usage,
	}, nil
}

// MaterialName is the purchasable identity of the line
func (b BOMItem) MaterialName() string {
	if b.Detail == "" {
		return b.ComponentName
	}
	return b.ComponentName + " (" + b.Detail + ")"
}

// VendorOrUnknown returns the vendor, or "Unknown" when none was set
func (b BOMItem) VendorOrUnknown() string {
	if b.Vendor == "" {
		return "Unknown"
	}
	return b.Vendor
}
