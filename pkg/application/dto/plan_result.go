package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

// PlannedDemand is a consolidated demand item with its planning factors
// applied. Variants carries the per-bucket final quantities used as the
// purchasing variant map.
type PlannedDemand struct {
	Item     entities.ConsolidatedDemandItem `json:"item"`
	FinalQty decimal.Decimal                 `json:"finalQty"`
	Variants []entities.VariantQty           `json:"variants"`
}

// EmbellishmentLine is one outsourced process of one style
type EmbellishmentLine struct {
	StyleID     string                `json:"styleId"`
	StyleNumber string                `json:"styleNumber"`
	Process     string                `json:"process"`
	Placement   string                `json:"placement"`
	Vendor      string                `json:"vendor"`
	BaseQty     entities.Quantity     `json:"baseQty"`
	FinalQty    decimal.Decimal       `json:"finalQty"`
	Breakdown   entities.Breakdown    `json:"breakdown"`
	Variants    []entities.VariantQty `json:"variants"`
}

// PlanPreview is the derived, uncommitted view of one department plan
type PlanPreview struct {
	JobID          string                       `json:"jobId"`
	Department     entities.Department          `json:"department"`
	Status         entities.PlanStatus          `json:"status"`
	Materials      []PlannedDemand              `json:"materials,omitempty"`
	Embellishments []EmbellishmentLine          `json:"embellishments,omitempty"`
	Cutting        []entities.CuttingPlanDetail `json:"cutting,omitempty"`
	GeneratedAt    time.Time                    `json:"generatedAt"`
}
