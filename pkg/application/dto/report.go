package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryRow is one variant of an issued purchase order in the expected
// deliveries report. Balance goes negative when a variant is over-received.
type DeliveryRow struct {
	OrderID      string          `json:"orderId"`
	PONumber     string          `json:"poNumber"`
	Supplier     string          `json:"supplier"`
	DeliveryDate time.Time       `json:"deliveryDate"`
	LineID       string          `json:"lineId"`
	VariantID    string          `json:"variantId"`
	Material     string          `json:"material"`
	Usage        string          `json:"usage"`
	Unit         string          `json:"unit"`
	Ordered      decimal.Decimal `json:"ordered"`
	Received     decimal.Decimal `json:"received"`
	Balance      decimal.Decimal `json:"balance"`
}

// StageProgress is the cumulative output of one production stage
type StageProgress struct {
	Stage     string `json:"stage"`
	Completed int64  `json:"completed"`
	Available int64  `json:"available"`
	Ready     bool   `json:"ready"`
}
