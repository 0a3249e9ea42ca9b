package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the purchasing state of a material request
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestPOIssued RequestStatus = "PO Issued"
	RequestReceived RequestStatus = "Received"
)

// VariantQty is one dimension row of a purchasing request
type VariantQty struct {
	Label    string          `json:"label"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PurchasingRequest is created when a fabric or trims plan is issued and is
// carried through PO generation and reception
type PurchasingRequest struct {
	ID             string          `json:"id"`
	JobID          string          `json:"jobId"`
	Department     Department      `json:"department"`
	ProcessGroup   ProcessGroup    `json:"processGroup"`
	MaterialName   string          `json:"materialName"`
	ItemDetail     string          `json:"itemDetail"`
	Qty            decimal.Decimal `json:"qty"`
	Unit           string          `json:"unit"`
	Supplier       string          `json:"supplier"`
	Status         RequestStatus   `json:"status"`
	DateRequested  time.Time       `json:"dateRequested"`
	Specs          string          `json:"specs"`
	Variants       []VariantQty    `json:"variants,omitempty"`
	Breakdown      string          `json:"breakdown,omitempty"`
	Packing        PackingFactor   `json:"packing"`
	ReferencePrice decimal.Decimal `json:"referencePrice"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	PONumber       string          `json:"poNumber,omitempty"`
}

// NewPurchasingRequest creates a validated pending request
func NewPurchasingRequest(id, jobID, materialName string, qty decimal.Decimal, unit, supplier string, requested time.Time) (*PurchasingRequest, error) {
	if id == "" {
		return nil, fmt.Errorf("request id cannot be empty")
	}
	if jobID == "" {
		return nil, fmt.Errorf("job id cannot be empty")
	}
	if materialName == "" {
		return nil, fmt.Errorf("material name cannot be empty")
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("quantity cannot be negative, got %s", qty)
	}
	return &PurchasingRequest{
		ID:            id,
		JobID:         jobID,
		MaterialName:  materialName,
		Qty:           qty,
		Unit:          unit,
		Supplier:      supplier,
		Status:        RequestPending,
		DateRequested: requested,
	}, nil
}

// FormatBreakdown renders variants as "label: qty, label: qty"
func FormatBreakdown(variants []VariantQty) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Label, v.Quantity.String()))
	}
	return strings.Join(parts, ", ")
}

// Clone returns a copy with its own variant slice
func (r PurchasingRequest) Clone() PurchasingRequest {
	r.Variants = append([]VariantQty(nil), r.Variants...)
	return r
}
