package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisplayMode selects whether a PO shows base units or packing units
type DisplayMode string

const (
	DisplayBase DisplayMode = "Base"
	DisplayPack DisplayMode = "Pack"
)

// IsValid checks if the mode is known
func (m DisplayMode) IsValid() bool {
	return m == DisplayBase || m == DisplayPack
}

// OrderStatus is the fulfillment state of an issued purchase order
type OrderStatus string

const (
	OrderIssued OrderStatus = "Issued"
	OrderClosed OrderStatus = "Closed"
)

// POVariant is one usage row of a purchase order line. Quantity and Rate are
// always stored in base units.
type POVariant struct {
	ID        string          `json:"id"`
	Usage     string          `json:"usage"`
	Note      string          `json:"note"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Amount    decimal.Decimal `json:"amount"`
	RequestID string          `json:"requestId"`
}

// POLine is one material of a purchase order
type POLine struct {
	ID           string        `json:"id"`
	MaterialName string        `json:"materialName"`
	Unit         string        `json:"unit"`
	Packing      PackingFactor `json:"packing"`
	RequestIDs   []string      `json:"requestIds"`
	Variants     []POVariant   `json:"variants"`
}

// OrderedQty sums the line's variants
func (l POLine) OrderedQty() decimal.Decimal {
	total := decimal.Zero
	for _, v := range l.Variants {
		total = total.Add(v.Quantity)
	}
	return total
}

// Value sums the line's variant amounts
func (l POLine) Value() decimal.Decimal {
	total := decimal.Zero
	for _, v := range l.Variants {
		total = total.Add(v.Amount)
	}
	return total
}

// MaterialReception is a recorded delivery against one PO variant
type MaterialReception struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	ChallanNumber string          `json:"challanNumber"`
	Quantity      decimal.Decimal `json:"quantity"`
	LineItemID    string          `json:"lineItemId"`
	VariantID     string          `json:"variantId"`
	// Excess is the part of Quantity received beyond the ordered balance
	Excess decimal.Decimal `json:"excess"`
}

// IssuedPurchaseOrder is a finalized purchase order. Lines and terms never
// change after issue; only receptions are appended.
type IssuedPurchaseOrder struct {
	ID           string              `json:"id"`
	PONumber     string              `json:"poNumber"`
	SupplierName string              `json:"supplierName"`
	DateIssued   time.Time           `json:"dateIssued"`
	Currency     string              `json:"currency"`
	TaxRate      decimal.Decimal     `json:"taxRate"`
	TaxEnabled   bool                `json:"taxEnabled"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	Total        decimal.Decimal     `json:"total"`
	CreditTerms  string              `json:"creditTerms"`
	DeliveryDate time.Time           `json:"deliveryDate"`
	DisplayMode  DisplayMode         `json:"displayMode"`
	Lines        []POLine            `json:"lines"`
	Receptions   []MaterialReception `json:"receptions"`
	Status       OrderStatus         `json:"status"`
}

// FindVariant locates a variant by line and variant id
func (po *IssuedPurchaseOrder) FindVariant(lineID, variantID string) (*POLine, *POVariant, bool) {
	for i := range po.Lines {
		if po.Lines[i].ID != lineID {
			continue
		}
		for j := range po.Lines[i].Variants {
			if po.Lines[i].Variants[j].ID == variantID {
				return &po.Lines[i], &po.Lines[i].Variants[j], true
			}
		}
	}
	return nil, nil, false
}

// ReceivedFor sums receptions matching a variant
func (po *IssuedPurchaseOrder) ReceivedFor(lineID, variantID string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range po.Receptions {
		if r.LineItemID == lineID && r.VariantID == variantID {
			total = total.Add(r.Quantity)
		}
	}
	return total
}

// LineReceived sums receptions against any variant of a line
func (po *IssuedPurchaseOrder) LineReceived(lineID string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range po.Receptions {
		if r.LineItemID == lineID {
			total = total.Add(r.Quantity)
		}
	}
	return total
}

// IsLineFullyReceived compares the line's received total with its ordered total
func (po *IssuedPurchaseOrder) IsLineFullyReceived(lineID string) bool {
	for _, l := range po.Lines {
		if l.ID == lineID {
			return po.LineReceived(lineID).GreaterThanOrEqual(l.OrderedQty())
		}
	}
	return false
}

// IsFullyReceived holds only when every variant of every line has been
// received in full
func (po *IssuedPurchaseOrder) IsFullyReceived() bool {
	for _, l := range po.Lines {
		for _, v := range l.Variants {
			if po.ReceivedFor(l.ID, v.ID).LessThan(v.Quantity) {
				return false
			}
		}
	}
	return true
}

// DeriveStatus returns Closed when fully received, Issued otherwise
func (po *IssuedPurchaseOrder) DeriveStatus() OrderStatus {
	if po.IsFullyReceived() {
		return OrderClosed
	}
	return OrderIssued
}

// Clone returns a deep copy
func (po *IssuedPurchaseOrder) Clone() *IssuedPurchaseOrder {
	c := *po
	c.Lines = make([]POLine, len(po.Lines))
	for i, l := range po.Lines {
		l.RequestIDs = append([]string(nil), l.RequestIDs...)
		l.Variants = append([]POVariant(nil), l.Variants...)
		c.Lines[i] = l
	}
	c.Receptions = append([]MaterialReception(nil), po.Receptions...)
	return &c
}
