package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// DraftVariant is one editable usage row. Quantity is in base units. Rate is
// kept as entered: it prices RatePer base units, and a zero RatePer means one.
type DraftVariant struct {
	Usage     string          `json:"usage"`
	Note      string          `json:"note"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	RatePer   decimal.Decimal `json:"ratePer"`
	RequestID string          `json:"requestId"`
}

// Amount is quantity times rate, divided once by RatePer
func (v DraftVariant) Amount() decimal.Decimal {
	amount := v.Quantity.Mul(v.Rate)
	if v.RatePer.IsPositive() {
		amount = amount.Div(v.RatePer)
	}
	return amount
}

// BaseRate is the rate per base unit
func (v DraftVariant) BaseRate() decimal.Decimal {
	return v.rateFor(decimal.NewFromInt(1))
}

// rateFor prices units base units. A rate entered for the same number of
// units is returned unchanged.
func (v DraftVariant) rateFor(units decimal.Decimal) decimal.Decimal {
	if !v.RatePer.IsPositive() {
		return v.Rate.Mul(units)
	}
	if v.RatePer.Equal(units) {
		return v.Rate
	}
	return v.Rate.Mul(units).Div(v.RatePer)
}

// DraftLine groups the variants of one material
type DraftLine struct {
	MaterialName string                 `json:"materialName"`
	Unit         string                 `json:"unit"`
	Packing      entities.PackingFactor `json:"packing"`
	RequestIDs   []string               `json:"requestIds"`
	Variants     []DraftVariant         `json:"variants"`
}

// DraftTerms are the commercial terms of a draft
type DraftTerms struct {
	Currency     string          `json:"currency"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxEnabled   bool            `json:"taxEnabled"`
	CreditTerms  string          `json:"creditTerms"`
	DeliveryDate time.Time       `json:"deliveryDate"`
}

// Draft is a purchase order being prepared for one supplier. It is only
// stored once finalized.
type Draft struct {
	Supplier string               `json:"supplier"`
	Terms    DraftTerms           `json:"terms"`
	Mode     entities.DisplayMode `json:"mode"`
	Lines    []DraftLine          `json:"lines"`
}

// DisplayValue is a variant as shown in the current display mode
type DisplayValue struct {
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
	Unit     string          `json:"unit"`
}

// Totals are the money totals of a draft or order
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// BuildDraft groups the selected requests by material name. Every request
// must be pending and all must name the same supplier; otherwise nothing is
// built.
func BuildDraft(requests []entities.PurchasingRequest, terms DraftTerms) (*Draft, error) {
	if len(requests) == 0 {
		return nil, shared.ErrEmptySelection
	}

	supplier := strings.TrimSpace(requests[0].Supplier)
	seen := make(map[string]bool, len(requests))
	for _, r := range requests {
		if !sameSupplier(r.Supplier, supplier) {
			return nil, fmt.Errorf("%q and %q: %w", supplier, r.Supplier, shared.ErrMultipleSuppliers)
		}
		if r.Status != entities.RequestPending {
			return nil, fmt.Errorf("request %s is %s: %w", r.ID, r.Status, shared.ErrInvalidState)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("request %s selected twice: %w", r.ID, shared.ErrInvalidInput)
		}
		seen[r.ID] = true
	}

	draft := &Draft{
		Supplier: supplier,
		Terms:    terms,
		Mode:     entities.DisplayBase,
	}
	lineIndex := make(map[string]int)

	for _, r := range requests {
		idx, exists := lineIndex[r.MaterialName]
		if !exists {
			idx = len(draft.Lines)
			lineIndex[r.MaterialName] = idx
			draft.Lines = append(draft.Lines, DraftLine{
				MaterialName: r.MaterialName,
				Unit:         r.Unit,
				Packing:      r.Packing,
			})
		}
		line := &draft.Lines[idx]
		line.RequestIDs = append(line.RequestIDs, r.ID)
		if !line.Packing.UnitsPerPack.IsPositive() && r.Packing.UnitsPerPack.IsPositive() {
			line.Packing = r.Packing
		}

		if len(r.Variants) == 0 {
			line.Variants = append(line.Variants, DraftVariant{
				Usage:     entities.GenericBucket,
				Note:      r.Specs,
				Quantity:  r.Qty,
				Rate:      r.ReferencePrice,
				RequestID: r.ID,
			})
			continue
		}
		for _, v := range r.Variants {
			line.Variants = append(line.Variants, DraftVariant{
				Usage:     v.Label,
				Note:      r.Specs,
				Quantity:  v.Quantity,
				Rate:      r.ReferencePrice,
				RequestID: r.ID,
			})
		}
	}
	return draft, nil
}

func sameSupplier(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SetDisplayMode switches between base and pack display. Stored values do
// not change.
func (d *Draft) SetDisplayMode(mode entities.DisplayMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("display mode %q: %w", mode, shared.ErrInvalidInput)
	}
	d.Mode = mode
	return nil
}

func (d *Draft) variant(line, variant int) (*DraftLine, *DraftVariant, error) {
	if line < 0 || line >= len(d.Lines) {
		return nil, nil, fmt.Errorf("line %d: %w", line, shared.ErrNotFound)
	}
	l := &d.Lines[line]
	if variant < 0 || variant >= len(l.Variants) {
		return nil, nil, fmt.Errorf("line %d variant %d: %w", line, variant, shared.ErrNotFound)
	}
	return l, &l.Variants[variant], nil
}

// Display returns a variant converted to the current display mode
func (d *Draft) Display(line, variant int) (DisplayValue, error) {
	l, v, err := d.variant(line, variant)
	if err != nil {
		return DisplayValue{}, err
	}
	value := DisplayValue{Quantity: v.Quantity, Rate: v.BaseRate(), Amount: v.Amount(), Unit: l.Unit}
	if d.Mode == entities.DisplayPack {
		value.Quantity, _ = l.Packing.ToPack(v.Quantity, decimal.Zero)
		value.Rate = v.rateFor(l.Packing.Factor())
		if l.Packing.PackingUnit != "" {
			value.Unit = l.Packing.PackingUnit
		}
	}
	return value, nil
}

// EditQuantity stores a quantity entered in the current display mode
func (d *Draft) EditQuantity(line, variant int, entered decimal.Decimal) error {
	if entered.IsNegative() {
		return fmt.Errorf("quantity cannot be negative, got %s: %w", entered, shared.ErrInvalidInput)
	}
	l, v, err := d.variant(line, variant)
	if err != nil {
		return err
	}
	if d.Mode == entities.DisplayPack {
		entered, _ = l.Packing.FromPack(entered, decimal.Zero)
	}
	v.Quantity = entered
	return nil
}

// EditRate stores a rate entered in the current display mode. A pack rate
// is kept per pack so redisplay and amounts stay exact.
func (d *Draft) EditRate(line, variant int, entered decimal.Decimal) error {
	if entered.IsNegative() {
		return fmt.Errorf("rate cannot be negative, got %s: %w", entered, shared.ErrInvalidInput)
	}
	l, v, err := d.variant(line, variant)
	if err != nil {
		return err
	}
	v.Rate, v.RatePer = entered, decimal.Zero
	if d.Mode == entities.DisplayPack {
		v.RatePer = l.Packing.Factor()
	}
	return nil
}

// EditNote replaces a variant's note
func (d *Draft) EditNote(line, variant int, note string) error {
	_, v, err := d.variant(line, variant)
	if err != nil {
		return err
	}
	v.Note = note
	return nil
}

// Totals computes subtotal, tax and total
func (d *Draft) Totals() Totals {
	subtotal := decimal.Zero
	for _, l := range d.Lines {
		for _, v := range l.Variants {
			subtotal = subtotal.Add(v.Amount())
		}
	}
	return totals(subtotal, d.Terms.TaxEnabled, d.Terms.TaxRate)
}

func totals(subtotal decimal.Decimal, taxEnabled bool, taxRate decimal.Decimal) Totals {
	tax := decimal.Zero
	if taxEnabled {
		tax = subtotal.Mul(taxRate).Div(hundred)
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// RequestIDs lists every request referenced by the draft
func (d *Draft) RequestIDs() []string {
	var ids []string
	for _, l := range d.Lines {
		ids = append(ids, l.RequestIDs...)
	}
	return ids
}

// Finalize converts the draft into an issued order. newID supplies fresh
// identities for the order, its lines and its variants.
func (d *Draft) Finalize(poNumber string, issued time.Time, newID func() string) *entities.IssuedPurchaseOrder {
	t := d.Totals()
	order := &entities.IssuedPurchaseOrder{
		ID:           newID(),
		PONumber:     poNumber,
		SupplierName: d.Supplier,
		DateIssued:   issued,
		Currency:     d.Terms.Currency,
		TaxRate:      d.Terms.TaxRate,
		TaxEnabled:   d.Terms.TaxEnabled,
		Subtotal:     t.Subtotal,
		Tax:          t.Tax,
		Total:        t.Total,
		CreditTerms:  d.Terms.CreditTerms,
		DeliveryDate: d.Terms.DeliveryDate,
		DisplayMode:  d.Mode,
		Status:       entities.OrderIssued,
	}
	for _, l := range d.Lines {
		line := entities.POLine{
			ID:           newID(),
			MaterialName: l.MaterialName,
			Unit:         l.Unit,
			Packing:      l.Packing,
			RequestIDs:   append([]string(nil), l.RequestIDs...),
		}
		for _, v := range l.Variants {
			line.Variants = append(line.Variants, entities.POVariant{
				ID:        newID(),
				Usage:     v.Usage,
				Note:      v.Note,
				Unit:      l.Unit,
				Quantity:  v.Quantity,
				Rate:      v.BaseRate(),
				Amount:    v.Amount(),
				RequestID: v.RequestID,
			})
		}
		order.Lines = append(order.Lines, line)
	}
	return order
}

// WeightedUnitPrice is the line value divided by the line quantity, or zero
// for an empty line
func WeightedUnitPrice(line entities.POLine) decimal.Decimal {
	qty := line.OrderedQty()
	if qty.IsZero() {
		return decimal.Zero
	}
	return line.Value().Div(qty)
}
