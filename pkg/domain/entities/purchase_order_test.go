package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testOrder() *IssuedPurchaseOrder {
	return &IssuedPurchaseOrder{
		ID:       "O1",
		PONumber: "PO-2025-0001",
		Lines: []POLine{
			{ID: "L1", MaterialName: "Denim", Variants: []POVariant{
				{ID: "V1", Usage: "Black", Quantity: dec("441"), Rate: dec("4"), Amount: dec("1764")},
				{ID: "V2", Usage: "Stone", Quantity: dec("504"), Rate: dec("4"), Amount: dec("2016")},
			}},
			{ID: "L2", MaterialName: "Button", Variants: []POVariant{
				{ID: "V3", Usage: "Generic", Quantity: dec("100"), Rate: dec("0.05"), Amount: dec("5")},
			}},
		},
		Status: OrderIssued,
	}
}

func TestPOLine_Totals(t *testing.T) {
	po := testOrder()
	if !po.Lines[0].OrderedQty().Equal(dec("945")) {
		t.Errorf("Expected 945 ordered, got %s", po.Lines[0].OrderedQty())
	}
	if !po.Lines[0].Value().Equal(dec("3780")) {
		t.Errorf("Expected value 3780, got %s", po.Lines[0].Value())
	}
}

func TestIssuedPurchaseOrder_DeriveStatus(t *testing.T) {
	po := testOrder()

	po.Receptions = append(po.Receptions,
		MaterialReception{ID: "M1", LineItemID: "L1", VariantID: "V1", Quantity: dec("441")},
		MaterialReception{ID: "M2", LineItemID: "L1", VariantID: "V2", Quantity: dec("500")},
		MaterialReception{ID: "M3", LineItemID: "L2", VariantID: "V3", Quantity: dec("100")},
	)
	if po.DeriveStatus() != OrderIssued {
		t.Error("Expected order to stay issued while Stone is short")
	}
	if po.IsLineFullyReceived("L1") {
		t.Error("Expected line L1 short by 4")
	}

	po.Receptions = append(po.Receptions, MaterialReception{ID: "M4", LineItemID: "L1", VariantID: "V2", Quantity: dec("4")})
	if po.DeriveStatus() != OrderClosed {
		t.Error("Expected order closed once every variant is received")
	}
	if !po.ReceivedFor("L1", "V2").Equal(dec("504")) {
		t.Errorf("Expected 504 received for Stone, got %s", po.ReceivedFor("L1", "V2"))
	}
}

func TestIssuedPurchaseOrder_OverReceiptOnOneVariantDoesNotClose(t *testing.T) {
	po := testOrder()
	po.Receptions = []MaterialReception{
		{LineItemID: "L1", VariantID: "V1", Quantity: dec("945")},
		{LineItemID: "L2", VariantID: "V3", Quantity: dec("100")},
	}
	if !po.IsLineFullyReceived("L1") {
		t.Error("Expected line total to be covered")
	}
	if po.IsFullyReceived() {
		t.Error("Expected Stone still open despite the line total")
	}
}

func TestIssuedPurchaseOrder_FindVariant(t *testing.T) {
	po := testOrder()
	line, v, ok := po.FindVariant("L1", "V2")
	if !ok || line.ID != "L1" || v.Usage != "Stone" {
		t.Fatalf("Expected to find Stone on L1")
	}
	if _, _, ok := po.FindVariant("L2", "V1"); ok {
		t.Error("Expected variant lookup to respect the line")
	}

	c := po.Clone()
	c.Lines[0].Variants[0].Quantity = dec("1")
	if !po.Lines[0].Variants[0].Quantity.Equal(dec("441")) {
		t.Error("Expected clone to copy variants")
	}
}

func TestPackingFactor(t *testing.T) {
	roll := PackingFactor{UnitsPerPack: dec("50"), PackingUnit: "roll"}
	qty, rate := roll.ToPack(dec("1861"), dec("4.2"))
	if !qty.Equal(dec("37.22")) || !rate.Equal(dec("210")) {
		t.Errorf("Expected 37.22 rolls at 210, got %s at %s", qty, rate)
	}
	qty, rate = roll.FromPack(dec("9"), dec("210"))
	if !qty.Equal(dec("450")) || !rate.Equal(dec("4.2")) {
		t.Errorf("Expected 450 at 4.2, got %s at %s", qty, rate)
	}

	none := PackingFactor{UnitsPerPack: dec("-3")}
	if !none.Factor().Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected non-positive factor to act as 1, got %s", none.Factor())
	}
}
