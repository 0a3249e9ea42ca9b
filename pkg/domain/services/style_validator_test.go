package services

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	fixtures "github.com/vsinha/garmentmrp/pkg/infrastructure/testing"
)

func TestStyleValidator_CleanJob(t *testing.T) {
	result := NewStyleValidator().ValidateJob(fixtures.TwoStyleJob())
	if result.HasIssues() {
		t.Errorf("Expected no issues, got %v", result.Issues())
	}
}

func TestStyleValidator_BreakdownMismatch(t *testing.T) {
	style := fixtures.SingleStyleJob().Styles[0]
	style.Quantity = 1200

	result := NewStyleValidator().ValidateStyle(&style)
	if len(result.BreakdownMismatches) != 1 {
		t.Fatalf("Expected one breakdown mismatch, got %d", len(result.BreakdownMismatches))
	}
	if !strings.Contains(result.BreakdownMismatches[0].Message, "totals 1000 but style quantity is 1200") {
		t.Errorf("Unexpected message: %s", result.BreakdownMismatches[0])
	}

	style.SizeGroups = nil
	if NewStyleValidator().ValidateStyle(&style).HasIssues() {
		t.Error("Expected a style without breakdown to pass")
	}
}

func TestStyleValidator_UnmatchedUsageKeys(t *testing.T) {
	style := fixtures.TwoStyleJob().Styles[1]
	style.BOM = append(style.BOM,
		entities.BOMItem{
			ID:           "C4",
			ProcessGroup: entities.Fabric,
			Usage: entities.ColorUsage{Rates: entities.Rates{
				"Black": decimal.NewFromInt(1),
				"Navy":  decimal.NewFromInt(1),
			}},
			ComponentName: "Lining",
		},
		entities.BOMItem{
			ID:            "C5",
			ProcessGroup:  entities.MiscTrims,
			Usage:         entities.CustomGroupUsage{Rates: entities.Rates{"S,3XL": decimal.NewFromInt(1)}},
			ComponentName: "Size Label",
		},
		entities.BOMItem{
			ID:            "C6",
			ProcessGroup:  entities.MiscTrims,
			Usage:         entities.SizeGroupUsage{Rates: entities.Rates{"Petite": decimal.NewFromInt(1)}},
			ComponentName: "Hang Tag",
		},
	)

	result := NewStyleValidator().ValidateStyle(&style)
	if len(result.UnmatchedUsageKeys) != 3 {
		t.Fatalf("Expected 3 unmatched keys, got %v", result.UnmatchedUsageKeys)
	}
	got := []string{result.UnmatchedUsageKeys[0].LineID, result.UnmatchedUsageKeys[1].LineID, result.UnmatchedUsageKeys[2].LineID}
	want := []string{"C4", "C5", "C6"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected finding %d on %s, got %s", i, want[i], got[i])
		}
	}
	if !strings.Contains(result.UnmatchedUsageKeys[0].Message, `"Navy"`) {
		t.Errorf("Expected Navy to be reported, got %s", result.UnmatchedUsageKeys[0].Message)
	}
}

func TestStyleValidator_DuplicateLinesAndColors(t *testing.T) {
	style := fixtures.SingleStyleJob().Styles[0]
	dup := style.BOM[0]
	dup.ID = "B9"
	style.BOM = append(style.BOM, dup)
	style.SizeGroups[0].Breakdown["C9"] = map[string]entities.Quantity{"S": 0}

	result := NewStyleValidator().ValidateStyle(&style)
	if len(result.DuplicateLines) != 1 || result.DuplicateLines[0].LineID != "B9" {
		t.Errorf("Expected B9 flagged as duplicate, got %v", result.DuplicateLines)
	}
	if len(result.UnknownColors) != 1 {
		t.Errorf("Expected one unknown color, got %v", result.UnknownColors)
	}
	if s := result.DuplicateLines[0].String(); !strings.HasPrefix(s, "ST-100/B9: ") {
		t.Errorf("Unexpected issue string %q", s)
	}
}
