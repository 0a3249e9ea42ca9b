package demand

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	fixtures "github.com/vsinha/garmentmrp/pkg/infrastructure/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func findItem(t *testing.T, items []entities.ConsolidatedDemandItem, key string) entities.ConsolidatedDemandItem {
	t.Helper()
	for _, item := range items {
		if item.Key == key {
			return item
		}
	}
	t.Fatalf("demand item %q not found", key)
	return entities.ConsolidatedDemandItem{}
}

func TestEvaluateUsage_Rules(t *testing.T) {
	job := fixtures.TwoStyleJob()
	chino := &job.Styles[1]

	tests := []struct {
		name      string
		usage     entities.Usage
		wantTotal string
		wantRows  map[string]string
	}{
		{
			name:      "generic",
			usage:     entities.GenericUsage{Rate: dec("2")},
			wantTotal: "1200",
			wantRows:  map[string]string{entities.GenericBucket: "1200"},
		},
		{
			name:      "by size group",
			usage:     entities.SizeGroupUsage{Rates: entities.Rates{"Regular": dec("0.3"), "Plus": dec("0.4")}},
			wantTotal: "200",
			wantRows:  map[string]string{"Regular": "120", "Plus": "80"},
		},
		{
			name:      "by individual size",
			usage:     entities.IndividualSizeUsage{Rates: entities.Rates{"S": dec("1"), "XXL": dec("2")}},
			wantTotal: "310",
			wantRows:  map[string]string{"S": "150", "XXL": "160"},
		},
		{
			name:      "by color",
			usage:     entities.ColorUsage{Rates: entities.Rates{"Black": dec("1.4"), "Stone": dec("1.6")}},
			wantTotal: "900",
			wantRows:  map[string]string{"Black": "420", "Stone": "480"},
		},
		{
			name:      "custom grouping",
			usage:     entities.CustomGroupUsage{Rates: entities.Rates{"S,M": dec("1"), "XL, XXL": dec("2")}},
			wantTotal: "800",
			wantRows:  map[string]string{"S,M": "400", "XL, XXL": "400"},
		},
		{
			name:      "unmatched colors fall back to mean rate",
			usage:     entities.ColorUsage{Rates: entities.Rates{"Red": dec("1"), "Blue": dec("2")}},
			wantTotal: "900",
			wantRows:  map[string]string{entities.FallbackBucket: "900"},
		},
		{
			name:      "empty rates fall back to zero",
			usage:     entities.SizeGroupUsage{Rates: entities.Rates{}},
			wantTotal: "0",
			wantRows:  map[string]string{entities.FallbackBucket: "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, breakdown := EvaluateUsage(chino, chino.Quantity, tt.usage)
			assert.True(t, dec(tt.wantTotal).Equal(total), "total: got %s want %s", total, tt.wantTotal)
			require.Len(t, breakdown, len(tt.wantRows))
			for label, want := range tt.wantRows {
				got := breakdown.Get(label)
				assert.True(t, dec(want).Equal(got), "%s: got %s want %s", label, got, want)
			}
			assert.True(t, total.Equal(breakdown.Total()))
		})
	}
}

func TestEvaluateUsage_NilUsage(t *testing.T) {
	job := fixtures.SingleStyleJob()
	total, breakdown := EvaluateUsage(&job.Styles[0], 1000, nil)
	assert.True(t, total.IsZero())
	require.Len(t, breakdown, 1)
	assert.Equal(t, entities.FallbackBucket, breakdown[0].Label)
}

func TestAggregate_SingleStyleFabric(t *testing.T) {
	job := fixtures.SingleStyleJob()
	items := NewAggregator(nil).Aggregate(job.Styles, FabricOnly)

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "Denim 12oz-Arvind Mills", item.Key)
	assert.True(t, dec("1530").Equal(item.BaseRequiredQty), "got %s", item.BaseRequiredQty)
	assert.True(t, dec("1530").Equal(item.Breakdown.Get(entities.GenericBucket)))
	assert.Equal(t, []string{"ST-100"}, item.StyleIDs)
}

func TestAggregate_ConsolidatesAcrossStyles(t *testing.T) {
	job := fixtures.TwoStyleJob()
	items := NewAggregator(nil).Aggregate(job.Styles, nil)

	denim := findItem(t, items, "Denim 12oz-Arvind Mills")
	assert.True(t, dec("2475").Equal(denim.BaseRequiredQty), "got %s", denim.BaseRequiredQty)
	assert.True(t, dec("1530").Equal(denim.Breakdown.Get(entities.GenericBucket)))
	assert.True(t, dec("441").Equal(denim.Breakdown.Get("Black")))
	assert.True(t, dec("504").Equal(denim.Breakdown.Get("Stone")))
	assert.Equal(t, []string{"ST-100", "ST-200"}, denim.StyleIDs)

	buttons := findItem(t, items, "Shank Button-YKK")
	assert.True(t, dec("1800").Equal(buttons.BaseRequiredQty), "got %s", buttons.BaseRequiredQty)

	thread := findItem(t, items, "Sewing Thread (Tex 40)-Coats")
	assert.True(t, dec("110000").Equal(thread.BaseRequiredQty), "got %s", thread.BaseRequiredQty)

	bags := findItem(t, items, "Poly Bag-Unknown")
	assert.Equal(t, "Unknown", bags.Vendor)
	assert.True(t, dec("1000").Equal(bags.BaseRequiredQty))

	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].Key, items[i].Key)
	}
}

func TestAggregate_Additivity(t *testing.T) {
	job := fixtures.TwoStyleJob()
	agg := NewAggregator(nil)

	combined := agg.Aggregate(job.Styles, nil)
	first := agg.Aggregate(job.Styles[:1], nil)
	second := agg.Aggregate(job.Styles[1:], nil)
	reversed := agg.Aggregate([]entities.Style{job.Styles[1], job.Styles[0]}, nil)

	sum := make(map[string]decimal.Decimal)
	for _, item := range append(first, second...) {
		sum[item.Key] = sum[item.Key].Add(item.BaseRequiredQty)
	}

	require.Len(t, reversed, len(combined))
	for i, item := range combined {
		assert.True(t, sum[item.Key].Equal(item.BaseRequiredQty), "%s: got %s want %s", item.Key, item.BaseRequiredQty, sum[item.Key])
		assert.Equal(t, item.Key, reversed[i].Key)
		assert.True(t, item.BaseRequiredQty.Equal(reversed[i].BaseRequiredQty))
	}
}

func TestAggregate_BreakdownConsistency(t *testing.T) {
	job := fixtures.TwoStyleJob()
	for _, item := range NewAggregator(nil).Aggregate(job.Styles, nil) {
		assert.True(t, item.BaseRequiredQty.Equal(item.Breakdown.Total()),
			"%s: total %s breakdown %s", item.Key, item.BaseRequiredQty, item.Breakdown.Total())
	}
}

func TestAggregate_Filters(t *testing.T) {
	job := fixtures.TwoStyleJob()
	agg := NewAggregator(nil)

	for _, item := range agg.Aggregate(job.Styles, FabricOnly) {
		assert.Equal(t, entities.Fabric, item.ProcessGroup)
	}
	trims := agg.Aggregate(job.Styles, TrimsOnly)
	assert.Len(t, trims, 3)
	for _, item := range trims {
		assert.True(t, item.ProcessGroup.IsTrim())
	}

	packing := agg.Aggregate(job.Styles, Groups(entities.PackingTrims))
	require.Len(t, packing, 1)
	assert.Equal(t, "Poly Bag-Unknown", packing[0].Key)
}

func TestAggregate_TrimsUseOrderQuantity(t *testing.T) {
	job := fixtures.SingleStyleJob()
	style := job.Styles[0]
	style.Quantity = 1200 // breakdown still totals 1000
	style.BOM = []entities.BOMItem{{
		ID:            "T1",
		ComponentName: "Care Label",
		ProcessGroup:  entities.MiscTrims,
		Vendor:        "Avery",
		Unit:          "pcs",
		Usage:         entities.GenericUsage{Rate: dec("1")},
	}}

	items := NewAggregator(nil).Aggregate([]entities.Style{style}, TrimsOnly)
	require.Len(t, items, 1)
	assert.True(t, dec("1000").Equal(items[0].BaseRequiredQty), "got %s", items[0].BaseRequiredQty)
}
