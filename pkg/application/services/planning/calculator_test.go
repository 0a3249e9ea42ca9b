package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsinha/garmentmrp/pkg/application/services/demand"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	fixtures "github.com/vsinha/garmentmrp/pkg/infrastructure/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFabricFinal(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		factors FabricFactors
		want    string
	}{
		{
			name: "reference job",
			base: "1530",
			factors: FabricFactors{
				LossPercent:             dec("5"),
				MarkerEfficiencyPercent: dec("95"),
				SafetyStockPercent:      dec("10"),
			},
			want: "1861",
		},
		{
			name:    "no factors",
			base:    "100",
			factors: FabricFactors{MarkerEfficiencyPercent: dec("100")},
			want:    "100",
		},
		{
			name:    "zero efficiency skips division",
			base:    "100",
			factors: FabricFactors{LossPercent: dec("10")},
			want:    "110",
		},
		{
			name:    "exact division stays exact",
			base:    "950",
			factors: FabricFactors{MarkerEfficiencyPercent: dec("95")},
			want:    "1000",
		},
		{
			name:    "fraction rounds up",
			base:    "10.01",
			factors: FabricFactors{MarkerEfficiencyPercent: dec("100")},
			want:    "11",
		},
		{
			name:    "negative base clamps to zero",
			base:    "-5",
			factors: FabricFactors{MarkerEfficiencyPercent: dec("90")},
			want:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FabricFinal(dec(tt.base), tt.factors)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestBufferedFinal(t *testing.T) {
	assert.True(t, dec("1100").Equal(BufferedFinal(dec("1000"), dec("10"))))
	assert.True(t, dec("104").Equal(BufferedFinal(dec("103.2"), dec("0"))))
	assert.True(t, dec("0").Equal(BufferedFinal(dec("0"), dec("25"))))
}

func TestPlanFabric_EndToEnd(t *testing.T) {
	job := fixtures.SingleStyleJob()
	items := demand.NewAggregator(nil).Aggregate(job.Styles, demand.FabricOnly)

	planned := PlanFabric(items, FabricFactors{
		LossPercent:             dec("5"),
		MarkerEfficiencyPercent: dec("95"),
		SafetyStockPercent:      dec("10"),
	})

	require.Len(t, planned, 1)
	assert.True(t, dec("1530").Equal(planned[0].Item.BaseRequiredQty))
	assert.True(t, dec("1861").Equal(planned[0].FinalQty), "got %s", planned[0].FinalQty)
	assert.Empty(t, planned[0].Variants, "generic demand carries no variant map")
}

func TestPlanTrims_VariantsPerBucket(t *testing.T) {
	job := fixtures.TwoStyleJob()
	items := demand.NewAggregator(nil).Aggregate(job.Styles, demand.Groups(entities.StitchingTrims))
	planned := PlanTrims(items, dec("5"))

	var thread *entities.ConsolidatedDemandItem
	for i := range planned {
		if planned[i].Item.Key == "Sewing Thread (Tex 40)-Coats" {
			thread = &planned[i].Item
			assert.True(t, dec("115500").Equal(planned[i].FinalQty), "got %s", planned[i].FinalQty)
			require.Len(t, planned[i].Variants, 3)
			assert.Equal(t, "S", planned[i].Variants[0].Label)
			assert.True(t, dec("31500").Equal(planned[i].Variants[0].Quantity))
		}
	}
	require.NotNil(t, thread)
}

func TestPlan_Deterministic(t *testing.T) {
	job := fixtures.TwoStyleJob()
	items := demand.NewAggregator(nil).Aggregate(job.Styles, nil)
	factors := FabricFactors{LossPercent: dec("3"), MarkerEfficiencyPercent: dec("88"), SafetyStockPercent: dec("5")}

	first := PlanFabric(items, factors)
	second := PlanFabric(items, factors)
	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].FinalQty.Equal(second[i].FinalQty))
	}
}

func TestPlanEmbellishments(t *testing.T) {
	job := fixtures.TwoStyleJob()
	lines := PlanEmbellishments(job.Styles, dec("3"))

	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "ST-100", line.StyleID)
	assert.Equal(t, "Embroidery", line.Process)
	assert.Equal(t, entities.Quantity(1000), line.BaseQty)
	assert.True(t, dec("1030").Equal(line.FinalQty))
	require.Len(t, line.Variants, 1)
	assert.Equal(t, "Indigo", line.Variants[0].Label)
}
