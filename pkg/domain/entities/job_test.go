package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

func newTestJob(t *testing.T) *JobBatch {
	t.Helper()
	styles := []Style{{ID: "S1", StyleNumber: "TEE", Quantity: 600}, {ID: "S2", StyleNumber: "POLO", Quantity: 400}}
	job, err := NewJobBatch("J1", "Summer", styles, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected job creation to succeed: %v", err)
	}
	return job
}

func TestNewJobBatch(t *testing.T) {
	job := newTestJob(t)

	if job.TotalQty != 1000 {
		t.Errorf("Expected total 1000, got %d", job.TotalQty)
	}
	if job.Status != JobPlanning {
		t.Errorf("Expected status Planning, got %s", job.Status)
	}
	if len(job.Plans) != len(Departments) {
		t.Errorf("Expected %d plans, got %d", len(Departments), len(job.Plans))
	}
	for _, stage := range Stages {
		if job.ProductionProgress[stage] != 0 {
			t.Errorf("Expected %s counter at zero", stage)
		}
	}

	testCases := []struct {
		name   string
		id     string
		batch  string
		styles []Style
	}{
		{"empty id", "", "Summer", []Style{{ID: "S1"}}},
		{"empty name", "J1", "", []Style{{ID: "S1"}}},
		{"no styles", "J1", "Summer", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewJobBatch(tc.id, tc.batch, tc.styles, time.Time{}); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestJobStatus_CanTransitionTo(t *testing.T) {
	chain := []JobStatus{JobPlanning, JobReadyToShip, JobBooked, JobShipped, JobCompleted}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransitionTo(chain[i+1]) {
			t.Errorf("Expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
	}
	if JobPlanning.CanTransitionTo(JobBooked) {
		t.Error("Expected skipping Ready to Ship to be refused")
	}
	if JobShipped.CanTransitionTo(JobReadyToShip) {
		t.Error("Expected backwards move to be refused")
	}
	if JobCompleted.CanTransitionTo(JobPlanning) {
		t.Error("Expected Completed to be terminal")
	}
}

func TestJobBatch_ApproveAndRevertPlan(t *testing.T) {
	job := newTestJob(t)

	if err := job.ApprovePlan(DeptTrims); err != nil {
		t.Fatalf("Expected approve to succeed: %v", err)
	}
	if err := job.ApprovePlan(DeptTrims); !errors.Is(err, shared.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState approving twice, got %v", err)
	}
	if err := job.ApprovePlan("knitting"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown department, got %v", err)
	}

	job.PurchasingRequests = []PurchasingRequest{
		{ID: "R1", Department: DeptFabric, Status: RequestPOIssued, PONumber: "PO-2025-0001"},
		{ID: "R2", Department: DeptTrims, Status: RequestPending},
		{ID: "R3", Department: DeptTrims, Status: RequestPending},
	}

	removed, err := job.RevertPlan(DeptTrims)
	if err != nil {
		t.Fatalf("Expected revert to succeed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed requests, got %d", removed)
	}
	if len(job.PurchasingRequests) != 1 || job.PurchasingRequests[0].ID != "R1" {
		t.Errorf("Expected only the fabric request to remain, got %+v", job.PurchasingRequests)
	}
	if job.PlanStatusOf(DeptTrims) != PlanPendingCreation {
		t.Errorf("Expected trims plan pending, got %s", job.PlanStatusOf(DeptTrims))
	}

	if _, err := job.RevertPlan(DeptTrims); !errors.Is(err, shared.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState reverting a pending plan, got %v", err)
	}

	job.Plans[DeptFabric] = PlanApproved
	if _, err := job.RevertPlan(DeptFabric); !errors.Is(err, shared.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState with an ordered request, got %v", err)
	}
	if len(job.PurchasingRequests) != 1 || job.PlanStatusOf(DeptFabric) != PlanApproved {
		t.Error("Expected refused revert to leave the job unchanged")
	}
}

func TestJobBatch_RevertCuttingAndEmbellishment(t *testing.T) {
	job := newTestJob(t)
	job.Plans[DeptCutting] = PlanApproved
	job.Plans[DeptEmbellishment] = PlanApproved
	job.CuttingPlanDetails = []CuttingPlanDetail{{StyleID: "S1", Shade: "White"}}
	job.WorkOrderRequests = []WorkOrderRequest{{ID: "W1"}, {ID: "W2"}}

	if n, err := job.RevertPlan(DeptCutting); err != nil || n != 1 {
		t.Errorf("Expected 1 cutting sheet removed, got %d (%v)", n, err)
	}
	if job.CuttingPlanDetails != nil {
		t.Error("Expected cutting plan details cleared")
	}
	if n, err := job.RevertPlan(DeptEmbellishment); err != nil || n != 2 {
		t.Errorf("Expected 2 work orders removed, got %d (%v)", n, err)
	}
}

func TestJobBatch_StageReadiness(t *testing.T) {
	job := newTestJob(t)

	if job.Available(StageCutting) != 1000 {
		t.Errorf("Expected cutting to work towards the job total, got %d", job.Available(StageCutting))
	}
	if !job.IsReadyForStage(StageCutting) {
		t.Error("Expected cutting ready on a fresh job")
	}
	if job.IsReadyForStage(StageEmbellishment) {
		t.Error("Expected embellishment idle before any cutting")
	}

	job.ProductionProgress[StageCutting] = 800
	job.ProductionProgress[StageEmbellishment] = 800
	if job.IsReadyForStage(StageEmbellishment) {
		t.Error("Expected embellishment idle with 800 in and 800 done")
	}
	if !job.IsReadyForStage(StageStitching) {
		t.Error("Expected stitching ready")
	}
	if job.IsReadyForStage("Dyeing") {
		t.Error("Expected unknown stage never ready")
	}

	job.CuttingPlanDetails = []CuttingPlanDetail{{Cells: []CuttingCell{{Size: "M", Base: 1000, Final: 1030}}}}
	if job.CuttingTarget() != 1030 {
		t.Errorf("Expected cutting target 1030, got %d", job.CuttingTarget())
	}
}

func TestJobBatch_CloneIsDeep(t *testing.T) {
	job := newTestJob(t)
	job.PurchasingRequests = []PurchasingRequest{{ID: "R1", Variants: []VariantQty{{Label: "Black", Quantity: decimal.NewFromInt(5)}}}}
	job.Styles[0].Colors = []Color{{ID: "c1", Name: "Black"}}
	job.Styles[0].SizeGroups = []SizeGroup{{
		Name:      "Regular",
		Sizes:     []string{"S", "M"},
		Breakdown: map[string]map[string]Quantity{"c1": {"S": 300, "M": 300}},
	}}
	job.Styles[0].BOM = []BOMItem{{ID: "B1", ComponentName: "Thread", Usage: ColorUsage{Rates: Rates{"Black": decimal.NewFromInt(2)}}}}
	job.Styles[0].Embellishments = []Embellishment{{Process: "Print", Placement: "Chest"}}
	job.CuttingPlanDetails = []CuttingPlanDetail{{StyleID: "S1", Shade: "Black", Cells: []CuttingCell{{Size: "M", Base: 300, Final: 315}}}}
	job.WorkOrderRequests = []WorkOrderRequest{{ID: "W1", Breakdown: Breakdown{{Label: "Black", Quantity: decimal.NewFromInt(600)}}}}

	c := job.Clone()
	c.Plans[DeptFabric] = PlanApproved
	c.ProductionProgress[StageCutting] = 10
	c.PurchasingRequests[0].Variants[0].Label = "Stone"
	c.Styles[0].Colors[0].Name = "Stone"
	c.Styles[0].SizeGroups[0].Sizes[0] = "XS"
	c.Styles[0].SizeGroups[0].Breakdown["c1"]["M"] = 999
	c.Styles[0].BOM[0].ComponentName = "Label"
	c.Styles[0].BOM[0].Usage.(ColorUsage).Rates["Black"] = decimal.NewFromInt(9)
	c.Styles[0].Embellishments[0].Vendor = "Other"
	c.CuttingPlanDetails[0].Cells[0].Final = 1
	c.WorkOrderRequests[0].Breakdown[0].Label = "Stone"

	if job.Plans[DeptFabric] != PlanPendingCreation {
		t.Error("Expected plan map to be copied")
	}
	if job.ProductionProgress[StageCutting] != 0 {
		t.Error("Expected progress map to be copied")
	}
	if job.PurchasingRequests[0].Variants[0].Label != "Black" {
		t.Error("Expected request variants to be copied")
	}

	style := job.Styles[0]
	if style.Colors[0].Name != "Black" {
		t.Error("Expected colors to be copied")
	}
	if style.SizeGroups[0].Sizes[0] != "S" {
		t.Error("Expected size list to be copied")
	}
	if got := style.SizeGroups[0].Breakdown["c1"]["M"]; got != 300 {
		t.Errorf("Expected breakdown cell to stay 300, got %d", got)
	}
	if style.BOM[0].ComponentName != "Thread" {
		t.Error("Expected BOM lines to be copied")
	}
	if got := style.BOM[0].Usage.(ColorUsage).Rates["Black"]; !got.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected usage rates to stay 2, got %s", got)
	}
	if style.Embellishments[0].Vendor != "" {
		t.Error("Expected embellishments to be copied")
	}
	if got := job.CuttingPlanDetails[0].Cells[0].Final; got != 315 {
		t.Errorf("Expected cutting cell to stay 315, got %d", got)
	}
	if job.WorkOrderRequests[0].Breakdown[0].Label != "Black" {
		t.Error("Expected work order breakdown to be copied")
	}
}
