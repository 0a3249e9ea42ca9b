package production

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/memory"
	fixtures "github.com/vsinha/garmentmrp/pkg/infrastructure/testing"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

var (
	admin    = auth.Actor{Subject: "asha", Role: auth.RoleAdmin}
	operator = auth.Actor{Subject: "ravi", Role: auth.RoleOperator}
	day      = time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
)

type harness struct {
	service *Service
	jobs    *memory.JobRepository
	store   *events.InMemoryEventStore
	reg     *prometheus.Registry
	logs    *observer.ObservedLogs
}

func newHarness() *harness {
	jobs, _, _ := fixtures.BuildPurchasingRepositories()
	store := events.NewInMemoryEventStore(nil)
	reg := prometheus.NewRegistry()
	core, logs := observer.New(zapcore.InfoLevel)
	return &harness{
		service: NewService(jobs, store, metrics.NewRecorder(reg), zap.New(core)),
		jobs:    jobs,
		store:   store,
		reg:     reg,
		logs:    logs,
	}
}

func (h *harness) record(t *testing.T, stage entities.Stage, qty entities.Quantity) error {
	t.Helper()
	_, err := h.service.RecordOutput(context.Background(), RecordOutputCommand{
		JobID:    "JOB-1",
		Stage:    stage,
		Quantity: qty,
		Date:     day,
	})
	return err
}

func TestCreateJob(t *testing.T) {
	h := newHarness()
	styles := append(fixtures.SingleStyleJob().Styles, fixtures.TwoStyleJob().Styles...)

	job, err := h.service.CreateJob(context.Background(), CreateJobCommand{
		Name:          "Summer Capsule",
		Styles:        styles,
		ExFactoryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, entities.Quantity(2600), job.TotalQty)
	assert.Equal(t, entities.JobPlanning, job.Status)
	for _, d := range entities.Departments {
		assert.Equal(t, entities.PlanPendingCreation, job.PlanStatusOf(d), d)
	}

	stored, err := h.jobs.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Capsule", stored.BatchName)

	evts, err := h.store.ReadEvents(job.ID, 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	assert.Equal(t, events.JobCreatedEvent, evts[0].Type())
}

func TestCreateJob_Validation(t *testing.T) {
	h := newHarness()
	tests := []struct {
		name string
		cmd  CreateJobCommand
	}{
		{"missing name", CreateJobCommand{Styles: fixtures.SingleStyleJob().Styles}},
		{"no styles", CreateJobCommand{Name: "Empty"}},
		{"long name", CreateJobCommand{Name: strings.Repeat("x", 121), Styles: fixtures.SingleStyleJob().Styles}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.CreateJob(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestDeleteJob(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	err := h.service.DeleteJob(ctx, operator, "JOB-1")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = h.jobs.GetJob("JOB-1")
	require.NoError(t, err, "refused delete must keep the job")

	require.NoError(t, h.service.DeleteJob(ctx, admin, "JOB-1"))
	_, err = h.jobs.GetJob("JOB-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, h.service.DeleteJob(ctx, admin, "JOB-1"), shared.ErrNotFound)
}

func TestRevertPlan(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.service.RevertPlan(ctx, operator, "JOB-1", entities.DeptTrims)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	job, err := h.service.RevertPlan(ctx, admin, "JOB-1", entities.DeptTrims)
	require.NoError(t, err)
	assert.Equal(t, entities.PlanPendingCreation, job.PlanStatusOf(entities.DeptTrims))
	assert.Equal(t, entities.PlanApproved, job.PlanStatusOf(entities.DeptFabric))
	assert.Equal(t, -1, job.FindRequest("R3"))
	assert.Len(t, job.PurchasingRequests, 2, "fabric requests stay")

	evts, err := h.store.ReadEvents("JOB-1", 0)
	require.NoError(t, err)
	require.Len(t, evts, 1)
	payload, ok := evts[0].Data().(events.PlanReverted)
	require.True(t, ok)
	assert.Equal(t, 1, payload.Removed)
	assert.Equal(t, "asha", payload.Actor)

	count, err := testutil.GatherAndCount(h.reg, "gmrp_plans_reverted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = h.service.RevertPlan(ctx, admin, "JOB-1", entities.DeptTrims)
	assert.ErrorIs(t, err, shared.ErrInvalidState, "a pending plan cannot be reverted")
}

func TestRevertPlan_RefusesOrderedRequests(t *testing.T) {
	h := newHarness()
	job, err := h.jobs.GetJob("JOB-1")
	require.NoError(t, err)
	job.PurchasingRequests[0].Status = entities.RequestPOIssued
	job.PurchasingRequests[0].PONumber = "PO-2025-0001"
	require.NoError(t, h.jobs.SaveJob(job))

	_, err = h.service.RevertPlan(context.Background(), admin, "JOB-1", entities.DeptFabric)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	stored, err := h.jobs.GetJob("JOB-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PlanApproved, stored.PlanStatusOf(entities.DeptFabric))
	assert.Len(t, stored.PurchasingRequests, 3)

	warned := h.logs.FilterMessage("command refused").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "INVALID_STATE", warned[0].ContextMap()["code"])
}

func TestRecordOutput_StageGating(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.record(t, entities.StageCutting, 800))
	require.NoError(t, h.record(t, entities.StageEmbellishment, 500))
	require.NoError(t, h.record(t, entities.StageEmbellishment, 300))

	err := h.record(t, entities.StageStitching, 801)
	assert.ErrorIs(t, err, shared.ErrExceedsPredecessor)

	progress, err := h.service.Progress(context.Background(), "JOB-1")
	require.NoError(t, err)
	require.Len(t, progress, len(entities.Stages))

	byStage := make(map[string]bool, len(progress))
	for _, p := range progress {
		byStage[p.Stage] = p.Ready
	}
	assert.True(t, byStage["Cutting"], "200 pieces left to cut")
	assert.False(t, byStage["Embellishment"], "800 in and 800 done")
	assert.True(t, byStage["Stitching"])
	assert.False(t, byStage["Washing"])

	assert.Equal(t, int64(800), progress[1].Completed)
	assert.Equal(t, int64(800), progress[1].Available)

	job, err := h.jobs.GetJob("JOB-1")
	require.NoError(t, err)
	assert.Len(t, job.DailyLogs, 3)
	assert.Equal(t, entities.Quantity(0), job.ProductionProgress[entities.StageStitching])

	count, err := testutil.GatherAndCount(h.reg, "gmrp_stage_output_pieces_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "cutting and embellishment series")
}

func TestRecordOutput_CuttingTarget(t *testing.T) {
	h := newHarness()

	err := h.record(t, entities.StageCutting, 1001)
	assert.ErrorIs(t, err, shared.ErrExceedsPredecessor, "no cutting plan caps cutting at the job total")

	job, err := h.jobs.GetJob("JOB-1")
	require.NoError(t, err)
	job.CuttingPlanDetails = []entities.CuttingPlanDetail{{
		StyleID: "ST-100",
		Shade:   "Indigo",
		Cells: []entities.CuttingCell{
			{Size: "S", Base: 300, Final: 315},
			{Size: "M", Base: 400, Final: 420},
			{Size: "L", Base: 300, Final: 315},
		},
	}}
	require.NoError(t, h.jobs.SaveJob(job))

	assert.NoError(t, h.record(t, entities.StageCutting, 1050))
	assert.ErrorIs(t, h.record(t, entities.StageCutting, 1), shared.ErrExceedsPredecessor)
}

func TestRecordOutput_Validation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  RecordOutputCommand
		want error
	}{
		{"zero quantity", RecordOutputCommand{JobID: "JOB-1", Stage: entities.StageCutting, Date: day}, shared.ErrInvalidInput},
		{"missing date", RecordOutputCommand{JobID: "JOB-1", Stage: entities.StageCutting, Quantity: 10}, shared.ErrInvalidInput},
		{"unknown stage", RecordOutputCommand{JobID: "JOB-1", Stage: "Dyeing", Quantity: 10, Date: day}, shared.ErrInvalidInput},
		{"unknown job", RecordOutputCommand{JobID: "JOB-9", Stage: entities.StageCutting, Quantity: 10, Date: day}, shared.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.RecordOutput(ctx, tt.cmd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestShippingChain(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.service.MarkReadyToShip(ctx, "JOB-1")
	assert.ErrorIs(t, err, shared.ErrInvalidState, "nothing packed yet")

	for _, stage := range entities.Stages {
		require.NoError(t, h.record(t, stage, 1000), stage)
	}

	_, err = h.service.AdvanceStatus(ctx, "JOB-1", entities.JobBooked)
	assert.ErrorIs(t, err, shared.ErrInvalidState, "cannot skip Ready to Ship")

	job, err := h.service.MarkReadyToShip(ctx, "JOB-1")
	require.NoError(t, err)
	assert.Equal(t, entities.JobReadyToShip, job.Status)

	assert.ErrorIs(t, h.record(t, entities.StagePacking, 1), shared.ErrInvalidState)

	for _, next := range []entities.JobStatus{entities.JobBooked, entities.JobShipped, entities.JobCompleted} {
		job, err = h.service.AdvanceStatus(ctx, "JOB-1", next)
		require.NoError(t, err)
		assert.Equal(t, next, job.Status)
	}

	_, err = h.service.AdvanceStatus(ctx, "JOB-1", entities.JobPlanning)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	changes := 0
	evts, err := h.store.ReadEvents("JOB-1", 0)
	require.NoError(t, err)
	for _, e := range evts {
		if e.Type() == events.JobStatusChangedEvent {
			changes++
		}
	}
	assert.Equal(t, 4, changes)
}

func TestProgress_CancelledContext(t *testing.T) {
	h := newHarness()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.service.Progress(ctx, "JOB-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreateJob_WarnsOnStyleIssues(t *testing.T) {
	h := newHarness()
	style := fixtures.SingleStyleJob().Styles[0]
	style.Quantity = 1200

	job, err := h.service.CreateJob(context.Background(), CreateJobCommand{Name: "Mismatch", Styles: []entities.Style{style}})
	require.NoError(t, err, "style issues do not block job creation")
	assert.Equal(t, entities.Quantity(1200), job.TotalQty)

	warned := h.logs.FilterMessage("style check").All()
	require.Len(t, warned, 1)
	assert.Contains(t, warned[0].ContextMap()["issue"], "style quantity is 1200")
}
