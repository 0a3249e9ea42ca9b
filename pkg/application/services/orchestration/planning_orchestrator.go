package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/application/services/demand"
	"github.com/vsinha/garmentmrp/pkg/application/services/planning"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"go.uber.org/zap"
)

// Settings are the planning factors applied when a plan is previewed or
// issued
type Settings struct {
	Fabric                     planning.FabricFactors
	TrimsBufferPercent         decimal.Decimal
	EmbellishmentBufferPercent decimal.Decimal
	CuttingExtraPercent        decimal.Decimal
}

// SettingsFromConfig maps the planning section of the configuration
func SettingsFromConfig(cfg config.PlanningConfig) Settings {
	return Settings{
		Fabric: planning.FabricFactors{
			LossPercent:             cfg.LossPercent,
			MarkerEfficiencyPercent: cfg.MarkerEfficiencyPercent,
			SafetyStockPercent:      cfg.SafetyStockPercent,
		},
		TrimsBufferPercent:         cfg.SafetyBufferPercent,
		EmbellishmentBufferPercent: cfg.SafetyBufferPercent,
		CuttingExtraPercent:        cfg.ExtraCuttingPercent,
	}
}

// IssueCuttingCommand schedules and issues the cutting plan of a job.
// ExtraPercent overrides the configured extra cutting allowance.
type IssueCuttingCommand struct {
	JobID        string           `json:"jobId" validate:"required"`
	Start        time.Time        `json:"start" validate:"required"`
	Finish       time.Time        `json:"finish" validate:"required,gtefield=Start"`
	ExtraPercent *decimal.Decimal `json:"extraPercent"`
}

// PlanningOrchestrator derives department plans from a job's styles and
// turns issued plans into purchasing requests, work orders and cutting
// sheets
type PlanningOrchestrator struct {
	jobs       repositories.JobRepository
	aggregator *demand.Aggregator
	publisher  events.Publisher
	recorder   *metrics.Recorder
	settings   Settings
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// NewPlanningOrchestrator creates a new planning orchestrator
func NewPlanningOrchestrator(
	jobs repositories.JobRepository,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	settings Settings,
	log *zap.Logger,
) *PlanningOrchestrator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanningOrchestrator{
		jobs:       jobs,
		aggregator: demand.NewAggregator(log),
		publisher:  publisher,
		recorder:   recorder,
		settings:   settings,
		validate:   validator.New(),
		logger:     log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// WithClock replaces the clock used to stamp requests
func (po *PlanningOrchestrator) WithClock(now func() time.Time) *PlanningOrchestrator {
	po.now = now
	return po
}

// Demand returns the consolidated demand of a job for one plan: fabric
// lines for the fabric plan, every trim group for the trims plan
func (po *PlanningOrchestrator) Demand(ctx context.Context, jobID string, dept entities.Department) ([]entities.ConsolidatedDemandItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter, err := materialFilter(dept)
	if err != nil {
		return nil, err
	}
	job, err := po.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	return po.aggregator.Aggregate(job.Styles, filter), nil
}

// Preview derives a department plan without changing the job
func (po *PlanningOrchestrator) Preview(ctx context.Context, jobID string, dept entities.Department) (*dto.PlanPreview, error) {
	switch dept {
	case entities.DeptFabric:
		return po.PreviewFabric(ctx, jobID)
	case entities.DeptTrims:
		return po.PreviewTrims(ctx, jobID)
	case entities.DeptEmbellishment:
		return po.PreviewEmbellishment(ctx, jobID)
	case entities.DeptCutting:
		return po.PreviewCutting(ctx, jobID)
	}
	return nil, fmt.Errorf("no plan generator for %q: %w", dept, shared.ErrInvalidInput)
}

// PreviewFabric applies loss, marker efficiency and safety stock to the
// job's fabric demand
func (po *PlanningOrchestrator) PreviewFabric(ctx context.Context, jobID string) (*dto.PlanPreview, error) {
	job, err := po.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	preview := po.preview(job, entities.DeptFabric)
	preview.Materials = po.fabricPlan(job)
	return preview, nil
}

// PreviewTrims applies the safety buffer to the job's trims demand
func (po *PlanningOrchestrator) PreviewTrims(ctx context.Context, jobID string) (*dto.PlanPreview, error) {
	job, err := po.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	preview := po.preview(job, entities.DeptTrims)
	preview.Materials = po.trimsPlan(job)
	return preview, nil
}

// PreviewEmbellishment lists one buffered line per style embellishment
func (po *PlanningOrchestrator) PreviewEmbellishment(ctx context.Context, jobID string) (*dto.PlanPreview, error) {
	job, err := po.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	preview := po.preview(job, entities.DeptEmbellishment)
	preview.Embellishments = planning.PlanEmbellishments(job.Styles, po.settings.EmbellishmentBufferPercent)
	return preview, nil
}

// PreviewCutting builds cutting sheets scheduled from today to the job's
// ex-factory date
func (po *PlanningOrchestrator) PreviewCutting(ctx context.Context, jobID string) (*dto.PlanPreview, error) {
	job, err := po.load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	start, finish := po.defaultSchedule(job)
	preview := po.preview(job, entities.DeptCutting)
	preview.Cutting = planning.NewCuttingPlan(job.Styles, po.settings.CuttingExtraPercent, start, finish).Details()
	return preview, nil
}

// IssuePlan issues a department plan with its configured defaults
func (po *PlanningOrchestrator) IssuePlan(ctx context.Context, jobID string, dept entities.Department) (*entities.JobBatch, error) {
	switch dept {
	case entities.DeptFabric:
		return po.IssueFabricPlan(ctx, jobID)
	case entities.DeptTrims:
		return po.IssueTrimsPlan(ctx, jobID)
	case entities.DeptEmbellishment:
		return po.IssueEmbellishmentPlan(ctx, jobID)
	case entities.DeptCutting:
		job, err := po.load(ctx, jobID)
		if err != nil {
			return nil, err
		}
		start, finish := po.defaultSchedule(job)
		return po.IssueCuttingPlan(ctx, IssueCuttingCommand{JobID: jobID, Start: start, Finish: finish})
	}
	return nil, po.refuse(logger.FromContext(ctx, po.logger), dept, fmt.Errorf("no plan generator for %q: %w", dept, shared.ErrInvalidInput))
}

// IssueFabricPlan creates one purchasing request per fabric and vendor and
// approves the fabric plan
func (po *PlanningOrchestrator) IssueFabricPlan(ctx context.Context, jobID string) (*entities.JobBatch, error) {
	return po.issue(ctx, jobID, entities.DeptFabric, func(job *entities.JobBatch) events.PlanIssued {
		requests := po.requests(job, entities.DeptFabric, po.fabricPlan(job))
		job.PurchasingRequests = append(job.PurchasingRequests, requests...)
		return events.PlanIssued{Requests: len(requests)}
	})
}

// IssueTrimsPlan creates one purchasing request per trim and vendor and
// approves the trims plan
func (po *PlanningOrchestrator) IssueTrimsPlan(ctx context.Context, jobID string) (*entities.JobBatch, error) {
	return po.issue(ctx, jobID, entities.DeptTrims, func(job *entities.JobBatch) events.PlanIssued {
		requests := po.requests(job, entities.DeptTrims, po.trimsPlan(job))
		job.PurchasingRequests = append(job.PurchasingRequests, requests...)
		return events.PlanIssued{Requests: len(requests)}
	})
}

// IssueEmbellishmentPlan creates one pending work order per style
// embellishment and approves the embellishment plan
func (po *PlanningOrchestrator) IssueEmbellishmentPlan(ctx context.Context, jobID string) (*entities.JobBatch, error) {
	return po.issue(ctx, jobID, entities.DeptEmbellishment, func(job *entities.JobBatch) events.PlanIssued {
		lines := planning.PlanEmbellishments(job.Styles, po.settings.EmbellishmentBufferPercent)
		requested := po.now()
		for _, line := range lines {
			job.WorkOrderRequests = append(job.WorkOrderRequests, entities.WorkOrderRequest{
				ID:            po.newID(),
				JobID:         job.ID,
				Department:    entities.DeptEmbellishment,
				StyleID:       line.StyleID,
				Process:       line.Process,
				Placement:     line.Placement,
				Vendor:        line.Vendor,
				Qty:           line.FinalQty,
				Breakdown:     line.Breakdown,
				Status:        entities.WorkOrderPending,
				DateRequested: requested,
			})
		}
		return events.PlanIssued{WorkOrders: len(lines)}
	})
}

// IssueCuttingPlan stores the cutting sheets of every style shade and
// approves the cutting plan
func (po *PlanningOrchestrator) IssueCuttingPlan(ctx context.Context, cmd IssueCuttingCommand) (*entities.JobBatch, error) {
	if err := po.validate.Struct(cmd); err != nil {
		return nil, po.refuse(logger.FromContext(ctx, po.logger), entities.DeptCutting, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}
	extra := po.settings.CuttingExtraPercent
	if cmd.ExtraPercent != nil {
		if cmd.ExtraPercent.IsNegative() {
			return nil, po.refuse(logger.FromContext(ctx, po.logger), entities.DeptCutting,
				fmt.Errorf("extra cutting percent %s is negative: %w", cmd.ExtraPercent, shared.ErrInvalidInput))
		}
		extra = *cmd.ExtraPercent
	}

	return po.issue(ctx, cmd.JobID, entities.DeptCutting, func(job *entities.JobBatch) events.PlanIssued {
		details := planning.NewCuttingPlan(job.Styles, extra, cmd.Start, cmd.Finish).Details()
		job.CuttingPlanDetails = details
		return events.PlanIssued{Sheets: len(details)}
	})
}

// issue runs one plan generator against a fresh copy of the job and
// commits only when the plan was pending
func (po *PlanningOrchestrator) issue(ctx context.Context, jobID string, dept entities.Department, generate func(*entities.JobBatch) events.PlanIssued) (*entities.JobBatch, error) {
	log := logger.FromContext(ctx, po.logger)
	job, err := po.load(ctx, jobID)
	if err != nil {
		return nil, po.refuse(log, dept, err)
	}
	if job.Status != entities.JobPlanning {
		return nil, po.refuse(log, dept, fmt.Errorf("job %s is %s: %w", job.ID, job.Status, shared.ErrInvalidState))
	}
	if job.PlanStatusOf(dept) == entities.PlanApproved {
		return nil, po.refuse(log, dept, fmt.Errorf("%s plan of job %s is already issued: %w", dept, job.ID, shared.ErrInvalidState))
	}

	payload := generate(job)
	if err := job.ApprovePlan(dept); err != nil {
		return nil, po.refuse(log, dept, err)
	}
	if err := po.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	payload.JobID = job.ID
	payload.Department = dept
	_ = po.publisher.AppendEvent(job.ID, events.NewEvent(events.PlanIssuedEvent, job.ID, payload))
	po.recorder.PlanIssued(string(dept))
	log.Info("plan issued",
		zap.String("job_id", job.ID),
		zap.String("department", string(dept)),
		zap.Int("requests", payload.Requests),
		zap.Int("work_orders", payload.WorkOrders),
		zap.Int("sheets", payload.Sheets))
	return job, nil
}

func (po *PlanningOrchestrator) requests(job *entities.JobBatch, dept entities.Department, planned []dto.PlannedDemand) []entities.PurchasingRequest {
	requested := po.now()
	out := make([]entities.PurchasingRequest, 0, len(planned))
	for _, p := range planned {
		out = append(out, entities.PurchasingRequest{
			ID:             po.newID(),
			JobID:          job.ID,
			Department:     dept,
			ProcessGroup:   p.Item.ProcessGroup,
			MaterialName:   p.Item.MaterialName,
			ItemDetail:     p.Item.Detail,
			Qty:            p.FinalQty,
			Unit:           p.Item.Unit,
			Supplier:       p.Item.Vendor,
			Status:         entities.RequestPending,
			DateRequested:  requested,
			Specs:          specs(job, p.Item),
			Variants:       p.Variants,
			Breakdown:      entities.FormatBreakdown(p.Variants),
			Packing:        p.Item.Packing,
			ReferencePrice: p.Item.UnitPrice,
		})
	}
	return out
}

// specs names the styles a material is bought for, by style number
func specs(job *entities.JobBatch, item entities.ConsolidatedDemandItem) string {
	numbers := make([]string, 0, len(item.StyleIDs))
	for _, id := range item.StyleIDs {
		for _, s := range job.Styles {
			if s.ID == id {
				numbers = append(numbers, s.StyleNumber)
				break
			}
		}
	}
	return strings.Join(numbers, ", ")
}

func (po *PlanningOrchestrator) fabricPlan(job *entities.JobBatch) []dto.PlannedDemand {
	return planning.PlanFabric(po.aggregator.Aggregate(job.Styles, demand.FabricOnly), po.settings.Fabric)
}

func (po *PlanningOrchestrator) trimsPlan(job *entities.JobBatch) []dto.PlannedDemand {
	return planning.PlanTrims(po.aggregator.Aggregate(job.Styles, demand.TrimsOnly), po.settings.TrimsBufferPercent)
}

func (po *PlanningOrchestrator) preview(job *entities.JobBatch, dept entities.Department) *dto.PlanPreview {
	return &dto.PlanPreview{
		JobID:       job.ID,
		Department:  dept,
		Status:      job.PlanStatusOf(dept),
		GeneratedAt: po.now(),
	}
}

// defaultSchedule runs cutting from today until the ex-factory date, or a
// single day when that date is missing or already past
func (po *PlanningOrchestrator) defaultSchedule(job *entities.JobBatch) (time.Time, time.Time) {
	now := po.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	finish := job.ExFactoryDate
	if finish.Before(start) {
		finish = start
	}
	return start, finish
}

func (po *PlanningOrchestrator) load(ctx context.Context, jobID string) (*entities.JobBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return po.jobs.GetJob(jobID)
}

func (po *PlanningOrchestrator) refuse(log *zap.Logger, dept entities.Department, err error) error {
	code := shared.Code(err)
	po.recorder.Refused("issue_plan", code)
	log.Warn("plan refused", zap.String("department", string(dept)), zap.String("code", code), zap.Error(err))
	return err
}

func materialFilter(dept entities.Department) (demand.ProcessGroupFilter, error) {
	switch dept {
	case entities.DeptFabric:
		return demand.FabricOnly, nil
	case entities.DeptTrims:
		return demand.TrimsOnly, nil
	}
	return nil, fmt.Errorf("no material demand for %q: %w", dept, shared.ErrInvalidInput)
}
