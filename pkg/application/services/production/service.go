package production

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/services"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"go.uber.org/zap"
)

// CreateJobCommand groups selected styles into a new job
type CreateJobCommand struct {
	Name          string           `json:"name" validate:"required,max=120"`
	Styles        []entities.Style `json:"styles" validate:"required,min=1"`
	ExFactoryDate time.Time        `json:"exFactoryDate"`
}

// RecordOutputCommand logs finished pieces at one stage
type RecordOutputCommand struct {
	JobID    string            `json:"jobId" validate:"required"`
	Stage    entities.Stage    `json:"stage" validate:"required"`
	Quantity entities.Quantity `json:"quantity" validate:"gt=0"`
	Date     time.Time         `json:"date" validate:"required"`
	Note     string            `json:"note" validate:"max=500"`
}

// Service owns the job lifecycle, plan statuses and production counters
type Service struct {
	jobs      repositories.JobRepository
	publisher events.Publisher
	recorder  *metrics.Recorder
	validate  *validator.Validate
	styles    *services.StyleValidator
	logger    *zap.Logger
	newID     func() string
}

// NewService creates a production service
func NewService(jobs repositories.JobRepository, publisher events.Publisher, recorder *metrics.Recorder, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		jobs:      jobs,
		publisher: publisher,
		recorder:  recorder,
		validate:  validator.New(),
		styles:    services.NewStyleValidator(),
		logger:    log,
		newID:     uuid.NewString,
	}
}

// CreateJob stores a new job with every plan pending
func (s *Service) CreateJob(ctx context.Context, cmd CreateJobCommand) (*entities.JobBatch, error) {
	log := logger.FromContext(ctx, s.logger)
	if err := s.validate.Struct(cmd); err != nil {
		return nil, s.refuse(log, "create_job", fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}

	job, err := entities.NewJobBatch(s.newID(), cmd.Name, cmd.Styles, cmd.ExFactoryDate)
	if err != nil {
		return nil, s.refuse(log, "create_job", fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}
	for _, issue := range s.styles.ValidateJob(job).Issues() {
		log.Warn("style check", zap.String("job_id", job.ID), zap.Stringer("issue", issue))
	}
	if err := s.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.publish(job.ID, events.JobCreatedEvent, events.JobCreated{JobID: job.ID, Name: job.BatchName, TotalQty: job.TotalQty})
	log.Info("job created", zap.String("job_id", job.ID), zap.Int("styles", len(job.Styles)), zap.Int64("total_qty", int64(job.TotalQty)))
	return job, nil
}

// DeleteJob removes a job with all of its plans and requests
func (s *Service) DeleteJob(ctx context.Context, actor auth.Actor, jobID string) error {
	log := logger.FromContext(ctx, s.logger)
	if err := auth.RequireAdmin(actor); err != nil {
		return s.refuse(log, "delete_job", err)
	}
	if err := s.jobs.DeleteJob(jobID); err != nil {
		return s.refuse(log, "delete_job", err)
	}

	s.publish(jobID, events.JobDeletedEvent, events.JobDeleted{JobID: jobID, Actor: actor.Subject})
	log.Info("job deleted", zap.String("job_id", jobID), zap.String("actor", actor.Subject))
	return nil
}

// RevertPlan returns a department plan to Pending Creation and discards
// the records it produced. Only admins may revert.
func (s *Service) RevertPlan(ctx context.Context, actor auth.Actor, jobID string, dept entities.Department) (*entities.JobBatch, error) {
	log := logger.FromContext(ctx, s.logger)
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, s.refuse(log, "revert_plan", err)
	}

	job, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, s.refuse(log, "revert_plan", err)
	}
	removed, err := job.RevertPlan(dept)
	if err != nil {
		return nil, s.refuse(log, "revert_plan", err)
	}
	if err := s.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.publish(job.ID, events.PlanRevertedEvent, events.PlanReverted{JobID: job.ID, Department: dept, Actor: actor.Subject, Removed: removed})
	s.recorder.PlanReverted(string(dept))
	log.Info("plan reverted",
		zap.String("job_id", job.ID),
		zap.String("department", string(dept)),
		zap.String("actor", actor.Subject),
		zap.Int("removed", removed))
	return job, nil
}

// Progress lists every stage's counter and readiness in production order
func (s *Service) Progress(ctx context.Context, jobID string) ([]dto.StageProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, err
	}
	progress := make([]dto.StageProgress, 0, len(entities.Stages))
	for _, stage := range entities.Stages {
		progress = append(progress, dto.StageProgress{
			Stage:     string(stage),
			Completed: int64(job.ProductionProgress[stage]),
			Available: int64(job.Available(stage)),
			Ready:     job.IsReadyForStage(stage),
		})
	}
	return progress, nil
}

// RecordOutput appends a daily log and raises the stage counter. The
// counter may never pass the previous stage's counter.
func (s *Service) RecordOutput(ctx context.Context, cmd RecordOutputCommand) (*entities.JobBatch, error) {
	log := logger.FromContext(ctx, s.logger)
	if err := s.validate.Struct(cmd); err != nil {
		return nil, s.refuse(log, "record_output", fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}
	if cmd.Stage.Index() < 0 {
		return nil, s.refuse(log, "record_output", fmt.Errorf("stage %q: %w", cmd.Stage, shared.ErrInvalidInput))
	}

	job, err := s.jobs.GetJob(cmd.JobID)
	if err != nil {
		return nil, s.refuse(log, "record_output", err)
	}
	if job.Status != entities.JobPlanning {
		return nil, s.refuse(log, "record_output", fmt.Errorf("job %s is %s: %w", job.ID, job.Status, shared.ErrInvalidState))
	}

	completed := job.ProductionProgress[cmd.Stage] + cmd.Quantity
	if available := job.Available(cmd.Stage); completed > available {
		return nil, s.refuse(log, "record_output", fmt.Errorf("%s would reach %d of %d available: %w",
			cmd.Stage, completed, available, shared.ErrExceedsPredecessor))
	}

	entry := entities.DailyLog{
		ID:       s.newID(),
		Date:     cmd.Date,
		Stage:    cmd.Stage,
		Quantity: cmd.Quantity,
		Note:     cmd.Note,
	}
	if job.ProductionProgress == nil {
		job.ProductionProgress = make(map[entities.Stage]entities.Quantity, len(entities.Stages))
	}
	job.ProductionProgress[cmd.Stage] = completed
	job.DailyLogs = append(job.DailyLogs, entry)

	if err := s.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.publish(job.ID, events.StageRecordedEvent, events.StageRecorded{JobID: job.ID, Log: entry, Completed: completed})
	s.recorder.StageOutput(string(cmd.Stage), int64(cmd.Quantity))
	log.Info("stage output recorded",
		zap.String("job_id", job.ID),
		zap.String("stage", string(cmd.Stage)),
		zap.Int64("quantity", int64(cmd.Quantity)),
		zap.Int64("completed", int64(completed)))
	return job, nil
}

// MarkReadyToShip hands a job over to shipping once packing has reached
// the job total
func (s *Service) MarkReadyToShip(ctx context.Context, jobID string) (*entities.JobBatch, error) {
	return s.transition(ctx, jobID, entities.JobReadyToShip)
}

// AdvanceStatus moves a job along Ready to Ship, Booked, Shipped and
// Completed, one step at a time
func (s *Service) AdvanceStatus(ctx context.Context, jobID string, target entities.JobStatus) (*entities.JobBatch, error) {
	return s.transition(ctx, jobID, target)
}

func (s *Service) transition(ctx context.Context, jobID string, target entities.JobStatus) (*entities.JobBatch, error) {
	log := logger.FromContext(ctx, s.logger)
	job, err := s.jobs.GetJob(jobID)
	if err != nil {
		return nil, s.refuse(log, "advance_status", err)
	}
	if !job.Status.CanTransitionTo(target) {
		return nil, s.refuse(log, "advance_status", fmt.Errorf("job %s cannot move from %s to %s: %w", job.ID, job.Status, target, shared.ErrInvalidState))
	}
	if target == entities.JobReadyToShip {
		if packed := job.ProductionProgress[entities.StagePacking]; packed < job.TotalQty {
			return nil, s.refuse(log, "advance_status", fmt.Errorf("job %s has packed %d of %d: %w", job.ID, packed, job.TotalQty, shared.ErrInvalidState))
		}
	}

	from := job.Status
	job.Status = target
	if err := s.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.publish(job.ID, events.JobStatusChangedEvent, events.JobStatusChanged{JobID: job.ID, From: from, To: target})
	log.Info("job status changed", zap.String("job_id", job.ID), zap.String("from", string(from)), zap.String("to", string(target)))
	return job, nil
}

func (s *Service) publish(streamID, eventType string, data interface{}) {
	_ = s.publisher.AppendEvent(streamID, events.NewEvent(eventType, streamID, data))
}

func (s *Service) refuse(log *zap.Logger, command string, err error) error {
	code := shared.Code(err)
	s.recorder.Refused(command, code)
	log.Warn("command refused", zap.String("command", command), zap.String("code", code), zap.Error(err))
	return err
}
