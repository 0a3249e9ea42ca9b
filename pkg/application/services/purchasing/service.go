package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"go.uber.org/zap"
)

// Defaults seed the terms of new drafts when the supplier record has none
type Defaults struct {
	Currency       string
	TaxRate        decimal.Decimal
	TaxEnabled     bool
	PONumberPrefix string
	DeliveryDays   int
}

// GeneratePOCommand selects pending requests of one supplier and optional
// overrides of the default terms
type GeneratePOCommand struct {
	RequestIDs   []string             `json:"requestIds" validate:"required,min=1,dive,required"`
	DisplayMode  entities.DisplayMode `json:"displayMode" validate:"omitempty,oneof=Base Pack"`
	CreditTerms  string               `json:"creditTerms" validate:"max=200"`
	DeliveryDate *time.Time           `json:"deliveryDate"`
	TaxEnabled   *bool                `json:"taxEnabled"`
	TaxRate      *decimal.Decimal     `json:"taxRate"`
}

// Service turns purchasing requests into issued purchase orders
type Service struct {
	jobs      repositories.JobRepository
	orders    repositories.PurchaseOrderRepository
	partners  repositories.PartnerRepository
	publisher events.Publisher
	recorder  *metrics.Recorder
	validate  *validator.Validate
	defaults  Defaults
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a purchasing service
func NewService(
	jobs repositories.JobRepository,
	orders repositories.PurchaseOrderRepository,
	partners repositories.PartnerRepository,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	defaults Defaults,
	log *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if defaults.PONumberPrefix == "" {
		defaults.PONumberPrefix = "PO"
	}
	return &Service{
		jobs:      jobs,
		orders:    orders,
		partners:  partners,
		publisher: publisher,
		recorder:  recorder,
		validate:  validator.New(),
		defaults:  defaults,
		logger:    log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock replaces the time source, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// PrepareDraft builds an editable draft from the selected requests with
// terms taken from the supplier record and the configured defaults
func (s *Service) PrepareDraft(ctx context.Context, requestIDs []string) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(requestIDs) == 0 {
		return nil, shared.ErrEmptySelection
	}

	requests := make([]entities.PurchasingRequest, 0, len(requestIDs))
	for _, id := range requestIDs {
		_, req, err := s.jobs.FindRequest(id)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}

	terms := DraftTerms{
		Currency:     s.defaults.Currency,
		TaxRate:      s.defaults.TaxRate,
		TaxEnabled:   s.defaults.TaxEnabled,
		DeliveryDate: s.now().AddDate(0, 0, s.defaults.DeliveryDays),
	}
	if len(requests) > 0 && s.partners != nil {
		supplier, err := s.partners.GetSupplierByName(requests[0].Supplier)
		switch {
		case err == nil:
			if supplier.Currency != "" {
				terms.Currency = supplier.Currency
			}
			terms.CreditTerms = supplier.CreditTerms
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	return BuildDraft(requests, terms)
}

// GeneratePO builds a draft from the command and issues it
func (s *Service) GeneratePO(ctx context.Context, cmd GeneratePOCommand) (*entities.IssuedPurchaseOrder, error) {
	log := logger.FromContext(ctx, s.logger)

	if err := s.validate.Struct(cmd); err != nil {
		s.refuse(log, err)
		return nil, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput)
	}
	if cmd.TaxRate != nil && cmd.TaxRate.IsNegative() {
		err := fmt.Errorf("tax rate cannot be negative: %w", shared.ErrInvalidInput)
		s.refuse(log, err)
		return nil, err
	}

	draft, err := s.PrepareDraft(ctx, cmd.RequestIDs)
	if err != nil {
		s.refuse(log, err)
		return nil, err
	}
	if cmd.DisplayMode != "" {
		draft.Mode = cmd.DisplayMode
	}
	if cmd.CreditTerms != "" {
		draft.Terms.CreditTerms = cmd.CreditTerms
	}
	if cmd.DeliveryDate != nil {
		draft.Terms.DeliveryDate = *cmd.DeliveryDate
	}
	if cmd.TaxEnabled != nil {
		draft.Terms.TaxEnabled = *cmd.TaxEnabled
	}
	if cmd.TaxRate != nil {
		draft.Terms.TaxRate = *cmd.TaxRate
	}

	return s.GeneratePOFromDraft(ctx, draft)
}

// GeneratePOFromDraft issues an edited draft. The source requests are
// re-read and must still be pending with the draft's supplier; on any
// refusal neither the jobs nor the orders change.
func (s *Service) GeneratePOFromDraft(ctx context.Context, draft *Draft) (*entities.IssuedPurchaseOrder, error) {
	log := logger.FromContext(ctx, s.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if draft == nil || len(draft.Lines) == 0 {
		s.refuse(log, shared.ErrEmptySelection)
		return nil, shared.ErrEmptySelection
	}
	if !draft.Mode.IsValid() {
		err := fmt.Errorf("display mode %q: %w", draft.Mode, shared.ErrInvalidInput)
		s.refuse(log, err)
		return nil, err
	}

	jobs, err := s.loadSourceJobs(draft)
	if err != nil {
		s.refuse(log, err)
		return nil, err
	}

	issued := s.now()
	poNumber := fmt.Sprintf("%s-%d-%04d", s.defaults.PONumberPrefix, issued.Year(), s.orders.NextSequence(issued.Year()))
	order := draft.Finalize(poNumber, issued, s.newID)

	for _, line := range order.Lines {
		price := WeightedUnitPrice(line)
		for _, requestID := range line.RequestIDs {
			job, idx := locate(jobs, requestID)
			req := &job.PurchasingRequests[idx]
			req.Status = entities.RequestPOIssued
			req.PONumber = poNumber
			req.UnitPrice = price
		}
	}

	if err := s.jobs.SaveJobs(jobs); err != nil {
		return nil, fmt.Errorf("failed to save jobs: %w", err)
	}
	if err := s.orders.SaveOrder(order); err != nil {
		return nil, fmt.Errorf("failed to save purchase order: %w", err)
	}

	_ = s.publisher.AppendEvent(order.ID, events.NewEvent(events.POGeneratedEvent, order.ID, events.POGenerated{
		OrderID:    order.ID,
		PONumber:   order.PONumber,
		Supplier:   order.SupplierName,
		RequestIDs: draft.RequestIDs(),
		Total:      order.Total,
	}))
	s.recorder.OrderIssued(order.Currency, order.Total)
	log.Info("purchase order generated",
		zap.String("po_number", order.PONumber),
		zap.String("supplier", order.SupplierName),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.Total.StringFixed(2)))

	return order, nil
}

// loadSourceJobs loads each job referenced by the draft once and checks
// every request against the draft
func (s *Service) loadSourceJobs(draft *Draft) ([]*entities.JobBatch, error) {
	var jobs []*entities.JobBatch
	for _, requestID := range draft.RequestIDs() {
		if job, _ := locate(jobs, requestID); job != nil {
			continue
		}
		owner, _, err := s.jobs.FindRequest(requestID)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, owner)
	}

	for _, requestID := range draft.RequestIDs() {
		job, idx := locate(jobs, requestID)
		req := job.PurchasingRequests[idx]
		if req.Status != entities.RequestPending {
			return nil, fmt.Errorf("request %s is %s: %w", req.ID, req.Status, shared.ErrInvalidState)
		}
		if !sameSupplier(req.Supplier, draft.Supplier) {
			return nil, fmt.Errorf("%q and %q: %w", draft.Supplier, req.Supplier, shared.ErrMultipleSuppliers)
		}
	}
	return jobs, nil
}

func locate(jobs []*entities.JobBatch, requestID string) (*entities.JobBatch, int) {
	for _, job := range jobs {
		if idx := job.FindRequest(requestID); idx >= 0 {
			return job, idx
		}
	}
	return nil, -1
}

func (s *Service) refuse(log *zap.Logger, err error) {
	code := shared.Code(err)
	s.recorder.Refused("generate_po", code)
	log.Warn("purchase order refused", zap.String("code", code), zap.Error(err))
}
