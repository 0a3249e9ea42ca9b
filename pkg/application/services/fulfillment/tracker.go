package fulfillment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"go.uber.org/zap"
)

// ReceptionItem targets one variant of an issued order
type ReceptionItem struct {
	OrderID   string          `json:"orderId" validate:"required"`
	LineID    string          `json:"lineId" validate:"required"`
	VariantID string          `json:"variantId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReceptionCommand records one delivery against one variant
type ReceptionCommand struct {
	ReceptionItem
	Date          time.Time `json:"date" validate:"required"`
	ChallanNumber string    `json:"challanNumber" validate:"required,max=64"`
}

// BatchReceptionCommand records several variants delivered under one
// challan on one date
type BatchReceptionCommand struct {
	Date          time.Time       `json:"date" validate:"required"`
	ChallanNumber string          `json:"challanNumber" validate:"required,max=64"`
	Items         []ReceptionItem `json:"items" validate:"required,min=1,dive"`
}

// DeliveryFilter narrows the expected deliveries report. From and To are
// inclusive calendar days in their own location; zero dates are unbounded.
type DeliveryFilter struct {
	From     time.Time
	To       time.Time
	Search   string
	OpenOnly bool
}

// Tracker records material receptions against issued orders and
// propagates completion to the orders and their purchasing requests
type Tracker struct {
	orders    repositories.PurchaseOrderRepository
	jobs      repositories.JobRepository
	publisher events.Publisher
	recorder  *metrics.Recorder
	validate  *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewTracker creates a fulfillment tracker
func NewTracker(
	orders repositories.PurchaseOrderRepository,
	jobs repositories.JobRepository,
	publisher events.Publisher,
	recorder *metrics.Recorder,
	log *zap.Logger,
) *Tracker {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		orders:    orders,
		jobs:      jobs,
		publisher: publisher,
		recorder:  recorder,
		validate:  validator.New(),
		logger:    log,
		newID:     uuid.NewString,
	}
}

// RecordReception appends one reception and returns the updated order
func (t *Tracker) RecordReception(ctx context.Context, cmd ReceptionCommand) (*entities.IssuedPurchaseOrder, error) {
	if err := t.validate.Struct(cmd); err != nil {
		return nil, t.refuse(ctx, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}
	updated, err := t.apply(ctx, cmd.Date, cmd.ChallanNumber, []ReceptionItem{cmd.ReceptionItem})
	if err != nil {
		return nil, err
	}
	return updated[0], nil
}

// RecordBatch appends one reception per item. Every item is validated
// before anything is recorded; the result does not depend on item order.
func (t *Tracker) RecordBatch(ctx context.Context, cmd BatchReceptionCommand) ([]*entities.IssuedPurchaseOrder, error) {
	if err := t.validate.Struct(cmd); err != nil {
		return nil, t.refuse(ctx, fmt.Errorf("%v: %w", err, shared.ErrInvalidInput))
	}
	return t.apply(ctx, cmd.Date, cmd.ChallanNumber, cmd.Items)
}

func (t *Tracker) apply(ctx context.Context, date time.Time, challan string, items []ReceptionItem) ([]*entities.IssuedPurchaseOrder, error) {
	log := logger.FromContext(ctx, t.logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// validate every target against a private copy of its order
	var orders []*entities.IssuedPurchaseOrder
	byID := make(map[string]*entities.IssuedPurchaseOrder)
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, t.refuse(ctx, fmt.Errorf("reception quantity must be positive, got %s: %w", item.Quantity, shared.ErrInvalidInput))
		}
		order, ok := byID[item.OrderID]
		if !ok {
			loaded, err := t.orders.GetOrder(item.OrderID)
			if err != nil {
				return nil, t.refuse(ctx, err)
			}
			order = loaded
			byID[order.ID] = order
			orders = append(orders, order)
		}
		if _, _, found := order.FindVariant(item.LineID, item.VariantID); !found {
			return nil, t.refuse(ctx, fmt.Errorf("order %s line %s variant %s: %w", order.PONumber, item.LineID, item.VariantID, shared.ErrNotFound))
		}
	}

	wasClosed := make(map[string]bool, len(orders))
	for _, o := range orders {
		wasClosed[o.ID] = o.Status == entities.OrderClosed
	}

	var recorded []recordedReception
	for _, item := range items {
		order := byID[item.OrderID]
		_, v, _ := order.FindVariant(item.LineID, item.VariantID)

		balance := entities.NonNegative(v.Quantity.Sub(order.ReceivedFor(item.LineID, item.VariantID)))
		reception := entities.MaterialReception{
			ID:            t.newID(),
			Date:          date,
			ChallanNumber: challan,
			Quantity:      item.Quantity,
			LineItemID:    item.LineID,
			VariantID:     item.VariantID,
			Excess:        entities.NonNegative(item.Quantity.Sub(balance)),
		}
		order.Receptions = append(order.Receptions, reception)
		recorded = append(recorded, recordedReception{order: order, reception: reception})

		if reception.Excess.IsPositive() {
			log.Warn("over-receipt recorded",
				zap.String("po_number", order.PONumber),
				zap.String("variant", v.Usage),
				zap.String("ordered", v.Quantity.String()),
				zap.String("excess", reception.Excess.String()))
		}
	}

	for _, o := range orders {
		o.Status = o.DeriveStatus()
	}

	if jobs := t.receivedRequests(orders, log); len(jobs) > 0 {
		if err := t.jobs.SaveJobs(jobs); err != nil {
			return nil, fmt.Errorf("failed to save jobs: %w", err)
		}
	}
	for _, o := range orders {
		if err := t.orders.SaveOrder(o); err != nil {
			return nil, fmt.Errorf("failed to save purchase order: %w", err)
		}
	}

	for _, r := range recorded {
		_ = t.publisher.AppendEvent(r.order.ID, events.NewEvent(events.ReceptionRecordedEvent, r.order.ID, events.ReceptionRecorded{
			OrderID:   r.order.ID,
			PONumber:  r.order.PONumber,
			Reception: r.reception,
		}))
		t.recorder.ReceptionRecorded()
	}
	for _, o := range orders {
		if o.Status == entities.OrderClosed && !wasClosed[o.ID] {
			_ = t.publisher.AppendEvent(o.ID, events.NewEvent(events.OrderClosedEvent, o.ID, events.OrderClosed{
				OrderID:  o.ID,
				PONumber: o.PONumber,
			}))
			t.recorder.OrderClosed()
			log.Info("purchase order closed", zap.String("po_number", o.PONumber))
		}
	}

	log.Info("receptions recorded",
		zap.String("challan", challan),
		zap.Int("receptions", len(recorded)),
		zap.Int("orders", len(orders)))
	return orders, nil
}

type recordedReception struct {
	order     *entities.IssuedPurchaseOrder
	reception entities.MaterialReception
}

// receivedRequests marks the source requests of every fully received line
// as Received and returns the jobs that changed
func (t *Tracker) receivedRequests(orders []*entities.IssuedPurchaseOrder, log *zap.Logger) []*entities.JobBatch {
	var changed []*entities.JobBatch
	find := func(requestID string) (*entities.JobBatch, int) {
		for _, job := range changed {
			if idx := job.FindRequest(requestID); idx >= 0 {
				return job, idx
			}
		}
		return nil, -1
	}

	for _, o := range orders {
		for _, line := range o.Lines {
			if !o.IsLineFullyReceived(line.ID) {
				continue
			}
			for _, requestID := range line.RequestIDs {
				job, idx := find(requestID)
				if job == nil {
					owner, _, err := t.jobs.FindRequest(requestID)
					if err != nil {
						log.Warn("source request missing", zap.String("request_id", requestID), zap.Error(err))
						continue
					}
					job = owner
					idx = job.FindRequest(requestID)
					changed = append(changed, job)
				}
				job.PurchasingRequests[idx].Status = entities.RequestReceived
			}
		}
	}
	return changed
}

func (t *Tracker) refuse(ctx context.Context, err error) error {
	code := shared.Code(err)
	t.recorder.Refused("record_reception", code)
	logger.FromContext(ctx, t.logger).Warn("reception refused", zap.String("code", code), zap.Error(err))
	return err
}

// ExpectedDeliveries lists one row per variant of every issued order,
// sorted by delivery date then PO number
func (t *Tracker) ExpectedDeliveries(ctx context.Context, filter DeliveryFilter) ([]dto.DeliveryRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	orders, err := t.orders.GetAllOrders()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].DeliveryDate.Equal(orders[j].DeliveryDate) {
			return orders[i].DeliveryDate.Before(orders[j].DeliveryDate)
		}
		return orders[i].PONumber < orders[j].PONumber
	})

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var rows []dto.DeliveryRow
	for _, o := range orders {
		if !filter.From.IsZero() && o.DeliveryDate.Before(startOfDay(filter.From)) {
			continue
		}
		if !filter.To.IsZero() && !o.DeliveryDate.Before(startOfDay(filter.To).AddDate(0, 0, 1)) {
			continue
		}
		for _, line := range o.Lines {
			for _, v := range line.Variants {
				received := o.ReceivedFor(line.ID, v.ID)
				row := dto.DeliveryRow{
					OrderID:      o.ID,
					PONumber:     o.PONumber,
					Supplier:     o.SupplierName,
					DeliveryDate: o.DeliveryDate,
					LineID:       line.ID,
					VariantID:    v.ID,
					Material:     line.MaterialName,
					Usage:        v.Usage,
					Unit:         v.Unit,
					Ordered:      v.Quantity,
					Received:     received,
					Balance:      v.Quantity.Sub(received),
				}
				if filter.OpenOnly && !row.Balance.IsPositive() {
					continue
				}
				if search != "" && !matches(search, row.PONumber, row.Supplier, row.Material, row.Usage) {
					continue
				}
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func matches(search string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
