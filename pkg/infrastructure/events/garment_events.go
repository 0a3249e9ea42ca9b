package events

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

const (
	PlanIssuedEvent   = "plan.issued"
	PlanRevertedEvent = "plan.reverted"

	POGeneratedEvent       = "po.generated"
	ReceptionRecordedEvent = "reception.recorded"
	OrderClosedEvent       = "order.closed"

	StageRecordedEvent    = "stage.recorded"
	JobCreatedEvent       = "job.created"
	JobDeletedEvent       = "job.deleted"
	JobStatusChangedEvent = "job.status_changed"
)

type PlanIssued struct {
	JobID      string              `json:"job_id"`
	Department entities.Department `json:"department"`
	Requests   int                 `json:"requests"`
	WorkOrders int                 `json:"work_orders"`
	Sheets     int                 `json:"sheets"`
}

type PlanReverted struct {
	JobID      string              `json:"job_id"`
	Department entities.Department `json:"department"`
	Actor      string              `json:"actor"`
	Removed    int                 `json:"removed"`
}

type POGenerated struct {
	OrderID    string          `json:"order_id"`
	PONumber   string          `json:"po_number"`
	Supplier   string          `json:"supplier"`
	RequestIDs []string        `json:"request_ids"`
	Total      decimal.Decimal `json:"total"`
}

type ReceptionRecorded struct {
	OrderID   string                     `json:"order_id"`
	PONumber  string                     `json:"po_number"`
	Reception entities.MaterialReception `json:"reception"`
}

type OrderClosed struct {
	OrderID  string `json:"order_id"`
	PONumber string `json:"po_number"`
}

type StageRecorded struct {
	JobID     string            `json:"job_id"`
	Log       entities.DailyLog `json:"log"`
	Completed entities.Quantity `json:"completed"`
}

type JobCreated struct {
	JobID    string            `json:"job_id"`
	Name     string            `json:"name"`
	TotalQty entities.Quantity `json:"total_qty"`
}

type JobDeleted struct {
	JobID string `json:"job_id"`
	Actor string `json:"actor"`
}

type JobStatusChanged struct {
	JobID string             `json:"job_id"`
	From  entities.JobStatus `json:"from"`
	To    entities.JobStatus `json:"to"`
}
