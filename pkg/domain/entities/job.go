package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

// Department owns one plan of a job
type Department string

const (
	DeptFabric        Department = "fabric"
	DeptTrims         Department = "trims"
	DeptEmbellishment Department = "embellishment"
	DeptCutting       Department = "cutting"
	DeptProcess       Department = "process"
	DeptStitching     Department = "stitching"
	DeptWashing       Department = "washing"
	DeptFinishing     Department = "finishing"
	DeptSampling      Department = "sampling"
	DeptTesting       Department = "testing"
)

// Departments lists every department in display order
var Departments = []Department{
	DeptFabric, DeptTrims, DeptEmbellishment, DeptCutting, DeptProcess,
	DeptStitching, DeptWashing, DeptFinishing, DeptSampling, DeptTesting,
}

// IsValid checks if the department is known
func (d Department) IsValid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// PlanStatus is the state of one department plan
type PlanStatus string

const (
	PlanPendingCreation PlanStatus = "Pending Creation"
	PlanApproved        PlanStatus = "Approved"
)

// JobStatus is the shipping lifecycle of a job
type JobStatus string

const (
	JobPlanning    JobStatus = "Planning"
	JobReadyToShip JobStatus = "Ready to Ship"
	JobBooked      JobStatus = "Booked"
	JobShipped     JobStatus = "Shipped"
	JobCompleted   JobStatus = "Completed"
)

// CanTransitionTo checks the manual handover chain after production
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobPlanning:
		return target == JobReadyToShip
	case JobReadyToShip:
		return target == JobBooked
	case JobBooked:
		return target == JobShipped
	case JobShipped:
		return target == JobCompleted
	}
	return false
}

// Stage is one sequential production stage
type Stage string

const (
	StageCutting       Stage = "Cutting"
	StageEmbellishment Stage = "Embellishment"
	StageStitching     Stage = "Stitching"
	StagePrepForWash   Stage = "Prep for Wash"
	StageWashing       Stage = "Washing"
	StageFinishing     Stage = "Finishing"
	StagePacking       Stage = "Packing"
)

// Stages is the fixed production sequence
var Stages = []Stage{
	StageCutting, StageEmbellishment, StageStitching, StagePrepForWash,
	StageWashing, StageFinishing, StagePacking,
}

// Index returns the stage position, or -1 if unknown
func (s Stage) Index() int {
	for i, known := range Stages {
		if s == known {
			return i
		}
	}
	return -1
}

// DailyLog is an append-only production event
type DailyLog struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Stage    Stage     `json:"stage"`
	Quantity Quantity  `json:"quantity"`
	Note     string    `json:"note"`
}

// WorkOrderStatus tracks an outsourced process order
type WorkOrderStatus string

const (
	WorkOrderPending WorkOrderStatus = "Pending"
	WorkOrderIssued  WorkOrderStatus = "Issued"
)

// WorkOrderRequest asks a vendor to process garments, produced by the
// embellishment plan
type WorkOrderRequest struct {
	ID            string          `json:"id"`
	JobID         string          `json:"jobId"`
	Department    Department      `json:"department"`
	StyleID       string          `json:"styleId"`
	Process       string          `json:"process"`
	Placement     string          `json:"placement"`
	Vendor        string          `json:"vendor"`
	Qty           decimal.Decimal `json:"qty"`
	Breakdown     Breakdown       `json:"breakdown"`
	Status        WorkOrderStatus `json:"status"`
	DateRequested time.Time       `json:"dateRequested"`
}

// CuttingCell is one shade/size cell of a cutting plan
type CuttingCell struct {
	Size  string   `json:"size"`
	Base  Quantity `json:"base"`
	Final Quantity `json:"final"`
}

// CuttingPlanDetail is the issued cutting plan for one style shade
type CuttingPlanDetail struct {
	StyleID     string        `json:"styleId"`
	Shade       string        `json:"shade"`
	Cells       []CuttingCell `json:"cells"`
	Start       time.Time     `json:"start"`
	Finish      time.Time     `json:"finish"`
	DailyTarget Quantity      `json:"dailyTarget"`
}

// JobBatch is a production grouping of styles planned and tracked together
type JobBatch struct {
	ID                 string                    `json:"id"`
	BatchName          string                    `json:"batchName"`
	Styles             []Style                   `json:"styles"`
	TotalQty           Quantity                  `json:"totalQty"`
	Status             JobStatus                 `json:"status"`
	ExFactoryDate      time.Time                 `json:"exFactoryDate"`
	Plans              map[Department]PlanStatus `json:"plans"`
	PurchasingRequests []PurchasingRequest       `json:"purchasingRequests,omitempty"`
	WorkOrderRequests  []WorkOrderRequest        `json:"workOrderRequests,omitempty"`
	CuttingPlanDetails []CuttingPlanDetail       `json:"cuttingPlanDetails,omitempty"`
	ProductionProgress map[Stage]Quantity        `json:"productionProgress"`
	DailyLogs          []DailyLog                `json:"dailyLogs,omitempty"`
}

// NewJobBatch creates a job from the selected styles with every plan pending
func NewJobBatch(id, batchName string, styles []Style, exFactory time.Time) (*JobBatch, error) {
	if id == "" {
		return nil, fmt.Errorf("job id cannot be empty")
	}
	if batchName == "" {
		return nil, fmt.Errorf("batch name cannot be empty")
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("job must contain at least one style")
	}

	var total Quantity
	for _, s := range styles {
		total += s.Quantity
	}

	plans := make(map[Department]PlanStatus, len(Departments))
	for _, d := range Departments {
		plans[d] = PlanPendingCreation
	}
	progress := make(map[Stage]Quantity, len(Stages))
	for _, s := range Stages {
		progress[s] = 0
	}

	return &JobBatch{
		ID:                 id,
		BatchName:          batchName,
		Styles:             styles,
		TotalQty:           total,
		Status:             JobPlanning,
		ExFactoryDate:      exFactory,
		Plans:              plans,
		ProductionProgress: progress,
	}, nil
}

// PlanStatusOf returns a department's plan status, pending when unset
func (j *JobBatch) PlanStatusOf(d Department) PlanStatus {
	if s, ok := j.Plans[d]; ok {
		return s
	}
	return PlanPendingCreation
}

// ApprovePlan moves a department plan from Pending Creation to Approved
func (j *JobBatch) ApprovePlan(d Department) error {
	if !d.IsValid() {
		return fmt.Errorf("department %q: %w", d, shared.ErrInvalidInput)
	}
	if j.PlanStatusOf(d) == PlanApproved {
		return fmt.Errorf("%s plan of job %s is already approved: %w", d, j.ID, shared.ErrInvalidState)
	}
	if j.Plans == nil {
		j.Plans = make(map[Department]PlanStatus, len(Departments))
	}
	j.Plans[d] = PlanApproved
	return nil
}

// RevertPlan returns a department plan to Pending Creation and removes the
// records it produced. It refuses when a request of the plan is already on
// a purchase order. It returns the number of removed records.
func (j *JobBatch) RevertPlan(d Department) (int, error) {
	if !d.IsValid() {
		return 0, fmt.Errorf("department %q: %w", d, shared.ErrInvalidInput)
	}
	if j.PlanStatusOf(d) != PlanApproved {
		return 0, fmt.Errorf("%s plan of job %s is not approved: %w", d, j.ID, shared.ErrInvalidState)
	}

	removed := 0
	switch d {
	case DeptFabric, DeptTrims:
		kept := j.PurchasingRequests[:0:0]
		for _, r := range j.PurchasingRequests {
			if r.Department != d {
				kept = append(kept, r)
				continue
			}
			if r.Status != RequestPending {
				return 0, fmt.Errorf("request %s is on %s: %w", r.ID, r.PONumber, shared.ErrInvalidState)
			}
			removed++
		}
		j.PurchasingRequests = kept
	case DeptEmbellishment:
		removed = len(j.WorkOrderRequests)
		j.WorkOrderRequests = nil
	case DeptCutting:
		removed = len(j.CuttingPlanDetails)
		j.CuttingPlanDetails = nil
	}

	j.Plans[d] = PlanPendingCreation
	return removed, nil
}

// CuttingTarget is the quantity the cutting stage works towards: the final
// total of the issued cutting plan, or the job total without one
func (j *JobBatch) CuttingTarget() Quantity {
	var total Quantity
	for _, detail := range j.CuttingPlanDetails {
		for _, c := range detail.Cells {
			total += c.Final
		}
	}
	if total > 0 {
		return total
	}
	return j.TotalQty
}

// Available returns the cumulative input a stage can consume: the previous
// stage's counter, or the cutting target for the first stage
func (j *JobBatch) Available(stage Stage) Quantity {
	idx := stage.Index()
	if idx <= 0 {
		return j.CuttingTarget()
	}
	return j.ProductionProgress[Stages[idx-1]]
}

// IsReadyForStage reports whether a stage has unconsumed input
func (j *JobBatch) IsReadyForStage(stage Stage) bool {
	if stage.Index() < 0 {
		return false
	}
	return j.Available(stage) > j.ProductionProgress[stage]
}

// FindRequest returns the index of a purchasing request, or -1
func (j *JobBatch) FindRequest(id string) int {
	for i := range j.PurchasingRequests {
		if j.PurchasingRequests[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so that callers cannot mutate repository state
func (j *JobBatch) Clone() *JobBatch {
	c := *j
	if j.Styles != nil {
		c.Styles = make([]Style, len(j.Styles))
		for i, s := range j.Styles {
			c.Styles[i] = s.Clone()
		}
	}
	c.Plans = make(map[Department]PlanStatus, len(j.Plans))
	for k, v := range j.Plans {
		c.Plans[k] = v
	}
	c.ProductionProgress = make(map[Stage]Quantity, len(j.ProductionProgress))
	for k, v := range j.ProductionProgress {
		c.ProductionProgress[k] = v
	}
	c.PurchasingRequests = make([]PurchasingRequest, len(j.PurchasingRequests))
	for i, r := range j.PurchasingRequests {
		c.PurchasingRequests[i] = r.Clone()
	}
	c.WorkOrderRequests = append([]WorkOrderRequest(nil), j.WorkOrderRequests...)
	for i := range c.WorkOrderRequests {
		c.WorkOrderRequests[i].Breakdown = append(Breakdown(nil), j.WorkOrderRequests[i].Breakdown...)
	}
	c.CuttingPlanDetails = append([]CuttingPlanDetail(nil), j.CuttingPlanDetails...)
	for i := range c.CuttingPlanDetails {
		c.CuttingPlanDetails[i].Cells = append([]CuttingCell(nil), j.CuttingPlanDetails[i].Cells...)
	}
	c.DailyLogs = append([]DailyLog(nil), j.DailyLogs...)
	return &c
}
