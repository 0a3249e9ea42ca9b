package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/application/services/orchestration"
	"github.com/vsinha/garmentmrp/pkg/application/services/production"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

type createJobRequest struct {
	Name          string         `json:"name"`
	ExFactoryDate time.Time      `json:"exFactoryDate"`
	Styles        []styleRequest `json:"styles"`
}

// styleRequest replaces the BOM of a style with its wire form, since usage
// rules arrive as a rule name plus a value table
type styleRequest struct {
	entities.Style
	BOM []bomRequest `json:"bom"`
}

type bomRequest struct {
	ID             string                 `json:"id"`
	ComponentName  string                 `json:"componentName"`
	Detail         string                 `json:"detail"`
	ProcessGroup   string                 `json:"processGroup"`
	Vendor         string                 `json:"vendor"`
	Unit           string                 `json:"unit"`
	UsageRule      string                 `json:"usageRule"`
	Usage          map[string]string      `json:"usage"`
	WastagePercent decimal.Decimal        `json:"wastagePercent"`
	Packing        entities.PackingFactor `json:"packing"`
	UnitPrice      decimal.Decimal        `json:"unitPrice"`
}

func (r createJobRequest) command() (production.CreateJobCommand, error) {
	cmd := production.CreateJobCommand{Name: r.Name, ExFactoryDate: r.ExFactoryDate}
	for _, s := range r.Styles {
		style := s.Style
		style.BOM = make([]entities.BOMItem, 0, len(s.BOM))
		for i, b := range s.BOM {
			usage, err := entities.NewUsage(entities.UsageRule(b.UsageRule), b.Usage)
			if err != nil {
				return cmd, fmt.Errorf("style %s line %d: %v: %w", style.ID, i+1, err, shared.ErrInvalidInput)
			}
			item, err := entities.NewBOMItem(b.ID, b.ComponentName, entities.ProcessGroup(b.ProcessGroup), b.Vendor, b.Unit, usage)
			if err != nil {
				return cmd, fmt.Errorf("style %s line %d: %v: %w", style.ID, i+1, err, shared.ErrInvalidInput)
			}
			if item.ID == "" {
				item.ID = fmt.Sprintf("%s-%d", style.ID, i+1)
			}
			item.Detail = b.Detail
			item.WastagePercent = b.WastagePercent
			item.Packing = b.Packing
			item.UnitPrice = b.UnitPrice
			style.BOM = append(style.BOM, *item)
		}
		cmd.Styles = append(cmd.Styles, style)
	}
	return cmd, nil
}

type cuttingRequest struct {
	Start        time.Time        `json:"start"`
	Finish       time.Time        `json:"finish"`
	ExtraPercent *decimal.Decimal `json:"extraPercent"`
}

type outputRequest struct {
	Quantity entities.Quantity `json:"quantity"`
	Date     time.Time         `json:"date"`
	Note     string            `json:"note"`
}

type statusRequest struct {
	Status entities.JobStatus `json:"status"`
}

func (h *handler) listJobs(c *gin.Context) {
	jobs, err := h.deps.Jobs.GetAllJobs()
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, jobs)
}

func (h *handler) getJob(c *gin.Context) {
	job, err := h.deps.Jobs.GetJob(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, job)
}

func (h *handler) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd, err := req.command()
	if err != nil {
		respondError(c, err)
		return
	}
	job, err := h.deps.Production.CreateJob(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": job})
}

func (h *handler) deleteJob(c *gin.Context) {
	if err := h.deps.Production.DeleteJob(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) demand(c *gin.Context) {
	items, err := h.deps.Planner.Demand(c.Request.Context(), c.Param("id"), entities.Department(c.Param("dept")))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, items)
}

func (h *handler) previewPlan(c *gin.Context) {
	preview, err := h.deps.Planner.Preview(c.Request.Context(), c.Param("id"), entities.Department(c.Param("dept")))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, preview)
}

func (h *handler) issuePlan(c *gin.Context) {
	ctx := c.Request.Context()
	dept := entities.Department(c.Param("dept"))

	var (
		job *entities.JobBatch
		err error
	)
	if dept == entities.DeptCutting && c.Request.ContentLength > 0 {
		var req cuttingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		job, err = h.deps.Planner.IssueCuttingPlan(ctx, orchestration.IssueCuttingCommand{
			JobID:        c.Param("id"),
			Start:        req.Start,
			Finish:       req.Finish,
			ExtraPercent: req.ExtraPercent,
		})
	} else {
		job, err = h.deps.Planner.IssuePlan(ctx, c.Param("id"), dept)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, job)
}

func (h *handler) revertPlan(c *gin.Context) {
	job, err := h.deps.Production.RevertPlan(c.Request.Context(), actorFrom(c), c.Param("id"), entities.Department(c.Param("dept")))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, job)
}

func (h *handler) progress(c *gin.Context) {
	progress, err := h.deps.Production.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, progress)
}

func (h *handler) recordOutput(c *gin.Context) {
	var req outputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.deps.Production.RecordOutput(c.Request.Context(), production.RecordOutputCommand{
		JobID:    c.Param("id"),
		Stage:    entities.Stage(c.Param("stage")),
		Quantity: req.Quantity,
		Date:     req.Date,
		Note:     req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, job)
}

func (h *handler) advanceStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.deps.Production.AdvanceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, job)
}
