package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vsinha/garmentmrp/pkg/application/services/fulfillment"
	"github.com/vsinha/garmentmrp/pkg/application/services/purchasing"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
)

const queryDateLayout = "2006-01-02"

type draftRequest struct {
	RequestIDs []string `json:"requestIds"`
}

type draftResponse struct {
	*purchasing.Draft
	Totals purchasing.Totals `json:"totals"`
}

type receptionRequest struct {
	fulfillment.ReceptionItem
	Date          time.Time `json:"date"`
	ChallanNumber string    `json:"challanNumber"`
}

func (h *handler) prepareDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	draft, err := h.deps.Purchasing.PrepareDraft(c.Request.Context(), req.RequestIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, draftResponse{Draft: draft, Totals: draft.Totals()})
}

func (h *handler) generatePO(c *gin.Context) {
	var cmd purchasing.GeneratePOCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.deps.Purchasing.GeneratePO(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (h *handler) listOrders(c *gin.Context) {
	orders, err := h.deps.Orders.GetAllOrders()
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, orders)
}

func (h *handler) getOrder(c *gin.Context) {
	order, err := h.deps.Orders.GetOrder(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *handler) recordReception(c *gin.Context) {
	var req receptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.OrderID = c.Param("id")
	order, err := h.deps.Fulfillment.RecordReception(c.Request.Context(), fulfillment.ReceptionCommand{
		ReceptionItem: req.ReceptionItem,
		Date:          req.Date,
		ChallanNumber: req.ChallanNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, order)
}

func (h *handler) recordBatch(c *gin.Context) {
	var cmd fulfillment.BatchReceptionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		badRequest(c, err)
		return
	}
	orders, err := h.deps.Fulfillment.RecordBatch(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, orders)
}

func (h *handler) deliveries(c *gin.Context) {
	filter := fulfillment.DeliveryFilter{Search: c.Query("search")}
	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		respondError(c, err)
		return
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		respondError(c, err)
		return
	}
	if raw := c.Query("open"); raw != "" {
		if filter.OpenOnly, err = strconv.ParseBool(raw); err != nil {
			respondError(c, fmt.Errorf("open: %q is not a boolean: %w", raw, shared.ErrInvalidInput))
			return
		}
	}

	rows, err := h.deps.Fulfillment.ExpectedDeliveries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, rows)
}

func (h *handler) suppliers(c *gin.Context) {
	suppliers, err := h.deps.Partners.GetAllSuppliers()
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, suppliers)
}

func queryDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q is not a date: %w", key, raw, shared.ErrInvalidInput)
	}
	return t, nil
}
