package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vsinha/garmentmrp/pkg/application/services/fulfillment"
	"github.com/vsinha/garmentmrp/pkg/application/services/orchestration"
	"github.com/vsinha/garmentmrp/pkg/application/services/production"
	"github.com/vsinha/garmentmrp/pkg/application/services/purchasing"
	"github.com/vsinha/garmentmrp/pkg/domain/repositories"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"go.uber.org/zap"
)

// Deps holds everything the API serves
type Deps struct {
	Jobs        repositories.JobRepository
	Orders      repositories.PurchaseOrderRepository
	Partners    repositories.PartnerRepository
	Planner     *orchestration.PlanningOrchestrator
	Purchasing  *purchasing.Service
	Fulfillment *fulfillment.Tracker
	Production  *production.Service
	Tokens      *auth.TokenIssuer
	Gatherer    prometheus.Gatherer
	Logger      *zap.Logger
}

type handler struct {
	deps Deps
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(RequestID(deps.Logger), Logger(), Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	h := &handler{deps: deps}
	v1 := r.Group("/api/v1", Authenticate(deps.Tokens))
	h.registerJobs(v1.Group("/jobs"))
	h.registerPurchasing(v1)
	return r
}

func (h *handler) registerJobs(jobs *gin.RouterGroup) {
	jobs.GET("", h.listJobs)
	jobs.POST("", h.createJob)
	jobs.GET("/:id", h.getJob)
	jobs.DELETE("/:id", h.deleteJob)
	jobs.GET("/:id/demand/:dept", h.demand)
	jobs.GET("/:id/plans/:dept", h.previewPlan)
	jobs.POST("/:id/plans/:dept/issue", h.issuePlan)
	jobs.DELETE("/:id/plans/:dept", h.revertPlan)
	jobs.GET("/:id/progress", h.progress)
	jobs.POST("/:id/stages/:stage/output", h.recordOutput)
	jobs.POST("/:id/status", h.advanceStatus)
}

func (h *handler) registerPurchasing(v1 *gin.RouterGroup) {
	v1.POST("/purchase-orders/draft", h.prepareDraft)
	v1.POST("/purchase-orders", h.generatePO)
	v1.GET("/purchase-orders", h.listOrders)
	v1.GET("/purchase-orders/:id", h.getOrder)
	v1.POST("/purchase-orders/:id/receptions", h.recordReception)
	v1.POST("/receptions/batch", h.recordBatch)
	v1.GET("/deliveries", h.deliveries)
	v1.GET("/suppliers", h.suppliers)
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
