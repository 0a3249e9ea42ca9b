package commands

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vsinha/garmentmrp/pkg/application/services/fulfillment"
	"github.com/vsinha/garmentmrp/pkg/application/services/orchestration"
	"github.com/vsinha/garmentmrp/pkg/application/services/production"
	"github.com/vsinha/garmentmrp/pkg/application/services/purchasing"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/auth"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/metrics"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/scenario"
	"github.com/vsinha/garmentmrp/pkg/interfaces/api"
	"go.uber.org/zap"
)

// App wires repositories and services for one process
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Jobs     *memory.JobRepository
	Orders   *memory.PurchaseOrderRepository
	Partners *memory.PartnerRepository
	Events   *events.InMemoryEventStore
	Registry *prometheus.Registry
	Tokens   *auth.TokenIssuer

	Planner     *orchestration.PlanningOrchestrator
	Purchasing  *purchasing.Service
	Fulfillment *fulfillment.Tracker
	Production  *production.Service
}

// NewApp builds an App with empty repositories
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	store := events.NewInMemoryEventStore(log)
	jobs := memory.NewJobRepository(0)
	orders := memory.NewPurchaseOrderRepository()
	partners := memory.NewPartnerRepository()

	app := &App{
		Config:   cfg,
		Logger:   log,
		Jobs:     jobs,
		Orders:   orders,
		Partners: partners,
		Events:   store,
		Registry: registry,

		Planner: orchestration.NewPlanningOrchestrator(jobs, store, recorder, orchestration.SettingsFromConfig(cfg.Planning), log),
		Purchasing: purchasing.NewService(jobs, orders, partners, store, recorder, purchasing.Defaults{
			Currency:       cfg.Purchasing.Currency,
			TaxRate:        cfg.Purchasing.TaxRate,
			TaxEnabled:     cfg.Purchasing.TaxEnabled,
			PONumberPrefix: cfg.Purchasing.PONumberPrefix,
			DeliveryDays:   cfg.Purchasing.DeliveryDays,
		}, log),
		Fulfillment: fulfillment.NewTracker(orders, jobs, store, recorder, log),
		Production:  production.NewService(jobs, store, recorder, log),
	}

	if cfg.Auth.Secret != "" {
		tokens, err := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create token issuer: %w", err)
		}
		app.Tokens = tokens
	}
	return app, nil
}

// LoadScenario reads jobs from a YAML scenario into the job repository
func (a *App) LoadScenario(filename string) (*scenario.Scenario, error) {
	sc, err := scenario.NewLoader().LoadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := a.Jobs.LoadJobs(sc.Jobs); err != nil {
		return nil, fmt.Errorf("failed to load jobs into repository: %w", err)
	}
	return sc, nil
}

// LoadSuppliers reads supplier reference data from CSV
func (a *App) LoadSuppliers(filename string) ([]*entities.Supplier, error) {
	suppliers, err := csv.NewLoader().LoadSuppliers(filename)
	if err != nil {
		return nil, err
	}
	if err := a.Partners.LoadSuppliers(suppliers); err != nil {
		return nil, fmt.Errorf("failed to load suppliers into repository: %w", err)
	}
	return suppliers, nil
}

// MintToken issues an API token for subject with role
func (a *App) MintToken(subject string, role auth.Role) (string, error) {
	if a.Tokens == nil {
		return "", fmt.Errorf("auth.secret is not configured")
	}
	return a.Tokens.Mint(auth.Actor{Subject: subject, Role: role}, time.Now())
}

// APIDeps exposes the app to the HTTP API
func (a *App) APIDeps() api.Deps {
	return api.Deps{
		Jobs:        a.Jobs,
		Orders:      a.Orders,
		Partners:    a.Partners,
		Planner:     a.Planner,
		Purchasing:  a.Purchasing,
		Fulfillment: a.Fulfillment,
		Production:  a.Production,
		Tokens:      a.Tokens,
		Gatherer:    a.Registry,
		Logger:      a.Logger,
	}
}
