package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/application/services/fulfillment"
	"github.com/vsinha/garmentmrp/pkg/application/services/orchestration"
	"github.com/vsinha/garmentmrp/pkg/application/services/production"
	"github.com/vsinha/garmentmrp/pkg/application/services/purchasing"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/events"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	cfg := config.Default()

	// Create repositories
	jobs := memory.NewJobRepository(1)
	orders := memory.NewPurchaseOrderRepository()
	partners := memory.NewPartnerRepository()
	if err := partners.LoadSuppliers([]*entities.Supplier{
		{ID: "SUP-1", Name: "Arvind Mills", Currency: "USD", CreditTerms: "60 days"},
	}); err != nil {
		fmt.Printf("❌ Loading suppliers failed: %v\n", err)
		return
	}
	store := events.NewInMemoryEventStore(nil)

	// Create services
	floor := production.NewService(jobs, store, nil, nil)
	planner := orchestration.NewPlanningOrchestrator(jobs, store, nil, orchestration.SettingsFromConfig(cfg.Planning), nil)
	buyer := purchasing.NewService(jobs, orders, partners, store, nil, purchasing.Defaults{
		Currency:     cfg.Purchasing.Currency,
		DeliveryDays: cfg.Purchasing.DeliveryDays,
	}, nil)
	tracker := fulfillment.NewTracker(orders, jobs, store, nil, nil)

	job, err := floor.CreateJob(ctx, production.CreateJobCommand{
		Name:          "Spring Denim",
		Styles:        []entities.Style{denimStyle()},
		ExFactoryDate: time.Now().AddDate(0, 2, 0),
	})
	if err != nil {
		fmt.Printf("❌ Creating job failed: %v\n", err)
		return
	}
	fmt.Printf("👖 Job %s: %s, %d pieces\n\n", job.ID, job.BatchName, job.TotalQty)

	// Fabric plan
	job, err = planner.IssueFabricPlan(ctx, job.ID)
	if err != nil {
		fmt.Printf("❌ Fabric plan failed: %v\n", err)
		return
	}
	fmt.Println("📋 Purchasing Requests:")
	for _, r := range job.PurchasingRequests {
		fmt.Printf("  %s: %s %s from %s\n", r.MaterialName, r.Qty, r.Unit, r.Supplier)
	}
	fmt.Println()

	// Purchase order
	order, err := buyer.GeneratePO(ctx, purchasing.GeneratePOCommand{
		RequestIDs:  []string{job.PurchasingRequests[0].ID},
		DisplayMode: entities.DisplayPack,
	})
	if err != nil {
		fmt.Printf("❌ Purchase order failed: %v\n", err)
		return
	}
	fmt.Printf("🧾 %s to %s: %s %s (%s)\n\n", order.PONumber, order.SupplierName, order.Total, order.Currency, order.CreditTerms)

	// Reception
	line := order.Lines[0]
	order, err = tracker.RecordReception(ctx, fulfillment.ReceptionCommand{
		ReceptionItem: fulfillment.ReceptionItem{
			OrderID:   order.ID,
			LineID:    line.ID,
			VariantID: line.Variants[0].ID,
			Quantity:  line.Variants[0].Quantity,
		},
		Date:          time.Now(),
		ChallanNumber: "CH-001",
	})
	if err != nil {
		fmt.Printf("❌ Reception failed: %v\n", err)
		return
	}
	fmt.Printf("📦 %s is %s\n\n", order.PONumber, order.Status)

	// Cutting and production
	if _, err := planner.IssuePlan(ctx, job.ID, entities.DeptCutting); err != nil {
		fmt.Printf("❌ Cutting plan failed: %v\n", err)
		return
	}
	for _, stage := range entities.Stages {
		available, err := stageAvailable(ctx, floor, job.ID, stage)
		if err != nil {
			fmt.Printf("❌ Progress failed: %v\n", err)
			return
		}
		if _, err := floor.RecordOutput(ctx, production.RecordOutputCommand{
			JobID:    job.ID,
			Stage:    stage,
			Quantity: entities.Quantity(available),
			Date:     time.Now(),
		}); err != nil {
			fmt.Printf("❌ Recording %s failed: %v\n", stage, err)
			return
		}
		fmt.Printf("  ✂️  %s: %d\n", stage, available)
	}
	fmt.Println()

	job, err = floor.MarkReadyToShip(ctx, job.ID)
	if err != nil {
		fmt.Printf("❌ Ready to ship failed: %v\n", err)
		return
	}
	fmt.Printf("🚚 Job %s is %s\n", job.ID, job.Status)

	all, _ := store.ReadAllEvents(0)
	fmt.Printf("✅ Lifecycle complete with %d events recorded!\n", len(all))
}

func stageAvailable(ctx context.Context, floor *production.Service, jobID string, stage entities.Stage) (int64, error) {
	progress, err := floor.Progress(ctx, jobID)
	if err != nil {
		return 0, err
	}
	for _, p := range progress {
		if p.Stage == string(stage) {
			return p.Available - p.Completed, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %s", stage)
}

func denimStyle() entities.Style {
	usage, err := entities.NewUsage(entities.RuleGeneric, map[string]string{"generic": "1.5"})
	if err != nil {
		panic(err)
	}
	return entities.Style{
		ID:          "ST-100",
		StyleNumber: "JEAN-5P",
		Buyer:       "Northwind Apparel",
		Quantity:    1000,
		Colors:      []entities.Color{{ID: "C1", Name: "Indigo"}},
		SizeGroups: []entities.SizeGroup{{
			Name:  "Regular",
			Sizes: []string{"S", "M", "L"},
			Breakdown: map[string]map[string]entities.Quantity{
				"C1": {"S": 300, "M": 400, "L": 300},
			},
		}},
		BOM: []entities.BOMItem{{
			ID:             "B1",
			ComponentName:  "Denim 12oz",
			ProcessGroup:   entities.Fabric,
			Vendor:         "Arvind Mills",
			Unit:           "m",
			Usage:          usage,
			WastagePercent: decimal.NewFromInt(2),
			Packing:        entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(50), PackingUnit: "roll"},
			UnitPrice:      decimal.RequireFromString("4.20"),
		}},
	}
}
