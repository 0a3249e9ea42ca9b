package testing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/repositories/memory"
)

func mustUsage(rule entities.UsageRule, data map[string]string) entities.Usage {
	u, err := entities.NewUsage(rule, data)
	if err != nil {
		panic(err)
	}
	return u
}

// SingleStyleJob is the reference scenario: one style of 1000 pieces in one
// color split S/M/L 300/400/300 with one generic fabric line at 1.5 m and 2%
// wastage.
func SingleStyleJob() *entities.JobBatch {
	style := entities.Style{
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
			Usage:          mustUsage(entities.RuleGeneric, map[string]string{"generic": "1.5"}),
			WastagePercent: decimal.NewFromInt(2),
			Packing:        entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(50), PackingUnit: "roll"},
			UnitPrice:      decimal.RequireFromString("4.20"),
		}},
	}

	job, err := entities.NewJobBatch("JOB-1", "Spring Denim", []entities.Style{style}, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return job
}

// TwoStyleJob builds a job whose styles share fabric and trims from the same
// vendors, exercising every usage rule.
func TwoStyleJob() *entities.JobBatch {
	jean := SingleStyleJob().Styles[0]
	jean.BOM = append(jean.BOM,
		entities.BOMItem{
			ID:            "B2",
			ComponentName: "Sewing Thread",
			Detail:        "Tex 40",
			ProcessGroup:  entities.StitchingTrims,
			Vendor:        "Coats",
			Unit:          "m",
			Usage:         mustUsage(entities.RuleByIndividual, map[string]string{"S": "100", "M": "110", "L": "120"}),
			Packing:       entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(5000), PackingUnit: "cone"},
			UnitPrice:     decimal.RequireFromString("0.002"),
		},
		entities.BOMItem{
			ID:            "B3",
			ComponentName: "Shank Button",
			ProcessGroup:  entities.StitchingTrims,
			Vendor:        "YKK",
			Unit:          "pcs",
			Usage:         mustUsage(entities.RuleGeneric, map[string]string{"generic": "1"}),
			Packing:       entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(144), PackingUnit: "gross"},
			UnitPrice:     decimal.RequireFromString("0.05"),
		},
		entities.BOMItem{
			ID:            "B4",
			ComponentName: "Poly Bag",
			ProcessGroup:  entities.PackingTrims,
			Unit:          "pcs",
			Usage:         mustUsage(entities.RuleGeneric, map[string]string{"generic": "1"}),
		},
	)
	jean.Embellishments = []entities.Embellishment{{Process: "Embroidery", Placement: "Back pocket", Vendor: "Stitch Art"}}

	chino := entities.Style{
		ID:          "ST-200",
		StyleNumber: "CHINO-SLIM",
		Buyer:       "Northwind Apparel",
		Quantity:    600,
		Colors: []entities.Color{
			{ID: "K1", Name: "Black"},
			{ID: "K2", Name: "Stone"},
		},
		SizeGroups: []entities.SizeGroup{
			{
				Name:  "Regular",
				Sizes: []string{"S", "M"},
				Breakdown: map[string]map[string]entities.Quantity{
					"K1": {"S": 100, "M": 100},
					"K2": {"S": 50, "M": 150},
				},
			},
			{
				Name:  "Plus",
				Sizes: []string{"XL", "XXL"},
				Breakdown: map[string]map[string]entities.Quantity{
					"K1": {"XL": 60, "XXL": 40},
					"K2": {"XL": 60, "XXL": 40},
				},
			},
		},
		BOM: []entities.BOMItem{
			{
				ID:             "C1",
				ComponentName:  "Denim 12oz",
				ProcessGroup:   entities.Fabric,
				Vendor:         "Arvind Mills",
				Unit:           "m",
				Usage:          mustUsage(entities.RuleByColor, map[string]string{"Black": "1.4", "Stone": "1.6"}),
				WastagePercent: decimal.NewFromInt(5),
				Packing:        entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(50), PackingUnit: "roll"},
				UnitPrice:      decimal.RequireFromString("4.20"),
			},
			{
				ID:            "C2",
				ComponentName: "Pocketing",
				ProcessGroup:  entities.Fabric,
				Vendor:        "Arvind Mills",
				Unit:          "m",
				Usage:         mustUsage(entities.RuleBySizeGroup, map[string]string{"Regular": "0.3", "Plus": "0.4"}),
				UnitPrice:     decimal.RequireFromString("1.10"),
			},
			{
				ID:            "C3",
				ComponentName: "Shank Button",
				ProcessGroup:  entities.StitchingTrims,
				Vendor:        "YKK",
				Unit:          "pcs",
				Usage:         mustUsage(entities.RuleCustomGrouping, map[string]string{"S,M": "1", "XL, XXL": "2"}),
				Packing:       entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(144), PackingUnit: "gross"},
				UnitPrice:     decimal.RequireFromString("0.05"),
			},
		},
	}

	job, err := entities.NewJobBatch("JOB-2", "Autumn Bottoms", []entities.Style{jean, chino}, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return job
}

// Suppliers returns the reference suppliers used by the fixtures
func Suppliers() []*entities.Supplier {
	return []*entities.Supplier{
		{ID: "SUP-1", Name: "Arvind Mills", Currency: "USD", CreditTerms: "60 days"},
		{ID: "SUP-2", Name: "Coats", Currency: "USD", CreditTerms: "30 days"},
		{ID: "SUP-3", Name: "YKK", Currency: "USD", CreditTerms: "Advance"},
	}
}

// BuildRepositories returns memory repositories seeded with both jobs and
// the reference suppliers
func BuildRepositories() (*memory.JobRepository, *memory.PurchaseOrderRepository, *memory.PartnerRepository) {
	jobRepo := memory.NewJobRepository(2)
	if err := jobRepo.LoadJobs([]*entities.JobBatch{SingleStyleJob(), TwoStyleJob()}); err != nil {
		panic(err)
	}
	partnerRepo := memory.NewPartnerRepository()
	if err := partnerRepo.LoadSuppliers(Suppliers()); err != nil {
		panic(err)
	}
	return jobRepo, memory.NewPurchaseOrderRepository(), partnerRepo
}

func request(id, jobID string, dept entities.Department, material, supplier, unit, qty, price string, packing entities.PackingFactor, variants ...entities.VariantQty) entities.PurchasingRequest {
	r, err := entities.NewPurchasingRequest(id, jobID, material, decimal.RequireFromString(qty), unit, supplier, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	r.Department = dept
	r.ReferencePrice = decimal.RequireFromString(price)
	r.Packing = packing
	r.Variants = variants
	r.Breakdown = entities.FormatBreakdown(variants)
	return *r
}

func variant(label, qty string) entities.VariantQty {
	return entities.VariantQty{Label: label, Quantity: decimal.RequireFromString(qty)}
}

// JobsWithRequests returns both reference jobs with fabric and trims
// requests already issued:
//
//	JOB-1: R1 Denim 12oz 1861 m (Arvind Mills), R2 Pocketing 200 m (Arvind
//	       Mills, Regular/Plus), R3 Shank Button 1890 pcs (YKK)
//	JOB-2: R4 Denim 12oz 945 m (Arvind Mills, Black/Stone)
func JobsWithRequests() []*entities.JobBatch {
	roll := entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(50), PackingUnit: "roll"}
	gross := entities.PackingFactor{UnitsPerPack: decimal.NewFromInt(144), PackingUnit: "gross"}

	first := SingleStyleJob()
	first.Plans[entities.DeptFabric] = entities.PlanApproved
	first.Plans[entities.DeptTrims] = entities.PlanApproved
	first.PurchasingRequests = []entities.PurchasingRequest{
		request("R1", first.ID, entities.DeptFabric, "Denim 12oz", "Arvind Mills", "m", "1861", "4.20", roll),
		request("R2", first.ID, entities.DeptFabric, "Pocketing", "Arvind Mills", "m", "200", "1.10", entities.PackingFactor{},
			variant("Regular", "120"), variant("Plus", "80")),
		request("R3", first.ID, entities.DeptTrims, "Shank Button", "YKK", "pcs", "1890", "0.05", gross),
	}

	second := TwoStyleJob()
	second.Plans[entities.DeptFabric] = entities.PlanApproved
	second.PurchasingRequests = []entities.PurchasingRequest{
		request("R4", second.ID, entities.DeptFabric, "Denim 12oz", "Arvind Mills", "m", "945", "4.00", roll,
			variant("Black", "441"), variant("Stone", "504")),
	}
	return []*entities.JobBatch{first, second}
}

// BuildPurchasingRepositories returns memory repositories seeded with
// JobsWithRequests and the reference suppliers
func BuildPurchasingRepositories() (*memory.JobRepository, *memory.PurchaseOrderRepository, *memory.PartnerRepository) {
	jobRepo := memory.NewJobRepository(2)
	if err := jobRepo.LoadJobs(JobsWithRequests()); err != nil {
		panic(err)
	}
	partnerRepo := memory.NewPartnerRepository()
	if err := partnerRepo.LoadSuppliers(Suppliers()); err != nil {
		panic(err)
	}
	return jobRepo, memory.NewPurchaseOrderRepository(), partnerRepo
}
