package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/services"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/interfaces/cli/output"
	"go.uber.org/zap"
)

// planned is the order the plan command previews departments in
var planned = []entities.Department{
	entities.DeptFabric, entities.DeptTrims, entities.DeptEmbellishment, entities.DeptCutting,
}

// Config holds configuration for the plan command
type Config struct {
	ScenarioFile  string
	SuppliersFile string
	ConfigFile    string
	OutputDir     string
	Format        string
	Verbose       bool
	Help          bool
	Out           io.Writer
}

// PlanCommand previews the department plans of every job in a scenario
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}
	if c.config.ScenarioFile == "" {
		return fmt.Errorf("validation error: must specify -scenario")
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.Log.Level
	if c.config.Verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	return c.run(ctx, app)
}

func (c *PlanCommand) run(ctx context.Context, app *App) error {
	log := app.Logger

	sc, err := app.LoadScenario(c.config.ScenarioFile)
	if err != nil {
		return fmt.Errorf("error loading scenario: %w", err)
	}
	log.Info("scenario loaded", zap.String("scenario", sc.Name), zap.Int("jobs", len(sc.Jobs)))

	if c.config.SuppliersFile != "" {
		suppliers, err := app.LoadSuppliers(c.config.SuppliersFile)
		if err != nil {
			return fmt.Errorf("error loading suppliers: %w", err)
		}
		log.Info("suppliers loaded", zap.Int("suppliers", len(suppliers)))
	}

	start := time.Now()
	validator := services.NewStyleValidator()
	report := &output.Report{Scenario: sc.Name, GeneratedAt: start}
	for _, job := range sc.Jobs {
		jobReport := output.JobReport{
			JobID:    job.ID,
			Name:     job.BatchName,
			TotalQty: job.TotalQty,
			Issues:   validator.ValidateJob(job).Issues(),
		}
		for _, dept := range planned {
			preview, err := app.Planner.Preview(ctx, job.ID, dept)
			if err != nil {
				return fmt.Errorf("error planning %s for job %s: %w", dept, job.ID, err)
			}
			if !hasLines(preview) {
				log.Debug("nothing to plan", zap.String("job_id", job.ID), zap.String("department", string(dept)))
				continue
			}
			jobReport.Previews = append(jobReport.Previews, preview)
		}
		report.Jobs = append(report.Jobs, jobReport)
	}
	report.Elapsed = time.Since(start)
	log.Debug("planning complete", zap.Duration("elapsed", report.Elapsed))

	err = output.Generate(report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Out:       c.config.Out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}

func hasLines(p *dto.PlanPreview) bool {
	return len(p.Materials) > 0 || len(p.Embellishments) > 0 || len(p.Cutting) > 0
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprint(c.config.Out, `garmentmrp - material planning and purchasing for garment production

USAGE:
    garmentmrp -scenario <file.yaml> [options]     # Preview department plans
    garmentmrp -serve [-scenario <file.yaml>]      # Run the HTTP API

OPTIONS:
    -scenario <file>    YAML scenario with jobs, styles and BOMs
    -suppliers <file>   Supplier reference data CSV
    -config <file>      Config file (default: ./garmentmrp.yaml if present)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable debug logging and timings
    -serve              Start the HTTP API instead of printing plans
    -token <subject>    Print an API token for subject and exit
    -role <role>        Role of the minted token: admin, operator (default: operator)
    -help               Show this help message

SCENARIO FORMAT:
    name: Spring 2025
    jobs:
      - id: JOB-1
        name: Spring Denim
        ex_factory_date: 2025-06-30
        styles:
          - id: ST-100
            style_number: JEAN-5P
            quantity: 1000
            colors: [{id: C1, name: Indigo}]
            size_groups:
              - name: Regular
                sizes: [S, M, L]
                breakdown: {C1: {S: 300, M: 400, L: 300}}
            bom:
              - component: Denim 12oz
                process_group: Fabric
                vendor: Arvind Mills
                unit: m
                usage_rule: Generic
                usage: {generic: 1.5}

suppliers.csv:
    id,name,address,currency,credit_terms,contact_name,contact_email,contact_phone
    SUP-1,Arvind Mills,Ahmedabad,USD,60 days,Meera,meera@arvind.example,+91 79 0000

ENVIRONMENT:
    GMRP_PLANNING_LOSS_PERCENT, GMRP_AUTH_SECRET, GMRP_HTTP_ADDR, ... override the config file

EXAMPLES:
    garmentmrp -scenario scenarios/spring.yaml -verbose
    garmentmrp -scenario scenarios/spring.yaml -format json -output results/
    GMRP_AUTH_SECRET=... garmentmrp -serve -scenario scenarios/spring.yaml
`)
}
