package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/garmentmrp/pkg/application/dto"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"github.com/vsinha/garmentmrp/pkg/domain/services"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Out       io.Writer
}

// JobReport is the planning summary of one job
type JobReport struct {
	JobID    string             `json:"jobId"`
	Name     string             `json:"name"`
	TotalQty entities.Quantity  `json:"totalQty"`
	Previews []*dto.PlanPreview `json:"plans"`
	Issues   []services.Issue   `json:"issues,omitempty"`
}

// Report is everything the CLI prints for a scenario
type Report struct {
	Scenario    string        `json:"scenario"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Jobs        []JobReport   `json:"jobs"`
	Elapsed     time.Duration `json:"-"`
}

// Generate creates output in the specified format
func Generate(report *Report, config Config) error {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *Report, config Config) error {
	w := config.Out
	fmt.Fprintf(w, "📊 Material Plan: %s\n", report.Scenario)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 17+len(report.Scenario)))
	if config.Verbose {
		fmt.Fprintf(w, "Planning Time: %v\n\n", report.Elapsed)
	}

	for _, job := range report.Jobs {
		fmt.Fprintf(w, "Job %s - %s (%d pcs)\n", job.JobID, job.Name, job.TotalQty)

		if len(job.Issues) > 0 {
			fmt.Fprintf(w, "⚠️  Style checks:\n")
			for _, issue := range job.Issues {
				fmt.Fprintf(w, "  %s\n", issue)
			}
		}

		for _, p := range job.Previews {
			switch {
			case len(p.Materials) > 0:
				writeMaterials(w, p)
			case len(p.Embellishments) > 0:
				writeEmbellishments(w, p)
			case len(p.Cutting) > 0:
				writeCutting(w, p)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeMaterials(w io.Writer, p *dto.PlanPreview) {
	fmt.Fprintf(w, "\n📋 %s plan (%s):\n", title(p.Department), p.Status)
	fmt.Fprintf(w, "%-28s %-16s %-6s %12s %12s  %s\n", "Material", "Vendor", "Unit", "Base", "Final", "Breakdown")
	fmt.Fprintf(w, "%-28s %-16s %-6s %12s %12s  %s\n",
		strings.Repeat("-", 28), strings.Repeat("-", 16), "------", strings.Repeat("-", 12), strings.Repeat("-", 12), "---------")
	for _, m := range p.Materials {
		fmt.Fprintf(w, "%-28s %-16s %-6s %12s %12s  %s\n",
			m.Item.MaterialName,
			m.Item.Vendor,
			m.Item.Unit,
			m.Item.BaseRequiredQty.StringFixed(2),
			m.FinalQty.String(),
			entities.FormatBreakdown(m.Variants))
	}
}

func writeEmbellishments(w io.Writer, p *dto.PlanPreview) {
	fmt.Fprintf(w, "\n🧵 %s plan (%s):\n", title(p.Department), p.Status)
	fmt.Fprintf(w, "%-12s %-14s %-16s %-16s %8s %8s\n", "Style", "Process", "Placement", "Vendor", "Base", "Final")
	for _, e := range p.Embellishments {
		fmt.Fprintf(w, "%-12s %-14s %-16s %-16s %8d %8s\n",
			e.StyleNumber, e.Process, e.Placement, e.Vendor, e.BaseQty, e.FinalQty.String())
	}
}

func writeCutting(w io.Writer, p *dto.PlanPreview) {
	fmt.Fprintf(w, "\n✂️  %s plan (%s):\n", title(p.Department), p.Status)
	for _, d := range p.Cutting {
		cells := make([]string, 0, len(d.Cells))
		var total entities.Quantity
		for _, c := range d.Cells {
			cells = append(cells, fmt.Sprintf("%s %d", c.Size, c.Final))
			total += c.Final
		}
		fmt.Fprintf(w, "  %s %-12s %s = %d (daily target %d, %s to %s)\n",
			d.StyleID, d.Shade, strings.Join(cells, " / "), total, d.DailyTarget,
			d.Start.Format("2006-01-02"), d.Finish.Format("2006-01-02"))
	}
}

func title(d entities.Department) string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *Report, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.Out, string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "material_plan.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Fprintf(config.Out, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one row per planned material
func generateCSVOutput(report *Report, config Config) error {
	out := config.Out
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "planned_materials.csv")
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer file.Close()
		out = file
		if config.Verbose {
			fmt.Fprintf(config.Out, "💾 CSV results saved to: %s\n", filename)
		}
	}

	if err := writeMaterialsCSV(out, report); err != nil {
		return fmt.Errorf("failed to write planned materials CSV: %w", err)
	}
	return nil
}

func writeMaterialsCSV(out io.Writer, report *Report) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"job_id", "department", "material", "vendor", "unit", "base_qty", "final_qty", "breakdown"}); err != nil {
		return err
	}
	for _, job := range report.Jobs {
		for _, p := range job.Previews {
			for _, m := range p.Materials {
				record := []string{
					job.JobID,
					string(p.Department),
					m.Item.MaterialName,
					m.Item.Vendor,
					m.Item.Unit,
					m.Item.BaseRequiredQty.StringFixed(2),
					m.FinalQty.String(),
					entities.FormatBreakdown(m.Variants),
				}
				if err := w.Write(record); err != nil {
					return err
				}
			}
		}
	}
	w.Flush()
	return w.Error()
}
