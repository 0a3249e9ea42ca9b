package scenario

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Scenario is a set of jobs read from one YAML file
type Scenario struct {
	Name string
	Jobs []*entities.JobBatch
}

type scenarioDoc struct {
	Name string   `yaml:"name"`
	Jobs []jobDoc `yaml:"jobs"`
}

type jobDoc struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	ExFactoryDate string     `yaml:"ex_factory_date"`
	Styles        []styleDoc `yaml:"styles"`
}

type styleDoc struct {
	entities.Style `yaml:",inline"`
	BOM            []bomDoc `yaml:"bom"`
}

type bomDoc struct {
	ID             string            `yaml:"id"`
	Component      string            `yaml:"component"`
	Detail         string            `yaml:"detail"`
	ProcessGroup   string            `yaml:"process_group"`
	Vendor         string            `yaml:"vendor"`
	Unit           string            `yaml:"unit"`
	UsageRule      string            `yaml:"usage_rule"`
	Usage          map[string]string `yaml:"usage"`
	WastagePercent string            `yaml:"wastage_percent"`
	UnitsPerPack   string            `yaml:"units_per_pack"`
	PackingUnit    string            `yaml:"packing_unit"`
	UnitPrice      string            `yaml:"unit_price"`
}

// Loader reads job scenarios from YAML
type Loader struct{}

// NewLoader creates a new scenario loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses a scenario file
func (l *Loader) LoadFile(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file %s: %w", filename, err)
	}
	return l.Parse(data)
}

// Parse builds jobs from scenario YAML. Amounts are read the way they are
// typed on a BOM sheet: anything that is not a number counts as zero.
func (l *Loader) Parse(data []byte) (*Scenario, error) {
	var doc scenarioDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(doc.Jobs) == 0 {
		return nil, fmt.Errorf("scenario must contain at least one job")
	}

	scenario := &Scenario{Name: doc.Name}
	seen := make(map[string]bool, len(doc.Jobs))
	for i, jd := range doc.Jobs {
		job, err := buildJob(jd)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i+1, err)
		}
		if seen[job.ID] {
			return nil, fmt.Errorf("job %d: duplicate job id %s", i+1, job.ID)
		}
		seen[job.ID] = true
		scenario.Jobs = append(scenario.Jobs, job)
	}
	return scenario, nil
}

func buildJob(jd jobDoc) (*entities.JobBatch, error) {
	var exFactory time.Time
	if jd.ExFactoryDate != "" {
		d, err := time.Parse(dateLayout, strings.TrimSpace(jd.ExFactoryDate))
		if err != nil {
			return nil, fmt.Errorf("invalid ex-factory date %q: %w", jd.ExFactoryDate, err)
		}
		exFactory = d
	}

	styles := make([]entities.Style, 0, len(jd.Styles))
	for i, sd := range jd.Styles {
		style, err := buildStyle(sd)
		if err != nil {
			return nil, fmt.Errorf("style %d: %w", i+1, err)
		}
		styles = append(styles, style)
	}

	return entities.NewJobBatch(jd.ID, jd.Name, styles, exFactory)
}

func buildStyle(sd styleDoc) (entities.Style, error) {
	base, err := entities.NewStyle(sd.ID, sd.StyleNumber, sd.Quantity)
	if err != nil {
		return entities.Style{}, err
	}
	style := sd.Style
	style.ID, style.StyleNumber, style.Quantity = base.ID, base.StyleNumber, base.Quantity

	for i, bd := range sd.BOM {
		item, err := buildBOMItem(bd)
		if err != nil {
			return entities.Style{}, fmt.Errorf("bom line %d: %w", i+1, err)
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("%s-%d", style.ID, i+1)
		}
		style.BOM = append(style.BOM, *item)
	}
	return style, nil
}

func buildBOMItem(bd bomDoc) (*entities.BOMItem, error) {
	usage, err := entities.NewUsage(entities.UsageRule(bd.UsageRule), bd.Usage)
	if err != nil {
		return nil, err
	}
	item, err := entities.NewBOMItem(bd.ID, bd.Component, entities.ProcessGroup(bd.ProcessGroup), bd.Vendor, bd.Unit, usage)
	if err != nil {
		return nil, err
	}
	item.Detail = bd.Detail
	item.WastagePercent = entities.NonNegative(entities.ParseAmount(bd.WastagePercent))
	item.UnitPrice = entities.NonNegative(entities.ParseAmount(bd.UnitPrice))
	item.Packing = entities.PackingFactor{
		UnitsPerPack: entities.NonNegative(entities.ParseAmount(bd.UnitsPerPack)),
		PackingUnit:  bd.PackingUnit,
	}
	return item, nil
}
