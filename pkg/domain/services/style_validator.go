package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

// StyleValidator checks style sheets for data entry mistakes that do not
// block planning but usually produce wrong quantities
type StyleValidator struct{}

// NewStyleValidator creates a new style validator
func NewStyleValidator() *StyleValidator {
	return &StyleValidator{}
}

// Issue is one finding against a style
type Issue struct {
	StyleID string `json:"styleId"`
	LineID  string `json:"lineId,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.LineID == "" {
		return fmt.Sprintf("%s: %s", i.StyleID, i.Message)
	}
	return fmt.Sprintf("%s/%s: %s", i.StyleID, i.LineID, i.Message)
}

// ValidationResult contains the findings of a validation run
type ValidationResult struct {
	BreakdownMismatches []Issue
	UnmatchedUsageKeys  []Issue
	DuplicateLines      []Issue
	UnknownColors       []Issue
}

// Issues returns every finding in a stable order
func (r *ValidationResult) Issues() []Issue {
	var all []Issue
	all = append(all, r.BreakdownMismatches...)
	all = append(all, r.UnknownColors...)
	all = append(all, r.UnmatchedUsageKeys...)
	all = append(all, r.DuplicateLines...)
	return all
}

// HasIssues reports whether anything was found
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues()) > 0
}

// ValidateJob validates every style of a job
func (v *StyleValidator) ValidateJob(job *entities.JobBatch) *ValidationResult {
	result := &ValidationResult{}
	for i := range job.Styles {
		v.validate(&job.Styles[i], result)
	}
	return result
}

// ValidateStyle validates a single style
func (v *StyleValidator) ValidateStyle(style *entities.Style) *ValidationResult {
	result := &ValidationResult{}
	v.validate(style, result)
	return result
}

func (v *StyleValidator) validate(style *entities.Style, result *ValidationResult) {
	if total := style.BreakdownTotal(); total > 0 && total != style.Quantity {
		result.BreakdownMismatches = append(result.BreakdownMismatches, Issue{
			StyleID: style.ID,
			Message: fmt.Sprintf("size breakdown totals %d but style quantity is %d", total, style.Quantity),
		})
	}

	colorIDs := make(map[string]bool, len(style.Colors))
	colorNames := make(map[string]bool, len(style.Colors))
	for _, c := range style.Colors {
		colorIDs[c.ID] = true
		colorNames[c.Name] = true
	}
	groups := make(map[string]bool, len(style.SizeGroups))
	sizes := make(map[string]bool)
	for _, g := range style.SizeGroups {
		groups[g.Name] = true
		for _, s := range g.Sizes {
			sizes[s] = true
		}
		rows := make([]string, 0, len(g.Breakdown))
		for colorID := range g.Breakdown {
			rows = append(rows, colorID)
		}
		sort.Strings(rows)
		for _, colorID := range rows {
			if !colorIDs[colorID] {
				result.UnknownColors = append(result.UnknownColors, Issue{
					StyleID: style.ID,
					Message: fmt.Sprintf("size group %s has quantities for unknown color %s", g.Name, colorID),
				})
			}
		}
	}

	seen := make(map[string]string, len(style.BOM))
	for _, line := range style.BOM {
		key := entities.DemandKey(line.MaterialName(), line.Vendor)
		if first, ok := seen[key]; ok {
			result.DuplicateLines = append(result.DuplicateLines, Issue{
				StyleID: style.ID,
				LineID:  line.ID,
				Message: fmt.Sprintf("%s from %s repeats line %s", line.MaterialName(), line.VendorOrUnknown(), first),
			})
		} else {
			seen[key] = line.ID
		}

		for _, key := range unmatchedKeys(line.Usage, groups, sizes, colorNames) {
			result.UnmatchedUsageKeys = append(result.UnmatchedUsageKeys, Issue{
				StyleID: style.ID,
				LineID:  line.ID,
				Message: fmt.Sprintf("%s usage key %q matches nothing on the style", line.Usage.Rule(), key),
			})
		}
	}
}

// unmatchedKeys lists the usage keys that no size group, size or color of
// the style answers to
func unmatchedKeys(usage entities.Usage, groups, sizes, colors map[string]bool) []string {
	var rates entities.Rates
	var known func(string) bool
	switch u := usage.(type) {
	case entities.SizeGroupUsage:
		rates, known = u.Rates, func(k string) bool { return groups[k] }
	case entities.IndividualSizeUsage:
		rates, known = u.Rates, func(k string) bool { return sizes[k] }
	case entities.ColorUsage:
		rates, known = u.Rates, func(k string) bool { return colors[k] }
	case entities.CustomGroupUsage:
		rates, known = u.Rates, func(k string) bool {
			for _, s := range entities.SplitSizeList(k) {
				if !sizes[s] {
					return false
				}
			}
			return strings.TrimSpace(k) != ""
		}
	default:
		return nil
	}

	var out []string
	for _, k := range rates.Keys() {
		if !known(k) {
			out = append(out, k)
		}
	}
	return out
}
