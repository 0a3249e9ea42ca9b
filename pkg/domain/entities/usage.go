package entities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// UsageRule names the dimension along which consumption varies
type UsageRule string

const (
	RuleGeneric        UsageRule = "Generic"
	RuleBySizeGroup    UsageRule = "By Size Group"
	RuleByIndividual   UsageRule = "By Individual Sizes"
	RuleByColor        UsageRule = "By Color/Wash"
	RuleCustomGrouping UsageRule = "Configure your own"
)

// Usage is the consumption rule of a BOM line. The implementations
// are GenericUsage, SizeGroupUsage, IndividualSizeUsage, ColorUsage and
// CustomGroupUsage.
type Usage interface {
	Rule() UsageRule
	// Values returns the per-unit rates in key order
	Values() []decimal.Decimal
	usage()
}

// Rates maps a dimension label to a consumption-per-garment rate
type Rates map[string]decimal.Decimal

// Keys returns the labels sorted
func (r Rates) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Rates) clone() Rates {
	if r == nil {
		return nil
	}
	c := make(Rates, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

func (r Rates) values() []decimal.Decimal {
	var out []decimal.Decimal
	for _, k := range r.Keys() {
		out = append(out, r[k])
	}
	return out
}

// GenericUsage consumes the same amount for every garment
type GenericUsage struct {
	Rate decimal.Decimal `json:"rate"`
}

// SizeGroupUsage consumes per size group name
type SizeGroupUsage struct {
	Rates Rates `json:"rates"`
}

// IndividualSizeUsage consumes per size
type IndividualSizeUsage struct {
	Rates Rates `json:"rates"`
}

// ColorUsage consumes per color (or wash) name
type ColorUsage struct {
	Rates Rates `json:"rates"`
}

// CustomGroupUsage consumes per user-defined size list, keyed by the
// comma-joined sizes ("S,M")
type CustomGroupUsage struct {
	Rates Rates `json:"rates"`
}

func (GenericUsage) Rule() UsageRule        { return RuleGeneric }
func (SizeGroupUsage) Rule() UsageRule      { return RuleBySizeGroup }
func (IndividualSizeUsage) Rule() UsageRule { return RuleByIndividual }
func (ColorUsage) Rule() UsageRule          { return RuleByColor }
func (CustomGroupUsage) Rule() UsageRule    { return RuleCustomGrouping }

func (u GenericUsage) Values() []decimal.Decimal        { return []decimal.Decimal{u.Rate} }
func (u SizeGroupUsage) Values() []decimal.Decimal      { return u.Rates.values() }
func (u IndividualSizeUsage) Values() []decimal.Decimal { return u.Rates.values() }
func (u ColorUsage) Values() []decimal.Decimal          { return u.Rates.values() }
func (u CustomGroupUsage) Values() []decimal.Decimal    { return u.Rates.values() }

func (GenericUsage) usage()        {}
func (SizeGroupUsage) usage()      {}
func (IndividualSizeUsage) usage() {}
func (ColorUsage) usage()          {}
func (CustomGroupUsage) usage()    {}

// CloneUsage returns a copy of u that shares no rate map with it
func CloneUsage(u Usage) Usage {
	switch v := u.(type) {
	case SizeGroupUsage:
		return SizeGroupUsage{Rates: v.Rates.clone()}
	case IndividualSizeUsage:
		return IndividualSizeUsage{Rates: v.Rates.clone()}
	case ColorUsage:
		return ColorUsage{Rates: v.Rates.clone()}
	case CustomGroupUsage:
		return CustomGroupUsage{Rates: v.Rates.clone()}
	default:
		return u
	}
}

// UsageData is the inverse of NewUsage: the rule's rates as strings keyed
// the way they are entered. A generic rate is keyed "generic".
func UsageData(u Usage) map[string]string {
	data := make(map[string]string)
	switch v := u.(type) {
	case nil:
		return nil
	case GenericUsage:
		data["generic"] = v.Rate.String()
	case SizeGroupUsage:
		v.Rates.writeTo(data)
	case IndividualSizeUsage:
		v.Rates.writeTo(data)
	case ColorUsage:
		v.Rates.writeTo(data)
	case CustomGroupUsage:
		v.Rates.writeTo(data)
	}
	return data
}

func (r Rates) writeTo(data map[string]string) {
	for k, v := range r {
		data[k] = v.String()
	}
}

// SplitSizeList splits a custom grouping key into its sizes
func SplitSizeList(key string) []string {
	var sizes []string
	for _, part := range strings.Split(key, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sizes = append(sizes, part)
		}
	}
	return sizes
}

// NewUsage builds a Usage from loosely typed usage data as entered on a BOM
// sheet. Values that do not parse as numbers become zero; only an unknown
// rule is an error.
func NewUsage(rule UsageRule, data map[string]string) (Usage, error) {
	rates := make(Rates, len(data))
	for k, v := range data {
		rates[k] = NonNegative(ParseAmount(v))
	}

	switch rule {
	case RuleGeneric, "":
		return GenericUsage{Rate: rates["generic"]}, nil
	case RuleBySizeGroup:
		return SizeGroupUsage{Rates: rates}, nil
	case RuleByIndividual:
		return IndividualSizeUsage{Rates: rates}, nil
	case RuleByColor:
		return ColorUsage{Rates: rates}, nil
	case RuleCustomGrouping:
		return CustomGroupUsage{Rates: rates}, nil
	default:
		return nil, fmt.Errorf("unknown usage rule: %q", rule)
	}
}
