package entities

import (
	"fmt"
)

// Color is one colorway (or wash) of a style
type Color struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// SizeGroup is an ordered size run with its color x size quantity matrix.
// Breakdown is keyed by color ID, then by size.
type SizeGroup struct {
	Name      string                         `yaml:"name" json:"name"`
	Sizes     []string                       `yaml:"sizes" json:"sizes"`
	Breakdown map[string]map[string]Quantity `yaml:"breakdown" json:"breakdown"`
}

// Total returns the sum of every cell in the group
func (g SizeGroup) Total() Quantity {
	var total Quantity
	for _, row := range g.Breakdown {
		for _, qty := range row {
			if qty > 0 {
				total += qty
			}
		}
	}
	return total
}

// Clone returns a copy with its own size list and breakdown maps
func (g SizeGroup) Clone() SizeGroup {
	g.Sizes = append([]string(nil), g.Sizes...)
	if g.Breakdown != nil {
		breakdown := make(map[string]map[string]Quantity, len(g.Breakdown))
		for color, row := range g.Breakdown {
			r := make(map[string]Quantity, len(row))
			for size, qty := range row {
				r[size] = qty
			}
			breakdown[color] = r
		}
		g.Breakdown = breakdown
	}
	return g
}

// ColorTotal returns the sum of one color's row
func (g SizeGroup) ColorTotal(colorID string) Quantity {
	var total Quantity
	for _, qty := range g.Breakdown[colorID] {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// Embellishment is an outsourced decoration process applied to a style
type Embellishment struct {
	Process   string `yaml:"process" json:"process"`
	Placement string `yaml:"placement" json:"placement"`
	Vendor    string `yaml:"vendor" json:"vendor"`
}

// Style is a garment style on an order
type Style struct {
	ID             string          `yaml:"id" json:"id"`
	StyleNumber    string          `yaml:"style_number" json:"styleNumber"`
	Buyer          string          `yaml:"buyer" json:"buyer"`
	Description    string          `yaml:"description" json:"description"`
	Quantity       Quantity        `yaml:"quantity" json:"quantity"`
	Colors         []Color         `yaml:"colors" json:"colors"`
	SizeGroups     []SizeGroup     `yaml:"size_groups" json:"sizeGroups"`
	BOM            []BOMItem       `yaml:"-" json:"bom"`
	Embellishments []Embellishment `yaml:"embellishments" json:"embellishments"`
}

// Clone returns a copy sharing no slices or maps with s
func (s Style) Clone() Style {
	s.Colors = append([]Color(nil), s.Colors...)
	s.Embellishments = append([]Embellishment(nil), s.Embellishments...)
	if s.SizeGroups != nil {
		groups := make([]SizeGroup, len(s.SizeGroups))
		for i, g := range s.SizeGroups {
			groups[i] = g.Clone()
		}
		s.SizeGroups = groups
	}
	if s.BOM != nil {
		bom := make([]BOMItem, len(s.BOM))
		for i, item := range s.BOM {
			item.Usage = CloneUsage(item.Usage)
			bom[i] = item
		}
		s.BOM = bom
	}
	return s
}

// NewStyle creates a validated Style
func NewStyle(id, styleNumber string, quantity Quantity) (*Style, error) {
	if id == "" {
		return nil, fmt.Errorf("style id cannot be empty")
	}
	if styleNumber == "" {
		return nil, fmt.Errorf("style number cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("style quantity cannot be negative, got %d", quantity)
	}
	return &Style{ID: id, StyleNumber: styleNumber, Quantity: quantity}, nil
}

// BreakdownTotal sums every size group of the style
func (s *Style) BreakdownTotal() Quantity {
	var total Quantity
	for _, g := range s.SizeGroups {
		total += g.Total()
	}
	return total
}

// OrderQuantity is the quantity trims are planned against: the breakdown
// total, or the style quantity when no breakdown was entered.
func (s *Style) OrderQuantity() Quantity {
	if total := s.BreakdownTotal(); total > 0 {
		return total
	}
	return s.Quantity
}

// SizeQuantities sums each size across every size group and color
func (s *Style) SizeQuantities() map[string]Quantity {
	sizes := make(map[string]Quantity)
	for _, g := range s.SizeGroups {
		for _, row := range g.Breakdown {
			for size, qty := range row {
				if qty > 0 {
					sizes[size] += qty
				}
			}
		}
	}
	return sizes
}

// OrderedSizes lists distinct sizes in size-group order
func (s *Style) OrderedSizes() []string {
	seen := make(map[string]bool)
	var sizes []string
	for _, g := range s.SizeGroups {
		for _, size := range g.Sizes {
			if !seen[size] {
				seen[size] = true
				sizes = append(sizes, size)
			}
		}
	}
	return sizes
}

// ColorQuantities sums each color's rows across size groups, keyed by color name
func (s *Style) ColorQuantities() map[string]Quantity {
	colors := make(map[string]Quantity, len(s.Colors))
	for _, c := range s.Colors {
		for _, g := range s.SizeGroups {
			colors[c.Name] += g.ColorTotal(c.ID)
		}
	}
	return colors
}

// ColorByID finds a color of the style
func (s *Style) ColorByID(id string) (Color, bool) {
	for _, c := range s.Colors {
		if c.ID == id {
			return c, true
		}
	}
	return Color{}, false
}
