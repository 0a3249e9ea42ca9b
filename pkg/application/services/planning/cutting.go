package planning

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/garmentmrp/pkg/domain/entities"
)

// CuttingFinal adds the extra cutting allowance to one cell and rounds up
func CuttingFinal(base entities.Quantity, extraPercent decimal.Decimal) entities.Quantity {
	if base <= 0 {
		return 0
	}
	final := decimal.NewFromInt(int64(base)).Mul(entities.Percent(extraPercent)).Ceil()
	if final.IsNegative() {
		return 0
	}
	return entities.Quantity(final.IntPart())
}

// DailyTarget spreads grand over the inclusive number of calendar days
// between start and finish, never fewer than one
func DailyTarget(grand entities.Quantity, start, finish time.Time) entities.Quantity {
	if grand <= 0 {
		return 0
	}
	days := int64(calendarDays(start, finish)) + 1
	if days < 1 {
		days = 1
	}
	return entities.Quantity((int64(grand) + days - 1) / days)
}

func calendarDays(start, finish time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	f := time.Date(finish.Year(), finish.Month(), finish.Day(), 0, 0, 0, 0, time.UTC)
	return int(f.Sub(s).Hours() / 24)
}

// CuttingSchedule holds the cutting window and its stored daily target
type CuttingSchedule struct {
	Start       time.Time         `json:"start"`
	Finish      time.Time         `json:"finish"`
	DailyTarget entities.Quantity `json:"dailyTarget"`
}

// Sync recomputes the daily target for grand and stores it only if it
// differs from the stored value. It reports whether a write happened.
func (s *CuttingSchedule) Sync(grand entities.Quantity) bool {
	target := DailyTarget(grand, s.Start, s.Finish)
	if target == s.DailyTarget {
		return false
	}
	s.DailyTarget = target
	return true
}

// CuttingSheet is the size grid of one style shade
type CuttingSheet struct {
	StyleID string                 `json:"styleId"`
	ColorID string                 `json:"colorId"`
	Shade   string                 `json:"shade"`
	Cells   []entities.CuttingCell `json:"cells"`
}

// Total sums the final quantities of the sheet
func (s CuttingSheet) Total() entities.Quantity {
	var total entities.Quantity
	for _, c := range s.Cells {
		total += c.Final
	}
	return total
}

// CuttingPlan is the editable cutting plan of a job
type CuttingPlan struct {
	ExtraPercent decimal.Decimal `json:"extraPercent"`
	Sheets       []CuttingSheet  `json:"sheets"`
	Schedule     CuttingSchedule `json:"schedule"`
}

// NewCuttingPlan lays out one sheet per style color with a cell per size
// that has ordered quantity, then applies extraPercent and syncs the
// schedule
func NewCuttingPlan(styles []entities.Style, extraPercent decimal.Decimal, start, finish time.Time) *CuttingPlan {
	p := &CuttingPlan{
		ExtraPercent: extraPercent,
		Schedule:     CuttingSchedule{Start: start, Finish: finish},
	}

	for si := range styles {
		style := &styles[si]
		sizes := style.OrderedSizes()
		for _, color := range style.Colors {
			sheet := CuttingSheet{StyleID: style.ID, ColorID: color.ID, Shade: color.Name}
			for _, size := range sizes {
				var base entities.Quantity
				for _, g := range style.SizeGroups {
					if qty := g.Breakdown[color.ID][size]; qty > 0 {
						base += qty
					}
				}
				if base == 0 {
					continue
				}
				sheet.Cells = append(sheet.Cells, entities.CuttingCell{Size: size, Base: base})
			}
			if len(sheet.Cells) > 0 {
				p.Sheets = append(p.Sheets, sheet)
			}
		}
	}

	p.Apply(extraPercent)
	return p
}

// Apply recomputes every cell's final quantity independently and resyncs the
// daily target. It reports whether the stored daily target changed.
func (p *CuttingPlan) Apply(extraPercent decimal.Decimal) bool {
	p.ExtraPercent = extraPercent
	for i := range p.Sheets {
		for j := range p.Sheets[i].Cells {
			cell := &p.Sheets[i].Cells[j]
			cell.Final = CuttingFinal(cell.Base, extraPercent)
		}
	}
	return p.Schedule.Sync(p.GrandTotal())
}

// Reschedule moves the cutting window and resyncs the daily target
func (p *CuttingPlan) Reschedule(start, finish time.Time) bool {
	p.Schedule.Start = start
	p.Schedule.Finish = finish
	return p.Schedule.Sync(p.GrandTotal())
}

// GrandTotal sums every sheet
func (p *CuttingPlan) GrandTotal() entities.Quantity {
	var total entities.Quantity
	for _, s := range p.Sheets {
		total += s.Total()
	}
	return total
}

// Details converts the plan into the records stored on the job
func (p *CuttingPlan) Details() []entities.CuttingPlanDetail {
	details := make([]entities.CuttingPlanDetail, 0, len(p.Sheets))
	for _, s := range p.Sheets {
		details = append(details, entities.CuttingPlanDetail{
			StyleID:     s.StyleID,
			Shade:       s.Shade,
			Cells:       append([]entities.CuttingCell(nil), s.Cells...),
			Start:       p.Schedule.Start,
			Finish:      p.Schedule.Finish,
			DailyTarget: p.Schedule.DailyTarget,
		})
	}
	return details
}
