package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Recorder counts back-office commands. A nil Recorder, or one built with a
// nil registerer, records nothing.
type Recorder struct {
	plansIssued   *prometheus.CounterVec
	plansReverted *prometheus.CounterVec
	ordersIssued  *prometheus.CounterVec
	orderValue    *prometheus.CounterVec
	ordersClosed  prometheus.Counter
	receptions    prometheus.Counter
	stageOutput   *prometheus.CounterVec
	refusals      *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}
	r := &Recorder{
		plansIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_plans_issued_total",
			Help: "Department plans issued.",
		}, []string{"department"}),
		plansReverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_plans_reverted_total",
			Help: "Department plans reverted to pending creation.",
		}, []string{"department"}),
		ordersIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_purchase_orders_issued_total",
			Help: "Purchase orders issued.",
		}, []string{"currency"}),
		orderValue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_purchase_order_value_total",
			Help: "Total value of issued purchase orders.",
		}, []string{"currency"}),
		ordersClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmrp_purchase_orders_closed_total",
			Help: "Purchase orders fully received.",
		}),
		receptions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmrp_receptions_total",
			Help: "Material receptions recorded.",
		}),
		stageOutput: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_stage_output_pieces_total",
			Help: "Garment pieces recorded per production stage.",
		}, []string{"stage"}),
		refusals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gmrp_commands_refused_total",
			Help: "Commands refused, by error code.",
		}, []string{"command", "code"}),
	}
	reg.MustRegister(r.plansIssued, r.plansReverted, r.ordersIssued, r.orderValue,
		r.ordersClosed, r.receptions, r.stageOutput, r.refusals)
	return r
}

func (r *Recorder) PlanIssued(department string) {
	if r == nil || r.plansIssued == nil {
		return
	}
	r.plansIssued.WithLabelValues(normalizeLabel(department)).Inc()
}

func (r *Recorder) PlanReverted(department string) {
	if r == nil || r.plansReverted == nil {
		return
	}
	r.plansReverted.WithLabelValues(normalizeLabel(department)).Inc()
}

func (r *Recorder) OrderIssued(currency string, total decimal.Decimal) {
	if r == nil || r.ordersIssued == nil {
		return
	}
	r.ordersIssued.WithLabelValues(normalizeLabel(currency)).Inc()
	r.orderValue.WithLabelValues(normalizeLabel(currency)).Add(total.InexactFloat64())
}

func (r *Recorder) OrderClosed() {
	if r == nil || r.ordersClosed == nil {
		return
	}
	r.ordersClosed.Inc()
}

func (r *Recorder) ReceptionRecorded() {
	if r == nil || r.receptions == nil {
		return
	}
	r.receptions.Inc()
}

func (r *Recorder) StageOutput(stage string, pieces int64) {
	if r == nil || r.stageOutput == nil || pieces <= 0 {
		return
	}
	r.stageOutput.WithLabelValues(normalizeLabel(stage)).Add(float64(pieces))
}

// Refused counts a rejected command under its error code
func (r *Recorder) Refused(command, code string) {
	if r == nil || r.refusals == nil {
		return
	}
	r.refusals.WithLabelValues(normalizeLabel(command), normalizeLabel(code)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
