package engine

import "github.com/ellas-cupcakery/storefront/internal/domain"

// observed is the per-order memory the detector keeps across poll cycles
type observed struct {
	status  domain.OrderStatus
	payment domain.PaymentStatus
}

// Observation is the result of one detection cycle: the edge-triggered
// transitions plus the level-triggered alert count. The two must not be
// conflated: transitions fire once per change, the alert level is
// recomputed fresh every cycle.
type Observation struct {
	Transitions []Transition
	AlertLevel  int
}

// Detector compares consecutive reconciled views of the tracked orders and
// fires a transition once per distinguishable (from, to) change. It is
// owned by a single surface and is not safe for concurrent use.
type Detector struct {
	prev map[string]observed
}

// NewDetector creates a detector with no baseline
func NewDetector() *Detector {
	return &Detector{prev: make(map[string]observed)}
}

// Observe consumes the new merged view. Orders seen for the first time
// only establish a baseline; orders that disappeared from the view have
// their tracking cleared so a stale comparison can never leak into a
// future cycle.
func (d *Detector) Observe(orders map[string]domain.Order) Observation {
	var obs Observation

	for id, order := range orders {
		last, seen := d.prev[id]
		if seen {
			if last.status != order.Status {
				obs.Transitions = append(obs.Transitions, Transition{
					OrderID: id,
					Field:   FieldStatus,
					From:    string(last.status),
					To:      string(order.Status),
					Kind:    classifyStatus(last.status, order.Status),
					Order:   order,
				})
			}
			if last.payment != order.PaymentStatus {
				obs.Transitions = append(obs.Transitions, Transition{
					OrderID: id,
					Field:   FieldPaymentStatus,
					From:    string(last.payment),
					To:      string(order.PaymentStatus),
					Kind:    classifyPayment(order),
					Order:   order,
				})
			}
		}
		d.prev[id] = observed{status: order.Status, payment: order.PaymentStatus}

		if needsOperatorAttention(order) {
			obs.AlertLevel++
		}
	}

	for id := range d.prev {
		if _, ok := orders[id]; !ok {
			delete(d.prev, id)
		}
	}

	return obs
}

func classifyStatus(from, to domain.OrderStatus) TransitionKind {
	if from == domain.StatusPendingPayment &&
		(to == domain.StatusProcessing || to == domain.StatusOutForDelivery) {
		return KindPaymentConfirmed
	}
	return KindStatusChanged
}

func classifyPayment(order domain.Order) TransitionKind {
	if order.PaymentStatus == domain.PaymentClaimed && order.Status == domain.StatusPendingPayment {
		return KindPaymentClaimed
	}
	return KindPaymentChanged
}

// needsOperatorAttention implements the alert-level rule: a customer claims
// payment, or an order sits unpaid in Pending Payment
func needsOperatorAttention(order domain.Order) bool {
	if order.PaymentStatus == domain.PaymentClaimed {
		return true
	}
	return order.Status == domain.StatusPendingPayment && order.PaymentStatus != domain.PaymentPaid
}
