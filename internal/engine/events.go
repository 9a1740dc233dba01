package engine

import "github.com/ellas-cupcakery/storefront/internal/domain"

// Field identifies which tracked order field a transition was observed on
type Field string

const (
	FieldStatus        Field = "status"
	FieldPaymentStatus Field = "payment_status"
)

// TransitionKind classifies a detected transition
type TransitionKind string

const (
	// KindStatusChanged is any status change not covered by a more
	// specific kind
	KindStatusChanged TransitionKind = "status_changed"

	// KindPaymentChanged is any payment status change not covered by a
	// more specific kind
	KindPaymentChanged TransitionKind = "payment_changed"

	// KindPaymentConfirmed fires when an order leaves Pending Payment for
	// Processing or Out for Delivery: the operator confirmed payment
	KindPaymentConfirmed TransitionKind = "payment_confirmed"

	// KindPaymentClaimed fires when a customer flags an order they are
	// still waiting on as paid
	KindPaymentClaimed TransitionKind = "payment_claimed"
)

// Transition represents a single observed (from, to) change of one field
// between two consecutive reconciled views of the same order
type Transition struct {
	OrderID string
	Field   Field
	From    string
	To      string
	Kind    TransitionKind

	// Order is the record as of the view that produced the transition
	Order domain.Order
}

// Effector performs the one-shot side effects transitions trigger. The
// detector guarantees at most one call per genuine transition per cycle;
// implementations only need to be safe to call, not idempotent.
type Effector interface {
	Celebrate(orderID string)
	PlayAlertSound()
	PostAssistantMessage(orderID, text string)
	SetAlertCount(n int)
}

// Preferences gates the cosmetic effects without ever suppressing
// detection or state bookkeeping
type Preferences interface {
	CelebrationsEnabled() bool
}

// NoopEffector discards all effects. Surfaces that only consume the view
// use it in place of a real effector.
type NoopEffector struct{}

func (NoopEffector) Celebrate(string)                 {}
func (NoopEffector) PlayAlertSound()                  {}
func (NoopEffector) PostAssistantMessage(_, _ string) {}
func (NoopEffector) SetAlertCount(int)                {}

// OperatorEffects passes through only the operator-facing effects: the
// alert sound and the attention badge. Celebration and assistant chat
// belong to the customer surface and are discarded here.
type OperatorEffects struct {
	Effector
}

func (OperatorEffects) Celebrate(string)                 {}
func (OperatorEffects) PostAssistantMessage(_, _ string) {}

// CustomerEffects passes through only the customer-facing effects:
// celebration and assistant chat. The operator alert sound and badge are
// discarded so a customer's own unpaid order never rings the admin bell
// on their terminal.
type CustomerEffects struct {
	Effector
}

func (CustomerEffects) PlayAlertSound()   {}
func (CustomerEffects) SetAlertCount(int) {}
