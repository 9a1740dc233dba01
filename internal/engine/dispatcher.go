package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher turns transitions and alert levels into one-shot side effects.
// It never re-fires for a transition already handled: the detector only
// delivers genuine edges, and the alert sound is gated on the level rising.
type Dispatcher struct {
	effector Effector
	prefs    Preferences
	logger   *zap.Logger

	prevAlert int
}

// NewDispatcher creates a dispatcher. A nil effector discards effects; a
// nil prefs leaves celebrations enabled.
func NewDispatcher(effector Effector, prefs Preferences, logger *zap.Logger) *Dispatcher {
	if effector == nil {
		effector = NoopEffector{}
	}
	return &Dispatcher{
		effector: effector,
		prefs:    prefs,
		logger:   logger,
	}
}

// HandleTransition performs the effects for a single transition
func (d *Dispatcher) HandleTransition(t Transition) {
	switch t.Kind {
	case KindPaymentConfirmed:
		msg := fmt.Sprintf("PAYMENT RECEIVED! Order confirmed. Current Status: %s.", t.To)
		if t.Order.PointsAwarded {
			msg += " You earned loyalty points!"
		}
		d.effector.PostAssistantMessage(t.OrderID, msg)

		if d.celebrationsEnabled() {
			d.effector.Celebrate(t.OrderID)
		}

	case KindPaymentClaimed:
		d.logger.Info("customer claimed payment",
			zap.String("order_id", t.OrderID),
		)

	default:
		d.logger.Debug("order transition",
			zap.String("order_id", t.OrderID),
			zap.String("field", string(t.Field)),
			zap.String("from", t.From),
			zap.String("to", t.To),
		)
	}
}

// HandleAlertLevel updates the operator badge and sounds the alert when the
// level rises. The level itself is recomputed by the detector each cycle.
func (d *Dispatcher) HandleAlertLevel(level int) {
	if level > d.prevAlert {
		d.effector.PlayAlertSound()
	}
	d.prevAlert = level
	d.effector.SetAlertCount(level)
}

func (d *Dispatcher) celebrationsEnabled() bool {
	return d.prefs == nil || d.prefs.CelebrationsEnabled()
}
