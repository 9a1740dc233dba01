package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

// recordingEffector captures effects for assertions
type recordingEffector struct {
	mu          sync.Mutex
	celebrated  []string
	messages    []string
	sounds      int
	alertCounts []int
}

func (e *recordingEffector) Celebrate(orderID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.celebrated = append(e.celebrated, orderID)
}

func (e *recordingEffector) PlayAlertSound() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sounds++
}

func (e *recordingEffector) PostAssistantMessage(orderID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, text)
}

func (e *recordingEffector) SetAlertCount(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alertCounts = append(e.alertCounts, n)
}

// staticPrefs is a fixed celebration preference
type staticPrefs bool

func (p staticPrefs) CelebrationsEnabled() bool { return bool(p) }

func TestDispatcher_PaymentConfirmed(t *testing.T) {
	t.Run("Posts message and celebrates", func(t *testing.T) {
		effector := &recordingEffector{}
		d := NewDispatcher(effector, staticPrefs(true), zap.NewNop())

		d.HandleTransition(Transition{
			OrderID: "O-1",
			Field:   FieldStatus,
			From:    string(domain.StatusPendingPayment),
			To:      string(domain.StatusProcessing),
			Kind:    KindPaymentConfirmed,
			Order:   order("O-1", domain.StatusProcessing, domain.PaymentPaid),
		})

		require.Len(t, effector.messages, 1)
		assert.Equal(t, "PAYMENT RECEIVED! Order confirmed. Current Status: Processing.", effector.messages[0])
		assert.Equal(t, []string{"O-1"}, effector.celebrated)
	})

	t.Run("Mentions loyalty points when awarded", func(t *testing.T) {
		effector := &recordingEffector{}
		d := NewDispatcher(effector, staticPrefs(true), zap.NewNop())

		o := order("O-1", domain.StatusProcessing, domain.PaymentPaid)
		o.PointsAwarded = true
		d.HandleTransition(Transition{
			OrderID: "O-1",
			Kind:    KindPaymentConfirmed,
			To:      string(domain.StatusProcessing),
			Order:   o,
		})

		require.Len(t, effector.messages, 1)
		assert.Contains(t, effector.messages[0], "You earned loyalty points!")
	})

	t.Run("Preference suppresses celebration but not message", func(t *testing.T) {
		effector := &recordingEffector{}
		d := NewDispatcher(effector, staticPrefs(false), zap.NewNop())

		d.HandleTransition(Transition{
			OrderID: "O-1",
			Kind:    KindPaymentConfirmed,
			To:      string(domain.StatusProcessing),
			Order:   order("O-1", domain.StatusProcessing, domain.PaymentPaid),
		})

		assert.Len(t, effector.messages, 1)
		assert.Empty(t, effector.celebrated)
	})
}

func TestEffectScoping(t *testing.T) {
	confirmed := Transition{
		OrderID: "O-1",
		Kind:    KindPaymentConfirmed,
		To:      string(domain.StatusProcessing),
		Order:   order("O-1", domain.StatusProcessing, domain.PaymentPaid),
	}

	t.Run("Operator surface gets bell and badge only", func(t *testing.T) {
		effector := &recordingEffector{}
		d := NewDispatcher(OperatorEffects{Effector: effector}, nil, zap.NewNop())

		d.HandleTransition(confirmed)
		d.HandleAlertLevel(2)

		assert.Empty(t, effector.celebrated)
		assert.Empty(t, effector.messages)
		assert.Equal(t, 1, effector.sounds)
		assert.Equal(t, []int{2}, effector.alertCounts)
	})

	t.Run("Customer surface gets celebration and chat only", func(t *testing.T) {
		effector := &recordingEffector{}
		d := NewDispatcher(CustomerEffects{Effector: effector}, nil, zap.NewNop())

		d.HandleTransition(confirmed)
		d.HandleAlertLevel(2)

		assert.Equal(t, []string{"O-1"}, effector.celebrated)
		assert.Len(t, effector.messages, 1)
		assert.Zero(t, effector.sounds)
		assert.Empty(t, effector.alertCounts)
	})
}

func TestDispatcher_AlertLevel(t *testing.T) {
	effector := &recordingEffector{}
	d := NewDispatcher(effector, nil, zap.NewNop())

	d.HandleAlertLevel(2)
	assert.Equal(t, 1, effector.sounds)

	// Holding or dropping never replays the sound
	d.HandleAlertLevel(2)
	d.HandleAlertLevel(1)
	assert.Equal(t, 1, effector.sounds)

	// Rising again does
	d.HandleAlertLevel(3)
	assert.Equal(t, 2, effector.sounds)

	// The count itself is always forwarded
	assert.Equal(t, []int{2, 2, 1, 3}, effector.alertCounts)
}
