package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/mocks"
)

func newTestSurface(store domain.StoreClient, effector Effector) *Surface {
	return NewSurface(Config{
		Name:     "test",
		Store:    store,
		Effector: effector,
	})
}

func snapWith(orders ...domain.Order) Snapshot {
	m := make(map[string]domain.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return Snapshot{Orders: m}
}

func TestSurface_ApplyUpdatesView(t *testing.T) {
	s := newTestSurface(&mocks.StoreClientMock{}, nil)

	s.apply(1, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)

	view := s.View()
	assert.Equal(t, domain.StatusProcessing, view.Orders["O-1"].Status)
}

func TestSurface_LastStartedFetchWins(t *testing.T) {
	s := newTestSurface(&mocks.StoreClientMock{}, nil)

	// Fetch 2 completes first; the older fetch 1 lands afterwards and must
	// be discarded.
	s.apply(2, snapWith(order("O-1", domain.StatusCompleted, domain.PaymentPaid)), nil)
	s.apply(1, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)

	view := s.View()
	assert.Equal(t, domain.StatusCompleted, view.Orders["O-1"].Status)
}

func TestSurface_FailedFetchKeepsLastGoodView(t *testing.T) {
	s := newTestSurface(&mocks.StoreClientMock{}, nil)

	s.apply(1, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)
	s.apply(2, Snapshot{}, errors.New("store unreachable"))

	view := s.View()
	require.Contains(t, view.Orders, "O-1")
	assert.Equal(t, domain.StatusProcessing, view.Orders["O-1"].Status)
}

func TestSurface_TransitionSubscribersSeeEdges(t *testing.T) {
	s := newTestSurface(&mocks.StoreClientMock{}, nil)

	var transitions []Transition
	s.OnTransition(func(tr Transition) {
		transitions = append(transitions, tr)
	})

	s.apply(1, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)
	s.apply(2, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)

	require.Len(t, transitions, 2)
	assert.Equal(t, KindPaymentConfirmed, transitions[0].Kind)
}

func TestSurface_PaymentConfirmationTriggersEffects(t *testing.T) {
	effector := &recordingEffector{}
	s := newTestSurface(&mocks.StoreClientMock{}, effector)

	s.apply(1, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)
	s.apply(2, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)

	assert.Equal(t, []string{"O-1"}, effector.celebrated)
	require.Len(t, effector.messages, 1)
	assert.Contains(t, effector.messages[0], "PAYMENT RECEIVED!")
}

func TestSurface_IssueCommandAppliesOptimistically(t *testing.T) {
	store := &mocks.StoreClientMock{}
	store.On("SubmitUpdate", mock.Anything, "orders", "O-1", mock.Anything).Return(nil).Once()

	s := newTestSurface(store, nil)
	s.apply(1, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)

	var views []Snapshot
	s.OnViewChanged(func(snap Snapshot) {
		views = append(views, snap)
	})

	patch := domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}
	err := s.IssueCommand(context.Background(), "O-1", patch)
	require.NoError(t, err)

	// The patched state is visible before any fetch confirms it
	assert.Equal(t, domain.StatusProcessing, s.View().Orders["O-1"].Status)
	require.Len(t, views, 1)
	assert.Equal(t, domain.StatusProcessing, views[0].Orders["O-1"].Status)
	store.AssertExpectations(t)
}

func TestSurface_ExpiredPatchRevertsWithoutSuccessfulFetch(t *testing.T) {
	store := &mocks.StoreClientMock{}
	store.On("SubmitUpdate", mock.Anything, "orders", "O-1", mock.Anything).
		Return(errors.New("store unreachable"))

	s := NewSurface(Config{
		Name:     "test",
		Store:    store,
		PatchTTL: 20 * time.Millisecond,
	})
	s.apply(1, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)

	err := s.IssueCommand(context.Background(), "O-1", domain.OrderPatch{
		Status: domain.StatusPtr(domain.StatusProcessing),
	})
	require.Error(t, err)
	assert.Equal(t, domain.StatusProcessing, s.View().Orders["O-1"].Status)

	// Failed fetches inside the window keep the optimistic state.
	s.apply(2, Snapshot{}, errors.New("store unreachable"))
	assert.Equal(t, domain.StatusProcessing, s.View().Orders["O-1"].Status)

	// Past the window a failed fetch alone is enough to revert the view to
	// the last store-confirmed values; a dead store must not pin the
	// optimistic state forever.
	time.Sleep(40 * time.Millisecond)
	s.apply(3, Snapshot{}, errors.New("store unreachable"))

	view := s.View()
	require.Contains(t, view.Orders, "O-1")
	assert.Equal(t, domain.StatusPendingPayment, view.Orders["O-1"].Status)
	assert.Equal(t, domain.PaymentUnpaid, view.Orders["O-1"].PaymentStatus)
}

func TestSurface_OptimisticStateSurvivesStaleFetch(t *testing.T) {
	store := &mocks.StoreClientMock{}
	store.On("SubmitUpdate", mock.Anything, "orders", "O-1", mock.Anything).Return(nil).Once()

	s := newTestSurface(store, nil)
	s.apply(1, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)

	err := s.IssueCommand(context.Background(), "O-1", domain.OrderPatch{
		Status: domain.StatusPtr(domain.StatusProcessing),
	})
	require.NoError(t, err)

	// A fetch that raced the command and still shows the old state must not
	// clobber the pending patch.
	s.apply(2, snapWith(order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid)), nil)
	assert.Equal(t, domain.StatusProcessing, s.View().Orders["O-1"].Status)

	// Once the store reflects the change, server truth takes over.
	s.apply(3, snapWith(order("O-1", domain.StatusProcessing, domain.PaymentPaid)), nil)
	assert.Equal(t, domain.PaymentPaid, s.View().Orders["O-1"].PaymentStatus)
}
