package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"go.uber.org/zap"
)

const ordersCollection = "orders"

// Issuer sends status and payment mutations to the record store. Every
// submit applies a pending optimistic patch first and triggers a follow-up
// fetch regardless of the network outcome, so the view converges on server
// truth either way. A failed submit is not rolled back; the patch expiry
// is the safety net.
type Issuer struct {
	store      domain.StoreClient
	patches    *PatchSet
	applyLocal func(orderID string, patch domain.OrderPatch)
	kick       func()
	logger     *zap.Logger
}

// NewIssuer creates an issuer writing through the given store client
func NewIssuer(
	store domain.StoreClient,
	patches *PatchSet,
	applyLocal func(orderID string, patch domain.OrderPatch),
	kick func(),
	logger *zap.Logger,
) *Issuer {
	return &Issuer{
		store:      store,
		patches:    patches,
		applyLocal: applyLocal,
		kick:       kick,
		logger:     logger,
	}
}

// Submit validates and sends one mutation. An empty patch is a no-op and
// skips the network entirely. A status moving into the paid-implying set
// carries payment_status=Paid in the same request: both fields travel in
// one call to minimize the inconsistency window on a store with no
// multi-field transaction.
func (i *Issuer) Submit(ctx context.Context, orderID string, patch domain.OrderPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	if patch.Status != nil && patch.Status.ImpliesPaid() && patch.PaymentStatus == nil {
		patch.PaymentStatus = domain.PaymentPtr(domain.PaymentPaid)
	}

	i.patches.Put(orderID, patch, time.Now())
	i.applyLocal(orderID, patch)

	defer i.kick()

	if err := i.store.SubmitUpdate(ctx, ordersCollection, orderID, patch.Fields()); err != nil {
		i.logger.Warn("command submit failed, optimistic state held until confirmed or expired",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return fmt.Errorf("issuer: failed to submit update for order %q: %w", orderID, err)
	}

	return nil
}
