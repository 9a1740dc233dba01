package engine

import (
	"time"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"go.uber.org/zap"
)

// Reconciler merges freshly fetched snapshots into a surface's local view.
// Server data is the source of truth for every field except those touched
// by an optimistic patch still awaiting confirmation: for those, the patch
// wins until the store reflects it or the patch times out.
type Reconciler struct {
	patches *PatchSet
	logger  *zap.Logger
}

// NewReconciler creates a reconciler over the surface's patch set
func NewReconciler(patches *PatchSet, logger *zap.Logger) *Reconciler {
	return &Reconciler{patches: patches, logger: logger}
}

// Merge overlays outstanding patches onto the snapshot and returns the
// merged view. The input maps are not modified.
func (r *Reconciler) Merge(snap Snapshot, now time.Time) Snapshot {
	merged := Snapshot{
		Orders:    make(map[string]domain.Order, len(snap.Orders)),
		Customers: snap.Customers,
	}

	for id, order := range snap.Orders {
		patch, state := r.patches.Lookup(id, now)
		switch state {
		case PatchActive:
			if patch.ReflectedIn(order) {
				// Store caught up; server truth takes over.
				r.patches.Confirm(id)
			} else {
				patch.ApplyTo(&order)
			}
		case PatchExpired:
			r.logger.Warn("optimistic patch expired unconfirmed, reverting to store state",
				zap.String("order_id", id),
			)
		}
		merged.Orders[id] = order
	}

	// Patches for orders no longer in the snapshot expire on the same
	// clock; they just have no record left to overlay.
	for _, id := range r.patches.SweepExpired(now) {
		r.logger.Warn("optimistic patch expired for order absent from snapshot",
			zap.String("order_id", id),
		)
	}

	return merged
}
