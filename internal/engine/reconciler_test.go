package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

func TestReconciler_Merge(t *testing.T) {
	now := time.Now()

	t.Run("Active patch overlays server state", func(t *testing.T) {
		patches := NewPatchSet(DefaultPatchTTL)
		patches.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)
		r := NewReconciler(patches, zap.NewNop())

		merged := r.Merge(Snapshot{Orders: map[string]domain.Order{
			"O-1": order("O-1", domain.StatusPendingPayment, domain.PaymentPaid),
		}}, now)

		assert.Equal(t, domain.StatusProcessing, merged.Orders["O-1"].Status)
		// Untouched fields come from the server
		assert.Equal(t, domain.PaymentPaid, merged.Orders["O-1"].PaymentStatus)
	})

	t.Run("Reflected patch is confirmed and dropped", func(t *testing.T) {
		patches := NewPatchSet(DefaultPatchTTL)
		patches.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)
		r := NewReconciler(patches, zap.NewNop())

		merged := r.Merge(Snapshot{Orders: map[string]domain.Order{
			"O-1": order("O-1", domain.StatusProcessing, domain.PaymentPaid),
		}}, now)

		assert.Equal(t, domain.StatusProcessing, merged.Orders["O-1"].Status)
		assert.Equal(t, 0, patches.Len())
	})

	t.Run("Expired patch reverts to server state", func(t *testing.T) {
		patches := NewPatchSet(10 * time.Second)
		patches.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)
		r := NewReconciler(patches, zap.NewNop())

		merged := r.Merge(Snapshot{Orders: map[string]domain.Order{
			"O-1": order("O-1", domain.StatusPendingPayment, domain.PaymentUnpaid),
		}}, now.Add(11*time.Second))

		assert.Equal(t, domain.StatusPendingPayment, merged.Orders["O-1"].Status)
		assert.Equal(t, 0, patches.Len())
	})

	t.Run("Patch for absent order expires on the same clock", func(t *testing.T) {
		patches := NewPatchSet(10 * time.Second)
		patches.Put("O-gone", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCancelled)}, now)
		r := NewReconciler(patches, zap.NewNop())

		r.Merge(Snapshot{Orders: map[string]domain.Order{}}, now.Add(5*time.Second))
		assert.Equal(t, 1, patches.Len())

		r.Merge(Snapshot{Orders: map[string]domain.Order{}}, now.Add(11*time.Second))
		assert.Equal(t, 0, patches.Len())
	})

	t.Run("Input snapshot is not modified", func(t *testing.T) {
		patches := NewPatchSet(DefaultPatchTTL)
		patches.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCompleted)}, now)
		r := NewReconciler(patches, zap.NewNop())

		input := Snapshot{Orders: map[string]domain.Order{
			"O-1": order("O-1", domain.StatusProcessing, domain.PaymentPaid),
		}}
		r.Merge(input, now)

		assert.Equal(t, domain.StatusProcessing, input.Orders["O-1"].Status)
	})
}
