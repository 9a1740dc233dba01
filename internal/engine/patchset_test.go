package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ellas-cupcakery/storefront/internal/domain"
)

func TestPatchSet_Lookup(t *testing.T) {
	now := time.Now()

	t.Run("No patch", func(t *testing.T) {
		set := NewPatchSet(DefaultPatchTTL)

		_, state := set.Lookup("O-1", now)
		assert.Equal(t, PatchNone, state)
	})

	t.Run("Active within window", func(t *testing.T) {
		set := NewPatchSet(DefaultPatchTTL)
		set.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)

		patch, state := set.Lookup("O-1", now.Add(DefaultPatchTTL/2))
		assert.Equal(t, PatchActive, state)
		assert.Equal(t, domain.StatusProcessing, *patch.Status)
	})

	t.Run("Expired past window", func(t *testing.T) {
		set := NewPatchSet(DefaultPatchTTL)
		set.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)

		_, state := set.Lookup("O-1", now.Add(DefaultPatchTTL+time.Second))
		assert.Equal(t, PatchExpired, state)

		// Expired patches are removed on lookup
		_, state = set.Lookup("O-1", now.Add(DefaultPatchTTL+time.Second))
		assert.Equal(t, PatchNone, state)
	})
}

func TestPatchSet_PutMergesAndRestartsWindow(t *testing.T) {
	now := time.Now()
	set := NewPatchSet(10 * time.Second)

	set.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusProcessing)}, now)
	set.Put("O-1", domain.OrderPatch{PaymentStatus: domain.PaymentPtr(domain.PaymentPaid)}, now.Add(8*time.Second))

	// 12s after the first put but only 4s after the second: still active,
	// with both fields present
	patch, state := set.Lookup("O-1", now.Add(12*time.Second))
	assert.Equal(t, PatchActive, state)
	assert.Equal(t, domain.StatusProcessing, *patch.Status)
	assert.Equal(t, domain.PaymentPaid, *patch.PaymentStatus)
}

func TestPatchSet_Confirm(t *testing.T) {
	now := time.Now()
	set := NewPatchSet(DefaultPatchTTL)

	set.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCompleted)}, now)
	set.Confirm("O-1")

	_, state := set.Lookup("O-1", now)
	assert.Equal(t, PatchNone, state)
}

func TestPatchSet_SweepExpired(t *testing.T) {
	now := time.Now()
	set := NewPatchSet(10 * time.Second)

	set.Put("O-1", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCompleted)}, now)
	set.Put("O-2", domain.OrderPatch{Status: domain.StatusPtr(domain.StatusCancelled)}, now.Add(5*time.Second))

	expired := set.SweepExpired(now.Add(12 * time.Second))
	assert.Equal(t, []string{"O-1"}, expired)
	assert.Equal(t, 1, set.Len())
}
