package domain

// OrderPatch represents a partial mutation of an order. Nil fields are
// untouched. It doubles as the pending optimistic patch the sync engine
// overlays on fetched snapshots until the store confirms the change.
type OrderPatch struct {
	Status        *OrderStatus
	PaymentStatus *PaymentStatus
	PointsAwarded *bool
}

// IsEmpty reports whether the patch changes nothing
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.PointsAwarded == nil
}

// Fields returns the patch as the field-update mapping the record store
// accepts on the wire
func (p OrderPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p.Status != nil {
		fields["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		fields["payment_status"] = *p.PaymentStatus
	}
	if p.PointsAwarded != nil {
		fields["points_awarded"] = *p.PointsAwarded
	}
	return fields
}

// ApplyTo overlays the patched fields onto an order
func (p OrderPatch) ApplyTo(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PointsAwarded != nil {
		o.PointsAwarded = *p.PointsAwarded
	}
}

// ReflectedIn reports whether the store already shows every field the
// patch touched, meaning the patch is confirmed and can be dropped
func (p OrderPatch) ReflectedIn(o Order) bool {
	if p.Status != nil && o.Status != *p.Status {
		return false
	}
	if p.PaymentStatus != nil && o.PaymentStatus != *p.PaymentStatus {
		return false
	}
	if p.PointsAwarded != nil && o.PointsAwarded != *p.PointsAwarded {
		return false
	}
	return true
}

// Merge returns the union of two patches, with fields from other winning
// where both patches touch the same field
func (p OrderPatch) Merge(other OrderPatch) OrderPatch {
	merged := p
	if other.Status != nil {
		merged.Status = other.Status
	}
	if other.PaymentStatus != nil {
		merged.PaymentStatus = other.PaymentStatus
	}
	if other.PointsAwarded != nil {
		merged.PointsAwarded = other.PointsAwarded
	}
	return merged
}

// StatusPtr is a convenience for building patches
func StatusPtr(s OrderStatus) *OrderStatus { return &s }

// PaymentPtr is a convenience for building patches
func PaymentPtr(p PaymentStatus) *PaymentStatus { return &p }

// BoolPtr is a convenience for building patches
func BoolPtr(b bool) *bool { return &b }
