package order

// StatusUpdate is the allow-listed partial update applied by the admin surface.
// Total, items and customerName are deliberately not representable here.
type StatusUpdate struct {
	Status         *Status
	PaymentStatus  *PaymentStatus
	TrackingNumber *string
	AdminNotes     *string
}

// IsEmpty reports whether the update carries no updatable fields.
func (u StatusUpdate) IsEmpty() bool {
	return u.Status == nil &&
		u.PaymentStatus == nil &&
		u.TrackingNumber == nil &&
		u.AdminNotes == nil
}
