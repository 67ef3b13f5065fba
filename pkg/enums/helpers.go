package enums

// IsTerminal reports whether no further kitchen transitions are expected.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCancelled
}

// ChargesDelivery reports whether the delivery fee applies.
func (o OrderType) ChargesDelivery() bool {
	return o == OrderTypeDelivery
}

// RequiresRedirect reports whether payment happens on a hosted page.
func (p PaymentMethod) RequiresRedirect() bool {
	return p == PaymentMethodCard
}

// Holds reports whether the reservation still blocks its table slot.
func (r ReservationStatus) Holds() bool {
	return r == ReservationStatusPending || r == ReservationStatusConfirmed
}
