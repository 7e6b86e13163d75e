package order

// Status is the workflow status of an order
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusProcessing     Status = "processing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusFullySettled   Status = "fully_settled"
	StatusDelivered      Status = "delivered"
)

// allowedTransitions lists every permitted edge. Anything absent is rejected.
var allowedTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusProcessing, StatusReadyForPickup, StatusFullySettled},
	StatusProcessing:     {StatusFullySettled},
	StatusReadyForPickup: {StatusFullySettled},
	StatusFullySettled:   {StatusDelivered},
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusProcessing, StatusReadyForPickup, StatusFullySettled, StatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether target is a listed edge from s
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edge leaves s
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// statusForPayment maps the payment flags to the workflow status they imply
func statusForPayment(itemPaid, shippingPaid bool) Status {
	switch {
	case itemPaid && shippingPaid:
		return StatusFullySettled
	case itemPaid:
		return StatusProcessing
	case shippingPaid:
		return StatusReadyForPickup
	}
	return StatusPendingPayment
}
