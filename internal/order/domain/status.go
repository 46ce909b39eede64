package domain

// Status is the fulfillment stage of an order. Stages form a fixed linear
// progression; status only ever moves forward, one stage at a time.
type Status int

const (
	// StatusPayment is the initial stage at order creation.
	StatusPayment Status = iota
	// StatusPreparing means the kitchen has started on the order.
	StatusPreparing
	// StatusOnTheWay means the order left for delivery.
	StatusOnTheWay
	// StatusDelivered is the terminal stage.
	StatusDelivered
)

var statusNames = map[Status]string{
	StatusPayment:   "payment",
	StatusPreparing: "preparing",
	StatusOnTheWay:  "on_the_way",
	StatusDelivered: "delivered",
}

// String returns the wire name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the status is within the closed range.
func (s Status) Valid() bool {
	return s >= StatusPayment && s <= StatusDelivered
}

// Terminal reports whether the status is the final stage.
func (s Status) Terminal() bool {
	return s == StatusDelivered
}

// Next returns the following stage. The second return value is false when the
// status is already terminal; stages are never skipped and never decrease.
func (s Status) Next() (Status, bool) {
	if !s.Valid() || s.Terminal() {
		return s, false
	}
	return s + 1, true
}
