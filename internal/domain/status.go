package domain

// OrderStatus is one step of the delivery progression shown to the customer.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "Order Received"
	StatusPreparing      OrderStatus = "Preparing Your Order"
	StatusCooking        OrderStatus = "Cooking In Progress"
	StatusPacked         OrderStatus = "Order Packed"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

var statusSequence = [...]OrderStatus{
	StatusReceived,
	StatusPreparing,
	StatusCooking,
	StatusPacked,
	StatusOutForDelivery,
	StatusDelivered,
}

// StatusSequence returns a fresh copy of the fixed progression, same for
// every order.
func StatusSequence() []OrderStatus {
	out := make([]OrderStatus, len(statusSequence))
	copy(out, statusSequence[:])
	return out
}
