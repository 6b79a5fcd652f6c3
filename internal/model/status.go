package model

// OrderStatus is the closed set of order lifecycle labels. The server is the
// only authority on transitions; every mutation path goes through CanTransition.
type OrderStatus string

const (
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusReturnRequested OrderStatus = "return_requested"
	OrderStatusReturned        OrderStatus = "returned"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusProcessing:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:         {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery:  {OrderStatusDelivered},
	OrderStatusDelivered:       {OrderStatusReturnRequested},
	OrderStatusReturnRequested: {OrderStatusReturned, OrderStatusDelivered},
}

// ValidOrderStatus reports whether s is one of the known labels.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturnRequested,
		OrderStatusReturned:
		return true
	}
	return false
}

// CanTransition reports whether moving from one status to the next is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextFulfillmentStatus returns the forward step on the happy path
// (processing → shipped → out_for_delivery → delivered) and false once the
// order has left it.
func NextFulfillmentStatus(from OrderStatus) (OrderStatus, bool) {
	switch from {
	case OrderStatusProcessing:
		return OrderStatusShipped, true
	case OrderStatusShipped:
		return OrderStatusOutForDelivery, true
	case OrderStatusOutForDelivery:
		return OrderStatusDelivered, true
	}
	return "", false
}

// Terminal reports whether no further transition is possible.
func Terminal(s OrderStatus) bool {
	return len(orderTransitions[s]) == 0
}
