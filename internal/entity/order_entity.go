package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusShippedInter   OrderStatus = "shipped_interstate"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// orderProgression is the fixed forward-only path an order (or vendor
// sub-order) moves along. Cancelled sits outside the path.
var orderProgression = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusProcessing:     2,
	OrderStatusShipped:        3,
	OrderStatusShippedInter:   4,
	OrderStatusOutForDelivery: 5,
	OrderStatusDelivered:      6,
}

// CanTransitionTo centralizes the forward-only invariant: statuses only
// move forward along the progression, never backwards, except into
// cancelled from any non-terminal state.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return s != OrderStatusDelivered
	}
	from, okFrom := orderProgression[s]
	next, okTo := orderProgression[to]
	if !okFrom || !okTo {
		return false
	}
	return next > from
}

// OrderItem is one purchased line. Items with a nil SubOrderId are the
// order's top-level lines; the rest belong to a vendor sub-order.
type OrderItem struct {
	Id         uuid.UUID
	OrderId    uuid.UUID
	SubOrderId *uuid.UUID
	ProductId  string // gateway-facing identifier; matched back to products with fallbacks
	Quantity   int
	Price      float64
}

// VendorSubOrder is the per-vendor slice of a multi-vendor checkout. Its
// status advances independently of sibling sub-orders.
type VendorSubOrder struct {
	Id        uuid.UUID
	OrderId   uuid.UUID
	VendorId  uuid.UUID
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	Id               uuid.UUID
	BuyerId          uuid.UUID
	PaymentReference string
	PaymentStatus    PaymentStatus
	Status           OrderStatus
	Total            float64
	Items            []OrderItem
	SubOrders        []VendorSubOrder
	GatewayResponse  []byte // raw verification payload, stored for audit
	PaidAt           *time.Time
	VendorDeleted    bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllItems flattens top-level lines and every sub-order's lines, the unit
// the inventory pass iterates over.
func (o *Order) AllItems() []OrderItem {
	items := make([]OrderItem, 0, len(o.Items))
	items = append(items, o.Items...)
	for _, so := range o.SubOrders {
		items = append(items, so.Items...)
	}
	return items
}
