package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "PLACED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// orderStatusRank orders the forward chain. CANCELLED stays out of the
// chain: it is reachable only from PLACED.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPlaced:     0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ParseOrderStatus validates a raw status value before any state or
// authorization check runs.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidOrderStatus
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	ShippingAddress string
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem snapshots price and seller at order time, so later catalog
// changes never rewrite a placed order.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MedicineID uuid.UUID
	SellerID   uuid.UUID
	Quantity   int32
	Price      decimal.Decimal
}

// OrderFilter scopes list queries. SellerID matches orders containing
// at least one item from the seller.
type OrderFilter struct {
	CustomerID *uuid.UUID
	SellerID   *uuid.UUID
	Status     *OrderStatus
	Page       Page
}

// CartItem is a single requested line before pricing.
type CartItem struct {
	MedicineID uuid.UUID
	Quantity   int32
}

// ValidateCart rejects malformed input before any store interaction.
func ValidateCart(shippingAddress string, items []CartItem) error {
	if strings.TrimSpace(shippingAddress) == "" {
		return ErrOrderValidation
	}
	if len(items) == 0 {
		return ErrOrderValidation
	}
	for _, it := range items {
		if it.MedicineID == uuid.Nil || it.Quantity <= 0 {
			return ErrOrderValidation
		}
	}
	return nil
}

// OrderTotal computes the exact decimal sum of price*quantity across
// items. Computed once at creation and never recomputed.
func OrderTotal(items []OrderItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		qty, err := decimal.New(int64(it.Quantity), 0)
		if err != nil {
			return decimal.Decimal{}, err
		}
		line, err := it.Price.Mul(qty)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total, err = total.Add(line)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}
	return total, nil
}

// ValidateTransition checks whether the order may move to the target
// status. Cancellation is allowed only from PLACED; the forward chain
// PLACED -> PROCESSING -> SHIPPED -> DELIVERED is enforced with strict
// adjacency, so skipping and regressing both fail.
func (o *Order) ValidateTransition(to OrderStatus) error {
	if to == OrderStatusCancelled {
		if o.Status != OrderStatusPlaced {
			return ErrInvalidTransition
		}
		return nil
	}
	if o.Status.Terminal() {
		return ErrInvalidTransition
	}
	from, ok := orderStatusRank[o.Status]
	if !ok {
		return ErrInvalidTransition
	}
	if orderStatusRank[to] != from+1 {
		return ErrInvalidTransition
	}
	return nil
}

// ContainsSeller reports whether at least one item belongs to the seller.
func (o *Order) ContainsSeller(sellerID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

// OwnedBySeller reports whether every item belongs to the seller. A
// seller with only part of the order may read it but never mutate it.
func (o *Order) OwnedBySeller(sellerID uuid.UUID) bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, it := range o.Items {
		if it.SellerID != sellerID {
			return false
		}
	}
	return true
}

// ViewableBy implements the read side of the capability table:
// customers see their own orders, sellers see orders containing at
// least one of their items, admins see everything.
func (o *Order) ViewableBy(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return o.ContainsSeller(actor.ID)
	case RoleCustomer:
		return o.CustomerID == actor.ID
	}
	return false
}

// CancellableBy allows only the owning customer to cancel. State is
// checked separately by ValidateTransition.
func (o *Order) CancellableBy(actorID uuid.UUID) bool {
	return o.CustomerID == actorID
}

// StatusChangeableBy allows an admin unconditionally and a seller only
// when the whole order is within their scope.
func (o *Order) StatusChangeableBy(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleSeller:
		return o.OwnedBySeller(actor.ID)
	}
	return false
}
