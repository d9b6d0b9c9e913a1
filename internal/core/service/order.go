package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

// OrderService turns carts into durable orders. All stock mutual
// exclusion lives in the repository's conditional writes; this layer
// only sequences reservations and compensates on failure.
type OrderService struct {
	orders    port.OrderRepository
	medicines port.MedicineRepository
	logger    *zap.Logger
}

func NewOrderService(orders port.OrderRepository, medicines port.MedicineRepository,
	logger *zap.Logger) (*OrderService, error) {
	return &OrderService{
		orders:    orders,
		medicines: medicines,
		logger:    logger,
	}, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID,
	shippingAddress string, items []domain.CartItem) (*domain.Order, error) {
	if customerID == uuid.Nil {
		return nil, domain.ErrOrderValidation
	}
	if err := domain.ValidateCart(shippingAddress, items); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.MedicineID)
	}

	medicines, err := s.medicines.ResolveActiveMedicines(ctx, ids)
	if err != nil {
		s.logger.Error("resolve medicines", zap.Error(err))
		return nil, domain.ErrInternal
	}
	byID := make(map[uuid.UUID]*domain.Medicine, len(medicines))
	for _, m := range medicines {
		byID[m.ID] = m
	}

	// Snapshot price and seller from the catalog. A single missing or
	// inactive id rejects the whole cart.
	orderID := uuid.New()
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		med, ok := byID[it.MedicineID]
		if !ok {
			return nil, domain.ErrMedicineUnavailable
		}
		orderItems = append(orderItems, domain.OrderItem{
			ID:         uuid.New(),
			OrderID:    orderID,
			MedicineID: it.MedicineID,
			SellerID:   med.SellerID,
			Quantity:   it.Quantity,
			Price:      med.Price,
		})
	}

	total, err := domain.OrderTotal(orderItems)
	if err != nil {
		s.logger.Error("compute order total", zap.Error(err))
		return nil, domain.ErrInternal
	}

	// Reserve in cart order. Each reservation is its own committed
	// conditional write, so a mid-loop failure needs compensating
	// releases of everything reserved so far.
	reservationID := uuid.New()
	reserved := make([]domain.OrderItem, 0, len(orderItems))
	for _, it := range orderItems {
		if err := s.medicines.ReserveStock(ctx, reservationID, it.MedicineID, it.Quantity); err != nil {
			s.releaseReserved(ctx, reservationID, reserved)
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w: medicine %s", domain.ErrInsufficientStock, it.MedicineID)
			}
			s.logger.Error("reserve stock",
				zap.String("medicine", it.MedicineID.String()), zap.Error(err))
			return nil, domain.ErrInternal
		}
		reserved = append(reserved, it)
	}

	order := &domain.Order{
		ID:              orderID,
		CustomerID:      customerID,
		Status:          domain.OrderStatusPlaced,
		TotalAmount:     total,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		CreatedAt:       time.Now(),
		Items:           orderItems,
	}

	created, err := s.orders.CreateOrder(ctx, order, reservationID)
	if err != nil {
		s.releaseReserved(ctx, reservationID, orderItems)
		s.logger.Error("create order", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return created, nil
}

func (s *OrderService) releaseReserved(ctx context.Context, reservationID uuid.UUID,
	items []domain.OrderItem) {
	for _, it := range items {
		if err := s.medicines.ReleaseStock(ctx, reservationID, it.MedicineID, it.Quantity); err != nil {
			// The reconciliation job picks up anything left behind here.
			s.logger.Error("release reserved stock",
				zap.String("reservation", reservationID.String()),
				zap.String("medicine", it.MedicineID.String()),
				zap.Error(err))
		}
	}
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID, actorID uuid.UUID) (*domain.Order, error) {
	order, err := s.readOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CancellableBy(actorID) {
		return nil, domain.ErrForbidden
	}
	if err := order.ValidateTransition(domain.OrderStatusCancelled); err != nil {
		return nil, err
	}

	if err := s.cancel(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// cancel runs the status flip and the stock restore as one repository
// transaction, so a cancelled order can never leave units off the
// ledger. A lost guard race surfaces as ErrInvalidTransition.
func (s *OrderService) cancel(ctx context.Context, order *domain.Order) error {
	if err := s.orders.CancelOrder(ctx, order); err != nil {
		if errors.Is(err, domain.ErrNoUpdatedData) {
			return domain.ErrInvalidTransition
		}
		s.logger.Error("cancel order", zap.Error(err))
		return domain.ErrInternal
	}
	order.Status = domain.OrderStatusCancelled
	return nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID,
	status string, actor domain.Actor) (*domain.Order, error) {
	// Enum check runs before any state or authority check.
	target, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.readOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.StatusChangeableBy(actor) {
		return nil, domain.ErrForbidden
	}
	if err := order.ValidateTransition(target); err != nil {
		return nil, err
	}

	// Cancellation through this path returns the reservation too,
	// otherwise the ledger would leak the order's stock.
	if target == domain.OrderStatusCancelled {
		if err := s.cancel(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	if err := s.flipStatus(ctx, order, target); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID,
	actor domain.Actor) (*domain.Order, error) {
	order, err := s.readOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.ViewableBy(actor) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor,
	status string, page domain.Page) ([]*domain.Order, error) {
	filter := domain.OrderFilter{Page: page.Normalize(domain.OrderSortFields)}

	if status != "" {
		st, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	switch actor.Role {
	case domain.RoleCustomer:
		id := actor.ID
		filter.CustomerID = &id
	case domain.RoleSeller:
		id := actor.ID
		filter.SellerID = &id
	case domain.RoleAdmin:
	default:
		return nil, domain.ErrForbidden
	}

	list, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		s.logger.Error("list orders", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *OrderService) ListSellerOrderItems(ctx context.Context, sellerID uuid.UUID,
	page domain.Page) ([]*domain.OrderItem, error) {
	list, err := s.orders.ListOrderItemsBySeller(ctx, sellerID, page.Normalize(domain.OrderItemSortFields))
	if err != nil {
		s.logger.Error("list seller order items", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *OrderService) readOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("read order", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return order, nil
}

// flipStatus persists the transition guarded on the status the order
// was read with, so a concurrent writer cannot be overwritten.
func (s *OrderService) flipStatus(ctx context.Context, order *domain.Order,
	to domain.OrderStatus) error {
	err := s.orders.UpdateOrderStatus(ctx, order.ID, order.Status, to)
	if err != nil {
		if errors.Is(err, domain.ErrNoUpdatedData) {
			return domain.ErrInvalidTransition
		}
		s.logger.Error("update order status", zap.Error(err))
		return domain.ErrInternal
	}
	order.Status = to
	return nil
}
