package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port/mock"
	"github.com/pharmamart/backend/internal/core/service"
)

type prepareOrderMocks func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository)

func newOrderService(t *testing.T, mockCtrl *gomock.Controller,
	prepare prepareOrderMocks) *service.OrderService {
	t.Helper()

	orders := mock.NewMockOrderRepository(mockCtrl)
	medicines := mock.NewMockMedicineRepository(mockCtrl)
	if prepare != nil {
		prepare(orders, medicines)
	}

	logger, _ := zap.NewProduction()
	s, err := service.NewOrderService(orders, medicines, logger)
	require.NoError(t, err)
	return s
}

func TestOrderService_CreateOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customerID := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()

	aspirin := &domain.Medicine{
		ID:       uuid.New(),
		Name:     "Aspirin",
		Price:    decimal.MustParse("3.50"),
		SellerID: sellerA,
		IsActive: true,
	}
	ibuprofen := &domain.Medicine{
		ID:       uuid.New(),
		Name:     "Ibuprofen",
		Price:    decimal.MustParse("7.25"),
		SellerID: sellerB,
		IsActive: true,
	}

	cart := []domain.CartItem{
		{MedicineID: aspirin.ID, Quantity: 2},
		{MedicineID: ibuprofen.ID, Quantity: 1},
	}

	tests := []struct {
		name     string
		items    []domain.CartItem
		address  string
		mock     prepareOrderMocks
		expError error
	}{
		{
			name:    "good order",
			items:   cart,
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), []uuid.UUID{aspirin.ID, ibuprofen.ID}).
					Return([]*domain.Medicine{aspirin, ibuprofen}, nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), ibuprofen.ID, int32(1)).
					Return(nil)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order, _ uuid.UUID) (*domain.Order, error) {
						assert.Equal(t, customerID, order.CustomerID)
						assert.Equal(t, domain.OrderStatusPlaced, order.Status)
						assert.Equal(t, "14.25", order.TotalAmount.String())
						assert.Len(t, order.Items, 2)
						assert.Equal(t, sellerA, order.Items[0].SellerID)
						assert.Equal(t, sellerB, order.Items[1].SellerID)
						return order, nil
					})
			},
		},
		{
			name: "duplicate lines of one medicine reserve independently",
			items: []domain.CartItem{
				{MedicineID: aspirin.ID, Quantity: 2},
				{MedicineID: aspirin.ID, Quantity: 1},
			},
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), []uuid.UUID{aspirin.ID, aspirin.ID}).
					Return([]*domain.Medicine{aspirin}, nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(1)).
					Return(nil)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order, _ uuid.UUID) (*domain.Order, error) {
						assert.Equal(t, "10.50", order.TotalAmount.String())
						assert.Len(t, order.Items, 2)
						return order, nil
					})
			},
		},
		{
			name:    "insufficient stock releases prior reservations",
			items:   cart,
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), gomock.Any()).
					Return([]*domain.Medicine{aspirin, ibuprofen}, nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), ibuprofen.ID, int32(1)).
					Return(domain.ErrInsufficientStock)
				medicines.EXPECT().ReleaseStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
			},
			expError: domain.ErrInsufficientStock,
		},
		{
			name:    "first item short leaves nothing to release",
			items:   cart,
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), gomock.Any()).
					Return([]*domain.Medicine{aspirin, ibuprofen}, nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(domain.ErrInsufficientStock)
			},
			expError: domain.ErrInsufficientStock,
		},
		{
			name:    "inactive medicine rejects whole cart",
			items:   cart,
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), gomock.Any()).
					Return([]*domain.Medicine{aspirin}, nil)
			},
			expError: domain.ErrMedicineUnavailable,
		},
		{
			name:    "persist failure compensates all reservations",
			items:   cart,
			address: "221B Baker Street",
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), gomock.Any()).
					Return([]*domain.Medicine{aspirin, ibuprofen}, nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
				medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), ibuprofen.ID, int32(1)).
					Return(nil)
				orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection reset"))
				medicines.EXPECT().ReleaseStock(gomock.Any(), gomock.Any(), aspirin.ID, int32(2)).
					Return(nil)
				medicines.EXPECT().ReleaseStock(gomock.Any(), gomock.Any(), ibuprofen.ID, int32(1)).
					Return(nil)
			},
			expError: domain.ErrInternal,
		},
		{
			name:     "empty cart",
			items:    []domain.CartItem{},
			address:  "221B Baker Street",
			expError: domain.ErrOrderValidation,
		},
		{
			name:     "blank address",
			items:    cart,
			address:  " ",
			expError: domain.ErrOrderValidation,
		},
		{
			name:     "zero quantity",
			items:    []domain.CartItem{{MedicineID: aspirin.ID, Quantity: 0}},
			address:  "221B Baker Street",
			expError: domain.ErrOrderValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newOrderService(t, mockCtrl, test.mock)

			result, err := s.CreateOrder(context.Background(), customerID, test.address, test.items)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, domain.OrderStatusPlaced, result.Status)
		})
	}
}

func TestOrderService_CreateOrder_SameReservationID(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	medicineID := uuid.New()
	med := &domain.Medicine{
		ID:       medicineID,
		Price:    decimal.MustParse("1.00"),
		SellerID: uuid.New(),
		IsActive: true,
	}

	var reservedUnder, consumedUnder uuid.UUID
	s := newOrderService(t, mockCtrl, func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
		medicines.EXPECT().ResolveActiveMedicines(gomock.Any(), gomock.Any()).
			Return([]*domain.Medicine{med}, nil)
		medicines.EXPECT().ReserveStock(gomock.Any(), gomock.Any(), medicineID, int32(1)).
			DoAndReturn(func(_ context.Context, reservationID, _ uuid.UUID, _ int32) error {
				reservedUnder = reservationID
				return nil
			})
		orders.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, order *domain.Order, reservationID uuid.UUID) (*domain.Order, error) {
				consumedUnder = reservationID
				return order, nil
			})
	})

	_, err := s.CreateOrder(context.Background(), uuid.New(), "221B Baker Street",
		[]domain.CartItem{{MedicineID: medicineID, Quantity: 1}})
	require.NoError(t, err)

	// The journal rows the order consumes must be the ones reserved for it.
	assert.NotEqual(t, uuid.Nil, reservedUnder)
	assert.Equal(t, reservedUnder, consumedUnder)
}

func TestOrderService_CancelOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customerID := uuid.New()
	orderID := uuid.New()
	medicineID := uuid.New()

	placed := func() *domain.Order {
		return &domain.Order{
			ID:         orderID,
			CustomerID: customerID,
			Status:     domain.OrderStatusPlaced,
			Items: []domain.OrderItem{
				{OrderID: orderID, MedicineID: medicineID, Quantity: 3},
			},
		}
	}

	tests := []struct {
		name     string
		actorID  uuid.UUID
		mock     prepareOrderMocks
		expError error
	}{
		{
			name:    "cancel placed order restores stock",
			actorID: customerID,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(placed(), nil)
				orders.EXPECT().CancelOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) error {
						assert.Equal(t, orderID, order.ID)
						assert.Equal(t, domain.OrderStatusPlaced, order.Status)
						require.Len(t, order.Items, 1)
						assert.Equal(t, int32(3), order.Items[0].Quantity)
						return nil
					})
			},
		},
		{
			name:    "another customer",
			actorID: uuid.New(),
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(placed(), nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:    "already processing",
			actorID: customerID,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				order := placed()
				order.Status = domain.OrderStatusProcessing
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(order, nil)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:    "already cancelled",
			actorID: customerID,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				order := placed()
				order.Status = domain.OrderStatusCancelled
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(order, nil)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:    "lost race against concurrent transition",
			actorID: customerID,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(placed(), nil)
				orders.EXPECT().CancelOrder(gomock.Any(), gomock.Any()).
					Return(domain.ErrNoUpdatedData)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:    "order not found",
			actorID: customerID,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newOrderService(t, mockCtrl, test.mock)

			result, err := s.CancelOrder(context.Background(), orderID, test.actorID)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, domain.OrderStatusCancelled, result.Status)
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customerID := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()
	orderID := uuid.New()
	medicineID := uuid.New()

	admin := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	orderWith := func(status domain.OrderStatus, sellers ...uuid.UUID) *domain.Order {
		order := &domain.Order{
			ID:         orderID,
			CustomerID: customerID,
			Status:     status,
		}
		for _, s := range sellers {
			order.Items = append(order.Items, domain.OrderItem{
				OrderID: orderID, MedicineID: medicineID, SellerID: s, Quantity: 2,
			})
		}
		return order
	}

	tests := []struct {
		name      string
		status    string
		actor     domain.Actor
		mock      prepareOrderMocks
		expError  error
		expStatus domain.OrderStatus
	}{
		{
			name:   "admin moves placed to processing",
			status: "PROCESSING",
			actor:  admin,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusPlaced, sellerA), nil)
				orders.EXPECT().UpdateOrderStatus(gomock.Any(), orderID,
					domain.OrderStatusPlaced, domain.OrderStatusProcessing).Return(nil)
			},
			expStatus: domain.OrderStatusProcessing,
		},
		{
			name:   "owning seller moves shipped to delivered",
			status: "DELIVERED",
			actor:  domain.Actor{ID: sellerA, Role: domain.RoleSeller},
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusShipped, sellerA, sellerA), nil)
				orders.EXPECT().UpdateOrderStatus(gomock.Any(), orderID,
					domain.OrderStatusShipped, domain.OrderStatusDelivered).Return(nil)
			},
			expStatus: domain.OrderStatusDelivered,
		},
		{
			name:     "unknown status checked before anything else",
			status:   "SHIPPPED",
			actor:    admin,
			expError: domain.ErrInvalidOrderStatus,
		},
		{
			name:   "skipping a step",
			status: "SHIPPED",
			actor:  admin,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusPlaced, sellerA), nil)
			},
			expError: domain.ErrInvalidTransition,
		},
		{
			name:   "partial seller may not mutate",
			status: "PROCESSING",
			actor:  domain.Actor{ID: sellerA, Role: domain.RoleSeller},
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusPlaced, sellerA, sellerB), nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:   "customer may not mutate",
			status: "PROCESSING",
			actor:  domain.Actor{ID: customerID, Role: domain.RoleCustomer},
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusPlaced, sellerA), nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:   "admin cancellation restores stock",
			status: "CANCELLED",
			actor:  admin,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusPlaced, sellerA), nil)
				orders.EXPECT().CancelOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, order *domain.Order) error {
						require.Len(t, order.Items, 1)
						assert.Equal(t, int32(2), order.Items[0].Quantity)
						return nil
					})
			},
			expStatus: domain.OrderStatusCancelled,
		},
		{
			name:   "cancellation after processing",
			status: "CANCELLED",
			actor:  admin,
			mock: func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).
					Return(orderWith(domain.OrderStatusProcessing, sellerA), nil)
			},
			expError: domain.ErrInvalidTransition,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newOrderService(t, mockCtrl, test.mock)

			result, err := s.UpdateOrderStatus(context.Background(), orderID, test.status, test.actor)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, test.expStatus, result.Status)
		})
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customerID := uuid.New()
	sellerID := uuid.New()
	orderID := uuid.New()

	order := &domain.Order{
		ID:         orderID,
		CustomerID: customerID,
		Status:     domain.OrderStatusPlaced,
		Items:      []domain.OrderItem{{OrderID: orderID, SellerID: sellerID, Quantity: 1}},
	}

	tests := []struct {
		name     string
		actor    domain.Actor
		expError error
	}{
		{name: "owner reads", actor: domain.Actor{ID: customerID, Role: domain.RoleCustomer}},
		{name: "involved seller reads", actor: domain.Actor{ID: sellerID, Role: domain.RoleSeller}},
		{name: "admin reads", actor: domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}},
		{name: "stranger denied", actor: domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer},
			expError: domain.ErrForbidden},
		{name: "uninvolved seller denied", actor: domain.Actor{ID: uuid.New(), Role: domain.RoleSeller},
			expError: domain.ErrForbidden},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newOrderService(t, mockCtrl, func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
				orders.EXPECT().ReadOrder(gomock.Any(), orderID).Return(order, nil)
			})

			result, err := s.GetOrder(context.Background(), orderID, test.actor)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, order, result)
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	customerID := uuid.New()
	sellerID := uuid.New()

	t.Run("customer scoped to own orders", func(t *testing.T) {
		s := newOrderService(t, mockCtrl, func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
			orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
					require.NotNil(t, filter.CustomerID)
					assert.Equal(t, customerID, *filter.CustomerID)
					assert.Nil(t, filter.SellerID)
					return []*domain.Order{}, nil
				})
		})

		_, err := s.ListOrders(context.Background(),
			domain.Actor{ID: customerID, Role: domain.RoleCustomer}, "", domain.Page{})
		assert.NoError(t, err)
	})

	t.Run("seller scoped to own items", func(t *testing.T) {
		s := newOrderService(t, mockCtrl, func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
			orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
					require.NotNil(t, filter.SellerID)
					assert.Equal(t, sellerID, *filter.SellerID)
					assert.Nil(t, filter.CustomerID)
					return []*domain.Order{}, nil
				})
		})

		_, err := s.ListOrders(context.Background(),
			domain.Actor{ID: sellerID, Role: domain.RoleSeller}, "", domain.Page{})
		assert.NoError(t, err)
	})

	t.Run("admin unscoped with status filter", func(t *testing.T) {
		s := newOrderService(t, mockCtrl, func(orders *mock.MockOrderRepository, medicines *mock.MockMedicineRepository) {
			orders.EXPECT().ListOrders(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
					assert.Nil(t, filter.CustomerID)
					assert.Nil(t, filter.SellerID)
					require.NotNil(t, filter.Status)
					assert.Equal(t, domain.OrderStatusShipped, *filter.Status)
					return []*domain.Order{}, nil
				})
		})

		_, err := s.ListOrders(context.Background(),
			domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, "SHIPPED", domain.Page{})
		assert.NoError(t, err)
	})

	t.Run("bad status filter", func(t *testing.T) {
		s := newOrderService(t, mockCtrl, nil)

		_, err := s.ListOrders(context.Background(),
			domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, "bogus", domain.Page{})
		assert.ErrorIs(t, err, domain.ErrInvalidOrderStatus)
	})
}
