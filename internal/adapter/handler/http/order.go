package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type OrderHandler struct {
	service port.OrderService
}

func NewOrderHandler(service port.OrderService) (*OrderHandler, error) {
	return &OrderHandler{service: service}, nil
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Items           []struct {
		MedicineID uuid.UUID `json:"medicine_id"`
		Quantity   int32     `json:"quantity"`
	} `json:"items"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type orderItemResp struct {
	ID         uuid.UUID       `json:"id"`
	MedicineID uuid.UUID       `json:"medicine_id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	Quantity   int32           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type orderResp struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderItemResp `json:"items"`
}

func newOrderResp(order *domain.Order) orderResp {
	items := make([]orderItemResp, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, orderItemResp{
			ID:         it.ID,
			MedicineID: it.MedicineID,
			SellerID:   it.SellerID,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}
	return orderResp{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}

func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.CartItem{MedicineID: it.MedicineID, Quantity: it.Quantity})
	}

	order, err := oh.service.CreateOrder(ctx, getActor(ctx).ID, req.ShippingAddress, items)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, newOrderResp(order), http.StatusCreated)
}

func (oh *OrderHandler) GetOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	order, err := oh.service.GetOrder(ctx, orderID, getActor(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newOrderResp(order))
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	list, err := oh.service.ListOrders(ctx, getActor(ctx), ctx.Query("status"), pageFromQuery(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]orderResp, 0, len(list))
	for _, order := range list {
		result = append(result, newOrderResp(order))
	}
	handleSuccess(ctx, result)
}

func (oh *OrderHandler) CancelOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	order, err := oh.service.CancelOrder(ctx, orderID, getActor(ctx).ID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newOrderResp(order))
}

func (oh *OrderHandler) UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := updateOrderStatusRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.UpdateOrderStatus(ctx, orderID, req.Status, getActor(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newOrderResp(order))
}

type sellerOrderItemResp struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"order_id"`
	MedicineID uuid.UUID       `json:"medicine_id"`
	Quantity   int32           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

func (oh *OrderHandler) ListSellerOrderItems(ctx *gin.Context) {
	list, err := oh.service.ListSellerOrderItems(ctx, getActor(ctx).ID, pageFromQuery(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]sellerOrderItemResp, 0, len(list))
	for _, it := range list {
		result = append(result, sellerOrderItemResp{
			ID:         it.ID,
			OrderID:    it.OrderID,
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}
	handleSuccess(ctx, result)
}
