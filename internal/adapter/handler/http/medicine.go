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

type MedicineHandler struct {
	service port.MedicineService
}

func NewMedicineHandler(service port.MedicineService) (*MedicineHandler, error) {
	return &MedicineHandler{service: service}, nil
}

type createMedicineRequest struct {
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Stock        int32     `json:"stock"`
	Manufacturer string    `json:"manufacturer"`
	CategoryID   uuid.UUID `json:"category_id"`
	ImageURL     string    `json:"image_url"`
}

// updateMedicineRequest mirrors domain.MedicineUpdate: absent fields
// stay untouched.
type updateMedicineRequest struct {
	Name         *string    `json:"name"`
	Slug         *string    `json:"slug"`
	Description  *string    `json:"description"`
	Price        *string    `json:"price"`
	Manufacturer *string    `json:"manufacturer"`
	CategoryID   *uuid.UUID `json:"category_id"`
	ImageURL     *string    `json:"image_url"`
	IsActive     *bool      `json:"is_active"`
}

type medicineResp struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int32           `json:"stock"`
	Manufacturer string          `json:"manufacturer"`
	CategoryID   uuid.UUID       `json:"category_id"`
	ImageURL     string          `json:"image_url"`
	SellerID     uuid.UUID       `json:"seller_id"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newMedicineResp(m *domain.Medicine) medicineResp {
	return medicineResp{
		ID:           m.ID,
		Name:         m.Name,
		Slug:         m.Slug,
		Description:  m.Description,
		Price:        m.Price,
		Stock:        m.Stock,
		Manufacturer: m.Manufacturer,
		CategoryID:   m.CategoryID,
		ImageURL:     m.ImageURL,
		SellerID:     m.SellerID,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
}

func (mh *MedicineHandler) CreateMedicine(ctx *gin.Context) {
	req := createMedicineRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	price, err := decimal.Parse(req.Price)
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	medicine := &domain.Medicine{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        price,
		Stock:        req.Stock,
		Manufacturer: req.Manufacturer,
		CategoryID:   req.CategoryID,
		ImageURL:     req.ImageURL,
		SellerID:     getActor(ctx).ID,
	}

	created, err := mh.service.CreateMedicine(ctx, medicine)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, newMedicineResp(created), http.StatusCreated)
}

func (mh *MedicineHandler) GetMedicine(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	medicine, err := mh.service.GetMedicine(ctx, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newMedicineResp(medicine))
}

func (mh *MedicineHandler) ListMedicines(ctx *gin.Context) {
	filter := domain.MedicineFilter{
		Search:       ctx.Query("search"),
		Manufacturer: ctx.Query("manufacturer"),
	}

	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handleValidationError(ctx, domain.ErrBadRequest)
			return
		}
		filter.CategoryID = &id
	}
	if raw := ctx.Query("min_price"); raw != "" {
		price, err := decimal.Parse(raw)
		if err != nil {
			handleValidationError(ctx, domain.ErrBadRequest)
			return
		}
		filter.MinPrice = &price
	}
	if raw := ctx.Query("max_price"); raw != "" {
		price, err := decimal.Parse(raw)
		if err != nil {
			handleValidationError(ctx, domain.ErrBadRequest)
			return
		}
		filter.MaxPrice = &price
	}

	list, err := mh.service.ListMedicines(ctx, filter, pageFromQuery(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]medicineResp, 0, len(list))
	for _, m := range list {
		result = append(result, newMedicineResp(m))
	}
	handleSuccess(ctx, result)
}

func (mh *MedicineHandler) ListMyMedicines(ctx *gin.Context) {
	list, err := mh.service.ListSellerMedicines(ctx, getActor(ctx).ID, pageFromQuery(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]medicineResp, 0, len(list))
	for _, m := range list {
		result = append(result, newMedicineResp(m))
	}
	handleSuccess(ctx, result)
}

func (mh *MedicineHandler) UpdateMedicine(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := updateMedicineRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	update := domain.MedicineUpdate{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Manufacturer: req.Manufacturer,
		CategoryID:   req.CategoryID,
		ImageURL:     req.ImageURL,
		IsActive:     req.IsActive,
	}
	if req.Price != nil {
		price, err := decimal.Parse(*req.Price)
		if err != nil {
			handleValidationError(ctx, domain.ErrBadRequest)
			return
		}
		update.Price = &price
	}

	updated, err := mh.service.UpdateMedicine(ctx, id, update, getActor(ctx))
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newMedicineResp(updated))
}

func (mh *MedicineHandler) DeleteMedicine(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	if err := mh.service.DeleteMedicine(ctx, id, getActor(ctx)); err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
