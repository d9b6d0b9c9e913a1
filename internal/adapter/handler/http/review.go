package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type ReviewHandler struct {
	service port.ReviewService
}

func NewReviewHandler(service port.ReviewService) (*ReviewHandler, error) {
	return &ReviewHandler{service: service}, nil
}

type createReviewRequest struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int32  `json:"rating"`
	Comment *string `json:"comment"`
}

type reviewResp struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func newReviewResp(r *domain.Review) reviewResp {
	return reviewResp{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		MedicineID: r.MedicineID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func (rh *ReviewHandler) CreateReview(ctx *gin.Context) {
	medicineID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := createReviewRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	created, err := rh.service.CreateReview(ctx, &domain.Review{
		CustomerID: getActor(ctx).ID,
		MedicineID: medicineID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, newReviewResp(created), http.StatusCreated)
}

func (rh *ReviewHandler) ListMedicineReviews(ctx *gin.Context) {
	medicineID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	list, err := rh.service.ListMedicineReviews(ctx, medicineID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]reviewResp, 0, len(list))
	for _, r := range list {
		result = append(result, newReviewResp(r))
	}
	handleSuccess(ctx, result)
}

func (rh *ReviewHandler) ListMyReviews(ctx *gin.Context) {
	list, err := rh.service.ListCustomerReviews(ctx, getActor(ctx).ID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]reviewResp, 0, len(list))
	for _, r := range list {
		result = append(result, newReviewResp(r))
	}
	handleSuccess(ctx, result)
}

func (rh *ReviewHandler) UpdateReview(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := updateReviewRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	updated, err := rh.service.UpdateReview(ctx, id, getActor(ctx).ID, domain.ReviewUpdate{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newReviewResp(updated))
}

func (rh *ReviewHandler) DeleteReview(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	if err := rh.service.DeleteReview(ctx, id, getActor(ctx).ID); err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
