package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type CategoryHandler struct {
	service port.CategoryService
}

func NewCategoryHandler(service port.CategoryService) (*CategoryHandler, error) {
	return &CategoryHandler{service: service}, nil
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type categoryResp struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

func newCategoryResp(c *domain.Category) categoryResp {
	return categoryResp{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func (ch *CategoryHandler) CreateCategory(ctx *gin.Context) {
	req := categoryRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}
	if req.Name == "" || req.Slug == "" {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	created, err := ch.service.CreateCategory(ctx, &domain.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, newCategoryResp(created), http.StatusCreated)
}

func (ch *CategoryHandler) GetCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	category, err := ch.service.GetCategory(ctx, id)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newCategoryResp(category))
}

func (ch *CategoryHandler) ListCategories(ctx *gin.Context) {
	list, err := ch.service.ListCategories(ctx)
	if err != nil {
		handleError(ctx, err)
		return
	}

	result := make([]categoryResp, 0, len(list))
	for _, c := range list {
		result = append(result, newCategoryResp(c))
	}
	handleSuccess(ctx, result)
}

func (ch *CategoryHandler) UpdateCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	req := categoryRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		handleValidationError(ctx, err)
		return
	}

	updated, err := ch.service.UpdateCategory(ctx, &domain.Category{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, newCategoryResp(updated))
}

func (ch *CategoryHandler) DeleteCategory(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	if err := ch.service.DeleteCategory(ctx, id); err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
