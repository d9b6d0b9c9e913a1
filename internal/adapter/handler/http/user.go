package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
	"github.com/pharmamart/backend/internal/core/utils"
)

type UserHandler struct {
	service port.UserService
}

func NewUserHandler(service port.UserService) (*UserHandler, error) {
	return &UserHandler{service: service}, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (uh *UserHandler) RegisterUser(ctx *gin.Context) {
	req := registerRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		handleValidationError(ctx, err)
		return
	}

	// Admins are seeded out of band, never self-registered.
	role := domain.RoleCustomer
	if req.Role != "" {
		parsed, err := domain.ParseUserRole(req.Role)
		if err != nil || parsed == domain.RoleAdmin {
			handleValidationError(ctx, domain.ErrBadRequest)
			return
		}
		role = parsed
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		handleError(ctx, domain.ErrInternal)
		return
	}

	user := &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}

	_, err = uh.service.RegisterUser(ctx, user)
	if err != nil {
		handleError(ctx, err)
		return
	}

	uh.LoginUser(ctx)
}

func (uh *UserHandler) LoginUser(ctx *gin.Context) {
	req := loginRequest{}
	err := ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		handleValidationError(ctx, err)
		return
	}

	token, err := uh.service.LoginUser(ctx, req.Email, req.Password)
	if err != nil {
		handleError(ctx, err)
		return
	}

	handleSuccess(ctx, struct {
		Token string `json:"token"`
	}{Token: token})
}
