package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmamart/backend/internal/core/domain"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials:         http.StatusUnauthorized,
	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,

	domain.ErrOrderValidation:     http.StatusBadRequest,
	domain.ErrInvalidOrderStatus:  http.StatusBadRequest,
	domain.ErrInvalidRating:       http.StatusBadRequest,
	domain.ErrMedicineUnavailable: http.StatusNotFound,
	domain.ErrInsufficientStock:   http.StatusConflict,
	domain.ErrInvalidTransition:   http.StatusConflict,
	domain.ErrReviewNotAllowed:    http.StatusForbidden,
}

// statusFor also matches wrapped errors, the service annotates some
// sentinels with context (e.g. the offending medicine id).
func statusFor(err error) int {
	if statusCode, ok := errorStatusMap[err]; ok {
		return statusCode
	}
	for sentinel, statusCode := range errorStatusMap {
		if errors.Is(err, sentinel) {
			return statusCode
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleValidationError sends an error response for some specific request validation error
func handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func handleAbort(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(statusFor(err), errorResponse{Error: err.Error()})
}

func handleError(ctx *gin.Context, err error) {
	ctx.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func handleSuccess(ctx *gin.Context, data any) {
	handleSuccessWithStatus(ctx, data, http.StatusOK)
}
