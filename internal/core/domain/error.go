package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenDuration              = errors.New("invalid token duration format")
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid login or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrOrderValidation     = errors.New("order payload is not valid")
	ErrMedicineUnavailable = errors.New("medicine not found or inactive")
	ErrInsufficientStock   = errors.New("insufficient stock for one or more items")
	ErrInvalidOrderStatus  = errors.New("order status is not valid")
	ErrInvalidTransition   = errors.New("order status transition is not allowed")
	ErrReviewNotAllowed    = errors.New("review allowed only after the medicine is delivered")
	ErrInvalidRating       = errors.New("review rating must be between 1 and 5")
)
