package domain

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleSeller   UserRole = "SELLER"
	RoleAdmin    UserRole = "ADMIN"
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return UserRole(s), nil
	}
	return "", ErrBadRequest
}

type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string
	Role     UserRole
}

// Actor is the authenticated identity every engine call is evaluated
// against. It is passed in explicitly; the core keeps no session state.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}
