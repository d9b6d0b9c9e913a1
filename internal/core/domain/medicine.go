package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type Medicine struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	Stock        int32
	Manufacturer string
	CategoryID   uuid.UUID
	ImageURL     string
	SellerID     uuid.UUID
	IsActive     bool
	CreatedAt    time.Time
}

// MedicineUpdate is a typed partial update: nil fields are left
// untouched. Stock is deliberately absent, it moves only through
// reservations and releases.
type MedicineUpdate struct {
	Name         *string
	Slug         *string
	Description  *string
	Price        *decimal.Decimal
	Manufacturer *string
	CategoryID   *uuid.UUID
	ImageURL     *string
	IsActive     *bool
}

func (u MedicineUpdate) Empty() bool {
	return u.Name == nil && u.Slug == nil && u.Description == nil &&
		u.Price == nil && u.Manufacturer == nil && u.CategoryID == nil &&
		u.ImageURL == nil && u.IsActive == nil
}

// EditableBy mirrors the catalog rule: the owning seller or an admin.
func (m *Medicine) EditableBy(actor Actor) bool {
	return actor.Role == RoleAdmin || m.SellerID == actor.ID
}

type MedicineFilter struct {
	CategoryID   *uuid.UUID
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Manufacturer string
}
