package domain

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	MedicineID uuid.UUID
	Rating     int32
	Comment    string
	CreatedAt  time.Time
}

// ReviewUpdate is a typed partial update, nil fields are kept as is.
type ReviewUpdate struct {
	Rating  *int32
	Comment *string
}

func (u ReviewUpdate) Empty() bool {
	return u.Rating == nil && u.Comment == nil
}

func ValidateRating(rating int32) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
