package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port"
)

type ReviewService struct {
	reviews port.ReviewRepository
	logger  *zap.Logger
}

func NewReviewService(reviews port.ReviewRepository, logger *zap.Logger) (*ReviewService, error) {
	return &ReviewService{reviews: reviews, logger: logger}, nil
}

// CreateReview is gated on delivery: the customer must have a DELIVERED
// order containing the medicine.
func (s *ReviewService) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := domain.ValidateRating(review.Rating); err != nil {
		return nil, err
	}

	delivered, err := s.reviews.HasDeliveredOrderItem(ctx, review.CustomerID, review.MedicineID)
	if err != nil {
		s.logger.Error("check delivered order item", zap.Error(err))
		return nil, domain.ErrInternal
	}
	if !delivered {
		return nil, domain.ErrReviewNotAllowed
	}

	review.ID = uuid.New()
	review.CreatedAt = time.Now()

	created, err := s.reviews.CreateReview(ctx, review)
	if err != nil {
		s.logger.Error("create review", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *ReviewService) ListMedicineReviews(ctx context.Context, medicineID uuid.UUID) ([]*domain.Review, error) {
	list, err := s.reviews.ListReviewsByMedicine(ctx, medicineID)
	if err != nil {
		s.logger.Error("list medicine reviews", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *ReviewService) ListCustomerReviews(ctx context.Context, customerID uuid.UUID) ([]*domain.Review, error) {
	list, err := s.reviews.ListReviewsByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("list customer reviews", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return list, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, id uuid.UUID,
	customerID uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error) {
	if update.Empty() {
		return nil, domain.ErrNoUpdatedData
	}
	if update.Rating != nil {
		if err := domain.ValidateRating(*update.Rating); err != nil {
			return nil, err
		}
	}

	if err := s.checkOwner(ctx, id, customerID); err != nil {
		return nil, err
	}

	updated, err := s.reviews.UpdateReview(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return nil, err
		}
		s.logger.Error("update review", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id uuid.UUID, customerID uuid.UUID) error {
	if err := s.checkOwner(ctx, id, customerID); err != nil {
		return err
	}

	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return err
		}
		s.logger.Error("delete review", zap.Error(err))
		return domain.ErrInternal
	}
	return nil
}

func (s *ReviewService) checkOwner(ctx context.Context, id, customerID uuid.UUID) error {
	review, err := s.reviews.ReadReview(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return err
		}
		s.logger.Error("read review", zap.Error(err))
		return domain.ErrInternal
	}
	if review.CustomerID != customerID {
		return domain.ErrForbidden
	}
	return nil
}
