package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pharmamart/backend/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ReadCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// MedicineRepository is both the catalog store and the stock ledger.
// ReserveStock and ReleaseStock are single conditional statements, not
// read-then-write, so concurrent buyers cannot oversell.
type MedicineRepository interface {
	CreateMedicine(ctx context.Context, medicine *domain.Medicine) (*domain.Medicine, error)
	ReadMedicine(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	ListMedicines(ctx context.Context, filter domain.MedicineFilter, page domain.Page) ([]*domain.Medicine, error)
	ListMedicinesBySeller(ctx context.Context, sellerID uuid.UUID, page domain.Page) ([]*domain.Medicine, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate) (*domain.Medicine, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID) error

	// ResolveActiveMedicines returns entries only for active, existing ids.
	ResolveActiveMedicines(ctx context.Context, ids []uuid.UUID) ([]*domain.Medicine, error)

	// ReserveStock decrements stock by quantity only if stock >= quantity
	// and journals the reservation under reservationID in the same
	// transaction. Zero affected rows surface as ErrInsufficientStock.
	ReserveStock(ctx context.Context, reservationID uuid.UUID, medicineID uuid.UUID, quantity int32) error

	// ReleaseStock reverses a journaled reservation: increments stock and
	// drops the journal row.
	ReleaseStock(ctx context.Context, reservationID uuid.UUID, medicineID uuid.UUID, quantity int32) error

	// ReleaseExpiredReservations releases journal rows older than the
	// cutoff that were never consumed by a persisted order.
	ReleaseExpiredReservations(ctx context.Context, olderThan time.Duration) (int, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and its items as one atomic unit and
	// consumes the reservation journal rows under reservationID.
	CreateOrder(ctx context.Context, order *domain.Order, reservationID uuid.UUID) (*domain.Order, error)
	ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	ListOrderItemsBySeller(ctx context.Context, sellerID uuid.UUID, page domain.Page) ([]*domain.OrderItem, error)

	// UpdateOrderStatus flips the status only while the current status
	// still equals from; zero affected rows surface as ErrNoUpdatedData.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) error

	// CancelOrder flips the order to CANCELLED, guarded on the status it
	// was read with, and returns every item's quantity to stock in the
	// same transaction. A failed guard surfaces as ErrNoUpdatedData and
	// leaves the ledger untouched.
	CancelOrder(ctx context.Context, order *domain.Order) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ReadReview(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListReviewsByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*domain.Review, error)
	ListReviewsByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error

	// HasDeliveredOrderItem reports whether the customer has a DELIVERED
	// order containing the medicine, the gate for creating a review.
	HasDeliveredOrderItem(ctx context.Context, customerID, medicineID uuid.UUID) (bool, error)
}
