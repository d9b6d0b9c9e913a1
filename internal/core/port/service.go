package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmamart/backend/internal/core/domain"
)

type UserService interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, email string, password string) (string, error)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type MedicineService interface {
	CreateMedicine(ctx context.Context, medicine *domain.Medicine) (*domain.Medicine, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	ListMedicines(ctx context.Context, filter domain.MedicineFilter, page domain.Page) ([]*domain.Medicine, error)
	ListSellerMedicines(ctx context.Context, sellerID uuid.UUID, page domain.Page) ([]*domain.Medicine, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, update domain.MedicineUpdate, actor domain.Actor) (*domain.Medicine, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID, actor domain.Actor) error
}

// OrderService is the engine's public surface: the status argument of
// UpdateOrderStatus and ListOrders comes in raw and is validated before
// anything else happens.
type OrderService interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, shippingAddress string, items []domain.CartItem) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, actorID uuid.UUID) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string, actor domain.Actor) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor, status string, page domain.Page) ([]*domain.Order, error)
	ListSellerOrderItems(ctx context.Context, sellerID uuid.UUID, page domain.Page) ([]*domain.OrderItem, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error)
	ListMedicineReviews(ctx context.Context, medicineID uuid.UUID) ([]*domain.Review, error)
	ListCustomerReviews(ctx context.Context, customerID uuid.UUID) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, customerID uuid.UUID, update domain.ReviewUpdate) (*domain.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID, customerID uuid.UUID) error
}
