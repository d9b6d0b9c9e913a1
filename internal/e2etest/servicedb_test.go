package e2etest_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/adapter/config"
	"github.com/pharmamart/backend/internal/adapter/storage"
	"github.com/pharmamart/backend/internal/adapter/storage/repository"
	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/service"
	"github.com/pharmamart/backend/internal/core/utils"
	"github.com/pharmamart/backend/internal/e2etest/testdb"
)

var dbtest *testdb.TestDBInstance

func setup() {
	var err error
	dbtest, err = testdb.NewTestDBInstance()
	if err != nil {
		log.Fatal(err)
	}
}

func shutdown() {
	if dbtest != nil {
		dbtest.Down()
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	shutdown()
	os.Exit(code)
}

func getRepo(t *testing.T) *repository.Repository {
	t.Helper()

	db, err := storage.NewDBStorage(context.Background(), &config.Database{DSN: dbtest.DSN})
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	repo, err := repository.NewRepository(db)
	require.NoError(t, err)
	return repo
}

func seedUser(t *testing.T, repo *repository.Repository, role domain.UserRole) *domain.User {
	t.Helper()

	hashed, err := utils.HashPassword("test")
	require.NoError(t, err)

	user, err := repo.CreateUser(context.Background(), &domain.User{
		ID:       uuid.New(),
		Name:     "user " + uuid.NewString()[:8],
		Email:    uuid.NewString() + "@example.com",
		Password: hashed,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func seedMedicine(t *testing.T, repo *repository.Repository, sellerID uuid.UUID,
	price string, stock int32) *domain.Medicine {
	t.Helper()

	category, err := repo.CreateCategory(context.Background(), &domain.Category{
		ID:   uuid.New(),
		Name: "category " + uuid.NewString()[:8],
		Slug: "category-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)

	medicine, err := repo.CreateMedicine(context.Background(), &domain.Medicine{
		ID:         uuid.New(),
		Name:       "medicine " + uuid.NewString()[:8],
		Slug:       "medicine-" + uuid.NewString()[:8],
		Price:      decimal.MustParse(price),
		Stock:      stock,
		CategoryID: category.ID,
		SellerID:   sellerID,
		IsActive:   true,
	})
	require.NoError(t, err)
	return medicine
}

func readStock(t *testing.T, repo *repository.Repository, medicineID uuid.UUID) int32 {
	t.Helper()

	medicine, err := repo.ReadMedicine(context.Background(), medicineID)
	require.NoError(t, err)
	return medicine.Stock
}

func TestOrderDB_NoOversell(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "4.20", 5)

	s, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)

	const buyers = 10
	errs := make([]error, buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		customer := seedUser(t, repo, domain.RoleCustomer)
		wg.Add(1)
		go func(i int, customerID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = s.CreateOrder(context.Background(), customerID,
				fmt.Sprintf("Apt %d, Main Street", i),
				[]domain.CartItem{{MedicineID: medicine.ID, Quantity: 1}})
		}(i, customer.ID)
	}
	wg.Wait()

	placed := 0
	for _, err := range errs {
		if err == nil {
			placed++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 5, placed)
	assert.Equal(t, int32(0), readStock(t, repo, medicine.ID))
}

func TestOrderDB_AllOrNothingReservation(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	plenty := seedMedicine(t, repo, seller.ID, "2.00", 10)
	scarce := seedMedicine(t, repo, seller.ID, "8.00", 1)
	customer := seedUser(t, repo, domain.RoleCustomer)

	s, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)

	_, err = s.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{
			{MedicineID: plenty.ID, Quantity: 2},
			{MedicineID: scarce.ID, Quantity: 5},
		})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The reservation for the first line must have been released.
	assert.Equal(t, int32(10), readStock(t, repo, plenty.ID))
	assert.Equal(t, int32(1), readStock(t, repo, scarce.ID))
}

func TestOrderDB_DuplicateCartLines(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "3.50", 5)
	customer := seedUser(t, repo, domain.RoleCustomer)

	s, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)

	// Two lines of the same medicine journal under one reservation row.
	order, err := s.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{
			{MedicineID: medicine.ID, Quantity: 2},
			{MedicineID: medicine.ID, Quantity: 1},
		})
	require.NoError(t, err)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "10.50", order.TotalAmount.String())
	assert.Equal(t, int32(2), readStock(t, repo, medicine.ID))

	// A duplicate-line cart that runs short mid-reservation compensates
	// fully: the first line's units come back.
	_, err = s.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{
			{MedicineID: medicine.ID, Quantity: 2},
			{MedicineID: medicine.ID, Quantity: 2},
		})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int32(2), readStock(t, repo, medicine.ID))

	// Cancelling returns both lines.
	_, err = s.CancelOrder(context.Background(), order.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(5), readStock(t, repo, medicine.ID))
}

func TestOrderDB_CancelRestoresStock(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "1.50", 5)
	customer := seedUser(t, repo, domain.RoleCustomer)

	s, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)

	order, err := s.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{{MedicineID: medicine.ID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), readStock(t, repo, medicine.ID))
	assert.Equal(t, "4.50", order.TotalAmount.String())

	cancelled, err := s.CancelOrder(context.Background(), order.ID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, int32(5), readStock(t, repo, medicine.ID))

	// A second cancel finds the order already terminal.
	_, err = s.CancelOrder(context.Background(), order.ID, customer.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, int32(5), readStock(t, repo, medicine.ID))
}

func TestOrderDB_StatusLifecycle(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "3.00", 5)
	customer := seedUser(t, repo, domain.RoleCustomer)
	admin := domain.Actor{ID: seedUser(t, repo, domain.RoleAdmin).ID, Role: domain.RoleAdmin}

	s, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)

	order, err := s.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{{MedicineID: medicine.ID, Quantity: 1}})
	require.NoError(t, err)

	// Skipping a step is rejected before anything is written.
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, "DELIVERED", admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	for _, status := range []string{"PROCESSING", "SHIPPED", "DELIVERED"} {
		updated, err := s.UpdateOrderStatus(context.Background(), order.ID, status, admin)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatus(status), updated.Status)
	}

	// Terminal orders accept nothing further.
	_, err = s.UpdateOrderStatus(context.Background(), order.ID, "PROCESSING", admin)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = s.CancelOrder(context.Background(), order.ID, customer.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The seller sees the order; a stranger does not.
	_, err = s.GetOrder(context.Background(), order.ID, domain.Actor{ID: seller.ID, Role: domain.RoleSeller})
	assert.NoError(t, err)
	_, err = s.GetOrder(context.Background(), order.ID,
		domain.Actor{ID: uuid.New(), Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrderDB_ExpiredReservationRelease(t *testing.T) {
	repo := getRepo(t)

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "5.00", 8)

	// A reservation that never became an order, as after a crash between
	// the stock decrement and the order insert.
	reservationID := uuid.New()
	require.NoError(t, repo.ReserveStock(context.Background(), reservationID, medicine.ID, 3))
	assert.Equal(t, int32(5), readStock(t, repo, medicine.ID))

	time.Sleep(50 * time.Millisecond)

	released, err := repo.ReleaseExpiredReservations(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, released)
	assert.Equal(t, int32(8), readStock(t, repo, medicine.ID))

	// Nothing left to release on the next sweep.
	released, err = repo.ReleaseExpiredReservations(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 0, released)
}

func TestReviewDB_DeliveryGate(t *testing.T) {
	repo := getRepo(t)
	logger, _ := zap.NewProduction()

	seller := seedUser(t, repo, domain.RoleSeller)
	medicine := seedMedicine(t, repo, seller.ID, "6.00", 5)
	customer := seedUser(t, repo, domain.RoleCustomer)
	admin := domain.Actor{ID: seedUser(t, repo, domain.RoleAdmin).ID, Role: domain.RoleAdmin}

	orderSvc, err := service.NewOrderService(repo, repo, logger)
	require.NoError(t, err)
	reviewSvc, err := service.NewReviewService(repo, logger)
	require.NoError(t, err)

	order, err := orderSvc.CreateOrder(context.Background(), customer.ID, "221B Baker Street",
		[]domain.CartItem{{MedicineID: medicine.ID, Quantity: 1}})
	require.NoError(t, err)

	// Not delivered yet.
	_, err = reviewSvc.CreateReview(context.Background(), &domain.Review{
		CustomerID: customer.ID, MedicineID: medicine.ID, Rating: 5,
	})
	assert.ErrorIs(t, err, domain.ErrReviewNotAllowed)

	for _, status := range []string{"PROCESSING", "SHIPPED", "DELIVERED"} {
		_, err = orderSvc.UpdateOrderStatus(context.Background(), order.ID, status, admin)
		require.NoError(t, err)
	}

	review, err := reviewSvc.CreateReview(context.Background(), &domain.Review{
		CustomerID: customer.ID, MedicineID: medicine.ID, Rating: 5, Comment: "fast delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, medicine.ID, review.MedicineID)
}
