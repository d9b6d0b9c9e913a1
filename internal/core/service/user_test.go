package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmamart/backend/internal/adapter/auth"
	"github.com/pharmamart/backend/internal/adapter/config"
	"github.com/pharmamart/backend/internal/core/domain"
	"github.com/pharmamart/backend/internal/core/port/mock"
	"github.com/pharmamart/backend/internal/core/service"
	"github.com/pharmamart/backend/internal/core/utils"
)

func TestUserService_RegisterUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		ID:       uuid.New(),
		Name:     "Test",
		Email:    "test@example.com",
		Password: hashedPass,
		Role:     domain.RoleCustomer,
	}

	tests := []struct {
		name     string
		user     domain.User
		mock     func(users *mock.MockUserRepository)
		expError error
	}{
		{
			name: "register good",
			user: domain.User{Name: user.Name, Email: user.Email, Password: "test", Role: domain.RoleCustomer},
			mock: func(users *mock.MockUserRepository) {
				users.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(nil, domain.ErrDataNotFound)
				users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
						// The id is assigned by the service; anything else
						// would insert the zero uuid as the primary key.
						assert.NotEqual(t, uuid.Nil, u.ID)
						assert.Equal(t, user.Email, u.Email)
						return u, nil
					})
			},
		},
		{
			name: "register already exists",
			user: domain.User{Name: user.Name, Email: user.Email, Password: "test", Role: domain.RoleCustomer},
			mock: func(users *mock.MockUserRepository) {
				users.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
			expError: domain.ErrConflictingData,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			users := mock.NewMockUserRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			test.mock(users)

			s, err := service.NewUserService(users, ts, logger)
			require.NoError(t, err)

			result, err := s.RegisterUser(context.Background(), &test.user)

			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			assert.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEqual(t, uuid.Nil, result.ID)
			assert.Equal(t, user.Email, result.Email)
		})
	}
}

func TestUserService_LoginUser(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	hashedPass, _ := utils.HashPassword("test")
	user := domain.User{
		ID:       uuid.New(),
		Email:    "test@example.com",
		Password: hashedPass,
		Role:     domain.RoleSeller,
	}

	tests := []struct {
		name     string
		email    string
		password string
		mock     func(users *mock.MockUserRepository)
		expError error
	}{
		{
			name:     "login good",
			email:    user.Email,
			password: "test",
			mock: func(users *mock.MockUserRepository) {
				users.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
		},
		{
			name:     "password bad",
			email:    user.Email,
			password: "hacker",
			mock: func(users *mock.MockUserRepository) {
				users.EXPECT().GetUserByEmail(gomock.Any(), user.Email).Return(&user, nil)
			},
			expError: domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "hacker@example.com",
			password: "test",
			mock: func(users *mock.MockUserRepository) {
				users.EXPECT().GetUserByEmail(gomock.Any(), "hacker@example.com").
					Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrInvalidCredentials,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			users := mock.NewMockUserRepository(mockCtrl)
			ts, err := auth.New(&config.Auth{TokenDuration: "1h"})
			require.NoError(t, err)
			test.mock(users)

			s, err := service.NewUserService(users, ts, logger)
			require.NoError(t, err)

			token, err := s.LoginUser(context.Background(), test.email, test.password)
			assert.Equal(t, test.expError, err)

			if token != "" {
				payload, err := ts.VerifyToken(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID, payload.UserID)
				assert.Equal(t, user.Role, payload.Role)
			}
		})
	}
}
