package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	userserrors "roombook/internal/users/errors"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/jwt"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

const testUserID = "64f1a2b3c4d5e6f7a8b9c0e1"

type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	deleteFunc      func(ctx context.Context, id string) error

	createdUser *model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createdUser = user
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return &model.User{ID: id}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	return &model.User{ID: id, Role: role}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingCounter struct {
	count int64
}

func (m *mockBookingCounter) CountByUser(ctx context.Context, userID string) (int64, error) {
	return m.count, nil
}

func newTestService(repo *mockUserRepository, bookings *mockBookingCounter) UserService {
	cfg := &config.Config{
		Location: time.UTC,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Output:  io.Discard,
			Service: "test",
		}),
	}
	tokens := jwt.New("test-secret-for-unit-tests", time.Hour)
	return NewUserService(repo, bookings, tokens, cfg)
}

func validRegistration() *model.UserRegistration {
	return &model.UserRegistration{
		FullName:   "Dana Levi",
		Email:      "Dana.Levi@Example.com",
		Password:   "correct-horse-battery",
		Department: "Engineering",
	}
}

func TestRegister(t *testing.T) {
	repo := &mockUserRepository{}
	svc := newTestService(repo, &mockBookingCounter{})

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "dana.levi@example.com", user.Email, "email must be lowercased")
	assert.Equal(t, model.RoleUser, user.Role, "registration must never grant admin")
	assert.NotEqual(t, "correct-horse-battery", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse-battery")))
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, &mockBookingCounter{})

	input := validRegistration()
	input.Password = "short"
	_, err := svc.Register(context.Background(), input)

	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(repo, &mockBookingCounter{})

	_, err := svc.Register(context.Background(), validRegistration())

	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &model.User{
		ID:           testUserID,
		Email:        "dana.levi@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, userserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockBookingCounter{})

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), &model.UserCredentials{
			Email:    " Dana.Levi@Example.com ",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, testUserID, result.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.UserCredentials{
			Email:    "dana.levi@example.com",
			Password: "wrong-password",
		})
		appErr := apperrors.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.UserCredentials{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		})
		appErr := apperrors.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
		// Same message as a wrong password so the response does not leak
		// which emails are registered.
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})
}

func TestUpdateRole(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, &mockBookingCounter{})

	user, err := svc.UpdateRole(context.Background(), testUserID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	_, err = svc.UpdateRole(context.Background(), testUserID, "superuser")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeInvalidInput, appErr.Code)
}

func TestDelete_RefusesUserWithBookings(t *testing.T) {
	deleted := false
	repo := &mockUserRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo, &mockBookingCounter{count: 2})

	err := svc.Delete(context.Background(), testUserID)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.False(t, deleted)
}

func TestDelete_RemovesUserWithoutBookings(t *testing.T) {
	deleted := false
	repo := &mockUserRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo, &mockBookingCounter{})

	require.NoError(t, svc.Delete(context.Background(), testUserID))
	assert.True(t, deleted)
}
