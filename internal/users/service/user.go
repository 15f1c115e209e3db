package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	userserrors "roombook/internal/users/errors"
	"roombook/internal/users/repository"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/jwt"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
)

// BookingCounter is the slice of the bookings domain the delete guard
// needs.
type BookingCounter interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, input *model.UserRegistration) (*model.User, error)
	Login(ctx context.Context, creds *model.UserCredentials) (*LoginResult, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	UpdateRole(ctx context.Context, id, role string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo     repository.UserRepository
	bookings BookingCounter
	tokens   *jwt.Service
	validate *validator.Validate
	cfg      *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	bookings BookingCounter,
	tokens *jwt.Service,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:     repo,
		bookings: bookings,
		tokens:   tokens,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *userService) Register(ctx context.Context, input *model.UserRegistration) (*model.User, error) {
	input.FullName = sanitizer.NormalizeName(input.FullName)
	input.Email = sanitizer.NormalizeEmail(input.Email)
	input.Department = sanitizer.NormalizeName(input.Department)
	input.Phone = sanitizer.NormalizePhone(input.Phone)

	if err := s.validate.Struct(input); err != nil {
		s.cfg.Log.Warn("User registration validation failed", "error", err)
		return nil, apperrors.Validation("Invalid registration input", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Department:   input.Department,
		Phone:        input.Phone,
		Role:         model.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered successfully", "id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) Login(ctx context.Context, creds *model.UserCredentials) (*LoginResult, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)

	if err := s.validate.Struct(creds); err != nil {
		return nil, apperrors.Validation("Invalid credentials input", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			// Same message as a bad password; login must not reveal
			// which emails exist.
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.cfg.Log.Warn("Failed login attempt", "email", creds.Email)
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, apperrors.InvalidInput("Role must be 'user' or 'admin'")
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		return nil, apperrors.Internal("Failed to update user role", err)
	}

	s.cfg.Log.Info("User role updated", "id", id, "role", role)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	count, err := s.bookings.CountByUser(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to check user bookings", err)
	}
	if count > 0 {
		return apperrors.Conflict("Cannot delete a user with existing bookings").
			WithDetails(map[string]any{"booking_count": count})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted", "id", id)
	return nil
}
