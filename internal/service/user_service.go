package service

import (
	"context"
	"fmt"
	"strings"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user management.
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store) *UserService {
	return &UserService{
		store:  st,
		logger: util.NamedLogger("user"),
	}
}

// UserPage is one page of users.
type UserPage struct {
	Content       []models.User `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
}

// GetUsers returns a page of users.
func (s *UserService) GetUsers(ctx context.Context, pageNum, size int) (*UserPage, error) {
	if size <= 0 {
		size = 10
	}
	if pageNum < 0 {
		pageNum = 0
	}

	users, total, err := s.store.GetUsers(ctx, pageNum*size, size)
	if err != nil {
		return nil, translate(err)
	}

	return &UserPage{
		Content:       users,
		Page:          pageNum,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// GetUserByID retrieves one user.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	return user, translate(err)
}

// GetUserByEmail retrieves one user by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	return user, translate(err)
}

// GetUsersByRole lists users with the given role.
func (s *UserService) GetUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	role = strings.ToUpper(role)
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	users, err := s.store.GetUsersByRole(ctx, role)
	return users, translate(err)
}

// CreateUser creates an account through the admin surface. The password
// is hashed exactly as in registration.
func (s *UserService) CreateUser(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translate(err)
	}
	return user, nil
}

// UpdateUserRequest carries the mutable profile fields. A non-empty
// password is re-hashed; an empty one leaves the hash untouched.
type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  *bool  `json:"isActive"`
}

// UpdateUser updates a user's profile.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Phone = req.Phone
	if req.Role != "" {
		role := strings.ToUpper(req.Role)
		if role != models.RoleUser && role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, translate(err)
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.store.UpdateUserPassword(ctx, id, string(hash)); err != nil {
			return nil, translate(err)
		}
	}

	return user, nil
}

// DeleteUser soft-deletes a user so orders keep a valid reference.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeactivateUser(ctx, id); err != nil {
		return translate(err)
	}
	s.logger.Info("User deactivated", zap.Int64("user_id", id))
	return nil
}
