package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login. Passwords are stored as
// bcrypt hashes; a plaintext password never touches the database.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    util.NamedLogger("auth"),
	}
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the login/register result.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type authClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a user with a bcrypt-hashed password and issues a token.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, req.Email)
	}

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

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return &AuthResponse{Token: token, User: user}, nil
}

// Login verifies the credentials against the stored hash. Unknown
// emails, wrong passwords, and deactivated accounts all fail the same
// way so the response doesn't leak which one happened.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.AuthLoginsTotal.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}

	if !user.IsActive {
		util.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.AuthLoginsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	util.AuthLoginsTotal.WithLabelValues("success").Inc()
	return &AuthResponse{Token: token, User: user}, nil
}

// CheckEmail reports whether an account with the email exists.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.store.EmailExists(ctx, email)
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*authClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	return claims, nil
}
