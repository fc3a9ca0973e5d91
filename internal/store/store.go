package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique-constraint violations.
var ErrDuplicate = errors.New("duplicate")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateUser inserts a new user. Returns ErrDuplicate when the email is taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := s.db.GetContext(ctx, user, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Phone, user.Role, user.IsActive)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
	}
	return err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists checks whether a user with the given email exists.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email)
	return exists, err
}

// GetUsers retrieves a page of users plus the total count.
func (s *Store) GetUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users ORDER BY id OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// GetUsersByRole retrieves all users with the given role.
func (s *Store) GetUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE role = $1 ORDER BY id", role)
	return users, err
}

// UpdateUser updates the mutable user fields.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
		    role = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &user.UpdatedAt, query,
		user.FirstName, user.LastName, user.Email, user.Phone,
		user.Role, user.IsActive, user.ID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("user %d: %w", user.ID, ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
	}
	return err
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2",
		passwordHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// DeactivateUser soft-deletes a user.
func (s *Store) DeactivateUser(ctx context.Context, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1", userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
