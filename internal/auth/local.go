package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/studyhive/studyhive/internal/db/models"
	"github.com/studyhive/studyhive/internal/fault"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Register creates a new account with an argon2id hashed password.
func (p *LocalProvider) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fault.New(fault.Validation, "username, email and password are required")
	}

	// Check if user already exists
	var existing models.User

	err := p.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		First(&existing).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fault.FromDB(err, "failed to check existing user")
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: models.HashPassword(password),
	}

	if err := p.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fault.FromDB(err, "failed to create user")
	}

	return &user, nil
}

// Authenticate verifies a username/password pair against the local database.
func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fault.FromDB(err, "failed to query user")
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User
	if err := p.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, fault.FromDB(err, "failed to load user")
	}

	return &user, nil
}
