package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medtrack/internal/errs"
)

// Users persists locally registered accounts.
type Users struct {
	DB *gorm.DB
}

// Create hashes password and inserts the user. A taken email yields errs.ErrAlreadyExists.
func (s *Users) Create(ctx context.Context, email, password string) (*User, error) {
	var taken int64
	if err := s.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken > 0 {
		return nil, errs.ErrAlreadyExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := User{Email: email, PasswordHash: hash}
	// the unique index still catches concurrent registrations
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Authenticate returns the user for valid credentials and errs.ErrUnauthorized otherwise.
func (s *Users) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !ComparePassword(u.PasswordHash, password) {
		return nil, errs.ErrUnauthorized
	}
	return &u, nil
}

// Get returns errs.ErrNotFound for users that only exist on the external auth platform.
func (s *Users) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}
