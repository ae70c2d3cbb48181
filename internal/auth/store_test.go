package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"medtrack/internal/errs"
)

func setupUsers(t *testing.T) *Users {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&User{}))
	return &Users{DB: gdb}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := setupUsers(t)

	u, err := s.Create(ctx, "ann@example.com", "long enough")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, "long enough", u.PasswordHash)

	_, err = s.Create(ctx, "ann@example.com", "another one")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	got, err := s.Authenticate(ctx, "ann@example.com", "long enough")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = s.Authenticate(ctx, "bob@example.com", "long enough")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
