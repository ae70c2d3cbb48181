package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	gdb, err := Connect("sqlite::memory:", "")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrateAndIndexes(gdb))
	// idempotent
	require.NoError(t, AutoMigrateAndIndexes(gdb))

	for _, table := range []string{"users", "medicines", "medicine_logs", "weight_logs"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
	assert.True(t, gdb.Migrator().HasIndex("medicine_logs", "idx_medicine_logs_user_taken"))
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect("postgres://localhost/medtrack", "mysql")
	require.Error(t, err)
}
