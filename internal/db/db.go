package db

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medtrack/internal/auth"
	"medtrack/internal/medicine"
	"medtrack/internal/weight"
)

const sqlitePrefix = "sqlite:"

// Connect opens the store named by dsn. A "sqlite:" prefix selects SQLite
// (local runs and tests); anything else is Postgres, through pgx by default
// or through lib/pq when driver is "pq".
func Connect(dsn, driver string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, sqlitePrefix):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	case driver == "pq":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case driver == "" || driver == "pgx":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&medicine.Medicine{},
		&medicine.Log{},
		&weight.Log{},
	); err != nil {
		return err
	}

	// Listing and window queries are always scoped by owner first.
	stmts := []string{
		`create index if not exists idx_medicines_user_active on medicines(user_id, active);`,
		`create index if not exists idx_medicine_logs_user_taken on medicine_logs(user_id, taken_at);`,
		`create index if not exists idx_medicine_logs_medicine_taken on medicine_logs(medicine_id, taken_at);`,
		`create index if not exists idx_weight_logs_user_logged on weight_logs(user_id, logged_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
