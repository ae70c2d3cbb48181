package weight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"medtrack/internal/errs"
	"medtrack/internal/period"
)

// Store persists weight logs scoped by user id.
type Store struct {
	DB *gorm.DB
}

type ListFilter struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func (s *Store) Create(ctx context.Context, l *Log) error {
	if err := s.DB.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create weight log: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID, id uuid.UUID) (*Log, error) {
	var l Log
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get weight log %s: %w", id, err)
	}
	return &l, nil
}

// List returns logs newest first.
func (s *Store) List(ctx context.Context, userID uuid.UUID, f ListFilter) ([]Log, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("logged_at >= ?", f.Start.UTC())
	}
	if f.End != nil {
		q = q.Where("logged_at <= ?", f.End.UTC())
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	var out []Log
	if err := q.Order("logged_at desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list weight logs: %w", err)
	}
	return out, nil
}

// InWindow returns every log inside w in chronological order.
func (s *Store) InWindow(ctx context.Context, userID uuid.UUID, w period.Window) ([]Log, error) {
	var out []Log
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("logged_at >= ? AND logged_at <= ?", w.Start.UTC(), w.End.UTC()).
		Order("logged_at asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("weight logs in window: %w", err)
	}
	return out, nil
}

// Latest returns the most recent measurement, or nil when none exists.
func (s *Store) Latest(ctx context.Context, userID uuid.UUID) (*Log, error) {
	var l Log
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("logged_at desc").First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest weight log: %w", err)
	}
	return &l, nil
}

// CountSameDay counts other measurements on the UTC calendar day of t.
func (s *Store) CountSameDay(ctx context.Context, userID uuid.UUID, t time.Time) (int64, error) {
	start := period.StartOfDay(t.UTC())
	var n int64
	err := s.DB.WithContext(ctx).Model(&Log{}).
		Where("user_id = ?", userID).
		Where("logged_at >= ? AND logged_at < ?", start, start.Add(period.Day)).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count same-day weight logs: %w", err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, l *Log) error {
	res := s.DB.WithContext(ctx).
		Model(&Log{}).
		Where("id = ? AND user_id = ?", l.ID, l.UserID).
		Select("weight_kg", "unit", "logged_at", "body_fat_percentage", "muscle_mass", "notes", "updated_at").
		Updates(l)
	if res.Error != nil {
		return fmt.Errorf("update weight log %s: %w", l.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Log{})
	if res.Error != nil {
		return fmt.Errorf("delete weight log %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
