package medicine

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

// Store persists medicines and their intake logs. Every query is scoped by user id.
type Store struct {
	DB *gorm.DB
}

type ListFilter struct {
	Active *bool
}

type LogFilter struct {
	MedicineID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Limit      int
}

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

func (s *Store) Create(ctx context.Context, m *Medicine) error {
	if err := s.DB.WithContext(ctx).Omit("Logs").Create(m).Error; err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID, id uuid.UUID) (*Medicine, error) {
	var m Medicine
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get medicine %s: %w", id, err)
	}
	return &m, nil
}

func (s *Store) List(ctx context.Context, userID uuid.UUID, f ListFilter) ([]Medicine, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}
	var out []Medicine
	if err := q.Order("name asc").Order("created_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return out, nil
}

// Update writes every column of m. The row must belong to m.UserID.
func (s *Store) Update(ctx context.Context, m *Medicine) error {
	res := s.DB.WithContext(ctx).
		Model(&Medicine{}).
		Where("id = ? AND user_id = ?", m.ID, m.UserID).
		Select("*").
		Omit("ID", "UserID", "CreatedAt", "Logs").
		Updates(m)
	if res.Error != nil {
		return fmt.Errorf("update medicine %s: %w", m.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the medicine together with all of its intake logs.
func (s *Store) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medicine_id = ? AND user_id = ?", id, userID).Delete(&Log{}).Error; err != nil {
			return fmt.Errorf("delete logs of medicine %s: %w", id, err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Medicine{})
		if res.Error != nil {
			return fmt.Errorf("delete medicine %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.ErrNotFound
		}
		return nil
	})
}

// CreateLog inserts an intake after checking that the medicine belongs to the
// user and that no other intake of it lies within DuplicateWindow.
func (s *Store) CreateLog(ctx context.Context, l *Log) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Medicine
		if err := tx.Select("id").Where("id = ? AND user_id = ?", l.MedicineID, l.UserID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return fmt.Errorf("check medicine %s: %w", l.MedicineID, err)
		}

		var near []time.Time
		if err := tx.Model(&Log{}).
			Where("user_id = ? AND medicine_id = ?", l.UserID, l.MedicineID).
			Where("taken_at >= ? AND taken_at <= ?", l.TakenAt.UTC().Add(-DuplicateWindow), l.TakenAt.UTC().Add(DuplicateWindow)).
			Pluck("taken_at", &near).Error; err != nil {
			return fmt.Errorf("check duplicate intake: %w", err)
		}
		for _, t := range near {
			if IsDuplicate(t, l.TakenAt) {
				return errs.ErrDuplicate
			}
		}

		if err := tx.Create(l).Error; err != nil {
			return fmt.Errorf("create medicine log: %w", err)
		}
		return nil
	})
}

func (s *Store) GetLog(ctx context.Context, userID, id uuid.UUID) (*Log, error) {
	var l Log
	if err := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get medicine log %s: %w", id, err)
	}
	return &l, nil
}

// ListLogs returns logs newest first.
func (s *Store) ListLogs(ctx context.Context, userID uuid.UUID, f LogFilter) ([]Log, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.MedicineID != nil {
		q = q.Where("medicine_id = ?", *f.MedicineID)
	}
	if f.Start != nil {
		q = q.Where("taken_at >= ?", f.Start.UTC())
	}
	if f.End != nil {
		q = q.Where("taken_at <= ?", f.End.UTC())
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	var out []Log
	if err := q.Order("taken_at desc").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list medicine logs: %w", err)
	}
	return out, nil
}

// LogsInWindow returns every log inside w in chronological order.
func (s *Store) LogsInWindow(ctx context.Context, userID uuid.UUID, medicineID *uuid.UUID, w period.Window) ([]Log, error) {
	q := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("taken_at >= ? AND taken_at <= ?", w.Start.UTC(), w.End.UTC())
	if medicineID != nil {
		q = q.Where("medicine_id = ?", *medicineID)
	}
	var out []Log
	if err := q.Order("taken_at asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("logs in window: %w", err)
	}
	return out, nil
}

// LatestLog returns the most recent intake of a medicine, or nil when none exists.
func (s *Store) LatestLog(ctx context.Context, userID, medicineID uuid.UUID) (*Log, error) {
	var l Log
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND medicine_id = ?", userID, medicineID).
		Order("taken_at desc").
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest log of medicine %s: %w", medicineID, err)
	}
	return &l, nil
}

func (s *Store) UpdateLog(ctx context.Context, l *Log) error {
	res := s.DB.WithContext(ctx).
		Model(&Log{}).
		Where("id = ? AND user_id = ?", l.ID, l.UserID).
		Select("taken_at", "dosage_taken", "notes", "updated_at").
		Updates(l)
	if res.Error != nil {
		return fmt.Errorf("update medicine log %s: %w", l.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLog(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&Log{})
	if res.Error != nil {
		return fmt.Errorf("delete medicine log %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
