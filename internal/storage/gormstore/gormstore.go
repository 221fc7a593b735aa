// Package gormstore is the MySQL-backed implementation of storage.Store.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asistencia/internal/models"
	"asistencia/internal/storage"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var entry models.ConfigEntry
	err := s.db.WithContext(ctx).First(&entry, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	entry := models.ConfigEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}

func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *Store) Employee(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	err := s.db.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) EmployeeByDeviceToken(ctx context.Context, tok string) (*models.Employee, error) {
	// Unbound employees hold an empty token; never match on it.
	if tok == "" {
		return nil, storage.ErrNotFound
	}
	var e models.Employee
	err := s.db.WithContext(ctx).
		Where("device_token = ? AND active = ?", tok, true).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context, onlyActive bool) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Order("name")
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var out []models.Employee
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	return s.db.WithContext(ctx).Save(e).Error
}

func (s *Store) BindDevice(ctx context.Context, employeeID int64, tok string) error {
	return s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", employeeID).
		Update("device_token", tok).Error
}

func (s *Store) UnbindDevice(ctx context.Context, employeeID int64) error {
	return s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", employeeID).
		Update("device_token", "").Error
}

func (s *Store) AppendEvent(ctx context.Context, ev *models.AttendanceEvent) error {
	return s.db.WithContext(ctx).Create(ev).Error
}

func (s *Store) LastEventOfDay(ctx context.Context, employeeID int64, day time.Time) (*models.AttendanceEvent, error) {
	var ev models.AttendanceEvent
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND DATE(timestamp) = ?", employeeID, day.Format("2006-01-02")).
		Order("timestamp DESC").
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Store) EventsOfDay(ctx context.Context, day time.Time) ([]storage.EventRow, error) {
	var rows []storage.EventRow
	err := s.db.WithContext(ctx).
		Table("attendance_events ae").
		Select("ae.*, e.name, e.department").
		Joins("JOIN employees e ON e.id = ae.employee_id").
		Where("DATE(ae.timestamp) = ?", day.Format("2006-01-02")).
		Order("ae.timestamp DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) EventsInRange(ctx context.Context, from, to string, employeeID int64) ([]storage.EventRow, error) {
	q := s.db.WithContext(ctx).
		Table("attendance_events ae").
		Select("ae.*, e.name, e.department").
		Joins("JOIN employees e ON e.id = ae.employee_id").
		Where("DATE(ae.timestamp) BETWEEN ? AND ?", from, to).
		Order("ae.timestamp")
	if employeeID != 0 {
		q = q.Where("ae.employee_id = ?", employeeID)
	}
	var rows []storage.EventRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) WipeEvents(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("DELETE FROM attendance_events").Error
}

func (s *Store) WipeAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM attendance_events").Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM employees").Error
	})
}
