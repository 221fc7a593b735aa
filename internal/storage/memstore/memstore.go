// Package memstore is an in-memory storage.Store used by unit tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"asistencia/internal/models"
	"asistencia/internal/storage"
)

type Store struct {
	mu        sync.Mutex
	config    map[string]string
	employees map[int64]models.Employee
	events    []models.AttendanceEvent
	nextEmpID int64
	nextEvID  int64
}

func New() *Store {
	return &Store{
		config:    map[string]string{},
		employees: map[int64]models.Employee{},
		nextEmpID: 1,
		nextEvID:  1,
	}
}

func (s *Store) GetConfig(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.config[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) SetConfig(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}

func (s *Store) CreateEmployee(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.nextEmpID
		s.nextEmpID++
	} else if e.ID >= s.nextEmpID {
		s.nextEmpID = e.ID + 1
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.employees[e.ID] = *e
	return nil
}

func (s *Store) Employee(_ context.Context, id int64) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &e, nil
}

func (s *Store) EmployeeByDeviceToken(_ context.Context, tok string) (*models.Employee, error) {
	if tok == "" {
		return nil, storage.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.employees {
		if e.Active && e.DeviceToken == tok {
			e := e
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) ListEmployees(_ context.Context, onlyActive bool) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Employee
	for _, e := range s.employees {
		if onlyActive && !e.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateEmployee(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return storage.ErrNotFound
	}
	s.employees[e.ID] = *e
	return nil
}

func (s *Store) BindDevice(_ context.Context, employeeID int64, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return storage.ErrNotFound
	}
	e.DeviceToken = tok
	s.employees[employeeID] = e
	return nil
}

func (s *Store) UnbindDevice(ctx context.Context, employeeID int64) error {
	return s.BindDevice(ctx, employeeID, "")
}

func (s *Store) AppendEvent(_ context.Context, ev *models.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == 0 {
		ev.ID = s.nextEvID
		s.nextEvID++
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	s.events = append(s.events, *ev)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (s *Store) LastEventOfDay(_ context.Context, employeeID int64, day time.Time) (*models.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last *models.AttendanceEvent
	for i := range s.events {
		ev := s.events[i]
		if ev.EmployeeID != employeeID || !sameDay(ev.Timestamp, day) {
			continue
		}
		if last == nil || ev.Timestamp.After(last.Timestamp) {
			last = &s.events[i]
		}
	}
	if last == nil {
		return nil, storage.ErrNotFound
	}
	out := *last
	return &out, nil
}

func (s *Store) row(ev models.AttendanceEvent) storage.EventRow {
	row := storage.EventRow{AttendanceEvent: ev}
	if e, ok := s.employees[ev.EmployeeID]; ok {
		row.Name = e.Name
		row.Department = e.Department
	}
	return row
}

func (s *Store) EventsOfDay(_ context.Context, day time.Time) ([]storage.EventRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []storage.EventRow
	for _, ev := range s.events {
		if sameDay(ev.Timestamp, day) {
			rows = append(rows, s.row(ev))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.After(rows[j].Timestamp) })
	return rows, nil
}

func (s *Store) EventsInRange(_ context.Context, from, to string, employeeID int64) ([]storage.EventRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []storage.EventRow
	for _, ev := range s.events {
		if employeeID != 0 && ev.EmployeeID != employeeID {
			continue
		}
		day := ev.Timestamp.Format("2006-01-02")
		if day < from || day > to {
			continue
		}
		rows = append(rows, s.row(ev))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })
	return rows, nil
}

func (s *Store) WipeEvents(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}

func (s *Store) WipeAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.employees = map[int64]models.Employee{}
	return nil
}
