// Package storage defines the single persistence contract the service runs
// against: the string-keyed config store, the employee table and the
// append-only attendance event log.
package storage

import (
	"context"
	"errors"
	"time"

	"asistencia/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// EventRow is an attendance event joined with the employee it belongs to,
// as the report and dashboard queries need it.
type EventRow struct {
	models.AttendanceEvent
	Name       string `json:"nombre"`
	Department string `json:"departamento"`
}

type Store interface {
	// Config.
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Employees.
	CreateEmployee(ctx context.Context, e *models.Employee) error
	Employee(ctx context.Context, id int64) (*models.Employee, error)
	EmployeeByDeviceToken(ctx context.Context, tok string) (*models.Employee, error)
	ListEmployees(ctx context.Context, onlyActive bool) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, e *models.Employee) error
	BindDevice(ctx context.Context, employeeID int64, tok string) error
	UnbindDevice(ctx context.Context, employeeID int64) error

	// Attendance events. Range bounds are inclusive ISO dates (2006-01-02);
	// employeeID 0 means all employees.
	AppendEvent(ctx context.Context, ev *models.AttendanceEvent) error
	LastEventOfDay(ctx context.Context, employeeID int64, day time.Time) (*models.AttendanceEvent, error)
	EventsOfDay(ctx context.Context, day time.Time) ([]EventRow, error)
	EventsInRange(ctx context.Context, from, to string, employeeID int64) ([]EventRow, error)

	// Destructive admin actions.
	WipeEvents(ctx context.Context) error
	WipeAll(ctx context.Context) error
}
