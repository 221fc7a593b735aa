package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"asistencia/internal/models"
	"asistencia/internal/storage"
	"asistencia/internal/token"
)

// Typed results of the check-in and binding workflows. Handlers map these to
// user-facing messages; nothing below this layer reaches the transport as an
// unhandled fault.
var (
	ErrQRExpired                = errors.New("rotating token invalid or expired")
	ErrDeviceNotRegistered      = errors.New("device token missing")
	ErrInvalidDeviceToken       = errors.New("device token invalid")
	ErrInvalidRegistrationToken = errors.New("registration token invalid")
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrEmployeeInactive         = errors.New("employee inactive")
	ErrDeviceNotLinked          = errors.New("device not linked to employee")
)

type Service struct {
	store storage.Store
	codec *token.Codec

	// Per-employee critical sections so two concurrent scans cannot both
	// read "no check-in yet" and insert duplicate check-ins.
	locks sync.Map // int64 -> *sync.Mutex
}

func NewService(st storage.Store, codec *token.Codec) *Service {
	return &Service{store: st, codec: codec}
}

func (s *Service) employeeLock(id int64) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CheckInResult reports what a successful scan recorded.
type CheckInResult struct {
	Employee models.Employee
	Kind     models.EventKind
}

// CheckIn validates a scan against the currently displayed rotating token and
// the employee's bound device, resolves whether it records a check-in or a
// check-out, and appends the event.
func (s *Service) CheckIn(ctx context.Context, qrToken, deviceToken string) (CheckInResult, error) {
	if !s.codec.VerifyRotating(qrToken) {
		return CheckInResult{}, ErrQRExpired
	}
	if deviceToken == "" {
		return CheckInResult{}, ErrDeviceNotRegistered
	}

	employeeID, ok := s.codec.VerifyDevice(deviceToken)
	if !ok {
		return CheckInResult{}, ErrInvalidDeviceToken
	}

	emp, err := s.store.Employee(ctx, employeeID)
	if errors.Is(err, storage.ErrNotFound) {
		return CheckInResult{}, ErrEmployeeNotFound
	}
	if err != nil {
		return CheckInResult{}, fmt.Errorf("load employee: %w", err)
	}
	if !emp.Active {
		return CheckInResult{}, ErrEmployeeInactive
	}

	// Double defense: the token must not only carry a valid signature, it
	// must equal the one currently stored. Re-binding or unbinding the
	// employee therefore invalidates every older token instantly.
	if emp.DeviceToken != deviceToken {
		return CheckInResult{}, ErrDeviceNotLinked
	}

	mu := s.employeeLock(employeeID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now()
	last, err := s.store.LastEventOfDay(ctx, employeeID, now)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return CheckInResult{}, fmt.Errorf("load last event: %w", err)
	}

	kind := NextKind(last)
	ev := models.AttendanceEvent{
		EmployeeID: employeeID,
		Kind:       kind,
		Timestamp:  now,
		TokenUsed:  qrToken,
	}
	if err := s.store.AppendEvent(ctx, &ev); err != nil {
		return CheckInResult{}, fmt.Errorf("append event: %w", err)
	}

	return CheckInResult{Employee: *emp, Kind: kind}, nil
}

// BindResult reports a completed device binding.
type BindResult struct {
	Employee    models.Employee
	DeviceToken string
}

// Bind converts a registration token into a durable device-binding token
// stored on the employee record. A previously stored token is silently
// overwritten; the old device stops checking in from that moment.
//
// The employee's active flag is deliberately not checked here, only at
// check-in: a deactivated employee may still complete a pending
// registration link.
func (s *Service) Bind(ctx context.Context, regToken string) (BindResult, error) {
	employeeID, ok := s.codec.VerifyRegistration(regToken)
	if !ok {
		return BindResult{}, ErrInvalidRegistrationToken
	}

	emp, err := s.store.Employee(ctx, employeeID)
	if errors.Is(err, storage.ErrNotFound) {
		return BindResult{}, ErrEmployeeNotFound
	}
	if err != nil {
		return BindResult{}, fmt.Errorf("load employee: %w", err)
	}

	deviceToken, err := s.codec.IssueDevice(employeeID)
	if err != nil {
		return BindResult{}, fmt.Errorf("issue device token: %w", err)
	}
	if err := s.store.BindDevice(ctx, employeeID, deviceToken); err != nil {
		return BindResult{}, fmt.Errorf("store device token: %w", err)
	}

	emp.DeviceToken = deviceToken
	return BindResult{Employee: *emp, DeviceToken: deviceToken}, nil
}
