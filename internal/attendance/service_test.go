package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"asistencia/internal/models"
	"asistencia/internal/storage/memstore"
	"asistencia/internal/token"
)

func newTestService(t *testing.T) (*Service, *memstore.Store, *token.Codec) {
	t.Helper()
	st := memstore.New()
	codec := token.NewCodec([]byte("unit-test-secret"))
	return NewService(st, codec), st, codec
}

func seedEmployee(t *testing.T, st *memstore.Store, active bool) *models.Employee {
	t.Helper()
	e := &models.Employee{
		Name:         "Ana Torres",
		Department:   "Almacen",
		ScheduledIn:  "09:00",
		ScheduledOut: "18:00",
		Active:       active,
	}
	require.NoError(t, st.CreateEmployee(context.Background(), e))
	return e
}

func bindDevice(t *testing.T, svc *Service, codec *token.Codec, employeeID int64) string {
	t.Helper()
	regTok, err := codec.IssueRegistration(employeeID)
	require.NoError(t, err)
	res, err := svc.Bind(context.Background(), regTok)
	require.NoError(t, err)
	return res.DeviceToken
}

func TestBind_StoresDeviceToken(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, true)

	regTok, err := codec.IssueRegistration(emp.ID)
	require.NoError(t, err)

	res, err := svc.Bind(ctx, regTok)
	require.NoError(t, err)
	require.Equal(t, emp.ID, res.Employee.ID)

	id, ok := codec.VerifyDevice(res.DeviceToken)
	require.True(t, ok)
	require.Equal(t, emp.ID, id)

	stored, err := st.Employee(ctx, emp.ID)
	require.NoError(t, err)
	require.Equal(t, res.DeviceToken, stored.DeviceToken)
}

func TestBind_InvalidToken(t *testing.T) {
	svc, _, codec := newTestService(t)

	_, err := svc.Bind(context.Background(), "reg:1:deadbeef:deadbeef")
	require.ErrorIs(t, err, ErrInvalidRegistrationToken)

	// A device token must not open the registration path.
	devTok, err := codec.IssueDevice(1)
	require.NoError(t, err)
	_, err = svc.Bind(context.Background(), devTok)
	require.ErrorIs(t, err, ErrInvalidRegistrationToken)
}

func TestBind_EmployeeNotFound(t *testing.T) {
	svc, _, codec := newTestService(t)
	regTok, err := codec.IssueRegistration(999)
	require.NoError(t, err)

	_, err = svc.Bind(context.Background(), regTok)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestBind_InactiveEmployeeMayStillBind(t *testing.T) {
	svc, st, codec := newTestService(t)
	emp := seedEmployee(t, st, false)

	regTok, err := codec.IssueRegistration(emp.ID)
	require.NoError(t, err)
	_, err = svc.Bind(context.Background(), regTok)
	require.NoError(t, err, "active flag is only enforced at check-in time")
}

func TestBind_RebindInvalidatesOldDevice(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, true)

	first := bindDevice(t, svc, codec, emp.ID)
	second := bindDevice(t, svc, codec, emp.ID)
	require.NotEqual(t, first, second)

	// The first token still carries a valid signature but no longer matches
	// the stored one, so check-in rejects it.
	_, err := svc.CheckIn(ctx, codec.IssueRotating(), first)
	require.ErrorIs(t, err, ErrDeviceNotLinked)

	res, err := svc.CheckIn(ctx, codec.IssueRotating(), second)
	require.NoError(t, err)
	require.Equal(t, models.CheckIn, res.Kind)
}

func TestCheckIn_Alternates(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, true)
	devTok := bindDevice(t, svc, codec, emp.ID)

	for i, want := range []models.EventKind{models.CheckIn, models.CheckOut, models.CheckIn} {
		res, err := svc.CheckIn(ctx, codec.IssueRotating(), devTok)
		require.NoError(t, err)
		require.Equal(t, want, res.Kind, "scan %d", i)
	}
}

func TestCheckIn_DayBoundaryResets(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, true)
	devTok := bindDevice(t, svc, codec, emp.ID)

	// An open check-in from yesterday does not carry over.
	require.NoError(t, st.AppendEvent(ctx, &models.AttendanceEvent{
		EmployeeID: emp.ID,
		Kind:       models.CheckIn,
		Timestamp:  time.Now().AddDate(0, 0, -1),
	}))

	res, err := svc.CheckIn(ctx, codec.IssueRotating(), devTok)
	require.NoError(t, err)
	require.Equal(t, models.CheckIn, res.Kind)
}

func TestCheckIn_ErrorTaxonomy(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()

	active := seedEmployee(t, st, true)
	activeTok := bindDevice(t, svc, codec, active.ID)

	inactive := seedEmployee(t, st, false)
	inactiveTok := bindDevice(t, svc, codec, inactive.ID)

	unboundTok, err := codec.IssueDevice(active.ID)
	require.NoError(t, err)

	ghostTok, err := codec.IssueDevice(999)
	require.NoError(t, err)

	qr := codec.IssueRotating()

	cases := []struct {
		name     string
		qrToken  string
		devToken string
		wantErr  error
	}{
		{"expired qr", "1:deadbeef", activeTok, ErrQRExpired},
		{"garbage qr", "not-a-token", activeTok, ErrQRExpired},
		{"missing device token", qr, "", ErrDeviceNotRegistered},
		{"forged device token", qr, "dev:1:deadbeef:deadbeef", ErrInvalidDeviceToken},
		{"unknown employee", qr, ghostTok, ErrEmployeeNotFound},
		{"inactive employee", qr, inactiveTok, ErrEmployeeInactive},
		{"valid signature but not the stored token", qr, unboundTok, ErrDeviceNotLinked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckIn(ctx, tc.qrToken, tc.devToken)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCheckIn_RecordsAuthorizingToken(t *testing.T) {
	svc, st, codec := newTestService(t)
	ctx := context.Background()
	emp := seedEmployee(t, st, true)
	devTok := bindDevice(t, svc, codec, emp.ID)

	qr := codec.IssueRotating()
	_, err := svc.CheckIn(ctx, qr, devTok)
	require.NoError(t, err)

	last, err := st.LastEventOfDay(ctx, emp.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, qr, last.TokenUsed)
}
