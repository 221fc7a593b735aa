package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"asistencia/internal/attendance"
	"asistencia/internal/models"
	"asistencia/internal/storage/memstore"
	"asistencia/internal/token"
)

type testEnv struct {
	store *memstore.Store
	codec *token.Codec
	svc   *attendance.Service
	r     *gin.Engine
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memstore.New()
	codec := token.NewCodec([]byte("unit-test-secret"))
	svc := attendance.NewService(st, codec)

	r := gin.New()
	r.GET("/api/qr", RotatingQR(codec, "http://test.local"))
	r.GET("/checkin", CheckinPage(codec))
	r.POST("/api/checkin", APICheckin(svc))
	r.GET("/registro-dispositivo", RegisterPage(codec, st))
	r.POST("/api/registro-dispositivo", APIRegisterDevice(svc))
	r.POST("/api/admin/empleados", CreateEmployee(st))
	r.GET("/api/admin/empleados/:id/qr-registro", RegistrationQR(codec, st, "http://test.local"))
	r.POST("/api/admin/empleados/:id/desvincular", UnbindDevice(st))
	r.POST("/api/admin/config", SaveSettings(st))

	return &testEnv{store: st, codec: codec, svc: svc, r: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return w, payload
}

func (e *testEnv) seedEmployee(t *testing.T) *models.Employee {
	t.Helper()
	emp := &models.Employee{Name: "Rosa Vega", ScheduledIn: "09:00", ScheduledOut: "18:00", Active: true}
	require.NoError(t, e.store.CreateEmployee(context.Background(), emp))
	return emp
}

func TestRotatingQREndpoint(t *testing.T) {
	env := newEnv(t)

	w, payload := env.do(t, http.MethodGet, "/api/qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, payload["qr_base64"])
	require.True(t, env.codec.VerifyRotating(payload["token"].(string)))
	require.InDelta(t, 15, payload["remaining_seconds"].(float64), 15)
}

func TestCheckinPage(t *testing.T) {
	env := newEnv(t)

	w, _ := env.do(t, http.MethodGet, "/checkin?token=stale", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, payload := env.do(t, http.MethodGet, "/checkin?token="+env.codec.IssueRotating(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, payload["ok"])
}

func TestFullScanFlow(t *testing.T) {
	env := newEnv(t)
	emp := env.seedEmployee(t)

	// Admin hands out the registration QR.
	w, payload := env.do(t, http.MethodGet, "/api/admin/empleados/1/qr-registro", nil)
	require.Equal(t, http.StatusOK, w.Code)
	regTok := payload["token_reg"].(string)

	// The phone validates the link, then binds.
	w, _ = env.do(t, http.MethodGet, "/registro-dispositivo?token="+regTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, payload = env.do(t, http.MethodPost, "/api/registro-dispositivo", gin.H{"token_reg": regTok})
	require.Equal(t, http.StatusOK, w.Code)
	devTok := payload["token_dispositivo"].(string)
	id, ok := env.codec.VerifyDevice(devTok)
	require.True(t, ok)
	require.Equal(t, emp.ID, id)

	// First scan records a check-in, second a check-out.
	w, payload = env.do(t, http.MethodPost, "/api/checkin", gin.H{
		"token_qr":          env.codec.IssueRotating(),
		"token_dispositivo": devTok,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "entrada", payload["tipo"])
	require.Equal(t, "Rosa Vega", payload["nombre"])

	w, payload = env.do(t, http.MethodPost, "/api/checkin", gin.H{
		"token_qr":          env.codec.IssueRotating(),
		"token_dispositivo": devTok,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "salida", payload["tipo"])
}

func TestCheckinRejectsUnboundDevice(t *testing.T) {
	env := newEnv(t)
	env.seedEmployee(t)

	devTok, err := env.codec.IssueDevice(1)
	require.NoError(t, err)

	w, payload := env.do(t, http.MethodPost, "/api/checkin", gin.H{
		"token_qr":          env.codec.IssueRotating(),
		"token_dispositivo": devTok,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Este dispositivo no esta vinculado a tu cuenta.", payload["mensaje"])
}

func TestCheckinRejectsExpiredQR(t *testing.T) {
	env := newEnv(t)

	w, payload := env.do(t, http.MethodPost, "/api/checkin", gin.H{
		"token_qr":          "1:deadbeef",
		"token_dispositivo": "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "El codigo QR ha expirado. Escanea de nuevo.", payload["mensaje"])
}

func TestUnbindStopsCheckins(t *testing.T) {
	env := newEnv(t)
	emp := env.seedEmployee(t)

	regTok, err := env.codec.IssueRegistration(emp.ID)
	require.NoError(t, err)
	res, err := env.svc.Bind(context.Background(), regTok)
	require.NoError(t, err)

	w, _ := env.do(t, http.MethodPost, "/api/admin/empleados/1/desvincular", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, payload := env.do(t, http.MethodPost, "/api/checkin", gin.H{
		"token_qr":          env.codec.IssueRotating(),
		"token_dispositivo": res.DeviceToken,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Este dispositivo no esta vinculado a tu cuenta.", payload["mensaje"])
}

func TestCreateEmployeeValidatesSchedule(t *testing.T) {
	env := newEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/admin/empleados", gin.H{
		"nombre":       "Mario Ruiz",
		"hora_entrada": "25:99",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, payload := env.do(t, http.MethodPost, "/api/admin/empleados", gin.H{
		"nombre":       "Mario Ruiz",
		"hora_entrada": "8:30",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	emp := payload["empleado"].(map[string]any)
	require.Equal(t, "08:30", emp["hora_entrada"], "stored schedule must be zero-padded")
}

func TestSaveSettingsValidatesTolerance(t *testing.T) {
	env := newEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/admin/config", gin.H{"tolerancia_minutos": "-3"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/admin/config", gin.H{"tolerancia_minutos": "20"})
	require.Equal(t, http.StatusOK, w.Code)

	v, err := env.store.GetConfig(context.Background(), "tolerancia_minutos")
	require.NoError(t, err)
	require.Equal(t, "20", v)
}
